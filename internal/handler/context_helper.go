package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/siamfield/salesflow/internal/middleware"
)

func actorName(c *gin.Context) string {
	name := c.GetString(middleware.ContextUserKey)
	if name == "" {
		return "unknown"
	}
	return name
}

func actorRole(c *gin.Context) string {
	return c.GetString(middleware.ContextRoleKey)
}
