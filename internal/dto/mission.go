package dto

import "github.com/siamfield/salesflow/internal/models"

// AssignMissionRequest is the manager payload for creating a mission.
type AssignMissionRequest struct {
	Customer    string `json:"customer" binding:"required"`
	Topic       string `json:"topic" binding:"required"`
	Description string `json:"description"`
}

// MissionListResponse groups a customer's pending missions by due bucket.
type MissionListResponse struct {
	Customer  string                     `json:"customer"`
	DueToday  []models.ClassifiedMission `json:"due_today"`
	DueFuture []models.ClassifiedMission `json:"due_future"`
}
