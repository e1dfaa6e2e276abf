package dto

// CreateAssignmentRequest pairs a sales rep with a customer.
type CreateAssignmentRequest struct {
	SalesRep string `json:"sales_rep" binding:"required"`
	Customer string `json:"customer" binding:"required"`
}
