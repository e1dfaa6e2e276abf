package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siamfield/salesflow/internal/models"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	ListReps(ctx context.Context) ([]string, error)
	ListCustomers(ctx context.Context, salesRep string) ([]string, error)
	HasCustomer(ctx context.Context, salesRep, customer string) (bool, error)
}

// AssignmentService manages the rep-to-customer map.
type AssignmentService struct {
	repo      assignmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(repo assignmentRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, validator: validate, logger: logger}
}

// CreateAssignmentRequest describes a new rep-customer pairing.
type CreateAssignmentRequest struct {
	SalesRep string `json:"sales_rep" validate:"required"`
	Customer string `json:"customer" validate:"required"`
}

// Create records a rep-customer pairing.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment := &models.Assignment{SalesRep: req.SalesRep, Customer: req.Customer}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreWrite.Code, appErrors.ErrStoreWrite.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Reps lists every known sales rep.
func (s *AssignmentService) Reps(ctx context.Context) ([]string, error) {
	reps, err := s.repo.ListReps(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sales reps")
	}
	return reps, nil
}

// Customers lists the customers a rep services.
func (s *AssignmentService) Customers(ctx context.Context, salesRep string) ([]string, error) {
	if salesRep == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sales rep is required")
	}
	customers, err := s.repo.ListCustomers(ctx, salesRep)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list customers")
	}
	return customers, nil
}

// Authorize confirms the rep services the customer before a visit opens.
func (s *AssignmentService) Authorize(ctx context.Context, salesRep, customer string) error {
	ok, err := s.repo.HasCustomer(ctx, salesRep, customer)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "customer is not assigned to this sales rep")
	}
	return nil
}
