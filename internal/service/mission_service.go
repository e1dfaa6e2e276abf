package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siamfield/salesflow/internal/models"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
	"github.com/siamfield/salesflow/pkg/thaidate"
)

type missionRepository interface {
	Create(ctx context.Context, mission *models.Mission) error
	GetByID(ctx context.Context, id string) (*models.Mission, error)
	ListByCustomer(ctx context.Context, customer string, status models.MissionStatus) ([]models.Mission, error)
	ListPending(ctx context.Context, page, size int) ([]models.Mission, int, error)
	Archive(ctx context.Context, id string) error
}

// MissionService handles mission assignment and due-date classification.
// Pending lists per customer are cached for a short TTL and invalidated on
// every write touching that customer.
type MissionService struct {
	repo      missionRepository
	cache     *CacheService
	matcher   *RoutineMatcher
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewMissionService constructs the service.
func NewMissionService(repo missionRepository, cache *CacheService, matcher *RoutineMatcher, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *MissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &MissionService{repo: repo, cache: cache, matcher: matcher, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// AssignMissionRequest describes a manager-created mission.
type AssignMissionRequest struct {
	Customer    string `json:"customer" validate:"required"`
	Topic       string `json:"topic" validate:"required"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by" validate:"required"`
}

func missionCacheKey(customer string) string {
	return "missions:customer:" + customer
}

// Assign creates a pending mission for a customer.
func (s *MissionService) Assign(ctx context.Context, req AssignMissionRequest) (*models.Mission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mission payload")
	}
	mission := &models.Mission{
		Customer:    req.Customer,
		Topic:       req.Topic,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.repo.Create(ctx, mission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreWrite.Code, appErrors.ErrStoreWrite.Status, "failed to create mission")
	}
	s.InvalidateCustomer(ctx, req.Customer)
	return mission, nil
}

// Archive withdraws a pending mission (soft delete).
func (s *MissionService) Archive(ctx context.Context, id string) error {
	mission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "mission not found")
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "mission is not pending")
	}
	s.InvalidateCustomer(ctx, mission.Customer)
	return nil
}

// ListPending returns the manager's raw pending mission view.
func (s *MissionService) ListPending(ctx context.Context, page, size int) ([]models.Mission, *models.Pagination, error) {
	missions, total, err := s.repo.ListPending(ctx, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list missions")
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	return missions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ListForCustomer returns the customer's pending missions classified into
// due-today and due-future buckets against today's date.
func (s *MissionService) ListForCustomer(ctx context.Context, customer string, today time.Time) (dueToday, dueFuture []models.ClassifiedMission, err error) {
	missions, err := s.pendingMissions(ctx, customer)
	if err != nil {
		return nil, nil, err
	}
	for _, m := range missions {
		classified := s.Classify(m, today)
		if classified.Bucket == models.DueToday {
			dueToday = append(dueToday, classified)
		} else {
			dueFuture = append(dueFuture, classified)
		}
	}
	return dueToday, dueFuture, nil
}

// Classify buckets one mission. A mission with no recognisable date
// reference, or one whose date is today or earlier, is due today; only a
// strictly future date defers it. Advancing the calendar can therefore only
// move missions from due-future to due-today, never back.
func (s *MissionService) Classify(mission models.Mission, today time.Time) models.ClassifiedMission {
	classified := models.ClassifiedMission{
		Mission: mission,
		Bucket:  models.DueToday,
		Routine: s.matcher.Match(mission.Topic),
	}
	ref := thaidate.Resolve(mission.Topic+" "+mission.Description, today)
	if ref.Found() {
		due := ref.Date
		classified.DueDate = &due
		if due.After(midnightOf(today)) {
			classified.Bucket = models.DueFuture
		}
	}
	return classified
}

// InvalidateCustomer drops the cached mission list for a customer.
func (s *MissionService) InvalidateCustomer(ctx context.Context, customer string) {
	if err := s.cache.Invalidate(ctx, missionCacheKey(customer)); err != nil {
		s.logger.Warn("mission cache invalidation failed", zap.String("customer", customer), zap.Error(err))
	}
}

func (s *MissionService) pendingMissions(ctx context.Context, customer string) ([]models.Mission, error) {
	key := missionCacheKey(customer)
	var cached []models.Mission
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	missions, err := s.repo.ListByCustomer(ctx, customer, models.MissionStatusPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("failed to load missions for %s", customer))
	}
	if err := s.cache.Set(ctx, key, missions, s.cacheTTL); err != nil {
		s.logger.Debug("mission cache write failed", zap.String("customer", customer), zap.Error(err))
	}
	return missions, nil
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
