package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/pkg/thaidate"
)

// FollowUpService synthesizes the next mission when a visit closes. The due
// date comes from the report text through the date resolver; a report with
// no usable reference falls back to a routine visit on the first of next
// month, so every closure always schedules a next contact.
type FollowUpService struct {
	routineTopic string
	logger       *zap.Logger
}

// NewFollowUpService constructs the service. routineTopic names the default
// mission, e.g. "Monthly Visit".
func NewFollowUpService(routineTopic string, logger *zap.Logger) *FollowUpService {
	if routineTopic == "" {
		routineTopic = "Monthly Visit"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowUpService{routineTopic: routineTopic, logger: logger}
}

// Plan derives the follow-up mission from the finalized report text. The
// topic embeds the due date in resolver-canonical form so the mission
// classifier re-derives the same date later.
func (s *FollowUpService) Plan(customer, transcript string, today time.Time) *models.MissionSpec {
	ref := thaidate.Resolve(transcript, today)
	if ref.Found() && ref.Date.After(midnightOf(today)) {
		return &models.MissionSpec{
			Customer:    customer,
			Topic:       fmt.Sprintf("Follow-up contact (%s)", thaidate.Format(ref.Date)),
			Description: fmt.Sprintf("Scheduled from the visit report filed on %s.", today.Format("2006-01-02")),
		}
	}

	due := thaidate.FirstOfNextMonth(today)
	return &models.MissionSpec{
		Customer:    customer,
		Topic:       fmt.Sprintf("%s (%s)", s.routineTopic, thaidate.Format(due)),
		Description: fmt.Sprintf("No follow-up date was mentioned in the visit on %s.", today.Format("2006-01-02")),
	}
}
