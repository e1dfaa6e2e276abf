package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/speech"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
)

type missionLister interface {
	ListForCustomer(ctx context.Context, customer string, today time.Time) ([]models.ClassifiedMission, []models.ClassifiedMission, error)
	InvalidateCustomer(ctx context.Context, customer string)
}

type draftAuditor interface {
	AuditAll(ctx context.Context, missions []models.ClassifiedMission, transcript string) []models.ComplianceVerdict
}

type reportSummarizer interface {
	Summarize(ctx context.Context, missions []models.ClassifiedMission, transcript string) *models.ReportSummary
}

type sentimentAnalyzer interface {
	Analyze(ctx context.Context, transcript string) models.Sentiment
}

type followUpPlanner interface {
	Plan(customer, transcript string, today time.Time) *models.MissionSpec
}

type outcomeStore interface {
	FileOutcome(ctx context.Context, report *models.VisitReport, missionIDs []string, followUp *models.MissionSpec) error
}

// VisitService drives the visit lifecycle state machine. Sessions live in
// process memory and are owned exclusively by this controller; nothing is
// persisted until the closure transaction commits.
type VisitService struct {
	missions    missionLister
	auditor     draftAuditor
	summarizer  reportSummarizer
	sentiment   sentimentAnalyzer
	planner     followUpPlanner
	store       outcomeStore
	transcriber speech.Transcriber
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
	maxRetries  int

	mu       sync.RWMutex
	sessions map[string]*models.VisitSession
	byRep    map[string]string
}

// NewVisitService constructs the controller.
func NewVisitService(
	missions missionLister,
	auditor draftAuditor,
	summarizer reportSummarizer,
	sentiment sentimentAnalyzer,
	planner followUpPlanner,
	store outcomeStore,
	transcriber speech.Transcriber,
	metrics *MetricsService,
	logger *zap.Logger,
	maxRetries int,
) *VisitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &VisitService{
		missions:    missions,
		auditor:     auditor,
		summarizer:  summarizer,
		sentiment:   sentiment,
		planner:     planner,
		store:       store,
		transcriber: transcriber,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		maxRetries:  maxRetries,
		sessions:    make(map[string]*models.VisitSession),
		byRep:       make(map[string]string),
	}
}

// Open starts a visit session for a rep at a customer, loading and
// classifying the customer's pending missions. Any session the rep already
// holds is discarded first, so switching customer always starts clean.
func (s *VisitService) Open(ctx context.Context, salesRep, customer string) (*models.VisitSession, error) {
	if salesRep == "" || customer == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sales_rep and customer are required")
	}

	dueToday, dueFuture, err := s.missions.ListForCustomer(ctx, customer, s.now())
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &models.VisitSession{
		ID:         uuid.NewString(),
		SalesRep:   salesRep,
		Customer:   customer,
		State:      models.VisitMissionsLoaded,
		DueToday:   dueToday,
		DueFuture:  dueFuture,
		OpenedAt:   now,
		LastUpdate: now,
	}

	s.mu.Lock()
	if prev, ok := s.byRep[salesRep]; ok {
		delete(s.sessions, prev)
	}
	s.sessions[session.ID] = session
	s.byRep[salesRep] = session.ID
	s.mu.Unlock()

	s.logger.Info("visit opened",
		zap.String("session_id", session.ID),
		zap.String("sales_rep", salesRep),
		zap.String("customer", customer),
		zap.Int("due_today", len(dueToday)),
		zap.Int("due_future", len(dueFuture)))
	return snapshot(session), nil
}

// Get returns the session's current state.
func (s *VisitService) Get(_ context.Context, id string) (*models.VisitSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "visit session not found")
	}
	return snapshot(session), nil
}

// Reset discards a session without filing anything.
func (s *VisitService) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "visit session not found")
	}
	delete(s.sessions, id)
	if s.byRep[session.SalesRep] == id {
		delete(s.byRep, session.SalesRep)
	}
	return nil
}

// SubmitReport records a typed report draft and re-audits every due-today
// mission against it. The session moves to ready-to-close only when all
// verdicts pass.
func (s *VisitService) SubmitReport(ctx context.Context, id, text string) (*models.VisitSession, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report text is required")
	}

	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "visit session not found")
	}
	if session.State == models.VisitClosed {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrVisitState, "visit already closed")
	}
	session.DraftText = text
	session.State = models.VisitAuditing
	session.LastUpdate = s.now()
	dueToday := append([]models.ClassifiedMission(nil), session.DueToday...)
	s.mu.Unlock()

	verdicts := s.auditor.AuditAll(ctx, dueToday, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The session may have been reset while auditing ran.
	if current, ok := s.sessions[id]; !ok || current != session {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "visit session not found")
	}
	session.Verdicts = verdicts
	if session.AllPassed() {
		session.State = models.VisitReadyToClose
	} else {
		session.State = models.VisitReportDrafting
	}
	session.LastUpdate = s.now()
	return snapshot(session), nil
}

// SubmitVoice transcribes the audio and treats the transcript as a typed
// draft. Transcription failures are retryable; the session is untouched.
func (s *VisitService) SubmitVoice(ctx context.Context, id string, audio []byte, languageHint string) (*models.VisitSession, error) {
	if s.transcriber == nil {
		return nil, appErrors.Clone(appErrors.ErrTranscription, "voice input is not configured")
	}

	start := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, audio, languageHint)
	if s.metrics != nil {
		s.metrics.ObserveTranscription(time.Since(start), err)
	}
	if err != nil {
		s.logger.Warn("transcription failed", zap.String("session_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTranscription.Code, appErrors.ErrTranscription.Status, appErrors.ErrTranscription.Message)
	}
	return s.SubmitReport(ctx, id, transcript)
}

// Close finalizes a ready session: sentiment, summary and follow-up are
// computed (each with its own fallback), then the whole outcome is filed in
// one store transaction. A store failure leaves the session ready so the
// rep can simply retry.
func (s *VisitService) Close(ctx context.Context, id string) (*models.VisitReport, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "visit session not found")
	}
	if session.State != models.VisitReadyToClose {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrVisitState, "visit is not ready to close")
	}
	draft := session.DraftText
	customer := session.Customer
	salesRep := session.SalesRep
	dueToday := append([]models.ClassifiedMission(nil), session.DueToday...)
	s.mu.Unlock()

	now := s.now()
	sentiment := s.sentiment.Analyze(ctx, draft)
	summary := s.summarizer.Summarize(ctx, dueToday, draft)
	followUp := s.planner.Plan(customer, draft, now)

	topics := make([]string, 0, len(dueToday))
	missionIDs := make([]string, 0, len(dueToday))
	for _, m := range dueToday {
		topics = append(topics, m.Topic)
		missionIDs = append(missionIDs, m.ID)
	}

	report := &models.VisitReport{
		ReportedAt:    now,
		SalesRep:      salesRep,
		Customer:      customer,
		TopicsCovered: strings.Join(topics, ", "),
		Status:        models.ReportStatusCompleted,
		Sentiment:     sentiment,
		Summary:       encodeSummary(summary),
	}

	var fileErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		fileErr = s.store.FileOutcome(ctx, report, missionIDs, followUp)
		if fileErr == nil {
			break
		}
		s.logger.Warn("visit closure write failed",
			zap.String("session_id", id), zap.Int("attempt", attempt), zap.Error(fileErr))
	}
	if fileErr != nil {
		return nil, appErrors.Wrap(fileErr, appErrors.ErrStoreWrite.Code, appErrors.ErrStoreWrite.Status, appErrors.ErrStoreWrite.Message)
	}

	s.mu.Lock()
	session.State = models.VisitClosed
	session.Summary = summary
	session.FollowUp = followUp
	session.LastUpdate = s.now()
	delete(s.sessions, id)
	if s.byRep[salesRep] == id {
		delete(s.byRep, salesRep)
	}
	s.mu.Unlock()

	s.missions.InvalidateCustomer(ctx, customer)
	if s.metrics != nil {
		s.metrics.RecordVisitClosure()
	}
	s.logger.Info("visit closed",
		zap.String("session_id", id),
		zap.String("customer", customer),
		zap.Int("missions_completed", len(missionIDs)),
		zap.String("sentiment", string(sentiment)))
	return report, nil
}

func encodeSummary(summary *models.ReportSummary) string {
	if summary == nil {
		return ""
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return summary.AdditionalNotes
	}
	return string(raw)
}

// snapshot copies the session so handlers never share the controller's
// mutable state.
func snapshot(session *models.VisitSession) *models.VisitSession {
	copied := *session
	copied.DueToday = append([]models.ClassifiedMission(nil), session.DueToday...)
	copied.DueFuture = append([]models.ClassifiedMission(nil), session.DueFuture...)
	copied.Verdicts = append([]models.ComplianceVerdict(nil), session.Verdicts...)
	return &copied
}
