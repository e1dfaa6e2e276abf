package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/speech"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
)

type stubMissionLister struct {
	dueToday    []models.ClassifiedMission
	dueFuture   []models.ClassifiedMission
	err         error
	invalidated []string
}

func (s *stubMissionLister) ListForCustomer(_ context.Context, _ string, _ time.Time) ([]models.ClassifiedMission, []models.ClassifiedMission, error) {
	return s.dueToday, s.dueFuture, s.err
}

func (s *stubMissionLister) InvalidateCustomer(_ context.Context, customer string) {
	s.invalidated = append(s.invalidated, customer)
}

type stubAuditor struct {
	pass bool
}

func (s *stubAuditor) AuditAll(_ context.Context, missions []models.ClassifiedMission, _ string) []models.ComplianceVerdict {
	verdicts := make([]models.ComplianceVerdict, 0, len(missions))
	for _, m := range missions {
		verdicts = append(verdicts, models.ComplianceVerdict{MissionTopic: m.Topic, Passed: s.pass})
	}
	return verdicts
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(_ context.Context, _ []models.ClassifiedMission, transcript string) *models.ReportSummary {
	return &models.ReportSummary{AdditionalNotes: transcript}
}

type stubSentiment struct{}

func (stubSentiment) Analyze(_ context.Context, _ string) models.Sentiment {
	return models.SentimentPositive
}

type stubPlanner struct{}

func (stubPlanner) Plan(customer, _ string, today time.Time) *models.MissionSpec {
	return &models.MissionSpec{Customer: customer, Topic: "Monthly Visit (1/12/2568)"}
}

type stubOutcomeStore struct {
	reports    []*models.VisitReport
	missionIDs [][]string
	followUps  []*models.MissionSpec
	failures   int
}

func (s *stubOutcomeStore) FileOutcome(_ context.Context, report *models.VisitReport, missionIDs []string, followUp *models.MissionSpec) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("store unavailable")
	}
	s.reports = append(s.reports, report)
	s.missionIDs = append(s.missionIDs, missionIDs)
	s.followUps = append(s.followUps, followUp)
	return nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

func newTestVisitService(lister *stubMissionLister, auditor *stubAuditor, store *stubOutcomeStore, transcriber speech.Transcriber) *VisitService {
	return NewVisitService(lister, auditor, stubSummarizer{}, stubSentiment{}, stubPlanner{}, store, transcriber, nil, nil, 3)
}

func dueTodayMission(id, topic string) models.ClassifiedMission {
	return models.ClassifiedMission{
		Mission: models.Mission{ID: id, Customer: "ACME", Topic: topic, Status: models.MissionStatusPending},
		Bucket:  models.DueToday,
	}
}

func TestOpenLoadsMissions(t *testing.T) {
	lister := &stubMissionLister{dueToday: []models.ClassifiedMission{dueTodayMission("m-1", "Collect payment")}}
	svc := newTestVisitService(lister, &stubAuditor{pass: true}, &stubOutcomeStore{}, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)
	assert.Equal(t, models.VisitMissionsLoaded, session.State)
	assert.Len(t, session.DueToday, 1)
	assert.NotEmpty(t, session.ID)
}

func TestOpenReplacesExistingSessionOnCustomerSwitch(t *testing.T) {
	lister := &stubMissionLister{}
	svc := newTestVisitService(lister, &stubAuditor{pass: true}, &stubOutcomeStore{}, nil)

	first, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), "Anan", "Bangkok Tools")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), first.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmitReportFailingAuditStaysDrafting(t *testing.T) {
	lister := &stubMissionLister{dueToday: []models.ClassifiedMission{dueTodayMission("m-1", "Collect payment")}}
	svc := newTestVisitService(lister, &stubAuditor{pass: false}, &stubOutcomeStore{}, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)

	updated, err := svc.SubmitReport(context.Background(), session.ID, "talked about football")
	require.NoError(t, err)
	assert.Equal(t, models.VisitReportDrafting, updated.State)
	require.Len(t, updated.Verdicts, 1)
	assert.False(t, updated.Verdicts[0].Passed)
}

func TestSubmitReportPassingAuditReadyToClose(t *testing.T) {
	lister := &stubMissionLister{dueToday: []models.ClassifiedMission{dueTodayMission("m-1", "Collect payment")}}
	svc := newTestVisitService(lister, &stubAuditor{pass: true}, &stubOutcomeStore{}, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)

	updated, err := svc.SubmitReport(context.Background(), session.ID, "payment collected in full")
	require.NoError(t, err)
	assert.Equal(t, models.VisitReadyToClose, updated.State)
}

func TestSubmitReportNoMissionsIsReadyImmediately(t *testing.T) {
	svc := newTestVisitService(&stubMissionLister{}, &stubAuditor{pass: false}, &stubOutcomeStore{}, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)

	updated, err := svc.SubmitReport(context.Background(), session.ID, "routine visit, all well")
	require.NoError(t, err)
	assert.Equal(t, models.VisitReadyToClose, updated.State)
}

func TestCloseRequiresReadyState(t *testing.T) {
	lister := &stubMissionLister{dueToday: []models.ClassifiedMission{dueTodayMission("m-1", "Collect payment")}}
	svc := newTestVisitService(lister, &stubAuditor{pass: true}, &stubOutcomeStore{}, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), session.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrVisitState.Code, appErrors.FromError(err).Code)
}

func TestCloseFilesOutcomeAtomically(t *testing.T) {
	lister := &stubMissionLister{dueToday: []models.ClassifiedMission{
		dueTodayMission("m-1", "Collect payment"),
		dueTodayMission("m-2", "Present promotion"),
	}}
	store := &stubOutcomeStore{}
	svc := newTestVisitService(lister, &stubAuditor{pass: true}, store, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)
	_, err = svc.SubmitReport(context.Background(), session.ID, "covered everything")
	require.NoError(t, err)

	report, err := svc.Close(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusCompleted, report.Status)
	assert.Equal(t, "Collect payment, Present promotion", report.TopicsCovered)
	assert.Equal(t, models.SentimentPositive, report.Sentiment)

	require.Len(t, store.reports, 1)
	assert.Equal(t, []string{"m-1", "m-2"}, store.missionIDs[0])
	require.NotNil(t, store.followUps[0])
	assert.Equal(t, []string{"ACME"}, lister.invalidated)

	// Session is gone once closed.
	_, err = svc.Get(context.Background(), session.ID)
	require.Error(t, err)
}

func TestCloseRetriesThenSurfacesStoreFailure(t *testing.T) {
	lister := &stubMissionLister{}
	store := &stubOutcomeStore{failures: 5}
	svc := newTestVisitService(lister, &stubAuditor{pass: true}, store, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)
	_, err = svc.SubmitReport(context.Background(), session.ID, "all good")
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), session.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStoreWrite.Code, appErrors.FromError(err).Code)

	// The session survives a failed close so the rep can retry.
	current, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitReadyToClose, current.State)
}

func TestCloseSucceedsAfterTransientFailures(t *testing.T) {
	store := &stubOutcomeStore{failures: 2}
	svc := newTestVisitService(&stubMissionLister{}, &stubAuditor{pass: true}, store, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)
	_, err = svc.SubmitReport(context.Background(), session.ID, "all good")
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, store.reports, 1)
}

func TestSubmitVoiceTranscribesToDraft(t *testing.T) {
	svc := newTestVisitService(&stubMissionLister{}, &stubAuditor{pass: true}, &stubOutcomeStore{}, &stubTranscriber{text: "spoken report"})

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)

	updated, err := svc.SubmitVoice(context.Background(), session.ID, []byte("audio"), "th-TH")
	require.NoError(t, err)
	assert.Equal(t, "spoken report", updated.DraftText)
}

func TestSubmitVoiceFailureIsRetryable(t *testing.T) {
	svc := newTestVisitService(&stubMissionLister{}, &stubAuditor{pass: true}, &stubOutcomeStore{}, &stubTranscriber{err: speech.ErrNoSpeech})

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)

	_, err = svc.SubmitVoice(context.Background(), session.ID, nil, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTranscription.Code, appErrors.FromError(err).Code)

	// Session untouched, still accepting input.
	current, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitMissionsLoaded, current.State)
	assert.Empty(t, current.DraftText)
}

func TestResetDiscardsSession(t *testing.T) {
	svc := newTestVisitService(&stubMissionLister{}, &stubAuditor{pass: true}, &stubOutcomeStore{}, nil)

	session, err := svc.Open(context.Background(), "Anan", "ACME")
	require.NoError(t, err)
	require.NoError(t, svc.Reset(context.Background(), session.ID))

	_, err = svc.Get(context.Background(), session.ID)
	require.Error(t, err)
}
