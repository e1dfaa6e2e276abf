package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/internal/models"
)

func TestSummarizeMapsTopics(t *testing.T) {
	provider := &stubProvider{generateJSON: `{"topics": {"Collect payment": "Invoice settled in full."}, "additional_notes": "Asked about new catalogue."}`}
	svc := NewSummaryService(provider, nil, 0, nil)
	missions := []models.ClassifiedMission{classifiedMission("Collect payment", "", false)}

	summary := svc.Summarize(context.Background(), missions, "long transcript")
	require.NotNil(t, summary)
	assert.Equal(t, "Invoice settled in full.", summary.Topics["Collect payment"])
	assert.Equal(t, "Asked about new catalogue.", summary.AdditionalNotes)
}

func TestSummarizeDropsUnknownTopics(t *testing.T) {
	provider := &stubProvider{generateJSON: `{"topics": {"Collect payment": "done", "Invented topic": "hallucinated"}}`}
	svc := NewSummaryService(provider, nil, 0, nil)
	missions := []models.ClassifiedMission{classifiedMission("Collect payment", "", false)}

	summary := svc.Summarize(context.Background(), missions, "transcript")
	assert.Contains(t, summary.Topics, "Collect payment")
	assert.NotContains(t, summary.Topics, "Invented topic")
}

func TestSummarizeFallbackKeepsTranscript(t *testing.T) {
	provider := &stubProvider{err: errors.New("model down")}
	svc := NewSummaryService(provider, nil, 0, nil)

	summary := svc.Summarize(context.Background(), nil, "the raw report text")
	require.NotNil(t, summary)
	assert.Equal(t, "the raw report text", summary.AdditionalNotes)
	assert.Empty(t, summary.Topics)
}

func TestSummarizeFallbackOnMalformedResponse(t *testing.T) {
	provider := &stubProvider{generateJSON: "not json at all"}
	svc := NewSummaryService(provider, nil, 0, nil)

	summary := svc.Summarize(context.Background(), nil, "raw text survives")
	assert.Equal(t, "raw text survives", summary.AdditionalNotes)
}

func TestSummarizeWithoutProvider(t *testing.T) {
	svc := NewSummaryService(nil, nil, 0, nil)

	summary := svc.Summarize(context.Background(), nil, "typed notes")
	assert.Equal(t, "typed notes", summary.AdditionalNotes)
}
