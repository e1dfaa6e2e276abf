package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/siamfield/salesflow/internal/llm"
	"github.com/siamfield/salesflow/internal/models"
)

// SummaryService condenses the raw report transcript into a per-mission
// digest. If the model fails or returns something unusable, the raw
// transcript is preserved verbatim under additional notes so no reported
// information is ever lost.
type SummaryService struct {
	provider llm.Provider
	metrics  *MetricsService
	timeout  time.Duration
	logger   *zap.Logger
	enabled  bool
}

// NewSummaryService constructs the service. With a nil provider every
// transcript goes straight to additional notes.
func NewSummaryService(provider llm.Provider, metrics *MetricsService, timeout time.Duration, logger *zap.Logger) *SummaryService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{provider: provider, metrics: metrics, timeout: timeout, logger: logger, enabled: provider != nil}
}

var summarySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"topics": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "string"},
		},
		"additional_notes": map[string]any{"type": "string"},
	},
	"required": []string{"topics"},
}

// Summarize maps transcript content onto the visit's missions. Missions the
// transcript never addresses are left out of the digest.
func (s *SummaryService) Summarize(ctx context.Context, missions []models.ClassifiedMission, transcript string) *models.ReportSummary {
	fallback := &models.ReportSummary{AdditionalNotes: transcript}
	if !s.enabled {
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	topics := make([]string, 0, len(missions))
	for _, m := range missions {
		topics = append(topics, m.Topic)
	}
	prompt := fmt.Sprintf(`Summarize this field-sales visit report against the visit's mission topics.
Mission topics: %s

Report:
%s

Return JSON: {"topics": {<topic>: <one-sentence summary>}, "additional_notes": <anything not matching a topic>}.
Omit topics the report does not address.`, strings.Join(topics, "; "), transcript)

	start := time.Now()
	raw, err := s.provider.GenerateJSON(callCtx, prompt, summarySchema)
	if s.metrics != nil {
		s.metrics.ObserveLLMCall("summary", time.Since(start), err)
	}
	if err != nil {
		s.logger.Warn("summary call failed, keeping raw transcript", zap.Error(err))
		return fallback
	}

	var summary models.ReportSummary
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &summary); err != nil || summary.Topics == nil {
		s.logger.Warn("summary response malformed, keeping raw transcript", zap.Error(err))
		return fallback
	}

	// Drop hallucinated keys the visit never carried.
	known := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		known[t] = struct{}{}
	}
	for key := range summary.Topics {
		if _, ok := known[key]; !ok {
			delete(summary.Topics, key)
		}
	}
	return &summary
}
