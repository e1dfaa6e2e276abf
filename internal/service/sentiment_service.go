package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/siamfield/salesflow/internal/llm"
	"github.com/siamfield/salesflow/internal/models"
)

// SentimentService labels a finished report positive, neutral or negative.
// Any malformed model output is coerced to a valid label and a keyword scan
// stands in when the model is unavailable, so closure never blocks on it.
type SentimentService struct {
	provider llm.Provider
	metrics  *MetricsService
	timeout  time.Duration
	logger   *zap.Logger
	enabled  bool
}

// NewSentimentService constructs the service. With a nil provider the
// keyword fallback is used exclusively.
func NewSentimentService(provider llm.Provider, metrics *MetricsService, timeout time.Duration, logger *zap.Logger) *SentimentService {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SentimentService{provider: provider, metrics: metrics, timeout: timeout, logger: logger, enabled: provider != nil}
}

// Analyze returns the sentiment label for a report transcript.
func (s *SentimentService) Analyze(ctx context.Context, transcript string) models.Sentiment {
	if !s.enabled {
		return keywordSentiment(transcript)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := "Classify the customer's disposition in this field-sales visit report. " +
		"Answer with exactly one word: positive, neutral or negative.\n\nReport:\n" + transcript

	start := time.Now()
	raw, err := s.provider.Generate(callCtx, prompt)
	if s.metrics != nil {
		s.metrics.ObserveLLMCall("sentiment", time.Since(start), err)
	}
	if err != nil {
		s.logger.Warn("sentiment call failed, using keyword fallback", zap.Error(err))
		return keywordSentiment(transcript)
	}
	return models.ParseSentiment(raw)
}

var negativeCues = []string{
	"ไม่พอใจ", "โกรธ", "ร้องเรียน", "ปัญหา", "ไม่ดี", "แย่",
	"angry", "upset", "complain", "unhappy", "problem", "bad", "cancel",
}

var positiveCues = []string{
	"พอใจ", "ดีมาก", "ยินดี", "ชอบ", "ดีใจ",
	"happy", "great", "pleased", "satisfied", "excellent", "good",
}

// keywordSentiment is the deterministic fallback. Negative cues win over
// positive ones; no cue at all means neutral.
func keywordSentiment(transcript string) models.Sentiment {
	lowered := strings.ToLower(transcript)
	for _, cue := range negativeCues {
		if strings.Contains(lowered, cue) {
			return models.SentimentNegative
		}
	}
	for _, cue := range positiveCues {
		if strings.Contains(lowered, cue) {
			return models.SentimentPositive
		}
	}
	return models.SentimentNeutral
}
