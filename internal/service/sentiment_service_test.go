package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siamfield/salesflow/internal/models"
)

func TestAnalyzeCoercesMalformedLabel(t *testing.T) {
	provider := &stubProvider{generate: "The sentiment is: POSITIVE-ish, maybe?"}
	svc := NewSentimentService(provider, nil, 0, nil)

	assert.Equal(t, models.SentimentNeutral, svc.Analyze(context.Background(), "some report"))
}

func TestAnalyzeAcceptsDecoratedLabel(t *testing.T) {
	provider := &stubProvider{generate: ` "Negative." `}
	svc := NewSentimentService(provider, nil, 0, nil)

	assert.Equal(t, models.SentimentNegative, svc.Analyze(context.Background(), "some report"))
}

func TestAnalyzeIdempotentForFixedResponse(t *testing.T) {
	provider := &stubProvider{generate: "positive"}
	svc := NewSentimentService(provider, nil, 0, nil)

	first := svc.Analyze(context.Background(), "report")
	second := svc.Analyze(context.Background(), "report")
	assert.Equal(t, first, second)
	assert.Equal(t, models.SentimentPositive, first)
}

func TestAnalyzeKeywordFallbackOnError(t *testing.T) {
	provider := &stubProvider{err: errors.New("timeout")}
	svc := NewSentimentService(provider, nil, 0, nil)

	assert.Equal(t, models.SentimentNegative, svc.Analyze(context.Background(), "ลูกค้าไม่พอใจมาก"))
	assert.Equal(t, models.SentimentPositive, svc.Analyze(context.Background(), "Customer was very pleased"))
	assert.Equal(t, models.SentimentNeutral, svc.Analyze(context.Background(), "Delivered the catalogue"))
}

func TestAnalyzeNegativeCueWinsOverPositive(t *testing.T) {
	svc := NewSentimentService(nil, nil, 0, nil)

	got := svc.Analyze(context.Background(), "Product is good but customer will complain to head office")
	assert.Equal(t, models.SentimentNegative, got)
}
