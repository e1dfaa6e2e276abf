package models

import (
	"strings"
	"time"
)

func normalizeLabel(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'.`)))
}

// Sentiment is the ordinal customer-disposition label attached to a filed
// visit report.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment coerces an upstream label onto the three-value scale.
// Anything unrecognised maps to neutral, the safe default.
func ParseSentiment(raw string) Sentiment {
	switch Sentiment(normalizeLabel(raw)) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// VisitReport is the append-only record filed when a visit closes.
// Column order mirrors the legacy sheet layout:
// timestamp, sales_rep, customer, topics_covered, status, sentiment, summary.
type VisitReport struct {
	ID            string    `db:"id" json:"id"`
	ReportedAt    time.Time `db:"reported_at" json:"reported_at"`
	SalesRep      string    `db:"sales_rep" json:"sales_rep"`
	Customer      string    `db:"customer" json:"customer"`
	TopicsCovered string    `db:"topics_covered" json:"topics_covered"`
	Status        string    `db:"status" json:"status"`
	Sentiment     Sentiment `db:"sentiment" json:"sentiment"`
	Summary       string    `db:"summary" json:"summary"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ReportStatusCompleted is the only status ever written for filed reports.
const ReportStatusCompleted = "Completed"

// ReportSummary is the mission-mapped digest of a raw visit transcript.
// Only missions the transcript actually addresses appear in Topics; content
// matching no mission lands in AdditionalNotes.
type ReportSummary struct {
	Topics          map[string]string `json:"topics"`
	AdditionalNotes string            `json:"additional_notes,omitempty"`
}

// VisitReportFilter narrows report listings.
type VisitReportFilter struct {
	SalesRep string
	Customer string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
