package models

import "time"

// MissionStatus captures the mission lifecycle. Completion is an explicit
// terminal state rather than a row deletion so closures stay auditable and
// retryable.
type MissionStatus string

const (
	MissionStatusPending   MissionStatus = "pending"
	MissionStatusCompleted MissionStatus = "completed"
	MissionStatusArchived  MissionStatus = "archived"
)

// DueBucket classifies a mission against the current date.
type DueBucket string

const (
	DueToday  DueBucket = "due_today"
	DueFuture DueBucket = "due_future"
)

// Mission is an assigned task tied to a customer. The topic may embed a due
// date reference in a resolver-recognised form, e.g. a trailing "(5/12/2568)".
type Mission struct {
	ID          string        `db:"id" json:"id"`
	Customer    string        `db:"customer" json:"customer"`
	Topic       string        `db:"topic" json:"topic"`
	Description string        `db:"description" json:"description"`
	Status      MissionStatus `db:"status" json:"status"`
	CreatedBy   string        `db:"created_by" json:"created_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	CompletedAt *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
}

// ClassifiedMission pairs a mission with its due bucket and resolved date.
type ClassifiedMission struct {
	Mission
	Bucket  DueBucket  `json:"bucket"`
	DueDate *time.Time `json:"due_date,omitempty"`
	Routine bool       `json:"routine"`
}

// MissionSpec describes a mission to be created, either by a manager or by
// the follow-up synthesizer at visit closure.
type MissionSpec struct {
	Customer    string `json:"customer"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}
