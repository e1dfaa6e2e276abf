package models

import "time"

// VisitState enumerates the lifecycle of a customer-visit session.
type VisitState string

const (
	VisitIdle           VisitState = "idle"
	VisitMissionsLoaded VisitState = "missions_loaded"
	VisitReportDrafting VisitState = "report_drafting"
	VisitAuditing       VisitState = "auditing"
	VisitReadyToClose   VisitState = "ready_to_close"
	VisitClosed         VisitState = "closed"
)

// ComplianceVerdict is the pass/fail judgment of whether a report satisfies
// a mission, recomputed on every draft change.
type ComplianceVerdict struct {
	MissionTopic string `json:"mission_topic"`
	Passed       bool   `json:"passed"`
	Rationale    string `json:"rationale"`
}

// VisitSession is the process-local state for one active customer visit,
// owned exclusively by the lifecycle controller and reset when the visit
// closes or the rep switches customer.
type VisitSession struct {
	ID         string              `json:"id"`
	SalesRep   string              `json:"sales_rep"`
	Customer   string              `json:"customer"`
	State      VisitState          `json:"state"`
	DueToday   []ClassifiedMission `json:"due_today"`
	DueFuture  []ClassifiedMission `json:"due_future"`
	DraftText  string              `json:"draft_text"`
	Verdicts   []ComplianceVerdict `json:"verdicts"`
	Summary    *ReportSummary      `json:"summary,omitempty"`
	FollowUp   *MissionSpec        `json:"follow_up,omitempty"`
	OpenedAt   time.Time           `json:"opened_at"`
	LastUpdate time.Time           `json:"last_update"`
}

// AllPassed reports whether every due-today mission has a passing verdict.
func (s *VisitSession) AllPassed() bool {
	if len(s.DueToday) == 0 {
		return true
	}
	if len(s.Verdicts) < len(s.DueToday) {
		return false
	}
	for _, v := range s.Verdicts {
		if !v.Passed {
			return false
		}
	}
	return true
}
