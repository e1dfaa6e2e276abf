package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/siamfield/salesflow/internal/llm"
	"github.com/siamfield/salesflow/internal/models"
)

// Auditor judges whether a report draft satisfies one mission.
type Auditor interface {
	Audit(ctx context.Context, mission models.ClassifiedMission, transcript string) models.ComplianceVerdict
}

// AuditService re-checks every due-today mission against the current report
// draft. Routine missions bypass the auditor and always pass.
type AuditService struct {
	auditor Auditor
	logger  *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(auditor Auditor, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{auditor: auditor, logger: logger}
}

// AuditAll produces one verdict per mission, in input order.
func (s *AuditService) AuditAll(ctx context.Context, missions []models.ClassifiedMission, transcript string) []models.ComplianceVerdict {
	verdicts := make([]models.ComplianceVerdict, 0, len(missions))
	for _, mission := range missions {
		if mission.Routine {
			verdicts = append(verdicts, models.ComplianceVerdict{
				MissionTopic: mission.Topic,
				Passed:       true,
				Rationale:    "routine visit, no compliance check required",
			})
			continue
		}
		verdicts = append(verdicts, s.auditor.Audit(ctx, mission, transcript))
	}
	return verdicts
}

// RuleAuditor is the deterministic fallback auditor. It passes a mission
// when the draft mentions any substantive word of the mission's topic or
// description, and fails only when the draft is entirely off-topic.
type RuleAuditor struct{}

// NewRuleAuditor constructs the rule auditor.
func NewRuleAuditor() *RuleAuditor {
	return &RuleAuditor{}
}

// Audit implements Auditor.
func (a *RuleAuditor) Audit(_ context.Context, mission models.ClassifiedMission, transcript string) models.ComplianceVerdict {
	verdict := models.ComplianceVerdict{MissionTopic: mission.Topic}
	lowered := strings.ToLower(transcript)
	for _, token := range subjectTokens(mission.Topic + " " + mission.Description) {
		if strings.Contains(lowered, token) {
			verdict.Passed = true
			verdict.Rationale = fmt.Sprintf("report mentions %q", token)
			return verdict
		}
	}
	verdict.Rationale = "report does not mention the mission subject"
	return verdict
}

// subjectTokens extracts the comparable words of a mission subject:
// lowercased, at least three letters for ASCII, any length for Thai.
func subjectTokens(subject string) []string {
	fields := strings.FieldsFunc(strings.ToLower(subject), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if isASCIIWord(f) && len(f) < 3 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isASCIIWord(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// LLMAuditor asks the configured model for a structured verdict and falls
// back to the rule auditor when the call fails or returns garbage.
type LLMAuditor struct {
	provider llm.Provider
	fallback *RuleAuditor
	metrics  *MetricsService
	timeout  time.Duration
	logger   *zap.Logger
}

// NewLLMAuditor constructs the LLM-backed auditor.
func NewLLMAuditor(provider llm.Provider, fallback *RuleAuditor, metrics *MetricsService, timeout time.Duration, logger *zap.Logger) *LLMAuditor {
	if fallback == nil {
		fallback = NewRuleAuditor()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMAuditor{provider: provider, fallback: fallback, metrics: metrics, timeout: timeout, logger: logger}
}

type auditVerdictPayload struct {
	Passed    bool   `json:"passed"`
	Rationale string `json:"rationale"`
}

var auditVerdictSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"passed":    map[string]any{"type": "boolean"},
		"rationale": map[string]any{"type": "string"},
	},
	"required": []string{"passed", "rationale"},
}

// Audit implements Auditor.
func (a *LLMAuditor) Audit(ctx context.Context, mission models.ClassifiedMission, transcript string) models.ComplianceVerdict {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`You are auditing a field-sales visit report.
Mission topic: %s
Mission description: %s

Visit report:
%s

Did the report address this mission? Answer with JSON: {"passed": bool, "rationale": short string}.`,
		mission.Topic, mission.Description, transcript)

	start := time.Now()
	raw, err := a.provider.GenerateJSON(callCtx, prompt, auditVerdictSchema)
	if a.metrics != nil {
		a.metrics.ObserveLLMCall("audit", time.Since(start), err)
	}
	if err != nil {
		a.logger.Warn("llm audit failed, using rule auditor",
			zap.String("mission", mission.Topic), zap.Error(err))
		return a.fallback.Audit(ctx, mission, transcript)
	}

	var payload auditVerdictPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		a.logger.Warn("llm audit returned malformed verdict, using rule auditor",
			zap.String("mission", mission.Topic), zap.Error(err))
		return a.fallback.Audit(ctx, mission, transcript)
	}
	return models.ComplianceVerdict{
		MissionTopic: mission.Topic,
		Passed:       payload.Passed,
		Rationale:    payload.Rationale,
	}
}
