package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/internal/models"
)

type stubProvider struct {
	generate     string
	generateJSON string
	err          error
	calls        int
}

func (s *stubProvider) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.generate, s.err
}

func (s *stubProvider) GenerateJSON(_ context.Context, _ string, _ any) (string, error) {
	s.calls++
	return s.generateJSON, s.err
}

func classifiedMission(topic, description string, routine bool) models.ClassifiedMission {
	return models.ClassifiedMission{
		Mission: models.Mission{ID: "m-1", Customer: "ACME", Topic: topic, Description: description},
		Bucket:  models.DueToday,
		Routine: routine,
	}
}

func TestRuleAuditorPassesOnSubjectMention(t *testing.T) {
	auditor := NewRuleAuditor()
	mission := classifiedMission("Present new promotion", "Q4 bundle pricing", false)

	verdict := auditor.Audit(context.Background(), mission, "Customer liked the promotion and asked for the quote.")
	assert.True(t, verdict.Passed)
	assert.Equal(t, "Present new promotion", verdict.MissionTopic)
}

func TestRuleAuditorFailsOffTopic(t *testing.T) {
	auditor := NewRuleAuditor()
	mission := classifiedMission("Collect outstanding payment", "Invoice 1042", false)

	verdict := auditor.Audit(context.Background(), mission, "We talked about the weather and football.")
	assert.False(t, verdict.Passed)
	assert.NotEmpty(t, verdict.Rationale)
}

func TestRuleAuditorMatchesThaiSubject(t *testing.T) {
	auditor := NewRuleAuditor()
	mission := classifiedMission("ทวงเงินค้างชำระ", "", false)

	verdict := auditor.Audit(context.Background(), mission, "วันนี้ได้คุยเรื่องทวงเงินค้างชำระเรียบร้อย")
	assert.True(t, verdict.Passed)
}

func TestAuditServiceRoutineBypass(t *testing.T) {
	svc := NewAuditService(NewRuleAuditor(), nil)
	missions := []models.ClassifiedMission{
		classifiedMission("Monthly Visit", "", true),
		classifiedMission("Collect outstanding payment", "", false),
	}

	verdicts := svc.AuditAll(context.Background(), missions, "Nothing relevant was discussed.")
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Passed)
	assert.False(t, verdicts[1].Passed)
}

func TestLLMAuditorUsesVerdict(t *testing.T) {
	provider := &stubProvider{generateJSON: `{"passed": true, "rationale": "payment discussed"}`}
	auditor := NewLLMAuditor(provider, nil, nil, 0, nil)
	mission := classifiedMission("Collect outstanding payment", "", false)

	verdict := auditor.Audit(context.Background(), mission, "irrelevant to the rule auditor")
	assert.True(t, verdict.Passed)
	assert.Equal(t, "payment discussed", verdict.Rationale)
}

func TestLLMAuditorFallsBackOnError(t *testing.T) {
	provider := &stubProvider{err: errors.New("model unavailable")}
	auditor := NewLLMAuditor(provider, NewRuleAuditor(), nil, 0, nil)
	mission := classifiedMission("Collect outstanding payment", "", false)

	verdict := auditor.Audit(context.Background(), mission, "collected the payment in full")
	assert.True(t, verdict.Passed)
}

func TestLLMAuditorFallsBackOnMalformedJSON(t *testing.T) {
	provider := &stubProvider{generateJSON: "definitely passed!!"}
	auditor := NewLLMAuditor(provider, NewRuleAuditor(), nil, 0, nil)
	mission := classifiedMission("Collect outstanding payment", "", false)

	verdict := auditor.Audit(context.Background(), mission, "talked about football only")
	assert.False(t, verdict.Passed)
}
