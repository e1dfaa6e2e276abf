package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/pkg/thaidate"
)

func TestPlanUsesDateFromReport(t *testing.T) {
	svc := NewFollowUpService("Monthly Visit", nil)
	today := time.Date(2025, 11, 20, 14, 0, 0, 0, time.UTC)

	spec := svc.Plan("ACME", "ลูกค้านัดติดตามผลพรุ่งนี้", today)
	require.NotNil(t, spec)
	assert.Equal(t, "ACME", spec.Customer)
	assert.Contains(t, spec.Topic, "Follow-up contact")

	ref := thaidate.Resolve(spec.Topic, today)
	require.True(t, ref.Found())
	assert.Equal(t, time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC), ref.Date)
}

func TestPlanDefaultsToMonthlyVisit(t *testing.T) {
	svc := NewFollowUpService("Monthly Visit", nil)
	today := time.Date(2025, 11, 20, 14, 0, 0, 0, time.UTC)

	spec := svc.Plan("ACME", "Delivered the catalogue, nothing scheduled.", today)
	require.NotNil(t, spec)
	assert.Contains(t, spec.Topic, "Monthly Visit")

	ref := thaidate.Resolve(spec.Topic, today)
	require.True(t, ref.Found())
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), ref.Date)
}

func TestPlanRoundTripsThroughResolver(t *testing.T) {
	svc := NewFollowUpService("Monthly Visit", nil)
	today := time.Date(2025, 11, 20, 14, 0, 0, 0, time.UTC)

	spec := svc.Plan("ACME", "ขอใบเสนอราคาใหม่ นัดอีกครั้ง 5 ธ.ค.", today)
	ref := thaidate.Resolve(spec.Topic, today)
	require.True(t, ref.Found())
	assert.Equal(t, time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC), ref.Date)
}

func TestPlanIgnoresPastDates(t *testing.T) {
	svc := NewFollowUpService("Monthly Visit", nil)
	today := time.Date(2025, 11, 20, 14, 0, 0, 0, time.UTC)

	// An explicit date earlier in the month is not a usable follow-up signal.
	spec := svc.Plan("ACME", "We met on 1/11/2568 previously.", today)
	assert.Contains(t, spec.Topic, "Monthly Visit")
}
