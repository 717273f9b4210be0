package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTierPrecedence(t *testing.T) {
	assert.Equal(t, TierEmployee, (&User{}).Tier())
	assert.Equal(t, TierManager, (&User{IsManager: true}).Tier())
	assert.Equal(t, TierAdmin, (&User{IsManager: true, IsAdmin: true}).Tier())
	assert.Equal(t, TierSuperAdmin, (&User{IsAdmin: true, IsSuperAdmin: true}).Tier())

	assert.True(t, (&User{IsManager: true}).CanSchedule())
	assert.False(t, (&User{}).CanSchedule())
}

func TestEffectiveStatusDerivation(t *testing.T) {
	a := Assignment{
		Start:  time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC),
		Status: StatusScheduled,
	}

	before := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	during := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	after := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusScheduled, a.EffectiveStatus(before))
	assert.Equal(t, StatusInProgress, a.EffectiveStatus(during))
	assert.Equal(t, StatusInProgress, a.EffectiveStatus(a.Start))
	assert.Equal(t, StatusInProgress, a.EffectiveStatus(a.End))
	assert.Equal(t, StatusCompleted, a.EffectiveStatus(after))

	// Re-deriving with the same now never flips the answer.
	first := a.EffectiveStatus(during)
	a.Status = first
	assert.Equal(t, first, a.EffectiveStatus(during))

	// Cancelled is sticky regardless of the clock.
	a.Status = StatusCancelled
	assert.Equal(t, StatusCancelled, a.EffectiveStatus(before))
	assert.Equal(t, StatusCancelled, a.EffectiveStatus(during))
	assert.Equal(t, StatusCancelled, a.EffectiveStatus(after))
}

func TestAssignmentDurationHours(t *testing.T) {
	a := Assignment{
		Start: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 4, 15, 45, 0, 0, time.UTC),
	}
	assert.Equal(t, 7.75, a.DurationHours())
}

func TestShiftDurationHours(t *testing.T) {
	day := Shift{StartTime: "08:00", EndTime: "16:00"}
	assert.Equal(t, 8.0, day.DurationHours())

	// Over midnight
	night := Shift{StartTime: "22:00", EndTime: "06:00"}
	assert.Equal(t, 8.0, night.DurationHours())

	bad := Shift{StartTime: "late", EndTime: "never"}
	assert.Equal(t, 0.0, bad.DurationHours())
}

func TestApplyContractHours(t *testing.T) {
	var e Employee
	e.ApplyContractHours(35)
	assert.Equal(t, 35.0, e.ContractHoursPerWeek)
	assert.Equal(t, 151.67, e.ContractHoursPerMonth)
}
