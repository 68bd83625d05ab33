package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentIsActive(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		active bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCompleted, true},
		{StatusCancelledByClient, false},
		{StatusCancelledByStaff, false},
		{StatusNoShow, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			appt := &Appointment{Status: tt.status}
			assert.Equal(t, tt.active, appt.IsActive())
		})
	}
}

func TestAppointmentBufferedWindow(t *testing.T) {
	appt := &Appointment{StartTime: "09:00", EndTime: "09:45"}

	t.Run("zero buffer keeps the window", func(t *testing.T) {
		window := appt.BufferedWindow(0)
		assert.Equal(t, TimeInterval{Start: "09:00", End: "09:45"}, window)
	})

	t.Run("buffer extends the end", func(t *testing.T) {
		window := appt.BufferedWindow(10)
		assert.Equal(t, TimeInterval{Start: "09:00", End: "09:55"}, window)
	})

	t.Run("buffer past midnight is clamped to end of day", func(t *testing.T) {
		late := &Appointment{StartTime: "23:30", EndTime: "23:50"}
		window := late.BufferedWindow(30)
		assert.Equal(t, TimeInterval{Start: "23:30", End: DayEnd}, window)
	})
}

func TestAppointmentStartAt(t *testing.T) {
	appt := &Appointment{
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: "14:30",
		EndTime:   "15:00",
	}

	assert.Equal(t, time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC), appt.StartAt())
}

func TestBlockedTimeRuleIsFullDay(t *testing.T) {
	fullDay := &BlockedTimeRule{Kind: BlockedKindDayOff, Interval: TimeInterval{Start: DayStart, End: DayEnd}}
	lunch := &BlockedTimeRule{Kind: BlockedKindLunch, Interval: TimeInterval{Start: "12:00", End: "13:00"}}

	assert.True(t, fullDay.IsFullDay())
	assert.False(t, lunch.IsFullDay())
}

func TestWeeklyAvailabilityRuleIsEffectiveOn(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	rule := &WeeklyAvailabilityRule{EffectiveFrom: from, EffectiveTo: &to}

	assert.True(t, rule.IsEffectiveOn(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rule.IsEffectiveOn(from))
	assert.True(t, rule.IsEffectiveOn(to))
	assert.False(t, rule.IsEffectiveOn(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rule.IsEffectiveOn(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))

	openEnded := &WeeklyAvailabilityRule{EffectiveFrom: from}
	assert.True(t, openEnded.IsEffectiveOn(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}
