package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-AppointmentService/internal/domain"
	"github.com/sharpcut/SC-AppointmentService/pkg/types"
)

func slotStarts(slots []domain.AvailableSlot) []types.TimeString {
	starts := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		starts = append(starts, slot.StartTime)
	}
	return starts
}

func TestResolveOpenIntervals(t *testing.T) {
	rule := &domain.WeeklyAvailabilityRule{
		EmployeeID: 1,
		Weekday:    time.Monday,
		Intervals: []domain.TimeInterval{
			{Start: "08:00", End: "17:00"},
		},
	}

	t.Run("lunch splits working window into morning and afternoon", func(t *testing.T) {
		lunch := &domain.TimeInterval{Start: "12:00", End: "13:00"}

		open := resolveOpenIntervals(rule, lunch)

		require.Len(t, open, 2)
		assert.Equal(t, domain.TimeInterval{Start: "08:00", End: "12:00"}, open[0])
		assert.Equal(t, domain.TimeInterval{Start: "13:00", End: "17:00"}, open[1])
	})

	t.Run("no lunch keeps window whole", func(t *testing.T) {
		open := resolveOpenIntervals(rule, nil)

		require.Len(t, open, 1)
		assert.Equal(t, domain.TimeInterval{Start: "08:00", End: "17:00"}, open[0])
	})

	t.Run("lunch outside working window changes nothing", func(t *testing.T) {
		lunch := &domain.TimeInterval{Start: "18:00", End: "19:00"}

		open := resolveOpenIntervals(rule, lunch)

		require.Len(t, open, 1)
		assert.Equal(t, domain.TimeInterval{Start: "08:00", End: "17:00"}, open[0])
	})

	t.Run("only first interval of split shift is honored", func(t *testing.T) {
		splitRule := &domain.WeeklyAvailabilityRule{
			EmployeeID: 1,
			Weekday:    time.Monday,
			Intervals: []domain.TimeInterval{
				{Start: "08:00", End: "12:00"},
				{Start: "15:00", End: "20:00"},
			},
		}

		open := resolveOpenIntervals(splitRule, nil)

		require.Len(t, open, 1)
		assert.Equal(t, domain.TimeInterval{Start: "08:00", End: "12:00"}, open[0])
	})

	t.Run("rule without intervals yields no open time", func(t *testing.T) {
		empty := &domain.WeeklyAvailabilityRule{EmployeeID: 1, Weekday: time.Monday}

		assert.Empty(t, resolveOpenIntervals(empty, nil))
	})
}

func TestGenerateCandidateSlots(t *testing.T) {
	open := []domain.TimeInterval{
		{Start: "08:00", End: "12:00"},
		{Start: "13:00", End: "17:00"},
	}

	t.Run("30 minute service on 15 minute grid", func(t *testing.T) {
		candidates := generateCandidateSlots(open, 15, 30)

		starts := slotStarts(candidates)

		// Первый слот дня и последний утренний
		assert.Equal(t, types.TimeString("08:00"), starts[0])
		assert.Equal(t, types.TimeString("08:30"), candidates[0].EndTime)
		assert.Contains(t, starts, types.TimeString("11:30"))

		// 11:45-12:15 пересек бы обед и появиться не должен
		assert.NotContains(t, starts, types.TimeString("11:45"))

		// Первый слот после обеда
		assert.Contains(t, starts, types.TimeString("13:00"))

		// Последний слот дня заканчивается ровно в закрытие
		last := candidates[len(candidates)-1]
		assert.Equal(t, types.TimeString("16:30"), last.StartTime)
		assert.Equal(t, types.TimeString("17:00"), last.EndTime)

		// 15 утренних (08:00..11:30) + 15 дневных (13:00..16:30)
		assert.Len(t, candidates, 30)
	})

	t.Run("every candidate is contained in an open interval", func(t *testing.T) {
		candidates := generateCandidateSlots(open, 15, 30)

		for _, candidate := range candidates {
			window := domain.TimeInterval{Start: candidate.StartTime, End: candidate.EndTime}
			contained := false
			for _, interval := range open {
				if interval.Contains(window) {
					contained = true
					break
				}
			}
			assert.True(t, contained, "slot %s-%s is not contained in any open interval", candidate.StartTime, candidate.EndTime)
		}
	})

	t.Run("service longer than interval yields no slots", func(t *testing.T) {
		short := []domain.TimeInterval{{Start: "09:00", End: "09:30"}}

		assert.Empty(t, generateCandidateSlots(short, 15, 45))
	})

	t.Run("no open intervals yields no slots", func(t *testing.T) {
		assert.Empty(t, generateCandidateSlots(nil, 15, 30))
	})
}

func TestFilterBookedSlots(t *testing.T) {
	open := []domain.TimeInterval{
		{Start: "08:00", End: "12:00"},
		{Start: "13:00", End: "17:00"},
	}
	candidates := generateCandidateSlots(open, 15, 30)

	t.Run("no appointments keeps all candidates", func(t *testing.T) {
		available := filterBookedSlots(candidates, nil, 0)

		assert.Equal(t, candidates, available)
	})

	t.Run("appointment with buffer blocks window until buffered end", func(t *testing.T) {
		appointments := []*domain.Appointment{
			{
				ID:        1,
				StartTime: "09:00",
				EndTime:   "09:45",
				Status:    domain.StatusConfirmed,
			},
		}

		available := filterBookedSlots(candidates, appointments, 10)
		starts := slotStarts(available)

		// Слот, заканчивающийся ровно в начало записи, остается
		assert.Contains(t, starts, types.TimeString("08:30"))

		// Все кандидаты, пересекающие занятое окно [09:00, 09:55), выброшены
		assert.NotContains(t, starts, types.TimeString("08:45"))
		assert.NotContains(t, starts, types.TimeString("09:00"))
		assert.NotContains(t, starts, types.TimeString("09:15"))
		assert.NotContains(t, starts, types.TimeString("09:30"))
		assert.NotContains(t, starts, types.TimeString("09:45"))

		// Первый слот сетки на уровне или позже 09:55
		assert.Contains(t, starts, types.TimeString("10:00"))
	})

	t.Run("surviving slots never overlap buffered appointment windows", func(t *testing.T) {
		appointments := []*domain.Appointment{
			{ID: 1, StartTime: "09:00", EndTime: "09:45", Status: domain.StatusConfirmed},
			{ID: 2, StartTime: "14:00", EndTime: "15:00", Status: domain.StatusPending},
		}

		available := filterBookedSlots(candidates, appointments, 10)

		for _, slot := range available {
			window := domain.TimeInterval{Start: slot.StartTime, End: slot.EndTime}
			for _, appointment := range appointments {
				busy := appointment.BufferedWindow(10)
				assert.False(t, window.Overlaps(busy),
					"slot %s-%s overlaps busy window %s", slot.StartTime, slot.EndTime, busy)
			}
		}
	})

	t.Run("cancelled appointments do not block slots", func(t *testing.T) {
		appointments := []*domain.Appointment{
			{
				ID:        1,
				StartTime: "09:00",
				EndTime:   "09:45",
				Status:    domain.StatusCancelledByClient,
			},
		}

		available := filterBookedSlots(candidates, appointments, 10)

		assert.Equal(t, candidates, available)
	})

	t.Run("fully booked day yields no slots", func(t *testing.T) {
		appointments := []*domain.Appointment{
			{ID: 1, StartTime: "08:00", EndTime: "12:00", Status: domain.StatusConfirmed},
			{ID: 2, StartTime: "13:00", EndTime: "17:00", Status: domain.StatusConfirmed},
		}

		available := filterBookedSlots(candidates, appointments, 0)

		assert.Empty(t, available)
	})
}

func TestFilterPastSlots(t *testing.T) {
	open := []domain.TimeInterval{{Start: "08:00", End: "12:00"}}
	candidates := generateCandidateSlots(open, 15, 30)

	filtered := filterPastSlots(candidates, "10:10")

	starts := slotStarts(filtered)
	assert.NotContains(t, starts, types.TimeString("10:00"))
	assert.Equal(t, types.TimeString("10:15"), starts[0])
}
