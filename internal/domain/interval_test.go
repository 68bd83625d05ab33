package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeInterval(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		interval, err := NewTimeInterval("09:00", "17:00")
		require.NoError(t, err)
		assert.Equal(t, "09:00-17:00", interval.String())
		assert.Equal(t, 480, interval.DurationMinutes())
	})

	t.Run("start equals end", func(t *testing.T) {
		_, err := NewTimeInterval("09:00", "09:00")
		assert.Error(t, err)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := NewTimeInterval("17:00", "09:00")
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := NewTimeInterval("9:00", "17:00")
		assert.Error(t, err)
	})
}

func TestTimeIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a        TimeInterval
		b        TimeInterval
		overlaps bool
	}{
		{
			name:     "partial overlap",
			a:        TimeInterval{Start: "09:00", End: "10:00"},
			b:        TimeInterval{Start: "09:30", End: "10:30"},
			overlaps: true,
		},
		{
			name:     "contained",
			a:        TimeInterval{Start: "09:00", End: "12:00"},
			b:        TimeInterval{Start: "10:00", End: "11:00"},
			overlaps: true,
		},
		{
			name:     "touching endpoints do not overlap",
			a:        TimeInterval{Start: "09:00", End: "10:00"},
			b:        TimeInterval{Start: "10:00", End: "11:00"},
			overlaps: false,
		},
		{
			name:     "disjoint",
			a:        TimeInterval{Start: "09:00", End: "10:00"},
			b:        TimeInterval{Start: "13:00", End: "14:00"},
			overlaps: false,
		},
		{
			name:     "identical",
			a:        TimeInterval{Start: "09:00", End: "10:00"},
			b:        TimeInterval{Start: "09:00", End: "10:00"},
			overlaps: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeIntervalContains(t *testing.T) {
	base := TimeInterval{Start: "09:00", End: "17:00"}

	assert.True(t, base.Contains(TimeInterval{Start: "09:00", End: "17:00"}))
	assert.True(t, base.Contains(TimeInterval{Start: "10:00", End: "10:30"}))
	assert.True(t, base.Contains(TimeInterval{Start: "16:30", End: "17:00"}))
	assert.False(t, base.Contains(TimeInterval{Start: "08:45", End: "09:15"}))
	assert.False(t, base.Contains(TimeInterval{Start: "16:45", End: "17:15"}))
	assert.False(t, base.Contains(TimeInterval{Start: "18:00", End: "19:00"}))
}

func TestTimeIntervalSubtract(t *testing.T) {
	base := TimeInterval{Start: "08:00", End: "17:00"}

	t.Run("no overlap returns base unchanged", func(t *testing.T) {
		result := base.Subtract(TimeInterval{Start: "18:00", End: "19:00"})
		assert.Equal(t, []TimeInterval{base}, result)
	})

	t.Run("cut in the middle splits into two", func(t *testing.T) {
		result := base.Subtract(TimeInterval{Start: "12:00", End: "13:00"})
		assert.Equal(t, []TimeInterval{
			{Start: "08:00", End: "12:00"},
			{Start: "13:00", End: "17:00"},
		}, result)
	})

	t.Run("cut overlapping start trims head", func(t *testing.T) {
		result := base.Subtract(TimeInterval{Start: "07:00", End: "09:00"})
		assert.Equal(t, []TimeInterval{{Start: "09:00", End: "17:00"}}, result)
	})

	t.Run("cut overlapping end trims tail", func(t *testing.T) {
		result := base.Subtract(TimeInterval{Start: "16:00", End: "18:00"})
		assert.Equal(t, []TimeInterval{{Start: "08:00", End: "16:00"}}, result)
	})

	t.Run("cut covering base removes everything", func(t *testing.T) {
		result := base.Subtract(TimeInterval{Start: "07:00", End: "18:00"})
		assert.Empty(t, result)
	})

	t.Run("touching cut leaves base unchanged", func(t *testing.T) {
		result := base.Subtract(TimeInterval{Start: "17:00", End: "18:00"})
		assert.Equal(t, []TimeInterval{base}, result)
	})
}
