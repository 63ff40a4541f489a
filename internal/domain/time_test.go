package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestCompassCheckInterval(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "morning belongs to previous interval",
			at:        date(2025, 1, 15, 9, 0),
			wantStart: date(2025, 1, 14, 12, 0),
			wantEnd:   date(2025, 1, 15, 12, 0),
		},
		{
			name:      "afternoon starts a new interval",
			at:        date(2025, 1, 15, 13, 0),
			wantStart: date(2025, 1, 15, 12, 0),
			wantEnd:   date(2025, 1, 16, 12, 0),
		},
		{
			name:      "noon exactly",
			at:        date(2025, 1, 15, 12, 0),
			wantStart: date(2025, 1, 15, 12, 0),
			wantEnd:   date(2025, 1, 16, 12, 0),
		},
		{
			name:      "just after midnight",
			at:        date(2025, 3, 1, 0, 5),
			wantStart: date(2025, 2, 28, 12, 0),
			wantEnd:   date(2025, 3, 1, 12, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompassCheckInterval(tt.at)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
			assert.True(t, got.Contains(tt.at))
		})
	}
}

func TestInterval_Contains_HalfOpen(t *testing.T) {
	i := Interval{Start: date(2025, 1, 14, 12, 0), End: date(2025, 1, 15, 12, 0)}
	assert.True(t, i.Contains(i.Start))
	assert.False(t, i.Contains(i.End))
	assert.False(t, i.Contains(i.Start.Add(-time.Second)))
}

func TestInterval_PreviousCompassCheckInterval(t *testing.T) {
	i := CompassCheckInterval(date(2025, 1, 15, 13, 0))
	prev := i.PreviousCompassCheckInterval()
	assert.Equal(t, date(2025, 1, 14, 12, 0), prev.Start)
	assert.Equal(t, date(2025, 1, 15, 12, 0), prev.End)
}

func TestTimeProvider_DateHelpers(t *testing.T) {
	tp := &FixedTimeProvider{Time: date(2025, 1, 15, 9, 30)}

	assert.Equal(t, date(2025, 1, 12, 0, 0), DateDaysPrior(tp, 3))
	assert.Equal(t, date(2025, 1, 18, 0, 0), DateInDays(tp, 3))
	assert.Equal(t, date(2025, 1, 15, 6, 30), DateHoursPrior(tp, 3))
	assert.Equal(t, date(2025, 1, 15, 0, 0), StartOfDay(tp.Now()))
}

func TestTodayAt_Clamps(t *testing.T) {
	tp := &FixedTimeProvider{Time: date(2025, 1, 15, 9, 30)}

	assert.Equal(t, date(2025, 1, 15, 18, 15), TodayAt(tp, 18, 15))
	assert.Equal(t, date(2025, 1, 15, 23, 59), TodayAt(tp, 99, 99))
	assert.Equal(t, date(2025, 1, 15, 0, 0), TodayAt(tp, -1, -5))
}

func TestStartOfWeek(t *testing.T) {
	// 2025-01-15 is a Wednesday
	tp := &FixedTimeProvider{Time: date(2025, 1, 15, 9, 30), Weekday: time.Monday}
	assert.Equal(t, date(2025, 1, 13, 0, 0), StartOfWeek(tp, tp.Now()))

	tp.Weekday = time.Sunday
	assert.Equal(t, date(2025, 1, 12, 0, 0), StartOfWeek(tp, tp.Now()))
}

func TestNextCompassCheck(t *testing.T) {
	tp := &FixedTimeProvider{Time: date(2025, 1, 15, 9, 30)}
	assert.Equal(t, date(2025, 1, 15, 18, 0), NextCompassCheck(tp, 18, 0))
	assert.Equal(t, date(2025, 1, 16, 8, 0), NextCompassCheck(tp, 8, 0))
}

func TestFixedTimeProvider_Advance(t *testing.T) {
	tp := &FixedTimeProvider{Time: date(2025, 1, 15, 9, 30)}
	tp.Advance(24 * time.Hour)
	assert.Equal(t, date(2025, 1, 16, 9, 30), tp.Now())
	assert.Equal(t, time.UTC, tp.Location())
}
