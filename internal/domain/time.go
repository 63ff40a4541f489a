package domain

import "time"

// TimeProvider provides the current time and the calendar used for date arithmetic.
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time

	// Location returns the time zone used for day boundaries.
	Location() *time.Location

	// FirstWeekday returns the first day of the week.
	FirstWeekday() time.Weekday
}

// SystemTimeProvider implements TimeProvider using the system clock.
type SystemTimeProvider struct {
	Loc     *time.Location // nil = time.Local
	Weekday time.Weekday
}

// Now returns the current time in the provider's location.
func (p SystemTimeProvider) Now() time.Time {
	return time.Now().In(p.Location())
}

// Location returns the configured location.
func (p SystemTimeProvider) Location() *time.Location {
	if p.Loc == nil {
		return time.Local
	}
	return p.Loc
}

// FirstWeekday returns the configured first day of the week.
func (p SystemTimeProvider) FirstWeekday() time.Weekday {
	return p.Weekday
}

// FixedTimeProvider implements TimeProvider with a fixed instant. Used in tests.
type FixedTimeProvider struct {
	Time    time.Time
	Weekday time.Weekday
}

// Now returns the fixed time.
func (p *FixedTimeProvider) Now() time.Time {
	return p.Time
}

// Location returns the location of the fixed time.
func (p *FixedTimeProvider) Location() *time.Location {
	return p.Time.Location()
}

// FirstWeekday returns the configured first day of the week.
func (p *FixedTimeProvider) FirstWeekday() time.Weekday {
	return p.Weekday
}

// Advance moves the fixed time forward.
func (p *FixedTimeProvider) Advance(d time.Duration) {
	p.Time = p.Time.Add(d)
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// PreviousCompassCheckInterval returns the review interval immediately before i.
func (i Interval) PreviousCompassCheckInterval() Interval {
	return CompassCheckInterval(i.Start.Add(-time.Nanosecond))
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateDaysPrior returns the start of the day n days before now.
func DateDaysPrior(tp TimeProvider, n int) time.Time {
	return StartOfDay(tp.Now().In(tp.Location())).AddDate(0, 0, -n)
}

// DateInDays returns the start of the day n days after now.
func DateInDays(tp TimeProvider, n int) time.Time {
	return StartOfDay(tp.Now().In(tp.Location())).AddDate(0, 0, n)
}

// DateHoursPrior returns the exact instant n hours before now.
func DateHoursPrior(tp TimeProvider, n int) time.Time {
	return tp.Now().Add(-time.Duration(n) * time.Hour)
}

// TodayAt returns today's date with the wall-clock time set.
// Hour is clamped to [0,23] and minute to [0,59].
func TodayAt(tp TimeProvider, hour, minute int) time.Time {
	hour = min(max(hour, 0), 23)
	minute = min(max(minute, 0), 59)
	y, m, d := tp.Now().In(tp.Location()).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, tp.Location())
}

// StartOfWeek returns midnight of the first day of t's week.
func StartOfWeek(tp TimeProvider, t time.Time) time.Time {
	day := StartOfDay(t.In(tp.Location()))
	offset := (int(day.Weekday()) - int(tp.FirstWeekday()) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// CompassCheckInterval returns the noon-to-noon interval containing t.
// Times before noon belong to the interval that started the previous day.
func CompassCheckInterval(t time.Time) Interval {
	y, m, d := t.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, t.Location())
	if t.Hour() >= 12 {
		return Interval{Start: noon, End: noon.AddDate(0, 0, 1)}
	}
	return Interval{Start: noon.AddDate(0, 0, -1), End: noon}
}

// CurrentCompassCheckInterval returns the interval containing now.
func CurrentCompassCheckInterval(tp TimeProvider) Interval {
	return CompassCheckInterval(tp.Now().In(tp.Location()))
}

// NextCompassCheck returns the next occurrence of the configured review time.
func NextCompassCheck(tp TimeProvider, hour, minute int) time.Time {
	at := TodayAt(tp, hour, minute)
	if !at.After(tp.Now()) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}
