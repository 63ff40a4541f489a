package domain

import "time"

// IsStreakActive reports whether the last review falls in the current review interval
// or the one before it.
func (p *Preferences) IsStreakActive(tp TimeProvider) bool {
	last, ok := p.LastCompassCheck()
	if !ok {
		return false
	}
	current := CurrentCompassCheckInterval(tp)
	return current.Contains(last) || current.PreviousCompassCheckInterval().Contains(last)
}

// IsStreakBroken is the negation of IsStreakActive.
func (p *Preferences) IsStreakBroken(tp TimeProvider) bool {
	return !p.IsStreakActive(tp)
}

// DaysOfCompassCheck returns the visible streak. It is zero while the streak is broken,
// regardless of the stored counter.
func (p *Preferences) DaysOfCompassCheck(tp TimeProvider) int {
	if p.IsStreakBroken(tp) {
		return 0
	}
	return p.StoredDaysOfCompassCheck()
}

// IsCompassCheckDone reports whether a review was completed in the current interval.
func (p *Preferences) IsCompassCheckDone(tp TimeProvider) bool {
	last, ok := p.LastCompassCheck()
	return ok && CurrentCompassCheckInterval(tp).Contains(last)
}

// RecordCompassCheck updates the streak for a review completed at now.
// A review in a new interval right after the last one extends the streak,
// a review in the same interval keeps it, anything else starts over at 1.
func (p *Preferences) RecordCompassCheck(now time.Time) error {
	now = now.In(p.loc)
	current := CompassCheckInterval(now)
	days := p.StoredDaysOfCompassCheck()

	last, ok := p.LastCompassCheck()
	switch {
	case ok && current.Contains(last):
		days = max(days, 1)
	case ok && current.PreviousCompassCheckInterval().Contains(last):
		days++
	default:
		days = 1
	}

	if err := p.setInt(KeyDaysOfCompassCheck, days); err != nil {
		return err
	}
	if days > p.LongestStreak() {
		if err := p.setInt(KeyLongestStreak, days); err != nil {
			return err
		}
	}
	return p.setDate(KeyLastCompassCheck, now)
}
