package domain

import (
	"slices"
	"time"
)

// Well-known tags used by the Compass Check.
const (
	TagUrgent       = "urgent"
	TagNonUrgent    = "non-urgent"
	TagImportant    = "important"
	TagNonImportant = "non-important"
	TagHighEnergy   = "high-energy"
	TagLowEnergy    = "low-energy"
	TagBigTask      = "big-task"
	TagSmallTask    = "small-task"
)

// FilterByState returns the tasks in the given state, preserving order.
func FilterByState(tasks []*Task, state State) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.State == state {
			out = append(out, t)
		}
	}
	return out
}

// ActiveTasks returns the tasks that are open, priority or pending a response.
func ActiveTasks(tasks []*Task) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

// DueWithin returns active tasks due no later than now+days, sorted by due date.
func DueWithin(tasks []*Task, days int, now time.Time) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.IsDueWithin(days, now) {
			out = append(out, t)
		}
	}
	SortByDue(out)
	return out
}

// SortByDue orders tasks by due date ascending, tasks without a due date last,
// then by changed descending.
func SortByDue(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		switch {
		case a.Due != nil && b.Due == nil:
			return -1
		case a.Due == nil && b.Due != nil:
			return 1
		case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
			return a.Due.Compare(*b.Due)
		}
		return b.Changed.Compare(a.Changed)
	})
}

// SortByChanged orders tasks by changed descending.
func SortByChanged(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		return b.Changed.Compare(a.Changed)
	})
}

// ExpiredTasks returns open tasks whose last change is more than expireAfter days before now.
// Tasks in any other state are never expired.
func ExpiredTasks(tasks []*Task, expireAfter int, now time.Time) []*Task {
	cutoff := now.Add(-time.Duration(expireAfter) * 24 * time.Hour)
	var out []*Task
	for _, t := range tasks {
		if t.State == StateOpen && t.Changed.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// HasConflictingTags reports whether the task carries both tags of an exclusive pair.
func (t *Task) HasConflictingTags(a, b string) bool {
	return t.HasTag(a) && t.HasTag(b)
}

// HasEisenhowerClassification reports whether the task is tagged on both Eisenhower axes.
func (t *Task) HasEisenhowerClassification() bool {
	return (t.HasTag(TagUrgent) || t.HasTag(TagNonUrgent)) &&
		(t.HasTag(TagImportant) || t.HasTag(TagNonImportant))
}

// HasEnergyEffortClassification reports whether the task has a complete energy/effort tag pair.
func (t *Task) HasEnergyEffortClassification() bool {
	return (t.HasTag(TagHighEnergy) || t.HasTag(TagLowEnergy)) &&
		(t.HasTag(TagBigTask) || t.HasTag(TagSmallTask))
}
