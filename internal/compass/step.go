// Package compass implements the Compass Check: the daily review that walks
// an ordered set of steps over the task list.
package compass

import (
	"context"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Step IDs. They are persisted in progress records and preference keys.
const (
	StepEisenhowerMatrixConsistency = "eisenhowerMatrixConsistency"
	StepInform                      = "inform"
	StepCurrentPriorities           = "currentPriorities"
	StepMovePrioritiesToOpen        = "movePrioritiesToOpen"
	StepEisenhowerMatrix            = "eisenhowerMatrix"
	StepEnergyEffortMatrix          = "energyEffortMatrix"
	StepPendingResponses            = "pendingResponses"
	StepDueDate                     = "dueDate"
	StepReview                      = "review"
	StepPlan                        = "plan"
	StepMoveToGraveyard             = "moveToGraveyard"
)

// Step is one stage of the Compass Check.
//
// IsApplicable must be a pure predicate over the task list and time.
// For silent steps it only decides visibility: the Manager runs Act whenever
// it reaches a silent step, so Act must be a no-op when there is nothing to do.
type Step interface {
	ID() string
	Name() string
	Description() string
	IsSilent() bool
	DefaultEnabled() bool
	IsApplicable(env *Env) bool
	Act(ctx context.Context, env *Env) error
}

// Env is what steps read and mutate.
// Fields are ordered to minimize memory padding.
type Env struct {
	Data                      domain.DataManager
	Time                      domain.TimeProvider
	Logger                    domain.Logger
	Prefs                     *domain.Preferences
	DueWindowDays             int  // Due date step window (0 = default)
	ClassificationMinAgeHours int  // Energy/effort grace period (0 = default)
	Desktop                   bool // Platform variant that offers the Plan step
}

func (e *Env) now() time.Time {
	return e.Time.Now()
}

func (e *Env) dueWindow() int {
	if e.DueWindowDays <= 0 {
		return domain.DefaultDueWindowDays
	}
	return e.DueWindowDays
}

func (e *Env) minAge() time.Duration {
	hours := e.ClassificationMinAgeHours
	if hours <= 0 {
		hours = domain.DefaultClassificationMinAgeHours
	}
	return time.Duration(hours) * time.Hour
}

func (e *Env) logger() domain.Logger {
	if e.Logger == nil {
		return domain.NopLogger{}
	}
	return e.Logger
}

// activeTasks returns all active tasks. Errors count as an empty list so that
// predicates stay total; Act surfaces the error instead.
func (e *Env) activeTasks() []*domain.Task {
	tasks, err := e.Data.AllTasks()
	if err != nil {
		return nil
	}
	return domain.ActiveTasks(tasks)
}

func (e *Env) tasksIn(state domain.State) []*domain.Task {
	tasks, err := e.Data.List(state)
	if err != nil {
		return nil
	}
	return tasks
}
