package compass

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// info carries the static description shared by every step kind.
type info struct {
	id          string
	name        string
	description string
	silent      bool
	disabled    bool
}

func (i info) ID() string           { return i.id }
func (i info) Name() string         { return i.name }
func (i info) Description() string  { return i.description }
func (i info) IsSilent() bool       { return i.silent }
func (i info) DefaultEnabled() bool { return !i.disabled }

// noAct is embedded by interactive steps whose effect happens in the UI.
type noAct struct{}

func (noAct) Act(context.Context, *Env) error { return nil }

// always is embedded by steps that are shown in every session.
type always struct{}

func (always) IsApplicable(*Env) bool { return true }

// === Silent steps ===

// EisenhowerMatrixConsistency removes contradictory urgency and importance tags.
type EisenhowerMatrixConsistency struct {
	info
	always
}

// Act clears both tags of every conflicting pair on active tasks.
func (s EisenhowerMatrixConsistency) Act(_ context.Context, env *Env) error {
	_, err := s.Fix(env)
	return err
}

// Fix is Act returning the number of tasks changed.
func (EisenhowerMatrixConsistency) Fix(env *Env) (int, error) {
	tasks, err := env.Data.AllTasks()
	if err != nil {
		return 0, fmt.Errorf("list tasks: %w", err)
	}

	now := env.now()
	fixed := 0
	var errs []error
	for _, task := range domain.ActiveTasks(tasks) {
		changed := false
		for _, pair := range [][2]string{
			{domain.TagUrgent, domain.TagNonUrgent},
			{domain.TagImportant, domain.TagNonImportant},
		} {
			if task.HasConflictingTags(pair[0], pair[1]) {
				task.RemoveTag(pair[0], now)
				task.RemoveTag(pair[1], now)
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := env.Data.Update(task); err != nil {
			errs = append(errs, fmt.Errorf("update task #%d: %w", task.ID, err))
			continue
		}
		fixed++
	}
	if fixed > 0 {
		env.logger().Info(0, "compass", fmt.Sprintf("removed conflicting tags from %d task(s)", fixed))
	}
	return fixed, errors.Join(errs...)
}

// MovePrioritiesToOpen resets the priority list so the review can rebuild it.
type MovePrioritiesToOpen struct {
	info
}

// IsApplicable reports whether any task is a priority.
func (MovePrioritiesToOpen) IsApplicable(env *Env) bool {
	return len(env.tasksIn(domain.StatePriority)) > 0
}

// Act moves every priority task back to open.
func (MovePrioritiesToOpen) Act(_ context.Context, env *Env) error {
	tasks, err := env.Data.List(domain.StatePriority)
	if err != nil {
		return fmt.Errorf("list priorities: %w", err)
	}
	var errs []error
	for _, task := range tasks {
		if err := env.Data.Move(task, domain.StateOpen); err != nil {
			errs = append(errs, fmt.Errorf("move task #%d: %w", task.ID, err))
		}
	}
	return errors.Join(errs...)
}

// MoveToGraveyard moves expired open tasks to the graveyard.
type MoveToGraveyard struct {
	info
	always
}

// Act kills open tasks untouched for longer than the expiry preference.
func (MoveToGraveyard) Act(_ context.Context, env *Env) error {
	expireAfter := domain.DefaultExpiryAfter
	if env.Prefs != nil {
		expireAfter = env.Prefs.ExpiryAfter()
	}
	n, err := env.Data.KillOldTasks(expireAfter, env.now())
	if err != nil {
		return fmt.Errorf("kill old tasks: %w", err)
	}
	env.logger().Info(0, "compass", fmt.Sprintf("moved %d task(s) to the graveyard", n))
	return nil
}

// === Interactive steps ===

// Inform introduces the Compass Check.
type Inform struct {
	info
	always
	noAct
}

// CurrentPriorities shows the priorities of the last review before they are reset.
type CurrentPriorities struct {
	info
	noAct
}

// IsApplicable reports whether any task is a priority.
func (CurrentPriorities) IsApplicable(env *Env) bool {
	return len(env.tasksIn(domain.StatePriority)) > 0
}

// EisenhowerMatrix asks for urgency and importance of unclassified tasks.
type EisenhowerMatrix struct {
	info
	noAct
}

// IsApplicable reports whether an active task lacks a complete urgency/importance pair.
func (EisenhowerMatrix) IsApplicable(env *Env) bool {
	for _, task := range env.activeTasks() {
		if !task.HasEisenhowerClassification() {
			return true
		}
	}
	return false
}

// EnergyEffortMatrix asks for energy and effort of tasks that have been around for a while.
type EnergyEffortMatrix struct {
	info
	noAct
}

// IsApplicable reports whether an active task older than the grace period lacks
// a complete energy/effort pair.
func (EnergyEffortMatrix) IsApplicable(env *Env) bool {
	cutoff := env.now().Add(-env.minAge())
	for _, task := range env.activeTasks() {
		if task.Created.Before(cutoff) && !task.HasEnergyEffortClassification() {
			return true
		}
	}
	return false
}

// PendingResponses lists tasks waiting on someone else.
type PendingResponses struct {
	info
	noAct
}

// IsApplicable reports whether any task is pending a response.
func (PendingResponses) IsApplicable(env *Env) bool {
	return len(env.tasksIn(domain.StatePendingResponse)) > 0
}

// DueDate lists active tasks due soon and raises them to priority.
type DueDate struct {
	info
}

// IsApplicable reports whether an active task is due within the window.
func (DueDate) IsApplicable(env *Env) bool {
	return len(domain.DueWithin(env.activeTasks(), env.dueWindow(), env.now())) > 0
}

// Act moves every task due within the window to priority.
func (DueDate) Act(_ context.Context, env *Env) error {
	tasks, err := env.Data.AllTasks()
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	var errs []error
	for _, task := range domain.DueWithin(tasks, env.dueWindow(), env.now()) {
		if task.State == domain.StatePriority {
			continue
		}
		if err := env.Data.Move(task, domain.StatePriority); err != nil {
			errs = append(errs, fmt.Errorf("move task #%d: %w", task.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Review is where the user picks the new priorities.
type Review struct {
	info
	always
	noAct
}

// Plan schedules the priorities in the calendar. Desktop only.
type Plan struct {
	info
	noAct
}

// IsApplicable reports whether the platform offers planning.
func (Plan) IsApplicable(env *Env) bool {
	return env.Desktop
}

// DefaultSequence returns every step in the default order.
func DefaultSequence() []Step {
	return []Step{
		EisenhowerMatrixConsistency{info: info{
			id:          StepEisenhowerMatrixConsistency,
			name:        "Tag consistency",
			description: "Removes contradictory urgent/non-urgent and important/non-important tags.",
			silent:      true,
		}},
		Inform{info: info{
			id:          StepInform,
			name:        "Compass Check",
			description: "Time to look back at today and pick tomorrow's three goals.",
		}},
		CurrentPriorities{info: info{
			id:          StepCurrentPriorities,
			name:        "Current priorities",
			description: "These were your priorities. Close what you finished.",
		}},
		MovePrioritiesToOpen{info: info{
			id:          StepMovePrioritiesToOpen,
			name:        "Reset priorities",
			description: "Moves all priorities back to the open list.",
			silent:      true,
		}},
		EisenhowerMatrix{info: info{
			id:          StepEisenhowerMatrix,
			name:        "Eisenhower matrix",
			description: "Tag open tasks as urgent or non-urgent, important or non-important.",
		}},
		EnergyEffortMatrix{info: info{
			id:          StepEnergyEffortMatrix,
			name:        "Energy and effort",
			description: "Tag older tasks by the energy and effort they need.",
		}},
		PendingResponses{info: info{
			id:          StepPendingResponses,
			name:        "Pending responses",
			description: "Did anyone get back to you?",
		}},
		DueDate{info: info{
			id:          StepDueDate,
			name:        "Due soon",
			description: "These tasks are due soon and become priorities.",
		}},
		Review{info: info{
			id:          StepReview,
			name:        "Review",
			description: "Pick the priorities for the next day.",
		}},
		Plan{info: info{
			id:          StepPlan,
			name:        "Plan",
			description: "Put your priorities in the calendar.",
			disabled:    true,
		}},
		MoveToGraveyard{info: info{
			id:          StepMoveToGraveyard,
			name:        "Graveyard",
			description: "Moves open tasks that were not touched for a long time to the graveyard.",
			silent:      true,
		}},
	}
}

// DefaultStepIDs returns the IDs of DefaultSequence in order.
func DefaultStepIDs() []string {
	steps := DefaultSequence()
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	return ids
}

// StepByID returns the step with the given ID.
func StepByID(id string) (Step, error) {
	for _, s := range DefaultSequence() {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStep, id)
}

// Sequence builds a step sequence from IDs. Empty ids yields DefaultSequence.
// Duplicate IDs are kept once, at their first position.
func Sequence(ids []string) ([]Step, error) {
	if len(ids) == 0 {
		return DefaultSequence(), nil
	}
	seen := make(map[string]bool, len(ids))
	steps := make([]Step, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		s, err := StepByID(id)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}
