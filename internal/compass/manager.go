package compass

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Status is the state of a Compass Check session.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusInProgress:
		return "in progress"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome describes what the Manager did with a step.
type Outcome string

const (
	OutcomeActed   Outcome = "acted"   // Act ran successfully
	OutcomeFailed  Outcome = "failed"  // Act returned an error, session continued
	OutcomeSkipped Outcome = "skipped" // Not applicable, Act not run
	OutcomePaused  Outcome = "paused"  // Waiting for the user
)

// Record is one entry of the session trace.
type Record struct {
	Err     error
	StepID  string
	Outcome Outcome
}

// Manager walks the enabled step sequence.
//
// Silent steps run and are passed without stopping. Interactive steps that
// are not applicable are skipped. The first applicable interactive step pauses
// the session and its position is persisted so that a relaunch in the same
// review interval resumes there.
// Fields are ordered to minimize memory padding.
type Manager struct {
	env      *Env
	declared []Step
	steps    []Step
	trace    []Record
	index    int
	status   Status
}

// NewManager creates a Manager over the declared sequence.
// Disabled steps are dropped when the session starts.
func NewManager(env *Env, declared []Step) *Manager {
	return &Manager{
		env:      env,
		declared: declared,
	}
}

// Status returns the session status.
func (m *Manager) Status() Status {
	return m.status
}

// Steps returns the enabled sequence of the current session, or the one a
// session would use if none is running.
func (m *Manager) Steps() []Step {
	if m.steps == nil {
		return m.enabledSteps()
	}
	return m.steps
}

// Current returns the step the session is paused at, or nil.
func (m *Manager) Current() Step {
	if m.status != StatusInProgress || m.index >= len(m.steps) {
		return nil
	}
	return m.steps[m.index]
}

// Position returns the zero-based index of the current step and the sequence length.
func (m *Manager) Position() (int, int) {
	return m.index, len(m.steps)
}

// Trace returns what happened to each step reached in this session.
func (m *Manager) Trace() []Record {
	return m.trace
}

// SinceLastCheck returns the time elapsed since the last completed review.
func (m *Manager) SinceLastCheck() (time.Duration, bool) {
	last, ok := m.env.Prefs.LastCompassCheck()
	if !ok {
		return 0, false
	}
	return m.env.now().Sub(last), true
}

func (m *Manager) enabledSteps() []Step {
	steps := make([]Step, 0, len(m.declared))
	for _, s := range m.declared {
		if m.env.Prefs.IsStepEnabled(s.ID(), s.DefaultEnabled()) {
			steps = append(steps, s)
		}
	}
	return steps
}

// Start begins a session. Progress saved in the current review interval is
// resumed; older progress is discarded and the session starts at the first step.
func (m *Manager) Start(ctx context.Context) error {
	m.steps = m.enabledSteps()
	m.trace = nil
	m.index = 0
	m.status = StatusInProgress

	if progress, ok := m.env.Prefs.LoadProgress(); ok {
		interval := domain.CurrentCompassCheckInterval(m.env.Time)
		idx := m.indexOf(progress.StepID)
		if interval.Contains(progress.PeriodStart) && idx >= 0 {
			m.index = idx
			m.env.logger().Debug(0, "compass", fmt.Sprintf("resuming at %s", progress.StepID))
		} else {
			m.env.logger().Debug(0, "compass", "discarding stale progress")
			if err := m.env.Prefs.ClearProgress(); err != nil {
				return fmt.Errorf("clear progress: %w", err)
			}
		}
	}

	return m.settle(ctx)
}

// Advance runs the current step's action and moves on to the next step that
// needs the user, completing the session when none is left.
func (m *Manager) Advance(ctx context.Context) error {
	step := m.Current()
	if step == nil {
		return domain.ErrNoSession
	}
	m.act(ctx, step)
	m.index++
	return m.settle(ctx)
}

// Cancel abandons the session. Saved progress is kept.
func (m *Manager) Cancel() {
	if m.status == StatusInProgress {
		m.status = StatusNotStarted
		m.env.logger().Info(0, "compass", "cancelled")
	}
}

func (m *Manager) indexOf(id string) int {
	for i, s := range m.steps {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// settle runs forward from the current index until a step needs the user or
// the sequence ends. Each Act completes before the next predicate is evaluated.
func (m *Manager) settle(ctx context.Context) error {
	for m.index < len(m.steps) {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := m.steps[m.index]
		switch {
		case step.IsSilent():
			m.act(ctx, step)
		case !step.IsApplicable(m.env):
			m.trace = append(m.trace, Record{StepID: step.ID(), Outcome: OutcomeSkipped})
		default:
			m.trace = append(m.trace, Record{StepID: step.ID(), Outcome: OutcomePaused})
			progress := domain.CompassCheckProgress{
				StepID:      step.ID(),
				PeriodStart: domain.CurrentCompassCheckInterval(m.env.Time).Start,
			}
			if err := m.env.Prefs.SaveProgress(progress); err != nil {
				return fmt.Errorf("save progress: %w", err)
			}
			return nil
		}
		m.index++
	}
	return m.complete()
}

// act runs a step's action. A failure is logged and recorded but never stops the session.
func (m *Manager) act(ctx context.Context, step Step) {
	if err := step.Act(ctx, m.env); err != nil {
		m.env.logger().Error(0, "compass", fmt.Sprintf("step %s failed: %v", step.ID(), err))
		m.trace = append(m.trace, Record{StepID: step.ID(), Outcome: OutcomeFailed, Err: err})
		return
	}
	m.trace = append(m.trace, Record{StepID: step.ID(), Outcome: OutcomeActed})
}

func (m *Manager) complete() error {
	m.status = StatusCompleted
	if err := m.env.Prefs.RecordCompassCheck(m.env.now()); err != nil {
		return fmt.Errorf("record compass check: %w", err)
	}
	if err := m.env.Prefs.ClearProgress(); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	m.env.logger().Info(0, "compass", fmt.Sprintf("completed, streak %d", m.env.Prefs.DaysOfCompassCheck(m.env.Time)))
	return nil
}
