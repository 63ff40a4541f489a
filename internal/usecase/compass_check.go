package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/domain"
)

// RunCompassCheckInput contains the parameters for a non-interactive Compass Check.
type RunCompassCheckInput struct{}

// RunCompassCheckOutput contains the result of a non-interactive Compass Check.
type RunCompassCheckOutput struct {
	Trace   []compass.Record
	Streak  int
	Longest int
}

// RunCompassCheck walks the whole Compass Check without pausing,
// accepting every interactive step as it is.
type RunCompassCheck struct {
	env   *compass.Env
	steps []compass.Step
}

// NewRunCompassCheck creates a new RunCompassCheck use case.
func NewRunCompassCheck(env *compass.Env, steps []compass.Step) *RunCompassCheck {
	return &RunCompassCheck{env: env, steps: steps}
}

// Execute runs the session to completion.
func (uc *RunCompassCheck) Execute(ctx context.Context, _ RunCompassCheckInput) (*RunCompassCheckOutput, error) {
	m := compass.NewManager(uc.env, uc.steps)
	if err := m.Start(ctx); err != nil {
		return nil, fmt.Errorf("start compass check: %w", err)
	}
	for m.Status() == compass.StatusInProgress {
		if err := m.Advance(ctx); err != nil {
			return nil, fmt.Errorf("advance compass check: %w", err)
		}
	}

	return &RunCompassCheckOutput{
		Trace:   m.Trace(),
		Streak:  uc.env.Prefs.DaysOfCompassCheck(uc.env.Time),
		Longest: uc.env.Prefs.LongestStreak(),
	}, nil
}

// CompassStatusOutput describes the review state of the current interval.
// Fields are ordered to minimize memory padding.
type CompassStatusOutput struct {
	Interval     domain.Interval
	Next         time.Time  // Next scheduled review time
	Last         *time.Time // Last completed review
	ProgressStep string     // Step an interrupted review paused at ("" = none)
	Streak       int        // Visible streak
	Longest      int
	Done         bool // A review was completed in the current interval
}

// CompassStatus is the use case for reporting the Compass Check state.
type CompassStatus struct {
	prefs *domain.Preferences
	clock domain.TimeProvider
}

// NewCompassStatus creates a new CompassStatus use case.
func NewCompassStatus(prefs *domain.Preferences, clock domain.TimeProvider) *CompassStatus {
	return &CompassStatus{prefs: prefs, clock: clock}
}

// Execute reads the status from the preferences.
func (uc *CompassStatus) Execute(_ context.Context) (*CompassStatusOutput, error) {
	hour, minute := uc.prefs.CompassCheckTime()
	out := &CompassStatusOutput{
		Interval: domain.CurrentCompassCheckInterval(uc.clock),
		Next:     domain.NextCompassCheck(uc.clock, hour, minute),
		Streak:   uc.prefs.DaysOfCompassCheck(uc.clock),
		Longest:  uc.prefs.LongestStreak(),
		Done:     uc.prefs.IsCompassCheckDone(uc.clock),
	}
	if last, ok := uc.prefs.LastCompassCheck(); ok {
		out.Last = &last
	}
	if p, ok := uc.prefs.LoadProgress(); ok && out.Interval.Contains(p.PeriodStart) {
		out.ProgressStep = p.StepID
	}
	return out, nil
}

// StepInfo describes a Compass Check step and whether it is enabled.
type StepInfo struct {
	ID          string
	Name        string
	Description string
	Silent      bool
	Enabled     bool
}

// ListSteps is the use case for listing the configured Compass Check steps.
type ListSteps struct {
	prefs *domain.Preferences
	steps []compass.Step
}

// NewListSteps creates a new ListSteps use case.
func NewListSteps(prefs *domain.Preferences, steps []compass.Step) *ListSteps {
	return &ListSteps{prefs: prefs, steps: steps}
}

// Execute returns the declared sequence with toggle states.
func (uc *ListSteps) Execute(_ context.Context) ([]StepInfo, error) {
	out := make([]StepInfo, 0, len(uc.steps))
	for _, s := range uc.steps {
		out = append(out, StepInfo{
			ID:          s.ID(),
			Name:        s.Name(),
			Description: s.Description(),
			Silent:      s.IsSilent(),
			Enabled:     uc.prefs.IsStepEnabled(s.ID(), s.DefaultEnabled()),
		})
	}
	return out, nil
}

// SetStepEnabledInput contains the parameters for toggling a step.
type SetStepEnabledInput struct {
	StepID  string
	Enabled bool
}

// SetStepEnabled is the use case for enabling or disabling a Compass Check step.
type SetStepEnabled struct {
	prefs *domain.Preferences
}

// NewSetStepEnabled creates a new SetStepEnabled use case.
func NewSetStepEnabled(prefs *domain.Preferences) *SetStepEnabled {
	return &SetStepEnabled{prefs: prefs}
}

// Execute stores the toggle. Unknown step IDs are rejected.
func (uc *SetStepEnabled) Execute(_ context.Context, in SetStepEnabledInput) error {
	if _, err := compass.StepByID(in.StepID); err != nil {
		return err
	}
	if err := uc.prefs.SetStepEnabled(in.StepID, in.Enabled); err != nil {
		return fmt.Errorf("save step toggle: %w", err)
	}
	return nil
}

// ShowStreakOutput contains the streak counters.
type ShowStreakOutput struct {
	Last    *time.Time
	Current int
	Longest int
	Active  bool
	Done    bool // Checked in the current interval
}

// ShowStreak is the use case for displaying the Compass Check streak.
type ShowStreak struct {
	prefs *domain.Preferences
	clock domain.TimeProvider
}

// NewShowStreak creates a new ShowStreak use case.
func NewShowStreak(prefs *domain.Preferences, clock domain.TimeProvider) *ShowStreak {
	return &ShowStreak{prefs: prefs, clock: clock}
}

// Execute returns the visible streak. A broken streak shows as zero.
func (uc *ShowStreak) Execute(_ context.Context) (*ShowStreakOutput, error) {
	out := &ShowStreakOutput{
		Current: uc.prefs.DaysOfCompassCheck(uc.clock),
		Longest: uc.prefs.LongestStreak(),
		Active:  uc.prefs.IsStreakActive(uc.clock),
		Done:    uc.prefs.IsCompassCheckDone(uc.clock),
	}
	if last, ok := uc.prefs.LastCompassCheck(); ok {
		out.Last = &last
	}
	return out, nil
}
