package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// KillOldTasksInput contains the parameters for moving expired tasks to the graveyard.
type KillOldTasksInput struct {
	ExpireAfter int // Days without change (0 = preference value)
}

// KillOldTasksOutput contains the result of the graveyard sweep.
type KillOldTasksOutput struct {
	Moved       int
	ExpireAfter int
}

// KillOldTasks is the use case for moving untouched open tasks to the graveyard.
type KillOldTasks struct {
	data  domain.DataManager
	prefs *domain.Preferences
	clock domain.TimeProvider
}

// NewKillOldTasks creates a new KillOldTasks use case.
func NewKillOldTasks(data domain.DataManager, prefs *domain.Preferences, clock domain.TimeProvider) *KillOldTasks {
	return &KillOldTasks{
		data:  data,
		prefs: prefs,
		clock: clock,
	}
}

// Execute moves every open task unchanged for more than ExpireAfter days.
func (uc *KillOldTasks) Execute(_ context.Context, in KillOldTasksInput) (*KillOldTasksOutput, error) {
	days := in.ExpireAfter
	if days <= 0 {
		days = uc.prefs.ExpiryAfter()
	}

	moved, err := uc.data.KillOldTasks(days, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("kill old tasks: %w", err)
	}
	return &KillOldTasksOutput{Moved: moved, ExpireAfter: days}, nil
}
