package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// PruneTasksInput contains the parameters for pruning tasks.
type PruneTasksInput struct {
	All    bool // If true, also prune closed tasks (in addition to the graveyard)
	DryRun bool // If true, only list what would be pruned
}

// PruneTasksOutput contains the result of pruning tasks.
type PruneTasksOutput struct {
	DeletedTasks  []*domain.Task // Tasks that were (or would be) deleted
	RemovedEvents int            // Linked calendar events that were removed
}

// PruneTasks is the use case for emptying the graveyard.
type PruneTasks struct {
	tasks    domain.TaskRepository
	calendar domain.Calendar
	logger   domain.Logger
}

// NewPruneTasks creates a new PruneTasks use case. calendar may be nil.
func NewPruneTasks(tasks domain.TaskRepository, calendar domain.Calendar, logger domain.Logger) *PruneTasks {
	return &PruneTasks{
		tasks:    tasks,
		calendar: calendar,
		logger:   logger,
	}
}

// Execute deletes graveyard tasks, and closed tasks too when All is set.
func (uc *PruneTasks) Execute(ctx context.Context, in PruneTasksInput) (*PruneTasksOutput, error) {
	states := []domain.State{domain.StateDead}
	if in.All {
		states = append(states, domain.StateClosed)
	}
	tasks, err := uc.tasks.List(domain.TaskFilter{States: states})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := &PruneTasksOutput{DeletedTasks: []*domain.Task{}}
	if in.DryRun {
		out.DeletedTasks = append(out.DeletedTasks, tasks...)
		return out, nil
	}

	for _, task := range tasks {
		if task.IsScheduled() && uc.calendar != nil {
			removed, err := uc.calendar.DeleteEvent(ctx, task.EventID)
			if err != nil && uc.logger != nil {
				uc.logger.Warn(task.ID, "calendar", fmt.Sprintf("could not remove event %s: %v", task.EventID, err))
			}
			if removed {
				out.RemovedEvents++
			}
		}
		if err := uc.tasks.Delete(task.ID); err != nil {
			return nil, fmt.Errorf("delete task %d: %w", task.ID, err)
		}
		out.DeletedTasks = append(out.DeletedTasks, task)
	}
	if uc.logger != nil {
		uc.logger.Info(0, "task", fmt.Sprintf("pruned %d task(s)", len(out.DeletedTasks)))
	}
	return out, nil
}
