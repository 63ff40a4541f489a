package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// MoveTaskInput contains the parameters for changing a task's state.
type MoveTaskInput struct {
	State  domain.State // Target state (required)
	TaskID int          // Task ID (required)
}

// MoveTaskOutput contains the result of moving a task.
type MoveTaskOutput struct {
	Task *domain.Task
	From domain.State
}

// MoveTask is the use case for moving a task between states.
// Any state can be reached from any state.
type MoveTask struct {
	tasks  domain.TaskRepository
	clock  domain.TimeProvider
	logger domain.Logger
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(tasks domain.TaskRepository, clock domain.TimeProvider, logger domain.Logger) *MoveTask {
	return &MoveTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute moves the task to the requested state.
func (uc *MoveTask) Execute(_ context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	if !in.State.IsValid() {
		return nil, domain.ErrInvalidState
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	from := task.State
	task.MoveTo(in.State, uc.clock.Now())
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("moved: %s -> %s", from, in.State))
	}

	return &MoveTaskOutput{Task: task, From: from}, nil
}
