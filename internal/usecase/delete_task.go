package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID int // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	EventRemoved bool // The linked calendar event was deleted too
}

// DeleteTask is the use case for deleting a task.
// Comments and attachments are deleted with the task; a linked calendar
// event is removed on a best-effort basis.
type DeleteTask struct {
	tasks    domain.TaskRepository
	calendar domain.Calendar
	logger   domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case. calendar may be nil.
func NewDeleteTask(tasks domain.TaskRepository, calendar domain.Calendar, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		tasks:    tasks,
		calendar: calendar,
		logger:   logger,
	}
}

// Execute deletes a task with the given ID.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	out := &DeleteTaskOutput{}
	if task.IsScheduled() && uc.calendar != nil {
		removed, err := uc.calendar.DeleteEvent(ctx, task.EventID)
		if err != nil {
			uc.warn(task.ID, fmt.Sprintf("could not remove event %s: %v", task.EventID, err))
		}
		out.EventRemoved = removed
	}

	if err := uc.tasks.Delete(in.TaskID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("deleted: %q", task.Title))
	}

	return out, nil
}

func (uc *DeleteTask) warn(taskID int, msg string) {
	if uc.logger != nil {
		uc.logger.Warn(taskID, "calendar", msg)
	}
}
