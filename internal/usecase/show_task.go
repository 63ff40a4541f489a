package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// TaskLogReader reads the log of a single task.
type TaskLogReader interface {
	TaskLog(taskID int) (string, error)
}

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID     int  // Task ID (required)
	IncludeLog bool // Read the task's log file
}

// ShowTaskOutput contains the task with its resolved calendar link.
type ShowTaskOutput struct {
	Task       *domain.Task
	EventStart *time.Time // Start of the linked event, nil if not scheduled
	Log        string
}

// ShowTask is the use case for displaying a task.
// A link to an event that no longer exists is cleared.
type ShowTask struct {
	tasks    domain.TaskRepository
	calendar domain.Calendar
	logs     TaskLogReader
	logger   domain.Logger
}

// NewShowTask creates a new ShowTask use case. calendar and logs may be nil.
func NewShowTask(tasks domain.TaskRepository, calendar domain.Calendar, logs TaskLogReader, logger domain.Logger) *ShowTask {
	return &ShowTask{
		tasks:    tasks,
		calendar: calendar,
		logs:     logs,
		logger:   logger,
	}
}

// Execute loads the task and resolves its event.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	out := &ShowTaskOutput{Task: task}

	if task.IsScheduled() && uc.calendar != nil {
		start, err := uc.calendar.EventStart(ctx, task.EventID)
		switch {
		case errors.Is(err, domain.ErrCalendarAccessDenied):
			// Link cannot be verified; keep it.
		case err != nil:
			return nil, fmt.Errorf("resolve event: %w", err)
		case start == nil:
			if err := clearStaleEvent(uc.tasks, uc.logger, task); err != nil {
				return nil, err
			}
		default:
			out.EventStart = start
		}
	}

	if in.IncludeLog && uc.logs != nil {
		log, err := uc.logs.TaskLog(task.ID)
		if err != nil {
			return nil, err
		}
		out.Log = log
	}
	return out, nil
}

// clearStaleEvent drops a link to an event that was deleted outside tdg.
func clearStaleEvent(tasks domain.TaskRepository, logger domain.Logger, task *domain.Task) error {
	stale := task.EventID
	task.EventID = ""
	if err := tasks.Save(task); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	if logger != nil {
		logger.Info(task.ID, "calendar", fmt.Sprintf("event %s no longer exists, link cleared", stale))
	}
	return nil
}
