package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// ScheduleTaskInput contains the parameters for scheduling a task.
type ScheduleTaskInput struct {
	Start    time.Time     // Event start (required)
	Duration time.Duration // Event length (0 = configured default)
	TaskID   int           // Task ID (required)
}

// ScheduleTaskOutput contains the result of scheduling a task.
// Scheduled is false when calendar access was denied.
type ScheduleTaskOutput struct {
	EventID   string
	Scheduled bool
	Recreated bool // The previous event was gone and a new one was created
}

// ScheduleTask is the use case for placing a task in the calendar.
type ScheduleTask struct {
	tasks    domain.TaskRepository
	calendar domain.Calendar
	prefs    *domain.Preferences
	logger   domain.Logger
	duration time.Duration
}

// NewScheduleTask creates a new ScheduleTask use case.
func NewScheduleTask(tasks domain.TaskRepository, calendar domain.Calendar, prefs *domain.Preferences, logger domain.Logger, defaultDuration time.Duration) *ScheduleTask {
	return &ScheduleTask{
		tasks:    tasks,
		calendar: calendar,
		prefs:    prefs,
		logger:   logger,
		duration: defaultDuration,
	}
}

// Execute creates or moves the task's event.
func (uc *ScheduleTask) Execute(ctx context.Context, in ScheduleTaskInput) (*ScheduleTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	granted, err := uc.calendar.RequestAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("request calendar access: %w", err)
	}
	if !granted {
		uc.log(task.ID, "calendar access denied, task not scheduled")
		return &ScheduleTaskOutput{}, nil
	}

	duration := in.Duration
	if duration <= 0 {
		duration = uc.duration
	}
	if duration <= 0 {
		duration = domain.DefaultEventDuration
	}

	out := &ScheduleTaskOutput{Scheduled: true}
	if task.IsScheduled() {
		moved, err := uc.calendar.UpdateEvent(ctx, task.EventID, in.Start, duration)
		if err != nil {
			return nil, deniedOr(err, "update event")
		}
		if moved {
			out.EventID = task.EventID
			uc.log(task.ID, fmt.Sprintf("event moved to %s", in.Start.Format(time.DateTime)))
			return out, nil
		}
		uc.log(task.ID, fmt.Sprintf("event %s no longer exists, creating a new one", task.EventID))
		out.Recreated = true
	}

	draft := domain.EventDraft{
		Title:    task.Title,
		Notes:    task.Details,
		URL:      task.URL,
		Start:    in.Start,
		Duration: duration,
	}
	if uc.prefs != nil {
		draft.Calendar = uc.prefs.CalendarIdentifier()
	}
	id, err := uc.calendar.CreateEvent(ctx, draft)
	if err != nil {
		return nil, deniedOr(err, "create event")
	}

	task.EventID = id
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	out.EventID = id
	uc.log(task.ID, fmt.Sprintf("scheduled at %s", in.Start.Format(time.DateTime)))
	return out, nil
}

func (uc *ScheduleTask) log(taskID int, msg string) {
	if uc.logger != nil {
		uc.logger.Info(taskID, "calendar", msg)
	}
}

// deniedOr wraps err unless it is a permission refusal, which callers report as-is.
func deniedOr(err error, action string) error {
	if errors.Is(err, domain.ErrCalendarAccessDenied) {
		return err
	}
	return fmt.Errorf("%s: %w", action, err)
}

// UnscheduleTaskInput contains the parameters for unscheduling a task.
type UnscheduleTaskInput struct {
	TaskID int // Task ID (required)
}

// UnscheduleTaskOutput contains the result of unscheduling a task.
// Unscheduled is false when calendar access was denied.
type UnscheduleTaskOutput struct {
	Unscheduled  bool
	EventRemoved bool // False if the event was already gone
}

// UnscheduleTask is the use case for removing a task from the calendar.
type UnscheduleTask struct {
	tasks    domain.TaskRepository
	calendar domain.Calendar
	logger   domain.Logger
}

// NewUnscheduleTask creates a new UnscheduleTask use case.
func NewUnscheduleTask(tasks domain.TaskRepository, calendar domain.Calendar, logger domain.Logger) *UnscheduleTask {
	return &UnscheduleTask{
		tasks:    tasks,
		calendar: calendar,
		logger:   logger,
	}
}

// Execute deletes the event and clears the link.
func (uc *UnscheduleTask) Execute(ctx context.Context, in UnscheduleTaskInput) (*UnscheduleTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if !task.IsScheduled() {
		return nil, domain.ErrNotScheduled
	}

	granted, err := uc.calendar.RequestAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("request calendar access: %w", err)
	}
	if !granted {
		if uc.logger != nil {
			uc.logger.Info(task.ID, "calendar", "calendar access denied, task not unscheduled")
		}
		return &UnscheduleTaskOutput{}, nil
	}

	removed, err := uc.calendar.DeleteEvent(ctx, task.EventID)
	if err != nil {
		return nil, deniedOr(err, "delete event")
	}

	task.EventID = ""
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "calendar", "unscheduled")
	}
	return &UnscheduleTaskOutput{Unscheduled: true, EventRemoved: removed}, nil
}
