package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only non-nil fields are updated.
// Markdown replaces title, URL, due date, tags and details in one go and
// cannot be combined with the other fields.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title    *string    // New title
	Details  *string    // New body text
	URL      *string    // New link ("" clears it)
	Due      *time.Time // New due date
	Markdown *string    // Full Markdown document with frontmatter
	TaskID   int        // Task ID to edit (required)
	ClearDue bool       // Remove the due date
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task // The updated task
}

// EditTask is the use case for editing an existing task.
type EditTask struct {
	tasks  domain.TaskRepository
	clock  domain.TimeProvider
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, clock domain.TimeProvider, logger domain.Logger) *EditTask {
	return &EditTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute edits a task with the given input.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	fieldsSet := in.Title != nil || in.Details != nil || in.URL != nil || in.Due != nil || in.ClearDue
	if !fieldsSet && in.Markdown == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if fieldsSet && in.Markdown != nil {
		return nil, fmt.Errorf("markdown cannot be combined with field updates")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if in.Markdown != nil {
		if err := task.FromMarkdown(*in.Markdown, now); err != nil {
			return nil, err
		}
	}
	if in.Title != nil {
		task.SetTitle(strings.TrimSpace(*in.Title), now)
	}
	if in.Details != nil {
		task.SetDetails(*in.Details, now)
	}
	if in.URL != nil {
		task.SetURL(strings.TrimSpace(*in.URL), now)
	}
	switch {
	case in.ClearDue:
		task.SetDue(nil, now)
	case in.Due != nil:
		task.SetDue(in.Due, now)
	}

	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "edited")
	}

	return &EditTaskOutput{Task: task}, nil
}
