package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// CopyTaskInput contains the parameters for copying a task.
// Fields are ordered to minimize memory padding.
type CopyTaskInput struct {
	Title    *string // New title (optional, defaults to "<original> (copy)")
	SourceID int     // Source task ID to copy
}

// CopyTaskOutput contains the result of copying a task.
type CopyTaskOutput struct {
	Task *domain.Task // The new task
}

// CopyTask is the use case for copying a task.
type CopyTask struct {
	tasks  domain.TaskRepository
	clock  domain.TimeProvider
	logger domain.Logger
}

// NewCopyTask creates a new CopyTask use case.
func NewCopyTask(tasks domain.TaskRepository, clock domain.TimeProvider, logger domain.Logger) *CopyTask {
	return &CopyTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute copies a task with the given input.
// The new task is open and copies title, details, URL, due date and tags.
// Comments, attachments and the calendar link are not copied.
func (uc *CopyTask) Execute(_ context.Context, in CopyTaskInput) (*CopyTaskOutput, error) {
	source, err := shared.GetTask(uc.tasks, in.SourceID)
	if err != nil {
		return nil, err
	}

	title := source.Title + " (copy)"
	if in.Title != nil {
		title = *in.Title
	}
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	id, err := uc.tasks.NextID()
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	task := domain.NewTask(id, title, uc.clock.Now())
	task.Details = source.Details
	task.URL = source.URL
	task.Tags = slices.Clone(source.Tags)
	if source.Due != nil {
		due := *source.Due
		task.Due = &due
	}

	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(id, "task", fmt.Sprintf("copied from #%d", source.ID))
	}

	return &CopyTaskOutput{Task: task}, nil
}
