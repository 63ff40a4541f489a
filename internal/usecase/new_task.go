// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Due     *time.Time   // Due date (optional)
	Title   string       // Task title (required)
	Details string       // Body text (optional)
	URL     string       // Link (optional)
	State   domain.State // Initial state (empty = open)
	Tags    []string     // Tags (optional)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task // The created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks  domain.TaskRepository
	clock  domain.TimeProvider
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, clock domain.TimeProvider, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	state := in.State
	if state == "" {
		state = domain.StateOpen
	}
	if !state.IsValid() {
		return nil, domain.ErrInvalidState
	}

	id, err := uc.tasks.NextID()
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	now := uc.clock.Now()
	task := domain.NewTask(id, title, now)
	task.Details = in.Details
	task.URL = strings.TrimSpace(in.URL)
	task.Due = in.Due
	for _, tag := range in.Tags {
		if _, err := task.AddTag(tag, now); err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
	}
	if state != domain.StateOpen {
		task.MoveTo(state, now)
	}

	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(id, "task", fmt.Sprintf("created: %q", title))
	}

	return &NewTaskOutput{Task: task}, nil
}
