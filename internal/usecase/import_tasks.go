package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// ImportTasksInput contains the parameters for creating tasks from a file.
type ImportTasksInput struct {
	Content string // File content (Markdown with frontmatter)
	DryRun  bool   // If true, parse and validate without creating tasks
}

// ImportTasksOutput contains the result of creating tasks from a file.
type ImportTasksOutput struct {
	Tasks []*domain.Task // Created tasks (IDs are zero in dry-run mode)
}

// ImportTasks is the use case for creating tasks from a Markdown file.
type ImportTasks struct {
	tasks  domain.TaskRepository
	clock  domain.TimeProvider
	logger domain.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(tasks domain.TaskRepository, clock domain.TimeProvider, logger domain.Logger) *ImportTasks {
	return &ImportTasks{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates tasks from the given file content.
// The whole file is validated before the first task is saved.
func (uc *ImportTasks) Execute(_ context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content, uc.clock.Location())
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := &ImportTasksOutput{Tasks: make([]*domain.Task, 0, len(drafts))}
	for i, draft := range drafts {
		task := draftToTask(draft, now)
		if !in.DryRun {
			id, err := uc.tasks.NextID()
			if err != nil {
				return nil, fmt.Errorf("task %d: generate task ID: %w", i+1, err)
			}
			task.ID = id
			if err := uc.tasks.Save(task); err != nil {
				return nil, fmt.Errorf("task %d: save task: %w", i+1, err)
			}
			if uc.logger != nil {
				uc.logger.Info(id, "task", fmt.Sprintf("created from file: %q", task.Title))
			}
		}
		out.Tasks = append(out.Tasks, task)
	}
	return out, nil
}

func draftToTask(draft domain.TaskDraft, now time.Time) *domain.Task {
	task := domain.NewTask(0, draft.Title, now)
	task.Details = draft.Details
	task.URL = draft.URL
	task.Due = draft.Due
	task.Tags = draft.Tags
	if draft.State != domain.StateOpen {
		task.MoveTo(draft.State, now)
	}
	return task
}
