package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// TagTaskInput contains the parameters for changing a task's tags.
type TagTaskInput struct {
	Add    []string // Tags to add
	Remove []string // Tags to remove
	TaskID int      // Task ID (required)
}

// TagTaskOutput contains the result of tagging a task.
type TagTaskOutput struct {
	Task    *domain.Task
	Changed bool // False if every add was a duplicate and every remove was missing
}

// TagTask is the use case for adding and removing tags.
type TagTask struct {
	tasks domain.TaskRepository
	clock domain.TimeProvider
}

// NewTagTask creates a new TagTask use case.
func NewTagTask(tasks domain.TaskRepository, clock domain.TimeProvider) *TagTask {
	return &TagTask{
		tasks: tasks,
		clock: clock,
	}
}

// Execute applies removals first, then additions.
func (uc *TagTask) Execute(_ context.Context, in TagTaskInput) (*TagTaskOutput, error) {
	if len(in.Add) == 0 && len(in.Remove) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	changed := false
	for _, tag := range in.Remove {
		if task.RemoveTag(tag, now) {
			changed = true
		}
	}
	for _, tag := range in.Add {
		added, err := task.AddTag(tag, now)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
		changed = changed || added
	}

	if changed {
		if err := uc.tasks.Save(task); err != nil {
			return nil, fmt.Errorf("save task: %w", err)
		}
	}
	return &TagTaskOutput{Task: task, Changed: changed}, nil
}
