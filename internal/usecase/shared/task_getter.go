package shared

import (
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// GetTask loads a task. Stores report a missing task as (nil, nil);
// GetTask turns that into domain.ErrTaskNotFound.
func GetTask(repo domain.TaskRepository, taskID int) (*domain.Task, error) {
	task, err := repo.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}
