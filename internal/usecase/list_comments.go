package usecase

import (
	"context"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// ListCommentsInput contains the parameters for listing comments.
type ListCommentsInput struct {
	TaskID int // Task ID (required)
}

// ListCommentsOutput contains the comments of a task, oldest first.
type ListCommentsOutput struct {
	Comments []domain.Comment
}

// ListComments is the use case for listing the comments of a task.
type ListComments struct {
	tasks domain.TaskRepository
}

// NewListComments creates a new ListComments use case.
func NewListComments(tasks domain.TaskRepository) *ListComments {
	return &ListComments{tasks: tasks}
}

// Execute returns the comments of the task.
func (uc *ListComments) Execute(_ context.Context, in ListCommentsInput) (*ListCommentsOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ListCommentsOutput{Comments: task.Comments}, nil
}
