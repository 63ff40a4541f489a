package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// AddCommentInput contains the parameters for adding a comment.
type AddCommentInput struct {
	Message string // Comment text (required)
	TaskID  int    // Task ID (required)
}

// AddCommentOutput contains the result of adding a comment.
type AddCommentOutput struct {
	Comment domain.Comment // The created comment
}

// AddComment is the use case for adding a comment to a task.
type AddComment struct {
	tasks domain.TaskRepository
	clock domain.TimeProvider
}

// NewAddComment creates a new AddComment use case.
func NewAddComment(tasks domain.TaskRepository, clock domain.TimeProvider) *AddComment {
	return &AddComment{
		tasks: tasks,
		clock: clock,
	}
}

// Execute adds a comment to a task.
func (uc *AddComment) Execute(_ context.Context, in AddCommentInput) (*AddCommentOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if err := task.AddComment(in.Message, uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}

	return &AddCommentOutput{Comment: task.Comments[len(task.Comments)-1]}, nil
}
