package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// EditCommentInput specifies the input for the EditComment use case.
type EditCommentInput struct {
	Message string
	TaskID  int
	Index   int // 0-based position in the task's comments
}

// EditComment handles updating an existing comment.
type EditComment struct {
	tasks domain.TaskRepository
	clock domain.TimeProvider
}

// NewEditComment creates a new EditComment use case.
func NewEditComment(tasks domain.TaskRepository, clock domain.TimeProvider) *EditComment {
	return &EditComment{
		tasks: tasks,
		clock: clock,
	}
}

// Execute replaces the text of a comment and stamps it with the current time.
func (uc *EditComment) Execute(_ context.Context, in EditCommentInput) error {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return domain.ErrEmptyMessage
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return err
	}
	if in.Index < 0 || in.Index >= len(task.Comments) {
		return domain.ErrCommentNotFound
	}

	task.Comments[in.Index] = domain.Comment{
		Text: message,
		Time: uc.clock.Now(),
	}
	if err := uc.tasks.Save(task); err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}
