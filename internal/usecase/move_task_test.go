package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

func TestMoveTask_Execute_AnyToAny(t *testing.T) {
	for _, from := range domain.AllStates() {
		for _, to := range domain.AllStates() {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				repo := testutil.NewMockTaskRepository()
				task := domain.NewTask(1, "task", testNow.AddDate(0, 0, -1))
				task.MoveTo(from, testNow.AddDate(0, 0, -1))
				repo.Add(task)
				uc := NewMoveTask(repo, testutil.NewFixedTime(testNow), nil)

				out, err := uc.Execute(context.Background(), MoveTaskInput{TaskID: 1, State: to})

				require.NoError(t, err)
				assert.Equal(t, from, out.From)
				assert.Equal(t, to, task.State)
				assert.Equal(t, testNow, task.Changed)
				assert.Equal(t, to == domain.StateClosed, task.Closed != nil)
			})
		}
	}
}

func TestMoveTask_Execute_Logs(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(domain.NewTask(3, "task", testNow))
	logger := &testutil.RecordingLogger{}
	uc := NewMoveTask(repo, testutil.NewFixedTime(testNow), logger)

	_, err := uc.Execute(context.Background(), MoveTaskInput{TaskID: 3, State: domain.StatePriority})

	require.NoError(t, err)
	require.Len(t, logger.Entries, 1)
	assert.Equal(t, 3, logger.Entries[0].TaskID)
	assert.Equal(t, "moved: open -> priority", logger.Entries[0].Msg)
}

func TestMoveTask_Execute_Errors(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(domain.NewTask(1, "task", testNow))
	uc := NewMoveTask(repo, testutil.NewFixedTime(testNow), nil)

	_, err := uc.Execute(context.Background(), MoveTaskInput{TaskID: 1, State: "later"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.Execute(context.Background(), MoveTaskInput{TaskID: 2, State: domain.StateOpen})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
