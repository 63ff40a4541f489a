package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

var testNow = time.Date(2025, 1, 15, 13, 0, 0, 0, time.UTC)

func TestNewTask_Execute_Success(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	logger := &testutil.RecordingLogger{}
	uc := NewNewTask(repo, testutil.NewFixedTime(testNow), logger)

	due := testNow.AddDate(0, 0, 2)
	out, err := uc.Execute(context.Background(), NewTaskInput{
		Title:   "  Call the plumber ",
		Details: "kitchen sink",
		URL:     " https://example.com ",
		Due:     &due,
		Tags:    []string{"Home", "urgent", "home"},
	})

	require.NoError(t, err)
	task := out.Task
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "Call the plumber", task.Title)
	assert.Equal(t, "kitchen sink", task.Details)
	assert.Equal(t, "https://example.com", task.URL)
	assert.Equal(t, &due, task.Due)
	assert.Equal(t, domain.StateOpen, task.State)
	assert.Equal(t, []string{"home", "urgent"}, task.Tags)
	assert.Equal(t, testNow, task.Created)
	assert.Equal(t, testNow, task.Changed)
	assert.Same(t, task, repo.Tasks[1])
	assert.Equal(t, []string{`created: "Call the plumber"`}, logger.Messages("INFO"))
}

func TestNewTask_Execute_InitialState(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	uc := NewNewTask(repo, testutil.NewFixedTime(testNow), nil)

	out, err := uc.Execute(context.Background(), NewTaskInput{Title: "Ship it", State: domain.StateClosed})

	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, out.Task.State)
	require.NotNil(t, out.Task.Closed)
	assert.Equal(t, testNow, *out.Task.Closed)
}

func TestNewTask_Execute_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   NewTaskInput
		want error
	}{
		{"empty title", NewTaskInput{Title: "   "}, domain.ErrEmptyTitle},
		{"invalid state", NewTaskInput{Title: "x", State: "someday"}, domain.ErrInvalidState},
		{"invalid tag", NewTaskInput{Title: "x", Tags: []string{"two words"}}, domain.ErrInvalidTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			uc := NewNewTask(repo, testutil.NewFixedTime(testNow), nil)

			_, err := uc.Execute(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, repo.Tasks)
		})
	}
}

func TestNewTask_Execute_NextIDError(t *testing.T) {
	repo := &testutil.MockTaskRepositoryWithNextIDError{
		MockTaskRepository: testutil.NewMockTaskRepository(),
		NextIDErr:          errors.New("disk full"),
	}
	uc := NewNewTask(repo, testutil.NewFixedTime(testNow), nil)

	_, err := uc.Execute(context.Background(), NewTaskInput{Title: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate task ID")
}

func TestNewTask_Execute_SaveError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.SaveErr = errors.New("disk full")
	uc := NewNewTask(repo, testutil.NewFixedTime(testNow), nil)

	_, err := uc.Execute(context.Background(), NewTaskInput{Title: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save task")
}
