package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

func TestTagTask_Execute(t *testing.T) {
	tests := []struct {
		name        string
		start       []string
		add         []string
		remove      []string
		want        []string
		wantChanged bool
	}{
		{"add", []string{"home"}, []string{"Urgent"}, nil, []string{"home", "urgent"}, true},
		{"duplicate add", []string{"home"}, []string{"HOME"}, nil, []string{"home"}, false},
		{"remove", []string{"home", "urgent"}, nil, []string{"home"}, []string{"urgent"}, true},
		{"remove missing", []string{"home"}, nil, []string{"work"}, []string{"home"}, false},
		{"swap pair", []string{"urgent"}, []string{"non-urgent"}, []string{"urgent"}, []string{"non-urgent"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			task := domain.NewTask(1, "task", testNow.AddDate(0, 0, -1))
			task.Tags = tt.start
			repo.Add(task)
			uc := NewTagTask(repo, testutil.NewFixedTime(testNow))

			out, err := uc.Execute(context.Background(), TagTaskInput{TaskID: 1, Add: tt.add, Remove: tt.remove})

			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, out.Changed)
			assert.Equal(t, tt.want, task.Tags)
			if tt.wantChanged {
				assert.Equal(t, 1, repo.Saves)
			} else {
				assert.Zero(t, repo.Saves)
			}
		})
	}
}

func TestTagTask_Execute_Errors(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(domain.NewTask(1, "task", testNow))
	uc := NewTagTask(repo, testutil.NewFixedTime(testNow))

	_, err := uc.Execute(context.Background(), TagTaskInput{TaskID: 1})
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)

	_, err = uc.Execute(context.Background(), TagTaskInput{TaskID: 1, Add: []string{"a,b"}})
	assert.ErrorIs(t, err, domain.ErrInvalidTag)

	_, err = uc.Execute(context.Background(), TagTaskInput{TaskID: 2, Add: []string{"a"}})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
