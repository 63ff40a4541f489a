package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

const importFile = `---
title: Call the plumber
tags: [home]
---
Kitchen sink.

---
title: Renew passport
state: priority
due: 2025-02-01
---
`

func TestImportTasks_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	logger := &testutil.RecordingLogger{}
	uc := NewImportTasks(repo, testutil.NewFixedTime(testNow), logger)

	out, err := uc.Execute(context.Background(), ImportTasksInput{Content: importFile})

	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)
	first, second := repo.Tasks[1], repo.Tasks[2]
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, "Call the plumber", first.Title)
	assert.Equal(t, "Kitchen sink.", first.Details)
	assert.Equal(t, []string{"home"}, first.Tags)
	assert.Equal(t, domain.StateOpen, first.State)
	assert.Equal(t, domain.StatePriority, second.State)
	require.NotNil(t, second.Due)
	assert.Equal(t, "2025-02-01", second.Due.Format("2006-01-02"))
	assert.Equal(t, testNow, second.Created)
	assert.Len(t, logger.Messages("INFO"), 2)
}

func TestImportTasks_Execute_DryRun(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	uc := NewImportTasks(repo, testutil.NewFixedTime(testNow), nil)

	out, err := uc.Execute(context.Background(), ImportTasksInput{Content: importFile, DryRun: true})

	require.NoError(t, err)
	assert.Len(t, out.Tasks, 2)
	assert.Zero(t, out.Tasks[0].ID)
	assert.Empty(t, repo.Tasks)
}

func TestImportTasks_Execute_InvalidFileWritesNothing(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	uc := NewImportTasks(repo, testutil.NewFixedTime(testNow), nil)
	content := importFile + "\n---\ntitle: broken\nstate: someday\n---\n"

	_, err := uc.Execute(context.Background(), ImportTasksInput{Content: content})

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, repo.Tasks)
}
