package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

func TestNewCommentCommand_Add(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Call bank", domain.StateOpen)
	container := newTestContainer(t, repo)

	out, err := execute(t, newCommentCommand(container), "#1", "No", "answer")

	require.NoError(t, err)
	assert.Contains(t, out, "Added comment to task #1")
	require.Len(t, repo.Tasks[1].Comments, 1)
	assert.Equal(t, "No answer", repo.Tasks[1].Comments[0].Text)
}

func TestNewCommentCommand_Edit(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := addTask(repo, 1, "Call bank", domain.StateOpen)
	task.Comments = []domain.Comment{{Text: "first", Time: testNow}}
	container := newTestContainer(t, repo)

	out, err := execute(t, newCommentCommand(container), "1", "--edit", "0", "rewritten")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated comment 0 on task #1")
	assert.Equal(t, "rewritten", repo.Tasks[1].Comments[0].Text)
}

func TestNewCommentCommand_TaskNotFound(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	_, err := execute(t, newCommentCommand(container), "5", "hello")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestNewCommentCommand_OnlyID(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	_, err := execute(t, newCommentCommand(container), "1")

	assert.Error(t, err)
}

func TestNewCommentsCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := addTask(repo, 1, "Call bank", domain.StateOpen)
	container := newTestContainer(t, repo)

	out, err := execute(t, newCommentsCommand(container), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task #1 has no comments.")

	task.Comments = []domain.Comment{
		{Text: "first", Time: testNow},
		{Text: "second\nwith more", Time: testNow},
	}
	out, err = execute(t, newCommentsCommand(container), "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[0]")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "      with more")
}

func TestNewAttachCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Taxes", domain.StateOpen)
	container := newTestContainer(t, repo)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, writeFile(path, "receipts in the blue folder\n"))

	out, err := execute(t, newAttachCommand(container), "1", path, "--caption", "where")

	require.NoError(t, err)
	assert.Contains(t, out, "Attached notes.txt to task #1")
	assert.Contains(t, out, "text/plain")
	require.Len(t, repo.Tasks[1].Attachments, 1)
	att := repo.Tasks[1].Attachments[0]
	assert.Equal(t, "where", att.Caption)
	assert.Contains(t, out, shortID(att.ID))
}

func TestNewPurgeCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Taxes", domain.StateOpen)
	container := newTestContainer(t, repo)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, writeFile(path, "receipts\n"))
	_, err := execute(t, newAttachCommand(container), "1", path)
	require.NoError(t, err)
	id := repo.Tasks[1].Attachments[0].ID

	out, err := execute(t, newPurgeCommand(container), "1", id)

	require.NoError(t, err)
	assert.Contains(t, out, "Purged notes.txt from task #1")
	assert.True(t, repo.Tasks[1].Attachments[0].IsPurged())
}

func TestNewPurgeCommand_UnknownAttachment(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Taxes", domain.StateOpen)
	container := newTestContainer(t, repo)

	_, err := execute(t, newPurgeCommand(container), "1", "deadbeef")

	assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "01234567", shortID("0123456789abcdef"))
}
