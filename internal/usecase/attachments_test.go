package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestAddAttachment_Execute_Data(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(domain.NewTask(1, "task", testNow))
	logger := &testutil.RecordingLogger{}
	uc := NewAddAttachment(repo, testutil.NewFixedTime(testNow), logger)

	out, err := uc.Execute(context.Background(), AddAttachmentInput{
		TaskID:   1,
		Filename: "receipt.png",
		Caption:  "Receipt",
		Data:     pngHeader,
	})

	require.NoError(t, err)
	att := out.Attachment
	assert.NotEmpty(t, att.ID)
	assert.Equal(t, "receipt.png", att.Filename)
	assert.Equal(t, "image/png", att.ContentType)
	assert.Equal(t, "Receipt", att.Caption)
	assert.Equal(t, int64(len(pngHeader)), att.Size)
	assert.Equal(t, testNow, att.Created)
	assert.Len(t, repo.Tasks[1].Attachments, 1)
	assert.Equal(t, 1, repo.Saves)
	assert.Len(t, logger.Messages("INFO"), 1)
}

func TestAddAttachment_Execute_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("buy milk\n"), 0o644))
	repo := testutil.NewMockTaskRepository()
	repo.Add(domain.NewTask(1, "task", testNow))
	uc := NewAddAttachment(repo, testutil.NewFixedTime(testNow), nil)

	out, err := uc.Execute(context.Background(), AddAttachmentInput{TaskID: 1, Path: path})

	require.NoError(t, err)
	assert.Equal(t, "notes.txt", out.Attachment.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", out.Attachment.ContentType)
	assert.Equal(t, []byte("buy milk\n"), repo.Tasks[1].Attachments[0].Data)
}

func TestAddAttachment_Execute_Errors(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(domain.NewTask(1, "task", testNow))
	uc := NewAddAttachment(repo, testutil.NewFixedTime(testNow), nil)

	_, err := uc.Execute(context.Background(), AddAttachmentInput{TaskID: 1, Data: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file name")

	_, err = uc.Execute(context.Background(), AddAttachmentInput{TaskID: 1, Path: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read attachment")

	_, err = uc.Execute(context.Background(), AddAttachmentInput{TaskID: 2, Filename: "a", Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestPurgeAttachment_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := domain.NewTask(1, "task", testNow)
	att := task.AddAttachment(domain.AttachmentInput{Filename: "a.txt", Data: []byte("data")}, testNow)
	id := att.ID
	repo.Add(task)
	later := testNow.Add(time.Hour)
	uc := NewPurgeAttachment(repo, testutil.NewFixedTime(later), nil)

	out, err := uc.Execute(context.Background(), PurgeAttachmentInput{TaskID: 1, AttachmentID: id[:8]})

	require.NoError(t, err)
	assert.Equal(t, id, out.Attachment.ID)
	stored := repo.Tasks[1].Attachments[0]
	assert.Nil(t, stored.Data)
	require.NotNil(t, stored.Purged)
	assert.Equal(t, later, *stored.Purged)
	assert.Equal(t, int64(4), stored.Size, "metadata survives a purge")

	_, err = uc.Execute(context.Background(), PurgeAttachmentInput{TaskID: 1, AttachmentID: "nope"})
	assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)
}
