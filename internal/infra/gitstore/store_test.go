package gitstore

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

func setupTestStore(t *testing.T) (*Store, *git.Repository) {
	t.Helper()

	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)

	store := NewWithRepo(repo, "tdg-test")
	_, err = store.Initialize()
	require.NoError(t, err)
	return store, repo
}

// putBlob writes raw content under a ref, bypassing the store.
func putBlob(t *testing.T, s *Store, name string, content []byte) {
	t.Helper()
	hash, err := s.writeBlob(content)
	require.NoError(t, err)
	require.NoError(t, s.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.ReferenceName(name), hash)))
}

func TestStore_Initialize(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	store := NewWithRepo(repo, "tdg-test")

	assert.False(t, store.IsInitialized())

	created, err := store.Initialize()
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, store.IsInitialized())

	// Second call should be idempotent
	created, err = store.Initialize()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestStore_NextID(t *testing.T) {
	store, _ := setupTestStore(t)

	id1, err := store.NextID()
	require.NoError(t, err)
	assert.Equal(t, 1, id1)

	id2, err := store.NextID()
	require.NoError(t, err)
	assert.Equal(t, 2, id2)
}

func TestStore_SaveAndGet(t *testing.T) {
	store, _ := setupTestStore(t)

	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	task := domain.NewTask(1, "Write report", now)
	task.Details = "Quarterly numbers"
	task.Tags = []string{"work"}
	require.NoError(t, task.AddComment("draft sent", now))
	att := task.AddAttachment(domain.AttachmentInput{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")}, now)

	require.NoError(t, store.Save(task))

	got, err := store.Get(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Quarterly numbers", got.Details)
	assert.Equal(t, domain.StateOpen, got.State)
	assert.Equal(t, []string{"work"}, got.Tags)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "draft sent", got.Comments[0].Text)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, att.ID, got.Attachments[0].ID)
	assert.Equal(t, []byte("hello"), got.Attachments[0].Data)
}

func TestStore_PurgedAttachmentDropsBlob(t *testing.T) {
	store, repo := setupTestStore(t)
	now := time.Now()

	task := domain.NewTask(1, "Task", now)
	att := task.AddAttachment(domain.AttachmentInput{Filename: "a.bin", Data: []byte{1, 2, 3}}, now)
	require.NoError(t, store.Save(task))

	_, err := repo.Reference(store.attachmentRef(1, att.ID), true)
	require.NoError(t, err)

	require.NoError(t, task.PurgeAttachment(att.ID, now))
	require.NoError(t, store.Save(task))

	_, err = repo.Reference(store.attachmentRef(1, att.ID), true)
	assert.ErrorIs(t, err, plumbing.ErrReferenceNotFound)

	got, err := store.Get(1)
	require.NoError(t, err)
	require.Len(t, got.Attachments, 1)
	assert.True(t, got.Attachments[0].IsPurged())
	assert.Empty(t, got.Attachments[0].Data)
}

func TestStore_GetNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	got, err := store.Get(999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_List(t *testing.T) {
	store, _ := setupTestStore(t)
	now := time.Now()

	for _, task := range []*domain.Task{
		{ID: 2, Title: "Task 2", State: domain.StatePriority, Created: now, Tags: []string{"home"}},
		{ID: 1, Title: "Task 1", State: domain.StateOpen, Created: now},
		{ID: 3, Title: "Task 3", State: domain.StateDead, Created: now, Tags: []string{"home"}},
	} {
		require.NoError(t, store.Save(task))
	}

	all, err := store.List(domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[2].ID)

	home, err := store.List(domain.TaskFilter{Tags: []string{"home"}, States: []domain.State{domain.StatePriority}})
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, 2, home[0].ID)
}

func TestStore_Delete(t *testing.T) {
	store, repo := setupTestStore(t)
	now := time.Now()

	task := domain.NewTask(1, "Task", now)
	att := task.AddAttachment(domain.AttachmentInput{Filename: "a.txt", Data: []byte("x")}, now)
	require.NoError(t, store.Save(task))

	require.NoError(t, store.Delete(1))

	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.Reference(store.attachmentRef(1, att.ID), true)
	assert.ErrorIs(t, err, plumbing.ErrReferenceNotFound)

	// Deleting a missing task is not an error
	assert.NoError(t, store.Delete(42))
}

func TestStore_MigratesLegacyComments(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	store := NewWithRepo(repo, "tdg-test")

	// v1 layout: no meta, comments in their own ref, state missing
	putBlob(t, store, "refs/tdg-test/tasks/5", []byte("title: Old task\ncreated: 2024-05-01T10:00:00Z\n"))
	comments, err := yaml.Marshal(commentsData{Comments: []domain.Comment{{Text: "legacy"}}})
	require.NoError(t, err)
	putBlob(t, store, "refs/tdg-test/comments/5", comments)

	got, err := store.Get(5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StateOpen, got.State)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "legacy", got.Comments[0].Text)

	// NextID continues after the existing task
	id, err := store.NextID()
	require.NoError(t, err)
	assert.Equal(t, 6, id)

	// Saving rewrites into the current layout
	require.NoError(t, store.Save(got))
	_, err = repo.Reference(store.commentsRef(5), true)
	assert.ErrorIs(t, err, plumbing.ErrReferenceNotFound)

	again, err := store.Get(5)
	require.NoError(t, err)
	assert.Len(t, again.Comments, 1)
}

func TestStore_NewerSchemaRequiresUpgrade(t *testing.T) {
	store, _ := setupTestStore(t)
	putBlob(t, store, "refs/tdg-test/meta", []byte("nextTaskID: 1\nschemaVersion: 7\n"))

	_, err := store.List(domain.TaskFilter{})
	me, ok := domain.AsMigrationError(err)
	require.True(t, ok, "error = %v", err)
	assert.True(t, me.UpgradeRequired)

	assert.Error(t, store.Save(domain.NewTask(1, "x", time.Now())))
}

func TestStore_NamespaceIsolation(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)

	a := NewWithRepo(repo, "alice")
	b := NewWithRepo(repo, "bob")
	_, err = a.Initialize()
	require.NoError(t, err)
	_, err = b.Initialize()
	require.NoError(t, err)

	require.NoError(t, a.Save(domain.NewTask(1, "Alice's", time.Now())))

	tasks, err := b.List(domain.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
