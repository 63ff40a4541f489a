// Package gitstore provides a Git plumbing-based implementation of TaskRepository.
// The repository can be pushed to and fetched from any Git remote to share tasks
// between machines.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// SchemaVersion is the ref layout written by this build.
//
//	1: comments stored under comments/<id>
//	2: comments embedded in the task blob, attachment data under attachments/<id>/<attachment>
const SchemaVersion = 2

// Store implements domain.TaskRepository using Git plumbing (refs and blobs).
//
// Data structure:
//
//	refs/<namespace>/
//	  meta                         → blob (nextTaskID, schemaVersion)
//	  initialized                  → marker blob
//	  tasks/<id>                   → blob (task YAML)
//	  attachments/<id>/<attachment> → blob (raw attachment data)
//	  comments/<id>                → blob (comments YAML, v1 only)
type Store struct {
	repo      *git.Repository
	namespace string // e.g., "tdg"
	mu        sync.RWMutex
}

// meta contains store metadata.
type meta struct {
	NextTaskID    int `yaml:"nextTaskID"`
	SchemaVersion int `yaml:"schemaVersion,omitempty"`
}

// commentsData holds comments for a task (v1 layout).
type commentsData struct {
	Comments []domain.Comment `yaml:"comments"`
}

// New opens the repository at dir, creating a bare repository if none exists.
func New(dir, namespace string) (*Store, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, true)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultGitNamespace
	}
	return &Store{
		repo:      repo,
		namespace: namespace,
	}
}

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

func (s *Store) taskRef(id int) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "tasks/" + strconv.Itoa(id))
}

func (s *Store) commentsRef(id int) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "comments/" + strconv.Itoa(id))
}

func (s *Store) attachmentRef(taskID int, attachmentID string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "attachments/" + strconv.Itoa(taskID) + "/" + attachmentID)
}

func (s *Store) metaRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "meta")
}

func (s *Store) initializedRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "initialized")
}

// Get retrieves a task by ID.
func (s *Store) Get(id int) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkVersionLocked(); err != nil {
		return nil, err
	}

	ref, err := s.repo.Reference(s.taskRef(id), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task ref: %w", err)
	}
	return s.loadTaskLocked(id, ref.Hash())
}

// List retrieves tasks matching the filter, ordered by ID.
func (s *Store) List(filter domain.TaskFilter) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkVersionLocked(); err != nil {
		return nil, err
	}

	var tasks []*domain.Task
	prefix := s.refPrefix() + "tasks/"

	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		idStr, ok := strings.CutPrefix(string(ref.Name()), prefix)
		if !ok {
			return nil
		}
		taskID, parseErr := strconv.Atoi(idStr)
		if parseErr != nil {
			return nil // Skip invalid refs
		}

		task, loadErr := s.loadTaskLocked(taskID, ref.Hash())
		if loadErr != nil {
			return loadErr
		}
		if filter.Matches(task) {
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return a.ID - b.ID
	})

	return tasks, nil
}

// loadTaskLocked decodes a task blob and attaches comments and attachment data.
func (s *Store) loadTaskLocked(id int, hash plumbing.Hash) (*domain.Task, error) {
	data, err := s.readBlob(hash)
	if err != nil {
		return nil, fmt.Errorf("read task: %w", err)
	}

	var task domain.Task
	if err := yaml.Unmarshal(data, &task); err != nil {
		return nil, domain.NewCorruptStoreError(fmt.Errorf("decode task #%d: %w", id, err))
	}
	task.ID = id

	legacy, err := s.legacyCommentsLocked(id)
	if err != nil {
		return nil, err
	}
	task.Comments = append(legacy, task.Comments...)

	for i := range task.Attachments {
		a := &task.Attachments[i]
		if a.IsPurged() {
			continue
		}
		ref, refErr := s.repo.Reference(s.attachmentRef(id, a.ID), true)
		if refErr != nil {
			if errors.Is(refErr, plumbing.ErrReferenceNotFound) {
				continue
			}
			return nil, fmt.Errorf("get attachment ref: %w", refErr)
		}
		if a.Data, err = s.readBlob(ref.Hash()); err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
	}

	domain.FillDefaults(&task)
	return &task, nil
}

// legacyCommentsLocked returns v1 comments for a task, if any.
func (s *Store) legacyCommentsLocked(taskID int) ([]domain.Comment, error) {
	ref, err := s.repo.Reference(s.commentsRef(taskID), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comments ref: %w", err)
	}

	raw, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read comments: %w", err)
	}

	var data commentsData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, domain.NewCorruptStoreError(fmt.Errorf("decode comments: %w", err))
	}
	return data.Comments, nil
}

// Save creates or updates a task.
// Attachment data is stored in separate blobs so the task blob stays small.
func (s *Store) Save(task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersionLocked(); err != nil {
		return err
	}

	data, err := yaml.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(s.taskRef(task.ID), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set task ref: %w", err)
	}

	// Comments now live in the task blob
	if err := s.removeRef(s.commentsRef(task.ID)); err != nil {
		return err
	}

	keep := make(map[plumbing.ReferenceName]bool, len(task.Attachments))
	for _, a := range task.Attachments {
		if a.IsPurged() || len(a.Data) == 0 {
			continue
		}
		name := s.attachmentRef(task.ID, a.ID)
		keep[name] = true
		blob, err := s.writeBlob(a.Data)
		if err != nil {
			return err
		}
		if err := s.repo.Storer.SetReference(plumbing.NewHashReference(name, blob)); err != nil {
			return fmt.Errorf("set attachment ref: %w", err)
		}
	}
	return s.removeAttachmentRefs(task.ID, keep)
}

// Delete removes a task with its comments and attachments.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeRef(s.taskRef(id)); err != nil {
		return err
	}
	if err := s.removeRef(s.commentsRef(id)); err != nil {
		return err
	}
	return s.removeAttachmentRefs(id, nil)
}

func (s *Store) removeRef(name plumbing.ReferenceName) error {
	if err := s.repo.Storer.RemoveReference(name); err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("remove ref %s: %w", name, err)
	}
	return nil
}

// removeAttachmentRefs removes attachment refs of a task that are not in keep.
func (s *Store) removeAttachmentRefs(taskID int, keep map[plumbing.ReferenceName]bool) error {
	prefix := s.refPrefix() + "attachments/" + strconv.Itoa(taskID) + "/"

	refs, err := s.repo.References()
	if err != nil {
		return fmt.Errorf("list refs: %w", err)
	}

	var toDelete []plumbing.ReferenceName
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		if strings.HasPrefix(string(ref.Name()), prefix) && !keep[ref.Name()] {
			toDelete = append(toDelete, ref.Name())
		}
		return nil
	})

	for _, name := range toDelete {
		if err := s.removeRef(name); err != nil {
			return err
		}
	}
	return nil
}

// NextID returns the next available task ID.
func (s *Store) NextID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadMeta()
	if err != nil {
		return 0, err
	}

	id := m.NextTaskID
	m.NextTaskID++

	if err := s.saveMeta(m); err != nil {
		return 0, err
	}

	return id, nil
}

// checkVersionLocked fails with a MigrationError if the refs were written by a newer build.
func (s *Store) checkVersionLocked() error {
	m, err := s.loadMeta()
	if err != nil {
		return err
	}
	if m.SchemaVersion > SchemaVersion {
		return domain.NewUpgradeRequiredError(m.SchemaVersion, SchemaVersion)
	}
	return nil
}

// loadMeta loads metadata from the meta ref.
// If the meta ref doesn't exist, it calculates NextTaskID from existing tasks.
func (s *Store) loadMeta() (*meta, error) {
	ref, err := s.repo.Reference(s.metaRef(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return &meta{NextTaskID: s.calculateNextTaskID(), SchemaVersion: 1}, nil
		}
		return nil, fmt.Errorf("get meta ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, domain.NewCorruptStoreError(fmt.Errorf("decode meta: %w", err))
	}
	if m.SchemaVersion == 0 {
		m.SchemaVersion = 1
	}

	return &m, nil
}

// calculateNextTaskID finds the maximum task ID from existing tasks and returns max+1.
// Returns 1 if no tasks exist.
func (s *Store) calculateNextTaskID() int {
	maxID := 0

	iter, err := s.repo.References()
	if err != nil {
		return 1
	}

	prefix := s.refPrefix() + "tasks/"
	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		if idStr, ok := strings.CutPrefix(ref.Name().String(), prefix); ok {
			if id, parseErr := strconv.Atoi(idStr); parseErr == nil && id > maxID {
				maxID = id
			}
		}
		return nil
	})

	return maxID + 1
}

// saveMeta saves metadata to the meta ref, stamping the current schema version.
func (s *Store) saveMeta(m *meta) error {
	if m.SchemaVersion < SchemaVersion {
		m.SchemaVersion = SchemaVersion
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(s.metaRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set meta ref: %w", err)
	}

	return nil
}

// writeBlob writes data to a blob and returns the hash.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

// readBlob reads the content of a blob.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// Initialize creates initial metadata if it doesn't exist.
// If meta exists but NextTaskID is less than max existing task ID, it updates NextTaskID.
// Returns true if the store was newly initialized.
func (s *Store) Initialize() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersionLocked(); err != nil {
		return false, err
	}

	minNextID := s.calculateNextTaskID()
	m, err := s.loadMeta()
	if err != nil {
		return false, fmt.Errorf("load meta: %w", err)
	}
	if m.NextTaskID < minNextID {
		m.NextTaskID = minNextID
		if err := s.saveMeta(m); err != nil {
			return false, err
		}
	}

	_, err = s.repo.Reference(s.initializedRef(), true)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, fmt.Errorf("check initialized ref: %w", err)
	}

	if err := s.saveMeta(m); err != nil {
		return false, err
	}
	hash, err := s.writeBlob([]byte("initialized"))
	if err != nil {
		return false, err
	}
	ref := plumbing.NewHashReference(s.initializedRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return false, fmt.Errorf("set initialized ref: %w", err)
	}

	return true, nil
}

// IsInitialized checks if the store has been initialized.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	return err == nil
}

// Ensure Store implements TaskRepository.
var _ domain.TaskRepository = (*Store)(nil)

// Ensure Store implements StoreInitializer.
var _ domain.StoreInitializer = (*Store)(nil)
