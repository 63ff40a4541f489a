package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// MigrateStoreInput contains parameters for MigrateStore.
type MigrateStoreInput struct {
	DryRun bool // Count what would be copied without writing
}

// MigrateStoreOutput contains migration results.
type MigrateStoreOutput struct {
	Total    int
	Migrated int
	Skipped  int // Already present and identical in the destination
}

// MigrateStore copies every task, with its comments and attachments, from one
// store backend to another. The source is left untouched.
type MigrateStore struct {
	source   domain.TaskRepository
	dest     domain.TaskRepository
	destInit domain.StoreInitializer
	logger   domain.Logger
}

// NewMigrateStore creates a new MigrateStore use case.
func NewMigrateStore(source, dest domain.TaskRepository, destInit domain.StoreInitializer, logger domain.Logger) *MigrateStore {
	return &MigrateStore{source: source, dest: dest, destInit: destInit, logger: logger}
}

// Execute migrates all tasks.
// Existing destination tasks are skipped if identical; otherwise it fails
// with domain.ErrMigrationConflict before anything is written.
func (uc *MigrateStore) Execute(_ context.Context, in MigrateStoreInput) (*MigrateStoreOutput, error) {
	if uc.source == nil || uc.dest == nil || uc.destInit == nil {
		return nil, errors.New("source or destination store is nil")
	}

	tasks, err := uc.source.List(domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source tasks: %w", err)
	}
	if !in.DryRun {
		if _, err := uc.destInit.Initialize(); err != nil {
			return nil, fmt.Errorf("initialize destination store: %w", err)
		}
	}

	out := &MigrateStoreOutput{Total: len(tasks)}
	var pending []*domain.Task
	for _, task := range tasks {
		existing, err := uc.destGet(task.ID)
		if err != nil {
			return nil, fmt.Errorf("check destination task %d: %w", task.ID, err)
		}
		if existing != nil {
			if !sameTask(task, existing) {
				return nil, fmt.Errorf("%w: task %d", domain.ErrMigrationConflict, task.ID)
			}
			out.Skipped++
			continue
		}
		pending = append(pending, task)
	}

	if in.DryRun {
		out.Migrated = len(pending)
		return out, nil
	}
	for _, task := range pending {
		if err := uc.dest.Save(task); err != nil {
			return nil, fmt.Errorf("save destination task %d: %w", task.ID, err)
		}
		out.Migrated++
	}
	if uc.logger != nil {
		uc.logger.Info(0, "store", fmt.Sprintf("migrated %d task(s), skipped %d", out.Migrated, out.Skipped))
	}
	return out, nil
}

// destGet treats an uninitialized destination as empty.
func (uc *MigrateStore) destGet(id int) (*domain.Task, error) {
	task, err := uc.dest.Get(id)
	if errors.Is(err, domain.ErrNotInitialized) {
		return nil, nil
	}
	return task, err
}

// sameTask compares the persisted content of two tasks.
// Times are compared as instants since stores may differ in location.
func sameTask(a, b *domain.Task) bool {
	return a.Title == b.Title &&
		a.Details == b.Details &&
		a.URL == b.URL &&
		a.State == b.State &&
		a.EventID == b.EventID &&
		slices.Equal(a.Tags, b.Tags) &&
		a.Created.Equal(b.Created) &&
		a.Changed.Equal(b.Changed) &&
		sameInstant(a.Due, b.Due) &&
		sameInstant(a.Closed, b.Closed) &&
		len(a.Comments) == len(b.Comments) &&
		len(a.Attachments) == len(b.Attachments)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
