// Package datamanager provides the task facade used by the Compass Check.
package datamanager

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Manager implements domain.DataManager over a TaskRepository.
type Manager struct {
	tasks    domain.TaskRepository
	time     domain.TimeProvider
	logger   domain.Logger
	selected *domain.Task
}

// New creates a Manager.
func New(tasks domain.TaskRepository, tp domain.TimeProvider, logger domain.Logger) *Manager {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Manager{
		tasks:  tasks,
		time:   tp,
		logger: logger,
	}
}

var _ domain.DataManager = (*Manager)(nil)

// List returns the tasks in state, by due date.
func (m *Manager) List(state domain.State) ([]*domain.Task, error) {
	tasks, err := m.tasks.List(domain.TaskFilter{States: []domain.State{state}})
	if err != nil {
		return nil, fmt.Errorf("list %s tasks: %w", state, err)
	}
	domain.SortByDue(tasks)
	return tasks, nil
}

// AllTasks returns every task.
func (m *Manager) AllTasks() ([]*domain.Task, error) {
	tasks, err := m.tasks.List(domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Move changes the state of task and saves it.
func (m *Manager) Move(task *domain.Task, state domain.State) error {
	if !state.IsValid() {
		return domain.ErrInvalidState
	}
	from := task.State
	task.MoveTo(state, m.time.Now())
	if err := m.tasks.Save(task); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	m.logger.Info(task.ID, "task", fmt.Sprintf("moved: %s -> %s", from, state))
	return nil
}

// Update saves task.
func (m *Manager) Update(task *domain.Task) error {
	if err := m.tasks.Save(task); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// KillOldTasks moves open tasks unchanged for more than expireAfter days to the graveyard.
func (m *Manager) KillOldTasks(expireAfter int, now time.Time) (int, error) {
	tasks, err := m.tasks.List(domain.TaskFilter{States: []domain.State{domain.StateOpen}})
	if err != nil {
		return 0, fmt.Errorf("list open tasks: %w", err)
	}

	moved := 0
	for _, task := range domain.ExpiredTasks(tasks, expireAfter, now) {
		task.MoveTo(domain.StateDead, now)
		if err := m.tasks.Save(task); err != nil {
			return moved, fmt.Errorf("save task #%d: %w", task.ID, err)
		}
		m.logger.Info(task.ID, "task", "moved to graveyard after expiry")
		moved++
	}
	return moved, nil
}

// AddAndSelect creates an open task and selects it.
func (m *Manager) AddAndSelect(title string) (*domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	id, err := m.tasks.NextID()
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}
	task := domain.NewTask(id, strings.TrimSpace(title), m.time.Now())
	if err := m.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	m.logger.Info(id, "task", fmt.Sprintf("created: %q", task.Title))
	m.selected = task
	return task, nil
}

// Selected returns the task selected last, or nil.
func (m *Manager) Selected() *domain.Task {
	return m.selected
}

// Select makes task the selected task.
func (m *Manager) Select(task *domain.Task) {
	m.selected = task
}
