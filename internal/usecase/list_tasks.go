package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	States []domain.State // Filter by state (empty = active states, unless All)
	Tags   []string       // Filter by tags (AND condition)
	All    bool           // Include closed and dead tasks
}

// TaskGroup is the tasks of one state, in display order.
type TaskGroup struct {
	State domain.State
	Tasks []*domain.Task
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Groups []TaskGroup // Non-empty groups in domain.AllStates order
	Total  int
}

// ListTasks is the use case for listing tasks grouped by state.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks matching the given input criteria.
// Active groups are sorted by due date; closed and dead groups by last change.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	states := in.States
	if len(states) == 0 && !in.All {
		states = []domain.State{domain.StatePriority, domain.StateOpen, domain.StatePendingResponse}
	}

	tasks, err := uc.tasks.List(domain.TaskFilter{States: states, Tags: in.Tags})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := &ListTasksOutput{Total: len(tasks)}
	for _, state := range domain.AllStates() {
		group := domain.FilterByState(tasks, state)
		if len(group) == 0 {
			continue
		}
		if state.IsActive() {
			domain.SortByDue(group)
		} else {
			domain.SortByChanged(group)
		}
		out.Groups = append(out.Groups, TaskGroup{State: state, Tasks: group})
	}
	return out, nil
}
