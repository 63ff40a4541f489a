package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Model is the bubbletea model for the Compass Check.
type Model struct {
	// Dependencies (pointers first for alignment)
	ctx     context.Context
	manager *compass.Manager
	env     *compass.Env
	err     error

	tasks  []*domain.Task
	status string

	// Components
	keys      KeyMap
	styles    Styles
	help      help.Model
	taskList  list.Model
	textInput textinput.Model

	// Numeric state (smaller types last)
	mode   Mode
	width  int
	height int
	busy   bool
}

// New creates a Model driving manager. The session is started by Init.
func New(ctx context.Context, manager *compass.Manager, env *compass.Env) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 200

	styles := NewStyles(env.Prefs.AccentColor())
	taskList := list.New([]list.Item{}, newTaskDelegate(styles), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(true)
	taskList.SetFilteringEnabled(false)
	taskList.DisableQuitKeybindings()

	return &Model{
		ctx:       ctx,
		manager:   manager,
		env:       env,
		keys:      DefaultKeyMap(),
		styles:    styles,
		help:      help.New(),
		taskList:  taskList,
		textInput: ti,
		mode:      ModeNormal,
		busy:      true,
	}
}

// Init starts the session.
func (m *Model) Init() tea.Cmd {
	return m.startSession()
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Manager returns the session manager.
func (m *Model) Manager() *compass.Manager {
	return m.manager
}

func (m *Model) startSession() tea.Cmd {
	return func() tea.Msg {
		return MsgStepSettled{Err: m.manager.Start(m.ctx)}
	}
}

func (m *Model) advance() tea.Cmd {
	return func() tea.Msg {
		return MsgStepSettled{Err: m.manager.Advance(m.ctx)}
	}
}

// loadTasks returns a command that loads the tasks shown for the current step.
func (m *Model) loadTasks() tea.Cmd {
	step := m.manager.Current()
	return func() tea.Msg {
		if step == nil {
			return MsgTasksLoaded{}
		}
		tasks, err := m.env.Data.AllTasks()
		if err != nil {
			return MsgTasksLoaded{Err: err}
		}
		return MsgTasksLoaded{Tasks: tasksForStep(step.ID(), tasks, m.env)}
	}
}

// tasksForStep selects the tasks a step works on.
func tasksForStep(stepID string, all []*domain.Task, env *compass.Env) []*domain.Task {
	var out []*domain.Task
	switch stepID {
	case compass.StepCurrentPriorities, compass.StepPlan:
		out = domain.FilterByState(all, domain.StatePriority)
	case compass.StepPendingResponses:
		out = domain.FilterByState(all, domain.StatePendingResponse)
	case compass.StepDueDate:
		window := env.DueWindowDays
		if window <= 0 {
			window = domain.DefaultDueWindowDays
		}
		out = domain.DueWithin(domain.ActiveTasks(all), window, env.Time.Now())
	case compass.StepEisenhowerMatrix, compass.StepEnergyEffortMatrix:
		out = domain.ActiveTasks(all)
	case compass.StepReview:
		out = append(domain.FilterByState(all, domain.StatePriority), domain.FilterByState(all, domain.StateOpen)...)
	default:
		return nil
	}
	return out
}

// SelectedTask returns the currently selected task, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if ti, ok := m.taskList.SelectedItem().(taskItem); ok {
		return ti.task
	}
	return nil
}

func (m *Model) updateTaskList() {
	items := make([]list.Item, 0, len(m.tasks))
	for _, task := range m.tasks {
		items = append(items, taskItem{task: task})
	}
	m.taskList.SetItems(items)
}

// moveTask returns a command that moves a copy of the selected task.
// The list is refreshed from the store once the command settles.
func (m *Model) moveTask(state domain.State) tea.Cmd {
	selected := m.SelectedTask()
	if selected == nil {
		return nil
	}
	if selected.State == state {
		return nil
	}
	task := selected.Clone()
	m.busy = true
	return func() tea.Msg {
		if err := m.env.Data.Move(task, state); err != nil {
			return MsgTaskChanged{TaskID: task.ID, Err: err}
		}
		return MsgTaskChanged{TaskID: task.ID, Status: fmt.Sprintf("#%d → %s", task.ID, state.Display())}
	}
}

// cycleTags returns a command that advances a copy of the selected task
// through an exclusive tag pair: none, first, second, none.
func (m *Model) cycleTags(pair togglePair) tea.Cmd {
	selected := m.SelectedTask()
	if selected == nil {
		return nil
	}
	task := selected.Clone()
	m.busy = true
	return func() tea.Msg {
		now := m.env.Time.Now()
		var label string
		switch {
		case task.HasTag(pair.first):
			task.RemoveTag(pair.first, now)
			if _, err := task.AddTag(pair.second, now); err != nil {
				return MsgTaskChanged{TaskID: task.ID, Err: err}
			}
			label = pair.second
		case task.HasTag(pair.second):
			task.RemoveTag(pair.second, now)
			label = "no " + pair.first + "/" + pair.second
		default:
			if _, err := task.AddTag(pair.first, now); err != nil {
				return MsgTaskChanged{TaskID: task.ID, Err: err}
			}
			label = pair.first
		}
		if err := m.env.Data.Update(task); err != nil {
			return MsgTaskChanged{TaskID: task.ID, Err: err}
		}
		return MsgTaskChanged{TaskID: task.ID, Status: fmt.Sprintf("#%d %s", task.ID, label)}
	}
}

// addTask returns a command that creates a task from the input field.
func (m *Model) addTask(title string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.env.Data.AddAndSelect(title)
		if err != nil {
			return MsgTaskChanged{Err: err}
		}
		return MsgTaskChanged{TaskID: task.ID, Status: fmt.Sprintf("Created task #%d", task.ID)}
	}
}
