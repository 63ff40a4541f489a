package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/domain"
)

var (
	eisenhowerUrgency    = togglePair{first: domain.TagUrgent, second: domain.TagNonUrgent}
	eisenhowerImportance = togglePair{first: domain.TagImportant, second: domain.TagNonImportant}
	energyPair           = togglePair{first: domain.TagHighEnergy, second: domain.TagLowEnergy}
	effortPair           = togglePair{first: domain.TagBigTask, second: domain.TagSmallTask}
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeList()
		return m, nil

	case MsgStepSettled:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, tea.Quit
		}
		m.status = ""
		m.taskList.Select(0)
		if m.manager.Status() == compass.StatusCompleted {
			m.mode = ModeDone
			m.tasks = nil
			m.updateTaskList()
			return m, nil
		}
		return m, m.loadTasks()

	case MsgTasksLoaded:
		if msg.Err != nil {
			m.status = ""
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.tasks = msg.Tasks
		m.updateTaskList()
		return m, nil

	case MsgTaskChanged:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.status = msg.Status
		return m, m.loadTasks()

	case MsgPrefsChanged:
		for _, k := range msg.Keys {
			if k == domain.KeyAccentColor {
				m.styles = NewStyles(m.env.Prefs.AccentColor())
				m.taskList.SetDelegate(newTaskDelegate(m.styles))
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputMode(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.mode = ModeNormal
		}
		return m, nil
	case ModeDone:
		if key.Matches(msg, m.keys.Quit, m.keys.Escape, m.keys.Confirm) {
			return m, tea.Quit
		}
		return m, nil
	}

	return m.handleNormalMode(msg)
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.busy = true
		return m, m.advance()
	case key.Matches(msg, m.keys.New):
		m.mode = ModeInput
		m.textInput.Reset()
		return m, m.textInput.Focus()
	case key.Matches(msg, m.keys.Priority):
		return m, m.moveTask(domain.StatePriority)
	case key.Matches(msg, m.keys.Open):
		return m, m.moveTask(domain.StateOpen)
	case key.Matches(msg, m.keys.Pending):
		return m, m.moveTask(domain.StatePendingResponse)
	case key.Matches(msg, m.keys.Close):
		return m, m.moveTask(domain.StateClosed)
	case key.Matches(msg, m.keys.Kill):
		return m, m.moveTask(domain.StateDead)
	case key.Matches(msg, m.keys.Urgent):
		return m, m.cycleTags(eisenhowerUrgency)
	case key.Matches(msg, m.keys.Important):
		return m, m.cycleTags(eisenhowerImportance)
	case key.Matches(msg, m.keys.Energy):
		return m, m.cycleTags(energyPair)
	case key.Matches(msg, m.keys.Effort):
		return m, m.cycleTags(effortPair)
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.textInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		title := strings.TrimSpace(m.textInput.Value())
		m.mode = ModeNormal
		m.textInput.Blur()
		if title == "" {
			return m, nil
		}
		return m, m.addTask(title)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// quit cancels an unfinished session. Its progress stays saved for a relaunch.
func (m *Model) quit() tea.Cmd {
	if m.manager.Status() == compass.StatusInProgress {
		m.manager.Cancel()
	}
	return tea.Quit
}

func (m *Model) resizeList() {
	// header, description, footer and padding
	height := m.height - 10
	if height < 4 {
		height = 4
	}
	m.taskList.SetSize(m.width-4, height)
}
