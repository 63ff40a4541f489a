package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/three-daily-goals/internal/compass"
)

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder

	switch m.mode {
	case ModeDone:
		b.WriteString(m.viewSummary())
	case ModeHelp:
		b.WriteString(m.viewHeader())
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	default:
		b.WriteString(m.viewHeader())
		b.WriteString(m.viewBody())
		b.WriteString(m.viewFooter())
	}

	return m.styles.App.Render(b.String())
}

func (m *Model) viewHeader() string {
	step := m.manager.Current()
	if step == nil {
		return m.styles.Header.Render(m.styles.StepName.Render("Compass Check")) + "\n"
	}
	idx, n := m.manager.Position()
	title := m.styles.StepName.Render(step.Name()) + "  " +
		m.styles.StepCounter.Render(fmt.Sprintf("step %d of %d", idx+1, n))
	if d, ok := m.manager.SinceLastCheck(); ok && step.ID() == compass.StepInform {
		title += "  " + m.styles.StepCounter.Render("last check "+formatSince(d)+" ago")
	}
	return m.styles.Header.Render(title) + "\n" +
		m.styles.Description.Render(step.Description()) + "\n"
}

func (m *Model) viewBody() string {
	if m.busy {
		return m.styles.Empty.Render("Working...") + "\n"
	}
	if m.mode == ModeInput {
		return m.styles.InputPrompt.Render("New task: ") + m.textInput.View() + "\n"
	}
	if len(m.tasks) == 0 {
		if step := m.manager.Current(); step != nil && step.ID() == compass.StepInform {
			return ""
		}
		return m.styles.Empty.Render("No tasks here.") + "\n"
	}
	return m.taskList.View() + "\n"
}

func (m *Model) viewFooter() string {
	var lines []string
	if m.err != nil {
		lines = append(lines, m.styles.ErrorMsg.Render("Error: "+m.err.Error()))
	} else if m.status != "" {
		lines = append(lines, m.styles.Status.Render(m.status))
	}
	lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
	return m.styles.Footer.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewSummary() string {
	streak := m.env.Prefs.DaysOfCompassCheck(m.env.Time)
	longest := m.env.Prefs.LongestStreak()

	lines := []string{
		m.styles.StepName.Render("Compass Check complete"),
		"",
		"Streak: " + m.styles.Streak.Render(fmt.Sprintf("%d day(s)", streak)) +
			m.styles.StepCounter.Render(fmt.Sprintf("  (longest %d)", longest)),
	}
	for _, rec := range m.manager.Trace() {
		if rec.Outcome == compass.OutcomeFailed {
			lines = append(lines, m.styles.ErrorMsg.Render(fmt.Sprintf("%s failed: %v", rec.StepID, rec.Err)))
		}
	}
	lines = append(lines, "", m.styles.StepCounter.Render("press enter to close"))

	return m.styles.Summary.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// formatSince renders d in the largest whole unit.
func formatSince(d time.Duration) string {
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}
