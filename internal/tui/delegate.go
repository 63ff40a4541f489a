package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

type taskItem struct {
	task *domain.Task
}

func (t taskItem) FilterValue() string {
	return t.task.Title
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// fit truncates s to width cells.
func fit(s string, width int) string {
	if width < 10 {
		width = 10
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "...")
	}
	return s
}

type taskDelegate struct {
	styles Styles
}

func newTaskDelegate(styles Styles) taskDelegate {
	return taskDelegate{styles: styles}
}

func (d taskDelegate) Height() int {
	return 2
}

func (d taskDelegate) Spacing() int {
	return 0
}

func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(taskItem)
	if !ok {
		return
	}
	task := ti.task
	selected := index == m.Index()

	indicator := " "
	titleStyle := d.styles.TaskTitle
	if selected {
		indicator = ">"
		titleStyle = d.styles.TaskTitleSelected
	}

	var tags string
	if len(task.Tags) > 0 {
		tags = "[" + strings.Join(task.Tags, "] [") + "] "
	}

	prefix := fmt.Sprintf(" %s %4s %s ", indicator, fmt.Sprintf("#%d", task.ID), StateIcon(task.State))
	prefixWidth := runewidth.StringWidth(prefix) + runewidth.StringWidth(tags)
	title := fit(task.Title, m.Width()-prefixWidth-2)

	line := " " + d.styles.SelectionIndicator.Render(indicator) +
		" " + d.styles.TaskID.Render(fmt.Sprintf("%4s", fmt.Sprintf("#%d", task.ID))) +
		" " + d.styles.StateStyle(task.State).Render(StateIcon(task.State)) + " "
	if tags != "" {
		line += d.styles.TaskTag.Render(tags)
	}
	line += titleStyle.Render(title)
	_, _ = fmt.Fprintln(w, line)

	var detail string
	if task.Due != nil {
		detail = "due " + task.Due.Format("Jan 2") + "  "
	}
	if task.Details != "" {
		detail += escapeNewlines(task.Details)
	}
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
	_, _ = fmt.Fprint(w, d.styles.TaskDetail.Render(indent+fit(detail, m.Width()-len(indent)-2)))
}
