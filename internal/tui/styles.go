package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Colors defines the fixed part of the palette. The accent comes from preferences.
var Colors = struct {
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Text       lipgloss.Color
	TextBright lipgloss.Color

	Open     lipgloss.Color
	Priority lipgloss.Color
	Pending  lipgloss.Color
	Closed   lipgloss.Color
	Dead     lipgloss.Color
}{
	Muted:      lipgloss.Color("#636E72"),
	Error:      lipgloss.Color("#D63031"),
	Success:    lipgloss.Color("#00B894"),
	Text:       lipgloss.Color("#DFE6E9"),
	TextBright: lipgloss.Color("#FFEAA7"),

	Open:     lipgloss.Color("#74B9FF"),
	Priority: lipgloss.Color("#FDCB6E"),
	Pending:  lipgloss.Color("#A29BFE"),
	Closed:   lipgloss.Color("#00B894"),
	Dead:     lipgloss.Color("#636E72"),
}

// namedAccents maps the accent names offered in preferences to colors.
var namedAccents = map[string]lipgloss.Color{
	"orange": lipgloss.Color("#E17055"),
	"red":    lipgloss.Color("#D63031"),
	"yellow": lipgloss.Color("#FDCB6E"),
	"green":  lipgloss.Color("#00B894"),
	"blue":   lipgloss.Color("#0984E3"),
	"purple": lipgloss.Color("#6C5CE7"),
	"pink":   lipgloss.Color("#FD79A8"),
	"teal":   lipgloss.Color("#00CEC9"),
}

// AccentColor resolves an accent preference. Names from namedAccents, hex
// values and ANSI color numbers are accepted; anything else falls back to orange.
func AccentColor(name string) lipgloss.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := namedAccents[name]; ok {
		return c
	}
	if strings.HasPrefix(name, "#") && (len(name) == 4 || len(name) == 7) {
		return lipgloss.Color(name)
	}
	if name != "" && strings.Trim(name, "0123456789") == "" {
		return lipgloss.Color(name)
	}
	return namedAccents[domain.DefaultAccentColor]
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	App lipgloss.Style

	// Header
	Header      lipgloss.Style
	StepName    lipgloss.Style
	StepCounter lipgloss.Style
	Description lipgloss.Style

	// Task list
	TaskID             lipgloss.Style
	TaskTitle          lipgloss.Style
	TaskTitleSelected  lipgloss.Style
	TaskDetail         lipgloss.Style
	TaskTag            lipgloss.Style
	SelectionIndicator lipgloss.Style
	Empty              lipgloss.Style

	// Footer
	Footer   lipgloss.Style
	Status   lipgloss.Style
	ErrorMsg lipgloss.Style

	// Input
	InputPrompt lipgloss.Style

	// Summary
	Summary lipgloss.Style
	Streak  lipgloss.Style

	Accent lipgloss.Color
}

// NewStyles returns the styles for the given accent color preference.
func NewStyles(accent string) Styles {
	a := AccentColor(accent)
	return Styles{
		Accent: a,
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Header: lipgloss.NewStyle().
			MarginBottom(1),
		StepName: lipgloss.NewStyle().
			Bold(true).
			Foreground(a),
		StepCounter: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		Description: lipgloss.NewStyle().
			Foreground(Colors.Text).
			MarginBottom(1),
		TaskID: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		TaskTitle: lipgloss.NewStyle().
			Foreground(Colors.Text),
		TaskTitleSelected: lipgloss.NewStyle().
			Foreground(Colors.TextBright).
			Bold(true),
		TaskDetail: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		TaskTag: lipgloss.NewStyle().
			Foreground(a),
		SelectionIndicator: lipgloss.NewStyle().
			Foreground(a).
			Bold(true),
		Empty: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Italic(true),
		Footer: lipgloss.NewStyle().
			MarginTop(1).
			Foreground(Colors.Muted),
		Status: lipgloss.NewStyle().
			Foreground(Colors.Success),
		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
		InputPrompt: lipgloss.NewStyle().
			Foreground(a).
			Bold(true),
		Summary: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(a),
		Streak: lipgloss.NewStyle().
			Foreground(a).
			Bold(true),
	}
}

// StateStyle returns the style for a task state badge.
func (s Styles) StateStyle(state domain.State) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch state {
	case domain.StatePriority:
		return base.Foreground(Colors.Priority)
	case domain.StatePendingResponse:
		return base.Foreground(Colors.Pending)
	case domain.StateClosed:
		return base.Foreground(Colors.Closed)
	case domain.StateDead:
		return base.Foreground(Colors.Dead)
	default:
		return base.Foreground(Colors.Open)
	}
}

// StateIcon returns a one-character marker for a task state.
func StateIcon(state domain.State) string {
	switch state {
	case domain.StatePriority:
		return "★"
	case domain.StatePendingResponse:
		return "◷"
	case domain.StateClosed:
		return "✔"
	case domain.StateDead:
		return "✝"
	default:
		return "○"
	}
}
