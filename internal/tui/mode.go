// Package tui provides the interactive Compass Check for three-daily-goals.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal Mode = iota // Step navigation
	ModeInput              // New task title input
	ModeHelp               // Full help overlay
	ModeDone               // Session completed, summary shown
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInput:
		return "input"
	case ModeHelp:
		return "help"
	case ModeDone:
		return "done"
	default:
		return "unknown"
	}
}
