package domain

import "strings"

// State represents the lifecycle state of a task.
type State string

const (
	StateOpen            State = "open"            // Created, nothing scheduled
	StatePriority        State = "priority"        // One of today's goals
	StatePendingResponse State = "pendingResponse" // Waiting on someone else
	StateClosed          State = "closed"          // Done
	StateDead            State = "dead"            // Graveyard: abandoned or expired
)

// AllStates returns all valid state values in display order.
func AllStates() []State {
	return []State{
		StatePriority,
		StateOpen,
		StatePendingResponse,
		StateClosed,
		StateDead,
	}
}

// IsActive returns true for states that still need attention.
func (s State) IsActive() bool {
	return s == StateOpen || s == StatePriority || s == StatePendingResponse
}

// IsValid returns true if the state is a known value.
func (s State) IsValid() bool {
	switch s {
	case StateOpen, StatePriority, StatePendingResponse, StateClosed, StateDead:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the state.
func (s State) Display() string {
	switch s {
	case StateOpen:
		return "Open"
	case StatePriority:
		return "Priority"
	case StatePendingResponse:
		return "Pending Response"
	case StateClosed:
		return "Closed"
	case StateDead:
		return "Graveyard"
	default:
		return string(s)
	}
}

// ParseState parses user input into a State.
// Matching is case-insensitive and accepts a few aliases.
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return StateOpen, nil
	case "priority", "prio":
		return StatePriority, nil
	case "pendingresponse", "pending", "pending-response", "pending_response":
		return StatePendingResponse, nil
	case "closed", "done":
		return StateClosed, nil
	case "dead", "graveyard":
		return StateDead, nil
	default:
		return "", ErrInvalidState
	}
}
