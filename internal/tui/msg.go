package tui

import "github.com/runoshun/three-daily-goals/internal/domain"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgStepSettled is sent after the session started or advanced.
type MsgStepSettled struct {
	Err error
}

func (MsgStepSettled) sealed() {}

// MsgTasksLoaded is sent with the tasks shown for the current step.
type MsgTasksLoaded struct {
	Err   error
	Tasks []*domain.Task
}

func (MsgTasksLoaded) sealed() {}

// MsgTaskChanged is sent after a task was moved, tagged or created.
type MsgTaskChanged struct {
	Err    error
	Status string
	TaskID int
}

func (MsgTaskChanged) sealed() {}

// MsgPrefsChanged is sent when preferences changed outside this process.
type MsgPrefsChanged struct {
	Keys []string
}

func (MsgPrefsChanged) sealed() {}
