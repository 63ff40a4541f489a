package domain

import (
	"errors"
	"strings"
)

// ExecCommand is an external program to run.
type ExecCommand struct {
	Program string
	Dir     string
	Args    []string
}

// EditorCommand builds the command that opens path in editor.
// The editor value may carry arguments, e.g. "code --wait".
func EditorCommand(editor, path string) (*ExecCommand, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, errors.New("no editor configured")
	}
	return &ExecCommand{
		Program: fields[0],
		Args:    append(fields[1:], path),
	}, nil
}
