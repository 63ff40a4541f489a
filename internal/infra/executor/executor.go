// Package executor runs external programs such as the user's editor.
package executor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Client implements domain.CommandExecutor.
type Client struct {
	stdin  *os.File
	stdout *os.File
	stderr *os.File
}

// NewClient creates an executor attached to the process terminal.
func NewClient() *Client {
	return &Client{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

var _ domain.CommandExecutor = (*Client)(nil)

// ExecuteInteractive runs cmd with the terminal connected and waits for it.
func (c *Client) ExecuteInteractive(cmd *domain.ExecCommand) error {
	// #nosec G204 - the program comes from the user's own environment
	execCmd := exec.Command(cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	execCmd.Stdin = c.stdin
	execCmd.Stdout = c.stdout
	execCmd.Stderr = c.stderr
	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", cmd.Program, err)
	}
	return nil
}
