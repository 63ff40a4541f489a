// Package cli provides the command-line interface for tdg.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupCalendar = "calendar"
	groupCompass  = "compass"
)

// launchCompassTUIFunc is a function variable for launching the Compass Check TUI, allowing it to be mocked in tests.
var launchCompassTUIFunc = launchCompassTUI

// NewRootCommand creates the root command for tdg.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tdg",
		Short: "Three Daily Goals: a task list with a daily Compass Check",
		Long: `tdg keeps a small set of tasks in five lists (priority, open,
pending response, closed, graveyard) and walks you through a daily
Compass Check that reviews them.

Running tdg without arguments starts the interactive Compass Check.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchCompassTUIFunc(cmd, c)
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupCalendar, Title: "Calendar:"},
		&cobra.Group{ID: groupCompass, Title: "Compass Check:"},
	)

	addToGroup := func(group string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = group
			root.AddCommand(cmd)
		}
	}

	addToGroup(groupSetup,
		newInitCommand(c),
		newConfigCommand(c),
		newPrefsCommand(c),
		newMigrateCommand(c),
		newLogsCommand(c),
	)
	addToGroup(groupTask,
		newNewCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newEditCommand(c),
		newMoveCommand(c),
		newRmCommand(c),
		newCpCommand(c),
		newImportCommand(c),
		newTagCommand(c),
		newUntagCommand(c),
		newCommentCommand(c),
		newCommentsCommand(c),
		newAttachCommand(c),
		newPurgeCommand(c),
		newGraveyardCommand(c),
		newPruneCommand(c),
	)
	addToGroup(groupCalendar,
		newScheduleCommand(c),
		newUnscheduleCommand(c),
		newEventsCommand(c),
		newICSCommand(c),
	)
	addToGroup(groupCompass,
		newCompassCommand(c),
		newStreakCommand(c),
	)

	return root
}
