package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs [id]",
		Short: "Show the global log or a task's log",
		Long: `Show the global log, or the log of a single task when an ID is given.

Examples:
  tdg logs
  tdg logs 3 -n 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.ShowLogsInput{Lines: lines}
			if len(args) > 0 {
				id, err := parseTaskID(args[0])
				if err != nil {
					return err
				}
				input.TaskID = id
			}

			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if out.Content == "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No log entries yet (%s)\n", out.LogPath)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines from the end (0 = all)")

	return cmd
}
