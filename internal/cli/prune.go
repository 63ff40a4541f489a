package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// newGraveyardCommand creates the graveyard command.
func newGraveyardCommand(c *app.Container) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "graveyard",
		Short: "Move stale open tasks to the graveyard",
		Long: `Move every open task that has not changed for longer than the expiry
period to the graveyard. The period defaults to the expiryAfter preference
(see 'tdg prefs get expiryAfter'). The Compass Check does this too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.KillOldTasksUseCase().Execute(cmd.Context(), usecase.KillOldTasksInput{ExpireAfter: days})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %d task(s) unchanged for %d days to the graveyard\n", out.Moved, out.ExpireAfter)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Expiry period in days (default: preference)")

	return cmd
}

// newPruneCommand creates the prune command.
func newPruneCommand(c *app.Container) *cobra.Command {
	var (
		all    bool
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete tasks in the graveyard",
		Long: `Delete every task in the graveyard permanently. With --all, closed tasks
are deleted too. Linked calendar events are removed.

You are asked for confirmation unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.PruneTasksUseCase()
			w := cmd.OutOrStdout()

			preview, err := uc.Execute(cmd.Context(), usecase.PruneTasksInput{All: all, DryRun: true})
			if err != nil {
				return err
			}
			if len(preview.DeletedTasks) == 0 {
				_, _ = fmt.Fprintln(w, "Nothing to prune.")
				return nil
			}

			_, _ = fmt.Fprintln(w, "Tasks to be deleted:")
			for _, task := range preview.DeletedTasks {
				_, _ = fmt.Fprintf(w, "  - #%d %s (%s)\n", task.ID, task.Title, task.State.Display())
			}

			if dryRun {
				_, _ = fmt.Fprintln(w, "Dry run: no changes made.")
				return nil
			}

			if !yes {
				_, _ = fmt.Fprint(w, "Delete these tasks? [y/N] ")
				response, readErr := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if readErr != nil && response == "" {
					_, _ = fmt.Fprintln(w, "\nAborted.")
					return nil
				}
				if strings.ToLower(strings.TrimSpace(response)) != "y" {
					_, _ = fmt.Fprintln(w, "Aborted.")
					return nil
				}
			}

			out, err := uc.Execute(cmd.Context(), usecase.PruneTasksInput{All: all})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(w, "Deleted %d task(s)", len(out.DeletedTasks))
			if out.RemovedEvents > 0 {
				_, _ = fmt.Fprintf(w, ", removed %d calendar event(s)", out.RemovedEvents)
			}
			_, _ = fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also delete closed tasks")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Display only, no deletion")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}
