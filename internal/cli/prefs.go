package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// newPrefsCommand creates the prefs command with its subcommands.
func newPrefsCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change preferences",
		Long: `Preferences are per-user settings kept next to the task data. They are
shared with every running tdg process; an open Compass Check picks up
changes made here.

Counters maintained by the Compass Check are read-only.

Examples:
  tdg prefs
  tdg prefs set compassCheckTimeHour 20
  tdg prefs set accentColor "#ff8800"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrefsList(cmd, c)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runPrefsList(cmd, c)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.GetPreferenceUseCase().Execute(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one preference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := c.SetPreferenceUseCase().Execute(cmd.Context(), usecase.SetPreferenceInput{
					Key:   args[0],
					Value: args[1],
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v)
				return nil
			},
		},
	)

	return cmd
}

func runPrefsList(cmd *cobra.Command, c *app.Container) error {
	entries, err := c.ListPreferencesUseCase().Execute(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tVALUE\tDESCRIPTION")
	for _, e := range entries {
		desc := e.Description
		if e.ReadOnly {
			desc += " (read-only)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, desc)
	}
	return tw.Flush()
}
