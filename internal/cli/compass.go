package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// newCompassCommand creates the compass command with its subcommands.
func newCompassCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compass",
		Short: "Run the daily Compass Check",
		Long: `Start the interactive Compass Check: look back at your priorities,
classify open tasks and pick the three goals for the next day.

An interrupted check resumes at the step where it stopped, as long as the
current interval has not ended.

Examples:
  tdg compass
  tdg compass status
  tdg compass disable energyEffortMatrix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchCompassTUIFunc(cmd, c)
		},
	}

	cmd.AddCommand(
		newCompassRunCommand(c),
		newCompassStatusCommand(c),
		newCompassStepsCommand(c),
		newCompassToggleCommand(c, true),
		newCompassToggleCommand(c, false),
	)

	return cmd
}

func newCompassRunCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the Compass Check without pausing",
		Long: `Walk every enabled step without waiting for input. Silent steps still do
their work; interactive steps are accepted as they are. The check is
recorded and the streak updated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.RunCompassCheckUseCase()
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.RunCompassCheckInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			for _, rec := range out.Trace {
				line := fmt.Sprintf("  %s\t%s", rec.StepID, rec.Outcome)
				if rec.Err != nil {
					line += "\t" + rec.Err.Error()
				}
				_, _ = fmt.Fprintln(tw, line)
			}
			_ = tw.Flush()
			_, _ = fmt.Fprintf(w, "Compass Check complete. Streak: %d day(s) (longest %d)\n", out.Streak, out.Longest)
			return nil
		},
	}
}

func newCompassStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether today's Compass Check is done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CompassStatusUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Done {
				_, _ = fmt.Fprintln(w, "Compass Check: done for this interval")
			} else {
				_, _ = fmt.Fprintln(w, "Compass Check: pending")
			}
			_, _ = fmt.Fprintf(w, "Interval:  %s - %s\n", formatTime(out.Interval.Start), formatTime(out.Interval.End))
			_, _ = fmt.Fprintf(w, "Next:      %s\n", formatTime(out.Next))
			if out.Last != nil {
				_, _ = fmt.Fprintf(w, "Last:      %s\n", formatTime(*out.Last))
			} else {
				_, _ = fmt.Fprintln(w, "Last:      never")
			}
			if out.ProgressStep != "" {
				_, _ = fmt.Fprintf(w, "Paused at: %s\n", out.ProgressStep)
			}
			_, _ = fmt.Fprintf(w, "Streak:    %d (longest %d)\n", out.Streak, out.Longest)
			return nil
		},
	}
}

func newCompassStepsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List Compass Check steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.ListStepsUseCase()
			if err != nil {
				return err
			}
			steps, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tENABLED\tKIND\tNAME")
			for _, s := range steps {
				kind := "interactive"
				if s.Silent {
					kind = "silent"
				}
				enabled := "no"
				if s.Enabled {
					enabled = "yes"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, enabled, kind, s.Name)
			}
			return tw.Flush()
		},
	}
}

func newCompassToggleCommand(c *app.Container, enable bool) *cobra.Command {
	use, short, verb := "disable", "Skip a step in future checks", "Disabled"
	if enable {
		use, short, verb = "enable", "Include a step in future checks", "Enabled"
	}

	return &cobra.Command{
		Use:   use + " <step-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.SetStepEnabledUseCase().Execute(cmd.Context(), usecase.SetStepEnabledInput{
				StepID:  args[0],
				Enabled: enable,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s step %s\n", verb, args[0])
			return nil
		},
	}
}

// newStreakCommand creates the streak command.
func newStreakCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the Compass Check streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowStreakUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Current streak: %d day(s)\n", out.Current)
			_, _ = fmt.Fprintf(w, "Longest streak: %d day(s)\n", out.Longest)
			if out.Last != nil {
				_, _ = fmt.Fprintf(w, "Last check:     %s\n", formatTime(*out.Last))
			}
			if out.Active && !out.Done {
				_, _ = fmt.Fprintln(w, "Run 'tdg compass' to keep it going.")
			}
			return nil
		},
	}
}
