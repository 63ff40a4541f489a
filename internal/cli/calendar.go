package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

const accessDeniedHint = "Calendar access denied; enable it with [calendar] enabled = true in config.toml"

// newScheduleCommand creates the schedule command.
func newScheduleCommand(c *app.Container) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "schedule <id> <start>",
		Short: "Put a task on the calendar",
		Long: `Create a calendar event for a task, or move the existing one.
The event carries the task's title, details and link.

Start formats: "YYYY-MM-DD HH:MM", HH:MM (today) or RFC 3339.

Examples:
  tdg schedule 3 "2025-01-16 10:00"
  tdg schedule 3 15:30 --duration 1h`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			start, err := parseWhen(args[1], c.Clock)
			if err != nil {
				return err
			}

			out, err := c.ScheduleTaskUseCase().Execute(cmd.Context(), usecase.ScheduleTaskInput{
				TaskID:   taskID,
				Start:    start,
				Duration: duration,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !out.Scheduled {
				_, _ = fmt.Fprintln(w, accessDeniedHint)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Scheduled task #%d at %s\n", taskID, formatTime(start))
			if out.Recreated {
				_, _ = fmt.Fprintln(w, "The previous event was gone and has been recreated")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "Event length (default: [calendar] default_duration)")

	return cmd
}

// newUnscheduleCommand creates the unschedule command.
func newUnscheduleCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule <id>",
		Short: "Remove a task from the calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			out, err := c.UnscheduleTaskUseCase().Execute(cmd.Context(), usecase.UnscheduleTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case !out.Unscheduled:
				_, _ = fmt.Fprintln(w, accessDeniedHint)
			case out.EventRemoved:
				_, _ = fmt.Fprintf(w, "Unscheduled task #%d\n", taskID)
			default:
				_, _ = fmt.Fprintf(w, "Unscheduled task #%d (the event was already gone)\n", taskID)
			}
			return nil
		},
	}
}

// newEventsCommand creates the events command.
func newEventsCommand(c *app.Container) *cobra.Command {
	var opts struct {
		From string
		Days int
	}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming calendar events",
		Long: `List calendar events in a range of days, starting today unless --from
is given. Events linked to a task show its ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListEventsInput{Days: opts.Days}
			if opts.From != "" {
				from, err := parseDate(opts.From, c.Clock)
				if err != nil {
					return err
				}
				input.From = from
			}

			out, err := c.ListEventsUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Denied {
				_, _ = fmt.Fprintln(w, accessDeniedHint)
				return nil
			}
			if len(out.Events) == 0 {
				_, _ = fmt.Fprintf(w, "No events between %s and %s\n", out.From.Format(dateLayout), out.To.Format(dateLayout))
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "START\tEND\tTASK\tTITLE")
			for _, ev := range out.Events {
				ref := "-"
				if task, ok := out.Tasks[ev.ID]; ok {
					ref = fmt.Sprintf("#%d", task.ID)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatTime(ev.Start), ev.End.Format("15:04"), ref, ev.Title)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "First day (YYYY-MM-DD, today, tomorrow, +Nd)")
	cmd.Flags().IntVar(&opts.Days, "days", 7, "Number of days")

	return cmd
}

// newICSCommand creates the ics command.
func newICSCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Output string
		Days   int
	}

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export upcoming events as iCalendar",
		Long: `Write upcoming calendar events as an iCalendar (.ics) document that other
calendar applications can subscribe to or import.

Examples:
  tdg ics > tdg.ics
  tdg ics --days 90 -o ~/Calendars/tdg.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if opts.Output != "" {
				f, err := os.Create(opts.Output)
				if err != nil {
					return fmt.Errorf("create %s: %w", opts.Output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			out, err := c.ExportCalendarUseCase().Execute(cmd.Context(), usecase.ExportCalendarInput{
				Out:  w,
				Days: opts.Days,
			})
			if err != nil {
				return err
			}

			if opts.Output != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d event(s) to %s\n", out.Count, opts.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().IntVar(&opts.Days, "days", 30, "Number of days to export")

	return cmd
}
