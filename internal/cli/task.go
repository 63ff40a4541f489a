package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// defaultTitleWidth is the title column width of the list output.
const defaultTitleWidth = 50

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Details string
		URL     string
		Due     string
		State   string
		Tags    []string
	}

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new task",
		Long: `Create a new task. New tasks are open unless --state says otherwise.

Examples:
  # Create an open task
  tdg new "Call the plumber"

  # Make it one of today's priorities, due tomorrow
  tdg new "Renew passport" --state priority --due tomorrow

  # With tags and details
  tdg new "Fix fence" --tag home --tag weekend --details "Bring the long screws"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.NewTaskInput{
				Title:   strings.Join(args, " "),
				Details: opts.Details,
				URL:     opts.URL,
				Tags:    opts.Tags,
			}
			if opts.State != "" {
				state, err := domain.ParseState(opts.State)
				if err != nil {
					return fmt.Errorf("state %q: %w", opts.State, err)
				}
				input.State = state
			}
			if opts.Due != "" {
				due, err := parseDate(opts.Due, c.Clock)
				if err != nil {
					return err
				}
				input.Due = &due
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Details, "details", "", "Task details")
	cmd.Flags().StringVar(&opts.URL, "url", "", "Link")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD, today, tomorrow, +Nd)")
	cmd.Flags().StringVar(&opts.State, "state", "", "Initial state (open, priority, pending, closed, dead)")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "Tag (can specify multiple)")

	return cmd
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		States []string
		Tags   []string
		Width  int
		All    bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display tasks grouped by state.

By default only active tasks (priority, open, pending response) are shown.
Use --all to include closed tasks and the graveyard, or --state to pick lists.

Output columns: ID, DUE, TAGS, TITLE

Examples:
  # Active tasks
  tdg list

  # Only today's priorities
  tdg list --state priority

  # Everything tagged "home"
  tdg list --all --tag home`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{Tags: opts.Tags, All: opts.All}
			for _, s := range opts.States {
				state, err := domain.ParseState(s)
				if err != nil {
					return fmt.Errorf("state %q: %w", s, err)
				}
				input.States = append(input.States, state)
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if out.Total == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			printTaskGroups(cmd.OutOrStdout(), out.Groups, opts.Width)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&opts.States, "state", "s", nil, "Filter by state (can specify multiple)")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Filter by tag (can specify multiple, AND condition)")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include closed tasks and the graveyard")
	cmd.Flags().IntVar(&opts.Width, "width", defaultTitleWidth, "Maximum title width")

	return cmd
}

// printTaskGroups prints one tab-aligned block per state.
func printTaskGroups(w io.Writer, groups []usecase.TaskGroup, width int) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	for i, g := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(tw)
		}
		_, _ = fmt.Fprintf(tw, "%s (%d)\n", g.State.Display(), len(g.Tasks))
		for _, task := range g.Tasks {
			due := "-"
			if task.Due != nil {
				due = task.Due.Format(dateLayout)
			}
			tags := "-"
			if len(task.Tags) > 0 {
				tags = "[" + strings.Join(task.Tags, ",") + "]"
			}
			title := task.Title
			if width > 0 {
				title = truncate.StringWithTail(title, uint(width), "…")
			}
			if task.IsScheduled() {
				title += " ⏰"
			}
			_, _ = fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\n", task.ID, due, tags, title)
		}
	}
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
		Log  bool
	}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task: state, dates, tags,
the linked calendar event, details, comments and attachments.

Examples:
  tdg show 3
  tdg show 3 --json
  tdg show 3 --log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{
				TaskID:     taskID,
				IncludeLog: opts.Log,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeTaskJSON(cmd.OutOrStdout(), out)
			}
			printTaskDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.Log, "log", false, "Include the task's log")

	return cmd
}

// writeTaskJSON encodes a task without attachment data.
func writeTaskJSON(w io.Writer, out *usecase.ShowTaskOutput) error {
	task := *out.Task
	task.Attachments = make([]domain.Attachment, len(out.Task.Attachments))
	for i, a := range out.Task.Attachments {
		a.Data = nil
		task.Attachments[i] = a
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	type jsonTask struct {
		*domain.Task
		EventStart *time.Time `json:"eventStart,omitempty"`
		ID         int        `json:"id"`
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonTask{Task: &task, ID: task.ID, EventStart: out.EventStart})
}

// printTaskDetails prints task details in a human-readable format.
func printTaskDetails(w io.Writer, out *usecase.ShowTaskOutput) {
	task := out.Task
	_, _ = fmt.Fprintf(w, "#%d %s\n\n", task.ID, task.Title)

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(tw, "State:\t%s\n", task.State.Display())
	if len(task.Tags) > 0 {
		_, _ = fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(task.Tags, ", "))
	}
	if task.Due != nil {
		_, _ = fmt.Fprintf(tw, "Due:\t%s\n", task.Due.Format(dateLayout))
	}
	if task.URL != "" {
		_, _ = fmt.Fprintf(tw, "URL:\t%s\n", task.URL)
	}
	_, _ = fmt.Fprintf(tw, "Created:\t%s\n", formatTime(task.Created))
	_, _ = fmt.Fprintf(tw, "Changed:\t%s\n", formatTime(task.Changed))
	if task.Closed != nil {
		_, _ = fmt.Fprintf(tw, "Closed:\t%s\n", formatTime(*task.Closed))
	}
	switch {
	case out.EventStart != nil:
		_, _ = fmt.Fprintf(tw, "Scheduled:\t%s\n", formatTime(*out.EventStart))
	case task.IsScheduled():
		_, _ = fmt.Fprintf(tw, "Scheduled:\t(event %s unavailable)\n", task.EventID)
	}
	_ = tw.Flush()

	if task.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", strings.TrimRight(task.Details, "\n"))
	}

	if len(task.Comments) > 0 {
		_, _ = fmt.Fprintln(w, "\nComments:")
		printComments(w, task.Comments)
	}

	if len(task.Attachments) > 0 {
		_, _ = fmt.Fprintln(w, "\nAttachments:")
		printAttachments(w, task.SortedAttachments())
	}

	if out.Log != "" {
		_, _ = fmt.Fprintf(w, "\nLog:\n%s\n", strings.TrimRight(out.Log, "\n"))
	}
}

// newEditCommand creates the edit command for editing task information.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title   string
		Details string
		URL     string
		Due     string
		From    string
		NoDue   bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task information",
		Long: `Edit a task's title, details, link, tags or due date.

Without flags the task is opened in $EDITOR as Markdown with a YAML
frontmatter (title, url, due, tags) followed by the details.

Examples:
  # Open task in editor
  tdg edit 3

  # Change the title
  tdg edit 3 --title "Renew passport and ID"

  # Move the due date, or remove it
  tdg edit 3 --due +2d
  tdg edit 3 --no-due

  # Replace everything from a file
  tdg edit 3 --from task.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("details") && !flags.Changed("url") &&
				!flags.Changed("due") && !opts.NoDue && opts.From == "" {
				return editTaskWithEditor(cmd, c, taskID)
			}

			input := usecase.EditTaskInput{TaskID: taskID, ClearDue: opts.NoDue}
			if opts.From != "" {
				content, readErr := readInput(cmd, opts.From)
				if readErr != nil {
					return readErr
				}
				input.Markdown = &content
			}
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("details") {
				input.Details = &opts.Details
			}
			if flags.Changed("url") {
				input.URL = &opts.URL
			}
			if flags.Changed("due") {
				due, parseErr := parseDate(opts.Due, c.Clock)
				if parseErr != nil {
					return parseErr
				}
				input.Due = &due
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Details, "details", "", "New details")
	cmd.Flags().StringVar(&opts.URL, "url", "", "New link (empty clears it)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD, today, tomorrow, +Nd)")
	cmd.Flags().BoolVar(&opts.NoDue, "no-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")
	cmd.Flags().StringVar(&opts.From, "from", "", "Replace the task from a Markdown file (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("from", "title")
	cmd.MarkFlagsMutuallyExclusive("from", "details")

	return cmd
}

// editTaskWithEditor opens the task in an editor for editing.
func editTaskWithEditor(cmd *cobra.Command, c *app.Container, taskID int) error {
	showOut, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
	if err != nil {
		return err
	}

	markdown := showOut.Task.ToMarkdown()
	edited, err := editText(fmt.Sprintf("tdg-task-%d-*.md", taskID), markdown)
	if err != nil {
		return err
	}

	if edited == markdown {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
		return nil
	}

	if _, err := c.EditTaskUseCase().Execute(cmd.Context(), usecase.EditTaskInput{
		TaskID:   taskID,
		Markdown: &edited,
	}); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", taskID)
	return nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

// newMoveCommand creates the mv command for changing a task's state.
func newMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <state>",
		Short: "Move a task to another list",
		Long: `Move a task to another state. Any state can be reached from any state.

States: open, priority (prio), pending (pendingResponse), closed (done), dead (graveyard)

Examples:
  tdg mv 3 priority
  tdg mv 3 done`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			state, err := domain.ParseState(args[1])
			if err != nil {
				return fmt.Errorf("state %q: %w", args[1], err)
			}

			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), usecase.MoveTaskInput{TaskID: taskID, State: state})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task #%d: %s -> %s\n", taskID, out.From.Display(), out.Task.State.Display())
			return nil
		},
	}
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task permanently, together with its comments and attachments.
A linked calendar event is removed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", taskID)
			if out.EventRemoved {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Removed linked calendar event")
			}
			return nil
		},
	}
}

// newCpCommand creates the cp command for copying tasks.
func newCpCommand(c *app.Container) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "cp <id>",
		Short: "Copy a task",
		Long: `Create an open copy of a task with the same details, link, tags and due date.
Comments, attachments and the calendar event are not copied.

Examples:
  tdg cp 3
  tdg cp 3 --title "Renew passport (Anna)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			input := usecase.CopyTaskInput{SourceID: sourceID}
			if cmd.Flags().Changed("title") {
				input.Title = &title
			}

			out, err := c.CopyTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Copied task #%d to #%d\n", sourceID, out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title of the copy (default: \"<title> (copy)\")")

	return cmd
}

// newImportCommand creates the import command for creating tasks from a file.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks from a Markdown file",
		Long: `Create tasks from a Markdown file. Use - to read from stdin.
Every task is validated before any is created.

File format:
  ---
  title: Call the plumber
  tags: [home, urgent]
  due: 2025-01-20
  ---
  Kitchen sink is leaking.

  ---
  title: Renew passport
  state: priority
  url: https://example.com/passport
  ---`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: content,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if dryRun {
				_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
			}
			for i, task := range out.Tasks {
				ref := fmt.Sprintf("#%d", task.ID)
				if dryRun {
					ref = fmt.Sprintf("%d.", i+1)
				}
				line := fmt.Sprintf("  %s [%s] %s", ref, task.State, task.Title)
				if len(task.Tags) > 0 {
					line += " [" + strings.Join(task.Tags, ",") + "]"
				}
				if task.Due != nil {
					line += " due " + task.Due.Format(dateLayout)
				}
				_, _ = fmt.Fprintln(w, line)
			}
			if !dryRun {
				_, _ = fmt.Fprintf(w, "Created %d task(s)\n", len(out.Tasks))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and preview without creating")

	return cmd
}

// newTagCommand creates the tag command.
func newTagCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> <tag>...",
		Short: "Add tags to a task",
		Long: `Add tags to a task. Tags are lower-cased; duplicates are ignored.
A tag cannot contain whitespace or commas.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTagTask(cmd, c, args, true)
		},
	}
}

// newUntagCommand creates the untag command.
func newUntagCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "untag <id> <tag>...",
		Short: "Remove tags from a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTagTask(cmd, c, args, false)
		},
	}
}

func runTagTask(cmd *cobra.Command, c *app.Container, args []string, add bool) error {
	taskID, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	input := usecase.TagTaskInput{TaskID: taskID}
	if add {
		input.Add = args[1:]
	} else {
		input.Remove = args[1:]
	}

	out, err := c.TagTaskUseCase().Execute(cmd.Context(), input)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if !out.Changed {
		_, _ = fmt.Fprintf(w, "Task #%d unchanged\n", taskID)
		return nil
	}
	tags := "(none)"
	if len(out.Task.Tags) > 0 {
		tags = strings.Join(out.Task.Tags, ", ")
	}
	_, _ = fmt.Fprintf(w, "Task #%d tags: %s\n", taskID, tags)
	return nil
}
