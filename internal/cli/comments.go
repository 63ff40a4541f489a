package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// newCommentCommand creates the comment command for adding or editing comments.
func newCommentCommand(c *app.Container) *cobra.Command {
	var edit int

	cmd := &cobra.Command{
		Use:   "comment <id> <message>",
		Short: "Add a comment to a task",
		Long: `Add a comment to a task, or replace an existing one with --edit.
Comments are numbered from 0 in the order they were written (see 'tdg comments').

Examples:
  tdg comment 3 "Called, they will ring back on Monday"
  tdg comment 3 --edit 0 "Called twice, no answer"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			message := strings.Join(args[1:], " ")

			if cmd.Flags().Changed("edit") {
				if err := c.EditCommentUseCase().Execute(cmd.Context(), usecase.EditCommentInput{
					TaskID:  taskID,
					Index:   edit,
					Message: message,
				}); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated comment %d on task #%d\n", edit, taskID)
				return nil
			}

			if _, err := c.AddCommentUseCase().Execute(cmd.Context(), usecase.AddCommentInput{
				TaskID:  taskID,
				Message: message,
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added comment to task #%d\n", taskID)
			return nil
		},
	}

	cmd.Flags().IntVar(&edit, "edit", 0, "Replace the comment at this index")

	return cmd
}

// newCommentsCommand creates the comments command for listing a task's comments.
func newCommentsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <id>",
		Short: "List comments of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			out, err := c.ListCommentsUseCase().Execute(cmd.Context(), usecase.ListCommentsInput{TaskID: taskID})
			if err != nil {
				return err
			}

			if len(out.Comments) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d has no comments.\n", taskID)
				return nil
			}
			printComments(cmd.OutOrStdout(), out.Comments)
			return nil
		},
	}
}

func printComments(w io.Writer, comments []domain.Comment) {
	for i, comment := range comments {
		lines := strings.Split(strings.TrimRight(comment.Text, "\n"), "\n")
		_, _ = fmt.Fprintf(w, "  [%d] %s  %s\n", i, formatTime(comment.Time), lines[0])
		for _, line := range lines[1:] {
			_, _ = fmt.Fprintf(w, "      %s\n", line)
		}
	}
}
