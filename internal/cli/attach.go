package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// attachmentIDLen is the number of ID characters shown in listings.
const attachmentIDLen = 8

// newAttachCommand creates the attach command.
func newAttachCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Caption string
		Name    string
	}

	cmd := &cobra.Command{
		Use:   "attach <id> <file>",
		Short: "Attach a file to a task",
		Long: `Store a copy of a file with a task. The content type is detected from
the file's content.

Examples:
  tdg attach 3 ~/Downloads/invoice.pdf
  tdg attach 3 photo.jpg --caption "Broken hinge"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			out, err := c.AddAttachmentUseCase().Execute(cmd.Context(), usecase.AddAttachmentInput{
				TaskID:   taskID,
				Path:     args[1],
				Filename: opts.Name,
				Caption:  opts.Caption,
			})
			if err != nil {
				return err
			}

			a := out.Attachment
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Attached %s to task #%d (%s, %s, id %s)\n",
				a.Filename, taskID, a.ContentType, formatSize(a.Size), shortID(a.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Caption, "caption", "", "Caption")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Stored file name (default: base name of the file)")

	return cmd
}

// newPurgeCommand creates the purge command.
func newPurgeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <id> <attachment-id>",
		Short: "Drop the data of an attachment",
		Long: `Drop the stored data of an attachment. Its name, type, size and caption
stay with the task. The attachment ID may be shortened to a unique prefix of
at least 4 characters (see 'tdg show').`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			out, err := c.PurgeAttachmentUseCase().Execute(cmd.Context(), usecase.PurgeAttachmentInput{
				TaskID:       taskID,
				AttachmentID: args[1],
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Purged %s from task #%d\n", out.Attachment.Filename, taskID)
			return nil
		},
	}
}

func printAttachments(w io.Writer, attachments []domain.Attachment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	for _, a := range attachments {
		size := formatSize(a.Size)
		if a.IsPurged() {
			size += " (purged)"
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", shortID(a.ID), a.Filename, a.ContentType, size, a.Caption)
	}
}

func shortID(id string) string {
	if len(id) <= attachmentIDLen {
		return id
	}
	return id[:attachmentIDLen]
}
