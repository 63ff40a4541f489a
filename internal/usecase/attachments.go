package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase/shared"
)

// AddAttachmentInput contains the parameters for attaching a file.
// Either Path or Data must be set. Filename defaults to the base name of Path.
// Fields are ordered to minimize memory padding.
type AddAttachmentInput struct {
	Path     string // File to read
	Filename string // Stored file name
	Caption  string // Optional caption
	Data     []byte // File content (used when Path is empty)
	TaskID   int    // Task ID (required)
}

// AddAttachmentOutput contains the result of attaching a file.
type AddAttachmentOutput struct {
	Attachment domain.Attachment
}

// AddAttachment is the use case for attaching a file to a task.
// The content type is detected from the data.
type AddAttachment struct {
	tasks  domain.TaskRepository
	clock  domain.TimeProvider
	logger domain.Logger
}

// NewAddAttachment creates a new AddAttachment use case.
func NewAddAttachment(tasks domain.TaskRepository, clock domain.TimeProvider, logger domain.Logger) *AddAttachment {
	return &AddAttachment{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute reads the file and stores it with the task.
func (uc *AddAttachment) Execute(_ context.Context, in AddAttachmentInput) (*AddAttachmentOutput, error) {
	data := in.Data
	filename := in.Filename
	if in.Path != "" {
		content, err := os.ReadFile(in.Path)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		data = content
		if filename == "" {
			filename = filepath.Base(in.Path)
		}
	}
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("attachment needs a file name")
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	att := task.AddAttachment(domain.AttachmentInput{
		Filename:    filename,
		ContentType: mimetype.Detect(data).String(),
		Caption:     in.Caption,
		Data:        data,
	}, uc.clock.Now())
	out := *att

	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("attached %s (%s, %d bytes)", out.Filename, out.ContentType, out.Size))
	}

	return &AddAttachmentOutput{Attachment: out}, nil
}

// PurgeAttachmentInput contains the parameters for purging an attachment.
type PurgeAttachmentInput struct {
	AttachmentID string // Attachment ID or unique prefix (at least 4 characters)
	TaskID       int    // Task ID (required)
}

// PurgeAttachmentOutput contains the purged attachment's metadata.
type PurgeAttachmentOutput struct {
	Attachment domain.Attachment
}

// PurgeAttachment is the use case for dropping the data of an attachment.
// Its metadata stays with the task.
type PurgeAttachment struct {
	tasks  domain.TaskRepository
	clock  domain.TimeProvider
	logger domain.Logger
}

// NewPurgeAttachment creates a new PurgeAttachment use case.
func NewPurgeAttachment(tasks domain.TaskRepository, clock domain.TimeProvider, logger domain.Logger) *PurgeAttachment {
	return &PurgeAttachment{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute purges the attachment.
func (uc *PurgeAttachment) Execute(_ context.Context, in PurgeAttachmentInput) (*PurgeAttachmentOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	att, err := task.FindAttachment(in.AttachmentID)
	if err != nil {
		return nil, err
	}
	if err := task.PurgeAttachment(att.ID, uc.clock.Now()); err != nil {
		return nil, err
	}
	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("purged attachment %s", att.Filename))
	}

	return &PurgeAttachmentOutput{Attachment: *att}, nil
}
