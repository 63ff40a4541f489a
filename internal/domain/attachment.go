package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Attachment is a file owned by a task.
// A purged attachment keeps its metadata but no longer carries data.
// Fields are ordered to minimize memory padding.
type Attachment struct {
	Created     time.Time  `json:"created" yaml:"created"`
	Purged      *time.Time `json:"purged,omitempty" yaml:"purged,omitempty"`
	ID          string     `json:"id" yaml:"id"`
	Filename    string     `json:"filename" yaml:"filename"`
	ContentType string     `json:"contentType" yaml:"contentType"`
	Caption     string     `json:"caption,omitempty" yaml:"caption,omitempty"`
	Data        []byte     `json:"data,omitempty" yaml:"-"`
	Size        int64      `json:"size" yaml:"size"`
	SortIndex   int        `json:"sortIndex" yaml:"sortIndex"`
}

// IsPurged returns true if the blob has been cleared.
func (a *Attachment) IsPurged() bool {
	return a.Purged != nil
}

// AttachmentInput describes a file to attach.
type AttachmentInput struct {
	Filename    string
	ContentType string
	Caption     string
	Data        []byte
}

// AddAttachment appends a new attachment at the end of the sort order.
func (t *Task) AddAttachment(in AttachmentInput, now time.Time) *Attachment {
	next := 0
	for _, a := range t.Attachments {
		if a.SortIndex >= next {
			next = a.SortIndex + 1
		}
	}
	t.Attachments = append(t.Attachments, Attachment{
		ID:          uuid.NewString(),
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Caption:     in.Caption,
		Data:        in.Data,
		Size:        int64(len(in.Data)),
		SortIndex:   next,
		Created:     now,
	})
	return &t.Attachments[len(t.Attachments)-1]
}

// FindAttachment looks up an attachment by ID or unique ID prefix.
func (t *Task) FindAttachment(id string) (*Attachment, error) {
	found := -1
	for i := range t.Attachments {
		a := &t.Attachments[i]
		if a.ID == id {
			return a, nil
		}
		if len(id) >= 4 && len(a.ID) > len(id) && a.ID[:len(id)] == id {
			if found >= 0 {
				return nil, ErrAttachmentNotFound
			}
			found = i
		}
	}
	if found < 0 {
		return nil, ErrAttachmentNotFound
	}
	return &t.Attachments[found], nil
}

// PurgeAttachment clears the data of an attachment and records when.
// Purging twice keeps the first timestamp.
func (t *Task) PurgeAttachment(id string, now time.Time) error {
	a, err := t.FindAttachment(id)
	if err != nil {
		return err
	}
	if a.IsPurged() {
		return nil
	}
	purged := now
	a.Purged = &purged
	a.Data = nil
	return nil
}

// SortedAttachments returns attachments ordered by SortIndex.
func (t *Task) SortedAttachments() []Attachment {
	out := slices.Clone(t.Attachments)
	slices.SortStableFunc(out, func(a, b Attachment) int {
		return a.SortIndex - b.SortIndex
	})
	return out
}
