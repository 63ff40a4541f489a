// Package domain contains core business entities and interfaces.
package domain

import (
	"errors"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Task represents one entry of the task list.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created     time.Time    `json:"created" yaml:"created"`                             // Creation time
	Changed     time.Time    `json:"changed" yaml:"changed"`                             // Last mutation of title/details/url/state/tags
	Due         *time.Time   `json:"due,omitempty" yaml:"due,omitempty"`                 // Optional due date
	Closed      *time.Time   `json:"closed,omitempty" yaml:"closed,omitempty"`           // Set while state is closed
	Title       string       `json:"title" yaml:"title"`                                 // Title (required)
	Details     string       `json:"details,omitempty" yaml:"details,omitempty"`         // Body text
	URL         string       `json:"url,omitempty" yaml:"url,omitempty"`                 // Optional link
	State       State        `json:"state" yaml:"state"`                                 // Lifecycle state
	EventID     string       `json:"eventID,omitempty" yaml:"eventID,omitempty"`         // Linked calendar event
	Tags        []string     `json:"tags,omitempty" yaml:"tags,omitempty"`               // Ordered set, lower case
	Comments    []Comment    `json:"comments,omitempty" yaml:"comments,omitempty"`       // Owned notes
	Attachments []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"` // Owned files
	ID          int          `json:"-" yaml:"-"`                                         // Stored as key, not in value
}

// NewTask creates an open task with the given title.
func NewTask(id int, title string, now time.Time) *Task {
	return &Task{
		ID:      id,
		Title:   title,
		State:   StateOpen,
		Created: now,
		Changed: now,
	}
}

// Clone returns a copy of the task that shares no mutable slices or pointers with t.
// Attachment blobs are shared; they are replaced, never written in place.
func (t *Task) Clone() *Task {
	c := *t
	if t.Due != nil {
		due := *t.Due
		c.Due = &due
	}
	if t.Closed != nil {
		closed := *t.Closed
		c.Closed = &closed
	}
	c.Tags = slices.Clone(t.Tags)
	c.Comments = slices.Clone(t.Comments)
	c.Attachments = slices.Clone(t.Attachments)
	return &c
}

// IsActive returns true if the task is open, priority or pending a response.
func (t *Task) IsActive() bool {
	return t.State.IsActive()
}

// IsScheduled returns true if the task links a calendar event.
func (t *Task) IsScheduled() bool {
	return t.EventID != ""
}

// MoveTo sets the state and keeps the closed timestamp consistent with it.
// Any state is reachable from any state.
func (t *Task) MoveTo(state State, now time.Time) {
	t.State = state
	if state == StateClosed {
		closed := now
		t.Closed = &closed
	} else {
		t.Closed = nil
	}
	t.Changed = now
}

// SetTitle updates the title.
func (t *Task) SetTitle(title string, now time.Time) {
	t.Title = title
	t.Changed = now
}

// SetDetails updates the body text.
func (t *Task) SetDetails(details string, now time.Time) {
	t.Details = details
	t.Changed = now
}

// SetURL updates the link.
func (t *Task) SetURL(url string, now time.Time) {
	t.URL = url
	t.Changed = now
}

// SetDue updates the due date. A nil value clears it.
func (t *Task) SetDue(due *time.Time, now time.Time) {
	t.Due = due
	t.Changed = now
}

// NormalizeTag lower-cases and trims a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// HasTag reports whether the task carries the tag.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, NormalizeTag(tag))
}

// AddTag inserts a tag. Adding a duplicate is a no-op and returns false.
func (t *Task) AddTag(tag string, now time.Time) (bool, error) {
	tag = NormalizeTag(tag)
	if tag == "" || strings.ContainsAny(tag, " \t\n,") {
		return false, ErrInvalidTag
	}
	if slices.Contains(t.Tags, tag) {
		return false, nil
	}
	t.Tags = append(t.Tags, tag)
	t.Changed = now
	return true, nil
}

// RemoveTag deletes a tag. Returns false if the tag was not present.
func (t *Task) RemoveTag(tag string, now time.Time) bool {
	tag = NormalizeTag(tag)
	idx := slices.Index(t.Tags, tag)
	if idx < 0 {
		return false
	}
	t.Tags = slices.Delete(t.Tags, idx, idx+1)
	t.Changed = now
	return true
}

// IsDueWithin reports whether the task is active and due no later than now+days.
func (t *Task) IsDueWithin(days int, now time.Time) bool {
	if t.Due == nil || !t.IsActive() {
		return false
	}
	return !t.Due.After(now.AddDate(0, 0, days))
}

// AddComment appends a timestamped note.
func (t *Task) AddComment(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	t.Comments = append(t.Comments, Comment{Time: now, Text: text})
	return nil
}

// markdownHeader is the frontmatter used when editing a task as text.
type markdownHeader struct {
	Title string   `yaml:"title"`
	URL   string   `yaml:"url,omitempty"`
	Due   string   `yaml:"due,omitempty"`
	Tags  []string `yaml:"tags,flow"`
}

const dueLayout = "2006-01-02"

// ToMarkdown converts the task to Markdown with YAML frontmatter.
// Only editable fields are included.
func (t *Task) ToMarkdown() string {
	h := markdownHeader{Title: t.Title, URL: t.URL, Tags: t.Tags}
	if t.Due != nil {
		h.Due = t.Due.Format(dueLayout)
	}
	if h.Tags == nil {
		h.Tags = []string{}
	}
	out, _ := yaml.Marshal(h)
	return "---\n" + string(out) + "---\n\n" + t.Details
}

// FromMarkdown parses Markdown with frontmatter and updates the editable fields.
func (t *Task) FromMarkdown(content string, now time.Time) error {
	if !strings.HasPrefix(content, "---\n") {
		return errors.New("invalid frontmatter: missing opening ---")
	}
	rest := content[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return errors.New("invalid frontmatter: missing closing ---")
	}

	var h markdownHeader
	if err := yaml.Unmarshal([]byte(rest[:end]), &h); err != nil {
		return errors.New("invalid frontmatter: " + err.Error())
	}
	if strings.TrimSpace(h.Title) == "" {
		return ErrEmptyTitle
	}

	var due *time.Time
	if h.Due != "" {
		d, err := time.ParseInLocation(dueLayout, h.Due, now.Location())
		if err != nil {
			return errors.New("invalid due date: must be YYYY-MM-DD")
		}
		due = &d
	}

	body := strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	body = strings.TrimLeft(body, "\n")

	tags := make([]string, 0, len(h.Tags))
	for _, tag := range h.Tags {
		tag = NormalizeTag(tag)
		if tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	t.Title = strings.TrimSpace(h.Title)
	t.URL = h.URL
	t.Due = due
	t.Details = body
	t.Tags = tags
	t.Changed = now
	return nil
}

// Comment represents a note attached to a task.
// Fields are ordered to minimize memory padding.
type Comment struct {
	Time time.Time `json:"time" yaml:"time"` // Creation time
	Text string    `json:"text" yaml:"text"` // Comment text
}

// FillDefaults completes a task loaded from an older store layout.
// Missing timestamps fall back to Created, an unknown state to open, and tags are
// normalized and deduplicated.
func FillDefaults(t *Task) {
	if t.Created.IsZero() {
		t.Created = t.Changed
	}
	if t.Changed.IsZero() {
		t.Changed = t.Created
	}
	if !t.State.IsValid() {
		t.State = StateOpen
	}
	switch {
	case t.State == StateClosed && t.Closed == nil:
		closed := t.Changed
		t.Closed = &closed
	case t.State != StateClosed:
		t.Closed = nil
	}

	if len(t.Tags) > 0 {
		tags := make([]string, 0, len(t.Tags))
		for _, tag := range t.Tags {
			tag = NormalizeTag(tag)
			if tag != "" && !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
		t.Tags = tags
	}

	for i := range t.Attachments {
		a := &t.Attachments[i]
		if a.Size == 0 && len(a.Data) > 0 {
			a.Size = int64(len(a.Data))
		}
		if a.Created.IsZero() {
			a.Created = t.Created
		}
	}
}
