package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TaskDraft represents a task to be created from file input.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	Due     *time.Time
	Title   string
	Details string
	URL     string
	State   State
	Tags    []string
}

// draftHeader is the frontmatter of one task block.
type draftHeader struct {
	Title string   `yaml:"title"`
	URL   string   `yaml:"url"`
	Due   string   `yaml:"due"`
	State string   `yaml:"state"`
	Tags  []string `yaml:"tags"`
}

// draftKeys are the frontmatter keys that mark the start of a new block.
var draftKeys = []string{"title:", "tags:", "due:", "url:", "state:"}

// ParseTaskDrafts parses a Markdown file containing one or more task definitions.
// Each task starts with a frontmatter block delimited by "---" lines.
// Due dates are read as YYYY-MM-DD in loc.
//
// Format:
//
//	---
//	title: Call the plumber
//	tags: [home, urgent]
//	due: 2025-01-20
//	---
//	Kitchen sink is leaking.
//
//	---
//	title: Renew passport
//	state: priority
//	---
func ParseTaskDrafts(content string, loc *time.Location) ([]TaskDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	blocks := splitTaskBlocks(content)
	if len(blocks) == 0 {
		return nil, ErrNoTasksInFile
	}

	drafts := make([]TaskDraft, 0, len(blocks))
	for i, block := range blocks {
		draft, err := parseTaskBlock(block, loc)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// splitTaskBlocks splits content into task blocks without the opening "---".
// A "---" line followed by a frontmatter key starts a new block; any other
// "---" after a block's header is part of its details.
func splitTaskBlocks(content string) []string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var blocks []string
	var current []string
	started := false
	headerClosed := false

	for i, line := range lines {
		if strings.TrimRight(line, " \t") != "---" {
			if started {
				current = append(current, line)
			}
			continue
		}
		switch {
		case !started:
			started = true
		case !headerClosed:
			headerClosed = true
			current = append(current, line)
		case i+1 < len(lines) && isDraftKey(lines[i+1]):
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
			headerClosed = false
		default:
			current = append(current, line)
		}
	}
	if started && len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

func isDraftKey(line string) bool {
	for _, key := range draftKeys {
		if strings.HasPrefix(line, key) {
			return true
		}
	}
	return false
}

// parseTaskBlock parses a header, a closing "---" and the details.
func parseTaskBlock(block string, loc *time.Location) (TaskDraft, error) {
	header, details, _ := strings.Cut(block, "\n---")

	var h draftHeader
	if err := yaml.Unmarshal([]byte(header), &h); err != nil {
		return TaskDraft{}, errors.New("invalid frontmatter: " + err.Error())
	}
	if strings.TrimSpace(h.Title) == "" {
		return TaskDraft{}, ErrEmptyTitle
	}

	draft := TaskDraft{
		Title:   strings.TrimSpace(h.Title),
		URL:     strings.TrimSpace(h.URL),
		Details: strings.Trim(strings.TrimPrefix(details, "\n"), "\n"),
		State:   StateOpen,
	}
	if h.State != "" {
		state, err := ParseState(h.State)
		if err != nil {
			return TaskDraft{}, fmt.Errorf("state %q: %w", h.State, err)
		}
		draft.State = state
	}
	if h.Due != "" {
		due, err := time.ParseInLocation(dueLayout, h.Due, loc)
		if err != nil {
			return TaskDraft{}, errors.New("invalid due date: must be YYYY-MM-DD")
		}
		draft.Due = &due
	}
	for _, tag := range h.Tags {
		tag = NormalizeTag(tag)
		if tag == "" {
			continue
		}
		if strings.ContainsAny(tag, " \t\n,") {
			return TaskDraft{}, fmt.Errorf("tag %q: %w", tag, ErrInvalidTag)
		}
		if !slices.Contains(draft.Tags, tag) {
			draft.Tags = append(draft.Tags, tag)
		}
	}
	return draft, nil
}
