// Package calendar provides a local calendar that tasks can be scheduled into.
// Events are kept in a JSON file next to the task store and can be exported as iCalendar.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// fileData represents the JSON file structure.
type fileData struct {
	Events []domain.Event `json:"events"`
}

// Store implements domain.Calendar on a JSON file.
type Store struct {
	gate *AccessGate
	path string
	mu   sync.Mutex
}

// New creates a calendar at path. Access is granted when enabled is true.
func New(path string, enabled bool) *Store {
	return NewWithGate(path, NewAccessGate(func(context.Context) (bool, error) {
		return enabled, nil
	}))
}

// NewWithGate creates a calendar whose access is decided by gate.
func NewWithGate(path string, gate *AccessGate) *Store {
	return &Store{path: path, gate: gate}
}

// RequestAccess waits for the access decision.
func (s *Store) RequestAccess(ctx context.Context) (bool, error) {
	return s.gate.Wait(ctx)
}

func (s *Store) authorize(ctx context.Context) error {
	granted, err := s.gate.Wait(ctx)
	if err != nil {
		return fmt.Errorf("request calendar access: %w", err)
	}
	if !granted {
		return domain.ErrCalendarAccessDenied
	}
	return nil
}

// FetchEvents returns events overlapping [from, to), ordered by start.
func (s *Store) FetchEvents(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	var out []domain.Event
	for _, e := range data.Events {
		if e.Start.Before(to) && e.End.After(from) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b domain.Event) int { return a.Start.Compare(b.Start) })
	return out, nil
}

// CreateEvent stores a new event and returns its ID.
func (s *Store) CreateEvent(ctx context.Context, draft domain.EventDraft) (string, error) {
	if err := s.authorize(ctx); err != nil {
		return "", err
	}
	duration := draft.Duration
	if duration <= 0 {
		duration = domain.DefaultEventDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return "", err
	}
	event := domain.Event{
		ID:       uuid.NewString(),
		Title:    draft.Title,
		Notes:    draft.Notes,
		URL:      draft.URL,
		Calendar: draft.Calendar,
		Start:    draft.Start,
		End:      draft.Start.Add(duration),
	}
	data.Events = append(data.Events, event)
	if err := s.write(data); err != nil {
		return "", err
	}
	return event.ID, nil
}

// UpdateEvent moves an event. Returns false if it no longer exists.
func (s *Store) UpdateEvent(ctx context.Context, id string, start time.Time, duration time.Duration) (bool, error) {
	if err := s.authorize(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	idx := slices.IndexFunc(data.Events, func(e domain.Event) bool { return e.ID == id })
	if idx < 0 {
		return false, nil
	}
	if duration <= 0 {
		duration = data.Events[idx].End.Sub(data.Events[idx].Start)
	}
	data.Events[idx].Start = start
	data.Events[idx].End = start.Add(duration)
	return true, s.write(data)
}

// DeleteEvent removes an event. Returns false if it no longer exists.
func (s *Store) DeleteEvent(ctx context.Context, id string) (bool, error) {
	if err := s.authorize(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	idx := slices.IndexFunc(data.Events, func(e domain.Event) bool { return e.ID == id })
	if idx < 0 {
		return false, nil
	}
	data.Events = slices.Delete(data.Events, idx, idx+1)
	return true, s.write(data)
}

// EventStart returns the start of an event, or nil if it no longer exists.
func (s *Store) EventStart(ctx context.Context, id string) (*time.Time, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, e := range data.Events {
		if e.ID == id {
			start := e.Start
			return &start, nil
		}
	}
	return nil, nil
}

func (s *Store) read() (*fileData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileData{}, nil
		}
		return nil, fmt.Errorf("read calendar: %w", err)
	}
	var data fileData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse calendar %s: %w", s.path, err)
	}
	return &data, nil
}

func (s *Store) write(data *fileData) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal calendar: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

var _ domain.Calendar = (*Store)(nil)
