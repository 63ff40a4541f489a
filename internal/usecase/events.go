package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// ListEventsInput contains the parameters for listing calendar events.
type ListEventsInput struct {
	From time.Time // Range start (zero = start of today)
	Days int       // Range length in days (0 = 7)
}

// ListEventsOutput contains the events in the range, with the tasks linking them.
type ListEventsOutput struct {
	From   time.Time
	To     time.Time
	Events []domain.Event
	Tasks  map[string]*domain.Task // Keyed by event ID
	Denied bool                    // Calendar access was refused
}

// ListEvents is the use case for showing upcoming calendar events.
type ListEvents struct {
	tasks    domain.TaskRepository
	calendar domain.Calendar
	clock    domain.TimeProvider
}

// NewListEvents creates a new ListEvents use case.
func NewListEvents(tasks domain.TaskRepository, calendar domain.Calendar, clock domain.TimeProvider) *ListEvents {
	return &ListEvents{
		tasks:    tasks,
		calendar: calendar,
		clock:    clock,
	}
}

// Execute fetches events in [From, From+Days).
func (uc *ListEvents) Execute(ctx context.Context, in ListEventsInput) (*ListEventsOutput, error) {
	from := in.From
	if from.IsZero() {
		from = domain.DateInDays(uc.clock, 0)
	}
	days := in.Days
	if days <= 0 {
		days = 7
	}
	out := &ListEventsOutput{From: from, To: from.AddDate(0, 0, days), Tasks: make(map[string]*domain.Task)}

	granted, err := uc.calendar.RequestAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("request calendar access: %w", err)
	}
	if !granted {
		out.Denied = true
		return out, nil
	}

	events, err := uc.calendar.FetchEvents(ctx, out.From, out.To)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	out.Events = events

	tasks, err := uc.tasks.List(domain.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for _, t := range tasks {
		if t.IsScheduled() {
			out.Tasks[t.EventID] = t
		}
	}
	return out, nil
}

// ExportCalendarInput contains the parameters for an iCalendar export.
type ExportCalendarInput struct {
	Out  io.Writer // Destination (required)
	From time.Time // Range start (zero = start of today)
	Days int       // Range length in days (0 = 30)
}

// ExportCalendarOutput reports how many events were written.
type ExportCalendarOutput struct {
	Count int
}

// ICSWriter renders events as an iCalendar document.
type ICSWriter func(w io.Writer, events []domain.Event, now time.Time) error

// ExportCalendar is the use case for exporting scheduled events.
type ExportCalendar struct {
	calendar domain.Calendar
	clock    domain.TimeProvider
	write    ICSWriter
}

// NewExportCalendar creates a new ExportCalendar use case.
func NewExportCalendar(calendar domain.Calendar, clock domain.TimeProvider, write ICSWriter) *ExportCalendar {
	return &ExportCalendar{
		calendar: calendar,
		clock:    clock,
		write:    write,
	}
}

// Execute writes the events in range to in.Out.
func (uc *ExportCalendar) Execute(ctx context.Context, in ExportCalendarInput) (*ExportCalendarOutput, error) {
	from := in.From
	if from.IsZero() {
		from = domain.DateInDays(uc.clock, 0)
	}
	days := in.Days
	if days <= 0 {
		days = 30
	}

	granted, err := uc.calendar.RequestAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("request calendar access: %w", err)
	}
	if !granted {
		return nil, domain.ErrCalendarAccessDenied
	}

	events, err := uc.calendar.FetchEvents(ctx, from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	if err := uc.write(in.Out, events, uc.clock.Now()); err != nil {
		return nil, fmt.Errorf("write calendar: %w", err)
	}
	return &ExportCalendarOutput{Count: len(events)}, nil
}
