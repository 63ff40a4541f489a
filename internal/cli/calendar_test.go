package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

func TestNewScheduleCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)
	cal := container.Calendar.(*testutil.MockCalendar)

	out, err := execute(t, newScheduleCommand(container), "1", "2025-01-16 10:00", "--duration", "45m")

	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled task #1 at 2025-01-16 10:00")
	assert.Equal(t, "event-1", repo.Tasks[1].EventID)
	ev := cal.Events["event-1"]
	assert.Equal(t, "Dentist", ev.Title)
	assert.Equal(t, 45*time.Minute, ev.End.Sub(ev.Start))
}

func TestNewScheduleCommand_MovesExistingEvent(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)
	cal := container.Calendar.(*testutil.MockCalendar)

	_, err := execute(t, newScheduleCommand(container), "1", "10:00")
	require.NoError(t, err)
	out, err := execute(t, newScheduleCommand(container), "1", "16:30")

	require.NoError(t, err)
	assert.NotContains(t, out, "recreated")
	require.Len(t, cal.Events, 1)
	assert.Equal(t, 16, cal.Events["event-1"].Start.Hour())
}

func TestNewScheduleCommand_RecreatesMissingEvent(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := addTask(repo, 1, "Dentist", domain.StatePriority)
	task.EventID = "gone"
	container := newTestContainer(t, repo)

	out, err := execute(t, newScheduleCommand(container), "1", "10:00")

	require.NoError(t, err)
	assert.Contains(t, out, "has been recreated")
	assert.Equal(t, "event-1", repo.Tasks[1].EventID)
}

func TestNewScheduleCommand_AccessDenied(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)
	container.Calendar.(*testutil.MockCalendar).Granted = false

	out, err := execute(t, newScheduleCommand(container), "1", "10:00")

	require.NoError(t, err)
	assert.Contains(t, out, accessDeniedHint)
	assert.Empty(t, repo.Tasks[1].EventID)
}

func TestNewScheduleCommand_InvalidStart(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)

	_, err := execute(t, newScheduleCommand(container), "1", "next week")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start")
}

func TestNewUnscheduleCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)
	cal := container.Calendar.(*testutil.MockCalendar)
	_, err := execute(t, newScheduleCommand(container), "1", "10:00")
	require.NoError(t, err)

	out, err := execute(t, newUnscheduleCommand(container), "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Unscheduled task #1")
	assert.Empty(t, repo.Tasks[1].EventID)
	assert.Empty(t, cal.Events)
}

func TestNewUnscheduleCommand_EventAlreadyGone(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := addTask(repo, 1, "Dentist", domain.StatePriority)
	task.EventID = "gone"
	container := newTestContainer(t, repo)

	out, err := execute(t, newUnscheduleCommand(container), "1")

	require.NoError(t, err)
	assert.Contains(t, out, "the event was already gone")
}

func TestNewUnscheduleCommand_NotScheduled(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)

	_, err := execute(t, newUnscheduleCommand(container), "1")

	assert.ErrorIs(t, err, domain.ErrNotScheduled)
}

func TestNewEventsCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)
	cal := container.Calendar.(*testutil.MockCalendar)
	cal.Events["standup"] = domain.Event{
		ID:    "standup",
		Title: "Standup",
		Start: time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 16, 9, 15, 0, 0, time.UTC),
	}
	_, err := execute(t, newScheduleCommand(container), "1", "2025-01-17 10:00")
	require.NoError(t, err)

	out, err := execute(t, newEventsCommand(container))

	require.NoError(t, err)
	assert.Contains(t, out, "START")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "Dentist")
}

func TestNewEventsCommand_Empty(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	out, err := execute(t, newEventsCommand(container), "--from", "2025-02-01", "--days", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "No events between 2025-02-01 and 2025-02-03")
}

func TestNewEventsCommand_AccessDenied(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())
	container.Calendar.(*testutil.MockCalendar).Granted = false

	out, err := execute(t, newEventsCommand(container))

	require.NoError(t, err)
	assert.Contains(t, out, accessDeniedHint)
}

func TestNewICSCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)
	_, err := execute(t, newScheduleCommand(container), "1", "2025-01-16 10:00")
	require.NoError(t, err)

	out, err := execute(t, newICSCommand(container))

	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Dentist")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestNewICSCommand_ToFile(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Dentist", domain.StatePriority)
	container := newTestContainer(t, repo)
	_, err := execute(t, newScheduleCommand(container), "1", "2025-01-16 10:00")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tdg.ics")

	out, err := execute(t, newICSCommand(container), "-o", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 event(s) to "+path)
	assert.FileExists(t, path)
}
