package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/datamanager"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

var now = time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)

type fixture struct {
	model *Model
	repo  *testutil.MockTaskRepository
	kv    *testutil.MemoryKV
	env   *compass.Env
}

// newFixture builds a model over one classified open task, so the session
// pauses at Inform and then at Review.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := testutil.NewMockTaskRepository()
	task := domain.NewTask(1, "Write report", now)
	task.Tags = []string{domain.TagUrgent, domain.TagImportant}
	repo.Add(task)

	kv := testutil.NewMemoryKV()
	clock := testutil.NewFixedTime(now)
	env := &compass.Env{
		Data:   datamanager.New(repo, clock, domain.NopLogger{}),
		Time:   clock,
		Logger: domain.NopLogger{},
		Prefs:  domain.NewPreferences(kv, time.UTC),
	}
	m := New(context.Background(), compass.NewManager(env, compass.DefaultSequence()), env)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	return &fixture{model: m, repo: repo, kv: kv, env: env}
}

// drain runs cmd and feeds its message back until no command is left.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 10, "command chain does not end")
		msg := cmd()
		if msg == nil {
			return
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, k string) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	drain(t, m, cmd)
}

func currentID(m *Model) string {
	if s := m.Manager().Current(); s != nil {
		return s.ID()
	}
	return ""
}

func TestModel_InitPausesAtInform(t *testing.T) {
	f := newFixture(t)
	m := f.model

	drain(t, m, m.Init())

	assert.False(t, m.busy)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, compass.StepInform, currentID(m))
	assert.Empty(t, m.tasks)
	assert.Contains(t, m.View(), "Compass Check")
}

func TestModel_NextShowsReviewTasks(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())

	press(t, m, "enter")

	assert.Equal(t, compass.StepReview, currentID(m))
	require.Len(t, m.tasks, 1)
	assert.Equal(t, 1, m.SelectedTask().ID)
	assert.Contains(t, m.View(), "Write report")
}

func TestModel_PriorityKeyMovesSelectedTask(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())
	press(t, m, "enter")

	press(t, m, "p")

	assert.Equal(t, domain.StatePriority, f.repo.Tasks[1].State)
	assert.Contains(t, m.status, "#1")
	require.Len(t, m.tasks, 1)
	assert.Equal(t, domain.StatePriority, m.tasks[0].State)
}

func TestModel_CycleTags(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())
	press(t, m, "enter")

	press(t, m, "u")
	assert.Equal(t, []string{domain.TagImportant, domain.TagNonUrgent}, f.repo.Tasks[1].Tags)

	press(t, m, "u")
	assert.Equal(t, []string{domain.TagImportant}, f.repo.Tasks[1].Tags)

	press(t, m, "u")
	assert.Equal(t, []string{domain.TagImportant, domain.TagUrgent}, f.repo.Tasks[1].Tags)
}

func TestModel_TagChangeLeavesDisplayedTaskUntouched(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())
	press(t, m, "enter")
	shown := m.SelectedTask()
	require.NotNil(t, shown)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	var (
		wg  sync.WaitGroup
		msg tea.Msg
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		msg = cmd()
	}()
	for i := 0; i < 50; i++ {
		_ = m.View()
	}
	wg.Wait()

	assert.Equal(t, []string{domain.TagUrgent, domain.TagImportant}, shown.Tags)
	assert.Equal(t, []string{domain.TagImportant, domain.TagNonUrgent}, f.repo.Tasks[1].Tags)

	_, next := m.Update(msg)
	drain(t, m, next)

	assert.False(t, m.busy)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, []string{domain.TagImportant, domain.TagNonUrgent}, m.tasks[0].Tags)
}

func TestModel_TaskKeysIgnoredWhileChangeInFlight(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())
	press(t, m, "enter")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.NotNil(t, cmd)

	_, again := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	assert.Nil(t, again)
	_, next := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, next)
	assert.Equal(t, compass.StepReview, currentID(m))
}

func TestModel_FailedSaveKeepsDisplayedTask(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())
	press(t, m, "enter")
	f.repo.SaveErr = errors.New("locked")

	press(t, m, "p")
	press(t, m, "e")

	assert.False(t, m.busy)
	assert.Equal(t, domain.StateOpen, f.repo.Tasks[1].State)
	require.Len(t, m.tasks, 1)
	assert.Equal(t, domain.StateOpen, m.tasks[0].State)
	assert.Equal(t, []string{domain.TagUrgent, domain.TagImportant}, m.tasks[0].Tags)
	assert.Contains(t, m.View(), "Error: locked")
}

func TestModel_AddTask(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())
	press(t, m, "enter")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.Equal(t, ModeInput, m.mode)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Call bank")})
	press(t, m, "enter")

	assert.Equal(t, ModeNormal, m.mode)
	require.Contains(t, f.repo.Tasks, 2)
	assert.Equal(t, "Call bank", f.repo.Tasks[2].Title)
	assert.Len(t, m.tasks, 2)
}

func TestModel_InputEscapeCancels(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	press(t, m, "esc")

	assert.Equal(t, ModeNormal, m.mode)
	assert.Len(t, f.repo.Tasks, 1)
}

func TestModel_QuitKeepsProgress(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())
	press(t, m, "enter")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	assert.Equal(t, compass.StatusNotStarted, m.Manager().Status())
	progress, ok := f.env.Prefs.LoadProgress()
	require.True(t, ok)
	assert.Equal(t, compass.StepReview, progress.StepID)
}

func TestModel_CompletesAndShowsStreak(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())

	press(t, m, "enter") // inform
	press(t, m, "enter") // review

	assert.Equal(t, ModeDone, m.mode)
	assert.Equal(t, compass.StatusCompleted, m.Manager().Status())
	assert.Equal(t, 1, f.env.Prefs.DaysOfCompassCheck(f.env.Time))
	assert.Contains(t, m.View(), "Compass Check complete")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_HelpMode(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())

	press(t, m, "?")
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "graveyard")

	press(t, m, "?")
	assert.Equal(t, ModeNormal, m.mode)
}

func TestModel_KeysIgnoredWhileBusy(t *testing.T) {
	f := newFixture(t)
	m := f.model

	// Init has not delivered its result yet.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.busy)
}

func TestModel_StartErrorQuits(t *testing.T) {
	f := newFixture(t)
	m := f.model

	_, cmd := m.Update(MsgStepSettled{Err: errors.New("disk full")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.EqualError(t, m.Err(), "disk full")
}

func TestModel_TaskChangeErrorIsShown(t *testing.T) {
	f := newFixture(t)
	m := f.model
	drain(t, m, m.Init())

	m.Update(MsgTaskChanged{TaskID: 1, Err: errors.New("locked")})

	assert.Contains(t, m.View(), "Error: locked")
}

func TestModel_PrefsChangeRestylesAccent(t *testing.T) {
	f := newFixture(t)
	m := f.model
	assert.Equal(t, AccentColor("orange"), m.styles.Accent)

	require.NoError(t, f.env.Prefs.SetValue(domain.KeyAccentColor, "blue"))
	m.Update(MsgPrefsChanged{Keys: []string{domain.KeyAccentColor}})

	assert.Equal(t, AccentColor("blue"), m.styles.Accent)
}

func TestTasksForStep(t *testing.T) {
	open := domain.NewTask(1, "open", now)
	prio := domain.NewTask(2, "prio", now)
	prio.State = domain.StatePriority
	pending := domain.NewTask(3, "pending", now)
	pending.State = domain.StatePendingResponse
	due := now.Add(24 * time.Hour)
	open.Due = &due
	closed := domain.NewTask(4, "closed", now)
	closed.State = domain.StateClosed
	all := []*domain.Task{open, prio, pending, closed}
	env := &compass.Env{Time: testutil.NewFixedTime(now)}

	ids := func(tasks []*domain.Task) []int {
		out := make([]int, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.ID)
		}
		return out
	}

	tests := []struct {
		step string
		want []int
	}{
		{compass.StepInform, []int{}},
		{compass.StepCurrentPriorities, []int{2}},
		{compass.StepPendingResponses, []int{3}},
		{compass.StepDueDate, []int{1}},
		{compass.StepEisenhowerMatrix, []int{1, 2, 3}},
		{compass.StepReview, []int{2, 1}},
		{compass.StepPlan, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tasksForStep(tt.step, all, env)))
		})
	}
}
