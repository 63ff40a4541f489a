package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/datamanager"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

type compassFixture struct {
	repo  *testutil.MockTaskRepository
	kv    *testutil.MemoryKV
	clock *domain.FixedTimeProvider
	prefs *domain.Preferences
	env   *compass.Env
}

func newCompassFixture() *compassFixture {
	repo := testutil.NewMockTaskRepository()
	kv := testutil.NewMemoryKV()
	clock := testutil.NewFixedTime(testNow)
	prefs := domain.NewPreferences(kv, time.UTC)
	return &compassFixture{
		repo:  repo,
		kv:    kv,
		clock: clock,
		prefs: prefs,
		env: &compass.Env{
			Data:  datamanager.New(repo, clock, nil),
			Time:  clock,
			Prefs: prefs,
		},
	}
}

func tracedIDs(trace []compass.Record, outcome compass.Outcome) []string {
	var ids []string
	for _, r := range trace {
		if r.Outcome == outcome {
			ids = append(ids, r.StepID)
		}
	}
	return ids
}

func TestRunCompassCheck_Execute(t *testing.T) {
	f := newCompassFixture()
	stale := domain.NewTask(1, "forgotten", testNow.AddDate(0, 0, -40))
	prio := domain.NewTask(2, "yesterday's goal", testNow.AddDate(0, 0, -1))
	prio.MoveTo(domain.StatePriority, testNow.AddDate(0, 0, -1))
	f.repo.Add(stale, prio)
	uc := NewRunCompassCheck(f.env, compass.DefaultSequence())

	out, err := uc.Execute(context.Background(), RunCompassCheckInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)
	assert.Equal(t, 1, out.Longest)
	assert.Contains(t, tracedIDs(out.Trace, compass.OutcomeActed), compass.StepMoveToGraveyard)
	assert.Contains(t, tracedIDs(out.Trace, compass.OutcomeActed), compass.StepMovePrioritiesToOpen)
	assert.Empty(t, tracedIDs(out.Trace, compass.OutcomeFailed))
	assert.Equal(t, domain.StateDead, stale.State)
	assert.Equal(t, domain.StateOpen, prio.State)
	assert.True(t, f.prefs.IsCompassCheckDone(f.clock))
	_, ok := f.prefs.LoadProgress()
	assert.False(t, ok)
}

func TestRunCompassCheck_Execute_ExtendsStreak(t *testing.T) {
	f := newCompassFixture()
	uc := NewRunCompassCheck(f.env, compass.DefaultSequence())

	_, err := uc.Execute(context.Background(), RunCompassCheckInput{})
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	out, err := uc.Execute(context.Background(), RunCompassCheckInput{})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Streak)
	assert.Equal(t, 2, out.Longest)
}

func TestCompassStatus_Execute(t *testing.T) {
	f := newCompassFixture()
	uc := NewCompassStatus(f.prefs, f.clock)

	out, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Done)
	assert.Nil(t, out.Last)
	assert.Empty(t, out.ProgressStep)
	assert.Equal(t, time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC), out.Next)
	assert.Equal(t, time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), out.Interval.Start)

	require.NoError(t, f.prefs.SaveProgress(domain.CompassCheckProgress{
		StepID:      compass.StepReview,
		PeriodStart: out.Interval.Start,
	}))
	out, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, compass.StepReview, out.ProgressStep)

	_, err = NewRunCompassCheck(f.env, compass.DefaultSequence()).Execute(context.Background(), RunCompassCheckInput{})
	require.NoError(t, err)
	out, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, 1, out.Streak)
	require.NotNil(t, out.Last)
	assert.Empty(t, out.ProgressStep)
}

func TestCompassStatus_Execute_IgnoresStaleProgress(t *testing.T) {
	f := newCompassFixture()
	require.NoError(t, f.prefs.SaveProgress(domain.CompassCheckProgress{
		StepID:      compass.StepReview,
		PeriodStart: time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC),
	}))

	out, err := NewCompassStatus(f.prefs, f.clock).Execute(context.Background())

	require.NoError(t, err)
	assert.Empty(t, out.ProgressStep)
}

func TestListSteps_Execute(t *testing.T) {
	f := newCompassFixture()
	require.NoError(t, f.prefs.SetStepEnabled(compass.StepReview, false))

	steps, err := NewListSteps(f.prefs, compass.DefaultSequence()).Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, steps, len(compass.DefaultSequence()))
	byID := make(map[string]StepInfo)
	for _, s := range steps {
		byID[s.ID] = s
	}
	assert.False(t, byID[compass.StepReview].Enabled)
	assert.True(t, byID[compass.StepInform].Enabled)
	assert.False(t, byID[compass.StepPlan].Enabled, "plan is off until enabled")
	assert.True(t, byID[compass.StepMoveToGraveyard].Silent)
	assert.Equal(t, compass.StepEisenhowerMatrixConsistency, steps[0].ID)
}

func TestSetStepEnabled_Execute(t *testing.T) {
	f := newCompassFixture()
	uc := NewSetStepEnabled(f.prefs)

	require.NoError(t, uc.Execute(context.Background(), SetStepEnabledInput{StepID: compass.StepPlan, Enabled: true}))
	assert.True(t, f.prefs.IsStepEnabled(compass.StepPlan, false))
	v, ok := f.kv.Get(domain.StepKey(compass.StepPlan))
	require.True(t, ok)
	assert.Equal(t, "true", v)

	err := uc.Execute(context.Background(), SetStepEnabledInput{StepID: "meditate", Enabled: true})
	assert.ErrorIs(t, err, domain.ErrUnknownStep)
}

func TestShowStreak_Execute(t *testing.T) {
	f := newCompassFixture()
	require.NoError(t, f.prefs.RecordCompassCheck(testNow.AddDate(0, 0, -1)))
	require.NoError(t, f.prefs.RecordCompassCheck(testNow))
	uc := NewShowStreak(f.prefs, f.clock)

	out, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Current)
	assert.Equal(t, 2, out.Longest)
	assert.True(t, out.Active)
	assert.True(t, out.Done)
	require.NotNil(t, out.Last)

	f.clock.Advance(72 * time.Hour)
	out, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.Current, "a broken streak shows as zero")
	assert.Equal(t, 2, out.Longest)
	assert.False(t, out.Active)
}
