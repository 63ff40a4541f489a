package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/compass"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/testutil"
)

// stepRow returns the row of the steps table that starts with id.
func stepRow(out, id string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == id {
			return line
		}
	}
	return ""
}

func TestNewCompassRunCommand(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	addTask(repo, 1, "Yesterday's goal", domain.StatePriority)
	container := newTestContainer(t, repo)

	out, err := execute(t, newCompassCommand(container), "run")

	require.NoError(t, err)
	assert.Contains(t, out, compass.StepInform)
	assert.Contains(t, out, string(compass.OutcomeActed))
	assert.Contains(t, out, "Compass Check complete. Streak: 1 day(s) (longest 1)")
	assert.Equal(t, domain.StateOpen, repo.Tasks[1].State)
	assert.True(t, container.Prefs.IsCompassCheckDone(container.Clock))
}

func TestNewCompassStatusCommand(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	out, err := execute(t, newCompassCommand(container), "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Compass Check: pending")
	assert.Contains(t, out, "Last:      never")
	assert.Contains(t, out, "Streak:    0 (longest 0)")

	_, err = execute(t, newCompassCommand(container), "run")
	require.NoError(t, err)

	out, err = execute(t, newCompassCommand(container), "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Compass Check: done for this interval")
	assert.Contains(t, out, "Last:      2025-01-15 18:00")
	assert.Contains(t, out, "Streak:    1 (longest 1)")
}

func TestNewCompassStatusCommand_ShowsPausedStep(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())
	interval := domain.CurrentCompassCheckInterval(container.Clock)
	require.NoError(t, container.Prefs.SaveProgress(domain.CompassCheckProgress{
		StepID:      compass.StepReview,
		PeriodStart: interval.Start,
	}))

	out, err := execute(t, newCompassCommand(container), "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Paused at: review")
}

func TestNewCompassStepsCommand(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	out, err := execute(t, newCompassCommand(container), "steps")

	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "ENABLED")
	for _, id := range compass.DefaultStepIDs() {
		assert.NotEmpty(t, stepRow(out, id), id)
	}
	assert.Contains(t, stepRow(out, compass.StepPlan), "no")
	assert.Contains(t, stepRow(out, compass.StepReview), "yes")
	assert.Contains(t, stepRow(out, compass.StepMoveToGraveyard), "silent")
	assert.Contains(t, stepRow(out, compass.StepReview), "interactive")
}

func TestNewCompassToggleCommands(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	out, err := execute(t, newCompassCommand(container), "enable", compass.StepPlan)
	require.NoError(t, err)
	assert.Contains(t, out, "Enabled step plan")

	out, err = execute(t, newCompassCommand(container), "disable", compass.StepEnergyEffortMatrix)
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled step energyEffortMatrix")

	out, err = execute(t, newCompassCommand(container), "steps")
	require.NoError(t, err)
	assert.Contains(t, stepRow(out, compass.StepPlan), "yes")
	assert.Contains(t, stepRow(out, compass.StepEnergyEffortMatrix), "no")
}

func TestNewCompassToggleCommands_UnknownStep(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	_, err := execute(t, newCompassCommand(container), "disable", "meditate")

	assert.ErrorIs(t, err, domain.ErrUnknownStep)
}

func TestNewStreakCommand(t *testing.T) {
	container := newTestContainer(t, testutil.NewMockTaskRepository())

	out, err := execute(t, newStreakCommand(container))
	require.NoError(t, err)
	assert.Contains(t, out, "Current streak: 0 day(s)")
	assert.NotContains(t, out, "Last check:")
	assert.NotContains(t, out, "keep it going")

	require.NoError(t, container.Prefs.RecordCompassCheck(testNow.AddDate(0, 0, -1)))
	out, err = execute(t, newStreakCommand(container))
	require.NoError(t, err)
	assert.Contains(t, out, "Current streak: 1 day(s)")
	assert.Contains(t, out, "Longest streak: 1 day(s)")
	assert.Contains(t, out, "Last check:     2025-01-14 18:00")
	assert.Contains(t, out, "Run 'tdg compass' to keep it going.")

	require.NoError(t, container.Prefs.RecordCompassCheck(testNow))
	out, err = execute(t, newStreakCommand(container))
	require.NoError(t, err)
	assert.Contains(t, out, "Current streak: 2 day(s)")
	assert.NotContains(t, out, "keep it going")
}
