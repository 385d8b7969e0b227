package workflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine returns an engine with a controllable clock and sequential
// IDs. Advance the clock by reassigning *now.
func testEngine() (*Engine, *time.Time) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seq := 0
	eng := NewWithConfig(Config{
		Clock: func() time.Time { return now },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	return eng, &now
}

func TestRegisterGeneratesStageTasks(t *testing.T) {
	eng, _ := testEngine()

	tr := eng.Register("app-001", MilestoneStarted, "system")

	assert.Equal(t, "id-1", tr.ID)
	assert.Equal(t, Milestone(""), tr.From)
	assert.Equal(t, MilestoneStarted, tr.To)
	assert.Equal(t, "system", tr.TransitionedBy)

	tasks := eng.Tasks("app-001")
	require.Len(t, tasks, 3)
	assert.Equal(t, "Verify borrower identity", tasks[0].Title)
	assert.Equal(t, "Order credit report", tasks[1].Title)
	assert.Equal(t, "Collect income documentation", tasks[2].Title)
	for _, task := range tasks {
		assert.Equal(t, TaskPending, task.Status)
		assert.Equal(t, PriorityMedium, task.Priority)
		assert.Equal(t, "Task for STARTED milestone", task.Description)
	}
	assert.Equal(t, "PROCESSOR", tasks[0].AssignedRole)
	assert.Equal(t, 4, tasks[1].SLAHours)
	assert.Equal(t, tasks[1].CreatedAt.Add(4*time.Hour), tasks[1].DueAt)
}

func TestRegisterFunnelStageHasNoTasks(t *testing.T) {
	eng, _ := testEngine()
	eng.Register("app-001", MilestoneLeads, "system")
	assert.Empty(t, eng.Tasks("app-001"))
}

func TestTransitionValid(t *testing.T) {
	eng, _ := testEngine()
	eng.Register("app-001", MilestoneApplication, "system")

	tr, err := eng.Transition("app-001", MilestoneApplication, MilestonePreApproved, "underwriter-7", "dscr within guidelines")
	require.NoError(t, err)
	assert.Equal(t, MilestoneApplication, tr.From)
	assert.Equal(t, MilestonePreApproved, tr.To)
	assert.Equal(t, "dscr within guidelines", tr.Reason)

	history := eng.History("app-001")
	require.Len(t, history, 2)
	assert.Equal(t, MilestonePreApproved, history[1].To)

	// PRE_APPROVED adds its own three tasks on top of APPLICATION's.
	assert.Len(t, eng.Tasks("app-001"), 6)
}

func TestTransitionInvalid(t *testing.T) {
	eng, _ := testEngine()

	_, err := eng.Transition("app-001", MilestoneApplication, MilestoneFunded, "system", "")
	require.Error(t, err)

	var terr *TransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, MilestoneApplication, terr.From)
	assert.Equal(t, MilestoneFunded, terr.To)
	assert.Equal(t, "invalid transition from APPLICATION to FUNDED", err.Error())

	assert.Empty(t, eng.History("app-001"))
	assert.Empty(t, eng.Tasks("app-001"))
}

func TestTransitionOutOfTerminalStages(t *testing.T) {
	eng, _ := testEngine()

	for _, terminal := range []Milestone{MilestoneDenied, MilestoneWithdrawn, MilestoneCompletion} {
		_, err := eng.Transition("app-001", terminal, MilestoneApplication, "system", "")
		assert.Error(t, err, "transition out of %s", terminal)
	}

	// FUNDED is not terminal: it may still move to COMPLETION.
	_, err := eng.Transition("app-002", MilestoneFunded, MilestoneCompletion, "system", "")
	assert.NoError(t, err)
}

func TestStateSLATracking(t *testing.T) {
	eng, now := testEngine()
	eng.Register("app-001", MilestoneStarted, "system")

	// STARTED carries a 24 hour window; AT_RISK past 75% of it.
	tests := []struct {
		elapsed time.Duration
		want    SLAStatus
	}{
		{10 * time.Hour, SLAOnTrack},
		{18 * time.Hour, SLAOnTrack}, // exactly 75% is still on track
		{19 * time.Hour, SLAAtRisk},
		{25 * time.Hour, SLABreached},
	}
	start := *now
	for _, tt := range tests {
		*now = start.Add(tt.elapsed)
		state := eng.State("app-001", MilestoneStarted)
		assert.Equal(t, tt.want, state.SLAStatus, "after %s", tt.elapsed)
	}
}

func TestStateUnknownStageUsesDefaultSLA(t *testing.T) {
	eng, now := testEngine()
	eng.Register("app-001", MilestoneLeads, "system")

	start := *now
	*now = start.Add(37 * time.Hour) // past 75% of the 48h default
	state := eng.State("app-001", MilestoneLeads)
	assert.Equal(t, SLAAtRisk, state.SLAStatus)

	*now = start.Add(49 * time.Hour)
	state = eng.State("app-001", MilestoneLeads)
	assert.Equal(t, SLABreached, state.SLAStatus)
}

func TestStateView(t *testing.T) {
	eng, now := testEngine()
	registered := *now
	eng.Register("app-001", MilestoneStarted, "system")

	*now = registered.Add(36 * time.Hour)
	state := eng.State("app-001", MilestoneStarted)

	assert.Equal(t, "app-001", state.ApplicationID)
	assert.Equal(t, MilestoneStarted, state.CurrentMilestone)
	assert.Equal(t, registered, state.EnteredAt)
	assert.InDelta(t, 1.5, state.DaysInMilestone, 0.001)
	assert.Equal(t, []Milestone{MilestoneApplication, MilestoneWithdrawn}, state.NextMilestones)
	assert.Len(t, state.PendingTasks, 3)
	assert.Empty(t, state.CompletedTasks)
	assert.Equal(t, []string{"3 pending tasks"}, state.Blockers)
}

func TestStateEnteredAtUsesLatestMatchingTransition(t *testing.T) {
	eng, now := testEngine()
	eng.Register("app-001", MilestoneApplication, "system")

	*now = now.Add(2 * time.Hour)
	_, err := eng.Transition("app-001", MilestoneApplication, MilestonePreApproved, "system", "")
	require.NoError(t, err)

	entered := *now
	*now = now.Add(6 * time.Hour)
	state := eng.State("app-001", MilestonePreApproved)
	assert.Equal(t, entered, state.EnteredAt)
	assert.InDelta(t, 0.25, state.DaysInMilestone, 0.001)
}

func TestCompleteTask(t *testing.T) {
	eng, now := testEngine()
	eng.Register("app-001", MilestoneStarted, "system")
	tasks := eng.Tasks("app-001")
	require.NotEmpty(t, tasks)

	*now = now.Add(1 * time.Hour)
	done, err := eng.CompleteTask("app-001", tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, *now, *done.CompletedAt)

	state := eng.State("app-001", MilestoneStarted)
	assert.Len(t, state.PendingTasks, 2)
	require.Len(t, state.CompletedTasks, 1)
	assert.Equal(t, tasks[0].ID, state.CompletedTasks[0].ID)
	assert.Equal(t, []string{"2 pending tasks"}, state.Blockers)
}

func TestCompleteTaskUnknown(t *testing.T) {
	eng, _ := testEngine()
	eng.Register("app-001", MilestoneStarted, "system")

	_, err := eng.CompleteTask("app-001", "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = eng.CompleteTask("other-app", "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTasksReturnsCopy(t *testing.T) {
	eng, _ := testEngine()
	eng.Register("app-001", MilestoneStarted, "system")

	tasks := eng.Tasks("app-001")
	tasks[0].Status = TaskCancelled

	fresh := eng.Tasks("app-001")
	assert.Equal(t, TaskPending, fresh[0].Status)
}
