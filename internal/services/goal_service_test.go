package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/apperror"
	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newGoalServiceForTest(t *testing.T) (*GoalService, *fakeUserRepo, *fakeGoalRepo, *fakeNotifRepo, *clock.Manual) {
	t.Helper()
	userRepo := newFakeUserRepo()
	goalRepo := newFakeGoalRepo()
	notifRepo := &fakeNotifRepo{}
	clk := clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewGoalService(goalRepo, userRepo, NewNotificationService(notifRepo), fakeUOW{}, clk)
	return svc, userRepo, goalRepo, notifRepo, clk
}

func addUser(repo *fakeUserRepo, name string) *models.User {
	return repo.add(&models.User{Name: name})
}

func TestCreateGoalOpensCycleExactlyOnce(t *testing.T) {
	svc, userRepo, _, _, clk := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")
	start := clk.Now()

	_, err := svc.CreateGoal(context.Background(), user.ID, "read 20 pages", 30)
	require.NoError(t, err)
	require.NotNil(t, userRepo.users[user.ID].CycleStart)
	assert.Equal(t, start, *userRepo.users[user.ID].CycleStart)

	// A second goal later in the same cycle must not move the window.
	clk.Advance(2 * time.Hour)
	_, err = svc.CreateGoal(context.Background(), user.ID, "write tests", 45)
	require.NoError(t, err)
	assert.Equal(t, start, *userRepo.users[user.ID].CycleStart)
}

func TestCreateGoalValidation(t *testing.T) {
	svc, userRepo, _, _, _ := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	_, err := svc.CreateGoal(context.Background(), user.ID, "", 30)
	assert.Error(t, err)

	_, err = svc.CreateGoal(context.Background(), user.ID, "stretch", 0)
	assert.Error(t, err)

	// Neither attempt may open a cycle.
	assert.Nil(t, userRepo.users[user.ID].CycleStart)
}

func TestCreateGoalUnknownUser(t *testing.T) {
	svc, _, _, _, _ := newGoalServiceForTest(t)

	_, err := svc.CreateGoal(context.Background(), primitive.NewObjectID(), "run 5k", 40)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestToggleGoalFlipsFlag(t *testing.T) {
	svc, userRepo, goalRepo, _, _ := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	first, err := svc.CreateGoal(context.Background(), user.ID, "read", 30)
	require.NoError(t, err)
	_, err = svc.CreateGoal(context.Background(), user.ID, "write", 30)
	require.NoError(t, err)

	toggled, err := svc.ToggleGoal(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	// One of two complete: no streak, cycle intact, goals still there.
	assert.Equal(t, 0, userRepo.users[user.ID].Streak)
	assert.NotNil(t, userRepo.users[user.ID].CycleStart)
	assert.Len(t, goalRepo.goals, 2)

	// Toggling back down works too: pure flip, not an idempotent set.
	toggled, err = svc.ToggleGoal(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestToggleGoalNotFound(t *testing.T) {
	svc, _, _, _, _ := newGoalServiceForTest(t)

	_, err := svc.ToggleGoal(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFinalToggleAdvancesStreakAndResetsCycle(t *testing.T) {
	svc, userRepo, goalRepo, notifRepo, _ := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	first, err := svc.CreateGoal(context.Background(), user.ID, "read", 30)
	require.NoError(t, err)
	second, err := svc.CreateGoal(context.Background(), user.ID, "write", 30)
	require.NoError(t, err)

	_, err = svc.ToggleGoal(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = svc.ToggleGoal(context.Background(), second.ID)
	require.NoError(t, err)

	stored := userRepo.users[user.ID]
	assert.Equal(t, 1, stored.Streak)
	assert.Nil(t, stored.CycleStart)
	assert.Empty(t, goalRepo.goals, "all goals must be purged on advancement")

	// Advancement leaves an advisory notification behind.
	require.Len(t, notifRepo.notifications, 1)
	assert.Equal(t, models.NotificationStreakAdvanced, notifRepo.notifications[0].Type)
}

func TestEvaluateStreakEmptySetIsNoOp(t *testing.T) {
	svc, userRepo, _, _, _ := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	evaluated, err := svc.EvaluateStreak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, evaluated.Streak)
	assert.Equal(t, 0, userRepo.users[user.ID].Streak)
	assert.Nil(t, userRepo.users[user.ID].CycleStart)
}

func TestEvaluateStreakIncompleteSetIsNoOp(t *testing.T) {
	svc, userRepo, goalRepo, _, _ := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	_, err := svc.CreateGoal(context.Background(), user.ID, "read", 30)
	require.NoError(t, err)

	evaluated, err := svc.EvaluateStreak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, evaluated.Streak)
	assert.NotNil(t, userRepo.users[user.ID].CycleStart)
	assert.Len(t, goalRepo.goals, 1)
}

func TestDeleteGoalWindow(t *testing.T) {
	tests := []struct {
		name    string
		age     time.Duration
		wantErr error
	}{
		{name: "well inside window", age: 29 * time.Minute},
		{name: "exactly at boundary is inclusive", age: 30 * time.Minute},
		{name: "past window", age: 31 * time.Minute, wantErr: apperror.ErrWindowExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, goalRepo, _, clk := newGoalServiceForTest(t)
			user := addUser(userRepo, "bob")

			goal, err := svc.CreateGoal(context.Background(), user.ID, "meditate", 15)
			require.NoError(t, err)

			clk.Advance(tt.age)
			err = svc.DeleteGoal(context.Background(), goal.ID, user.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, goalRepo.goals, 1, "rejected delete must leave the goal stored")
			} else {
				require.NoError(t, err)
				assert.Empty(t, goalRepo.goals)
			}
		})
	}
}

func TestDeleteGoalRequiresOwnership(t *testing.T) {
	svc, userRepo, goalRepo, _, _ := newGoalServiceForTest(t)
	owner := addUser(userRepo, "alice")
	intruder := addUser(userRepo, "mallory")

	goal, err := svc.CreateGoal(context.Background(), owner.ID, "journal", 20)
	require.NoError(t, err)

	err = svc.DeleteGoal(context.Background(), goal.ID, intruder.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Len(t, goalRepo.goals, 1)
}

func TestDeleteGoalNotFound(t *testing.T) {
	svc, userRepo, _, _, _ := newGoalServiceForTest(t)
	user := addUser(userRepo, "bob")

	err := svc.DeleteGoal(context.Background(), primitive.NewObjectID(), user.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetRecentGoalsIsAFilterNotAMutation(t *testing.T) {
	svc, userRepo, goalRepo, _, clk := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	old, err := svc.CreateGoal(context.Background(), user.ID, "stale goal", 30)
	require.NoError(t, err)

	clk.Advance(4 * 24 * time.Hour)
	fresh, err := svc.CreateGoal(context.Background(), user.ID, "fresh goal", 30)
	require.NoError(t, err)

	goals, err := svc.GetRecentGoals(context.Background())
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, fresh.ID, goals[0].ID)

	// The old goal is hidden, not deleted.
	_, stillThere := goalRepo.goals[old.ID]
	assert.True(t, stillThere)
}

func TestGetRecentGoalsNewestFirst(t *testing.T) {
	svc, userRepo, _, _, clk := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	_, err := svc.CreateGoal(context.Background(), user.ID, "first", 10)
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = svc.CreateGoal(context.Background(), user.ID, "second", 10)
	require.NoError(t, err)

	goals, err := svc.GetRecentGoals(context.Background())
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "second", goals[0].Text)
	assert.Equal(t, "first", goals[1].Text)
}

func TestGetCycleStatus(t *testing.T) {
	svc, userRepo, _, _, clk := newGoalServiceForTest(t)
	user := addUser(userRepo, "alice")

	status, err := svc.GetCycleStatus(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CycleNone, status.State)

	_, err = svc.CreateGoal(context.Background(), user.ID, "read", 30)
	require.NoError(t, err)

	status, err = svc.GetCycleStatus(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CycleActive, status.State)
	assert.InDelta(t, (24 * time.Hour).Seconds(), float64(status.RemainingSeconds), 1)

	clk.Advance(25 * time.Hour)
	status, err = svc.GetCycleStatus(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CycleExpired, status.State)

	// Expiry is advisory: nothing was reset or deleted.
	assert.NotNil(t, userRepo.users[user.ID].CycleStart)
}

// Full journey from the testable-properties list: create, complete, advance.
func TestEndToEndAliceCompletesHerCycle(t *testing.T) {
	svc, userRepo, goalRepo, _, _ := newGoalServiceForTest(t)
	alice := addUser(userRepo, "Alice")

	goal, err := svc.CreateGoal(context.Background(), alice.ID, "goal A", 30)
	require.NoError(t, err)

	status, err := svc.GetCycleStatus(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Equal(t, models.CycleActive, status.State)

	_, err = svc.ToggleGoal(context.Background(), goal.ID)
	require.NoError(t, err)

	stored := userRepo.users[alice.ID]
	assert.Equal(t, 1, stored.Streak)
	assert.Nil(t, stored.CycleStart)
	_, exists := goalRepo.goals[goal.ID]
	assert.False(t, exists, "goal A must be gone from the store")
}
