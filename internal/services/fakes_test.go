package services

import (
	"context"
	"sort"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/apperror"
	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository collaborators, so the state machine can
// be driven without a database.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	return r.add(user), nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id.Hex())
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	for _, user := range r.users {
		if user.Name == name {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", name)
}

func (r *fakeUserRepo) OpenCycle(ctx context.Context, userID primitive.ObjectID, start time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return apperror.NotFound("user", userID.Hex())
	}
	if user.CycleStart == nil {
		t := start
		user.CycleStart = &t
	}
	return nil
}

func (r *fakeUserRepo) AdvanceStreak(ctx context.Context, userID primitive.ObjectID, now time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return apperror.NotFound("user", userID.Hex())
	}
	user.Streak++
	user.CycleStart = nil
	user.UpdatedAt = now
	return nil
}

func (r *fakeUserRepo) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *fakeUserRepo) ListUsersByStreakDesc(ctx context.Context) ([]models.User, error) {
	users, _ := r.GetAllUsers(ctx)
	sort.Slice(users, func(i, j int) bool { return users[i].Streak > users[j].Streak })
	return users, nil
}

type fakeGoalRepo struct {
	goals map[primitive.ObjectID]*models.Goal
}

var _ repository.GoalRepository = (*fakeGoalRepo)(nil)

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[primitive.ObjectID]*models.Goal)}
}

func (r *fakeGoalRepo) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	goal.ID = primitive.NewObjectID()
	r.goals[goal.ID] = goal
	return goal, nil
}

func (r *fakeGoalRepo) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, apperror.NotFound("goal", id.Hex())
	}
	copied := *goal
	return &copied, nil
}

func (r *fakeGoalRepo) GetGoalsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	var goals []models.Goal
	for _, goal := range r.goals {
		if goal.UserID == userID {
			goals = append(goals, *goal)
		}
	}
	return goals, nil
}

func (r *fakeGoalRepo) GetRecentGoals(ctx context.Context, since time.Time) ([]models.Goal, error) {
	var goals []models.Goal
	for _, goal := range r.goals {
		if !goal.CreatedAt.Before(since) {
			goals = append(goals, *goal)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.After(goals[j].CreatedAt) })
	return goals, nil
}

func (r *fakeGoalRepo) SetGoalCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error {
	goal, ok := r.goals[id]
	if !ok {
		return apperror.NotFound("goal", id.Hex())
	}
	goal.Completed = completed
	return nil
}

func (r *fakeGoalRepo) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.goals[id]; !ok {
		return apperror.NotFound("goal", id.Hex())
	}
	delete(r.goals, id)
	return nil
}

func (r *fakeGoalRepo) DeleteGoalsByUser(ctx context.Context, userID primitive.ObjectID) error {
	for id, goal := range r.goals {
		if goal.UserID == userID {
			delete(r.goals, id)
		}
	}
	return nil
}

type fakeNotifRepo struct {
	notifications []*models.Notification
}

var _ repository.NotificationRepository = (*fakeNotifRepo)(nil)

func (r *fakeNotifRepo) CreateNotification(ctx context.Context, notif *models.Notification) error {
	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(7 * 24 * time.Hour)
	r.notifications = append(r.notifications, notif)
	return nil
}

func (r *fakeNotifRepo) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) GetLatestNotificationByType(ctx context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error) {
	for i := len(r.notifications) - 1; i >= 0; i-- {
		n := r.notifications[i]
		if n.UserID == userID && n.Type == notifType {
			copied := *n
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("notification", notifType)
}

func (r *fakeNotifRepo) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return apperror.NotFound("notification", id.Hex())
}

func (r *fakeNotifRepo) DeleteExpiredNotifications(ctx context.Context) error {
	return nil
}

// fakeUOW runs the function directly; the fakes mutate in-memory state, so
// there is nothing to commit or roll back.
type fakeUOW struct{}

var _ repository.UnitOfWork = fakeUOW{}

func (fakeUOW) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeValidator answers profile checks from a canned map and counts calls.
type fakeValidator struct {
	valid map[string]bool
	err   error
	calls int
}

func (v *fakeValidator) VerifyProfile(ctx context.Context, ref string) (bool, error) {
	v.calls++
	if v.err != nil {
		return false, v.err
	}
	return v.valid[ref], nil
}
