package repository

import (
	"context"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The services consume these interfaces rather than the concrete Mongo types,
// so the core state machine can be exercised against in-memory fakes.

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	// OpenCycle sets cycle_start to the given instant only when no cycle is
	// open. A conditional update keeps "set exactly once" true even if two
	// goal creations race.
	OpenCycle(ctx context.Context, userID primitive.ObjectID, start time.Time) error
	// AdvanceStreak increments the streak counter and clears cycle_start.
	AdvanceStreak(ctx context.Context, userID primitive.ObjectID, now time.Time) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
	ListUsersByStreakDesc(ctx context.Context) ([]models.User, error)
}

type GoalRepository interface {
	CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error)
	GetGoalsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error)
	GetRecentGoals(ctx context.Context, since time.Time) ([]models.Goal, error)
	SetGoalCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error
	DeleteGoal(ctx context.Context, id primitive.ObjectID) error
	DeleteGoalsByUser(ctx context.Context, userID primitive.ObjectID) error
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	GetLatestNotificationByType(ctx context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	DeleteExpiredNotifications(ctx context.Context) error
}

// UnitOfWork runs fn as one atomic unit. Streak advancement writes the user
// and purges goals across two collections; wrapping both keeps a partial
// failure from leaving a streak without the matching goal purge.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
