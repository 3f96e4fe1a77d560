package services

import (
	"context"

	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService records and serves advisory notifications. Nothing in
// here ever mutates cycle, streak or goal state.
type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

// CreateNotification logs a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string) error {
	notif := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// GetLatestByType returns the newest notification of the given type, used to
// dedupe reminders within a single cycle.
func (s *NotificationService) GetLatestByType(ctx context.Context, userID primitive.ObjectID, notifType string) (*models.Notification, error) {
	return s.repo.GetLatestNotificationByType(ctx, userID, notifType)
}

// MarkNotificationAsRead sets the "read" status of a notification to true
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, notifID)
}

// CleanupExpiredNotifications is called periodically by cron to delete old ones
func (s *NotificationService) CleanupExpiredNotifications(ctx context.Context) error {
	return s.repo.DeleteExpiredNotifications(ctx)
}
