package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/internal/services"
	"github.com/Dias221467/Accountability_Tracker/pkg/clock"
	"github.com/sirupsen/logrus"
)

// ReminderLead is how close to cycle expiry a user has to be before the scan
// leaves them a reminder.
const ReminderLead = time.Hour

// CycleNotifier scans for users whose active cycle is about to run out and
// records an advisory notification. It never deletes goals, resets cycles or
// touches streaks: expiry stays a computed display state.
type CycleNotifier struct {
	UserService         *services.UserService
	NotificationService *services.NotificationService
	Clock               clock.Clock
}

// NewCycleNotifier creates a new instance of CycleNotifier
func NewCycleNotifier(userService *services.UserService, notifService *services.NotificationService, clk clock.Clock) *CycleNotifier {
	return &CycleNotifier{
		UserService:         userService,
		NotificationService: notifService,
		Clock:               clk,
	}
}

// RunHourlyScan checks all users for cycles ending within the next hour and
// sends at most one reminder per cycle.
func (n *CycleNotifier) RunHourlyScan(ctx context.Context) error {
	users, err := n.UserService.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %v", err)
	}

	now := n.Clock.Now()
	for i := range users {
		user := &users[i]
		status := models.CycleStatusAt(user, now)
		if status.State != models.CycleActive || status.Remaining > ReminderLead {
			continue
		}

		// Skip if this cycle already got its reminder.
		existing, err := n.NotificationService.GetLatestByType(ctx, user.ID, models.NotificationCycleEndingSoon)
		if err == nil && existing != nil && existing.CreatedAt.After(*user.CycleStart) {
			continue
		}

		err = n.NotificationService.CreateNotification(ctx, user.ID, models.NotificationCycleEndingSoon,
			"Cycle ending soon",
			fmt.Sprintf("Less than an hour left to finish your goals — %d minutes remaining.", int(status.Remaining.Minutes())),
		)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to send cycle reminder to user %s", user.ID.Hex())
		}
	}

	logrus.Info("Cycle reminder scan completed")
	return nil
}
