package cron

import (
	"context"

	"github.com/Dias221467/Accountability_Tracker/internal/jobs"
	"github.com/Dias221467/Accountability_Tracker/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartCronJobs wires the advisory background work. Nothing here enforces
// cycle expiry — that stays compute-on-read.
func StartCronJobs(notifier *jobs.CycleNotifier, notificationService *services.NotificationService) {
	c := cron.New()

	// Cycle-ending reminders
	c.AddFunc("@hourly", func() {
		if err := notifier.RunHourlyScan(context.Background()); err != nil {
			logrus.WithError(err).Error("Cycle reminder scan failed")
		}
	})

	// Purge notifications past their 7-day expiry
	c.AddFunc("0 0 * * *", func() {
		if err := notificationService.CleanupExpiredNotifications(context.Background()); err != nil {
			logrus.WithError(err).Error("Notification cleanup failed")
		}
	})

	c.Start()
}
