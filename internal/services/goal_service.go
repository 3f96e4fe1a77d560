package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/apperror"
	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/internal/repository"
	"github.com/Dias221467/Accountability_Tracker/pkg/clock"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DeleteWindow is the grace period after creation during which a goal may
	// still be removed. Past it the commitment stands as evidence.
	DeleteWindow = 30 * time.Minute

	// RetentionWindow bounds what the shared goal feed surfaces. Goals older
	// than this stay stored, they just stop being listed.
	RetentionWindow = 3 * 24 * time.Hour
)

// GoalService owns the cycle/streak state machine: goal creation opens a
// cycle, completion evaluation advances the streak and resets the cycle,
// deletion is time-windowed.
type GoalService struct {
	goalRepo     repository.GoalRepository
	userRepo     repository.UserRepository
	notifService *NotificationService
	uow          repository.UnitOfWork
	clock        clock.Clock
}

// NewGoalService creates a new instance of GoalService.
func NewGoalService(goalRepo repository.GoalRepository, userRepo repository.UserRepository, notifService *NotificationService, uow repository.UnitOfWork, clk clock.Clock) *GoalService {
	return &GoalService{
		goalRepo:     goalRepo,
		userRepo:     userRepo,
		notifService: notifService,
		uow:          uow,
		clock:        clk,
	}
}

// CreateGoal records a new commitment for the user. The first goal since the
// user's last reset opens their 24h cycle; both writes happen in one atomic
// unit so a failed insert can never leave a cycle open with no goals in it.
func (s *GoalService) CreateGoal(ctx context.Context, userID primitive.ObjectID, text string, allocatedMinutes int) (*models.Goal, error) {
	if text == "" {
		logrus.Warn("Goal text is empty during creation")
		return nil, fmt.Errorf("goal text is required")
	}
	if allocatedMinutes <= 0 {
		logrus.Warn("Non-positive allocated minutes during goal creation")
		return nil, fmt.Errorf("allocated minutes must be positive")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	goal := &models.Goal{
		UserID:           user.ID,
		UserName:         user.Name,
		Text:             text,
		AllocatedMinutes: allocatedMinutes,
		Completed:        false,
		CreatedAt:        now,
	}

	err = s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.OpenCycle(ctx, user.ID, now); err != nil {
			return err
		}
		_, err := s.goalRepo.CreateGoal(ctx, goal)
		return err
	})
	if err != nil {
		logrus.WithError(err).Error("Service failed to create goal")
		return nil, fmt.Errorf("failed to create goal: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"goal_id": goal.ID.Hex(),
		"user_id": user.ID.Hex(),
	}).Info("Goal created in service layer")
	return goal, nil
}

// ToggleGoal flips a goal's completion flag (a pure toggle, not an
// idempotent set) and then runs the streak evaluation, which is the only
// path that can advance the streak or reset a cycle.
func (s *GoalService) ToggleGoal(ctx context.Context, goalID primitive.ObjectID) (*models.Goal, error) {
	goal, err := s.goalRepo.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	goal.Completed = !goal.Completed
	if err := s.goalRepo.SetGoalCompleted(ctx, goal.ID, goal.Completed); err != nil {
		logrus.WithError(err).WithField("goal_id", goalID.Hex()).Error("Failed to toggle goal")
		return nil, err
	}

	if _, err := s.EvaluateStreak(ctx, goal.UserID); err != nil {
		logrus.WithError(err).WithField("user_id", goal.UserID.Hex()).Error("Streak evaluation after toggle failed")
		return nil, err
	}

	return goal, nil
}

// EvaluateStreak checks whether the user's cycle is fully satisfied. If the
// live goal set is non-empty and every goal is completed, the streak advances
// by one, the cycle is cleared and all of the user's goals are purged, in a
// single atomic unit. An empty set is a no-op: completing nothing earns
// nothing.
func (s *GoalService) EvaluateStreak(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalRepo.GetGoalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals for evaluation: %v", err)
	}

	allCompleted := len(goals) > 0
	for _, goal := range goals {
		if !goal.Completed {
			allCompleted = false
			break
		}
	}
	if !allCompleted {
		return user, nil
	}

	now := s.clock.Now()
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.AdvanceStreak(ctx, userID, now); err != nil {
			return err
		}
		return s.goalRepo.DeleteGoalsByUser(ctx, userID)
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to advance streak")
		return nil, fmt.Errorf("failed to advance streak: %v", err)
	}

	user.Streak++
	user.CycleStart = nil

	if s.notifService != nil {
		if err := s.notifService.CreateNotification(ctx, userID, models.NotificationStreakAdvanced,
			"Cycle complete",
			fmt.Sprintf("All goals done — your streak is now %d.", user.Streak),
		); err != nil {
			logrus.WithError(err).Warn("Failed to record streak notification")
		}
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID.Hex(),
		"streak":  user.Streak,
	}).Info("Streak advanced, cycle reset")
	return user, nil
}

// DeleteGoal removes a goal if the caller owns it and the 30-minute window
// has not passed. The boundary is inclusive: a goal exactly 30 minutes old
// may still be deleted.
func (s *GoalService) DeleteGoal(ctx context.Context, goalID, requesterID primitive.ObjectID) error {
	goal, err := s.goalRepo.GetGoalByID(ctx, goalID)
	if err != nil {
		return err
	}

	if goal.UserID != requesterID {
		logrus.WithFields(logrus.Fields{
			"goal_id":      goalID.Hex(),
			"requester_id": requesterID.Hex(),
		}).Warn("Delete attempt by non-owner")
		return apperror.Forbidden("you can only delete your own goals")
	}

	if s.clock.Now().Sub(goal.CreatedAt) > DeleteWindow {
		return apperror.WindowExpired()
	}

	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		logrus.WithError(err).WithField("goal_id", goalID.Hex()).Error("Failed to delete goal")
		return err
	}

	logrus.WithField("goal_id", goalID.Hex()).Info("Goal deleted within window")
	return nil
}

// GetRecentGoals returns the shared feed: goals created within the trailing
// retention window, newest first. Purely a visibility filter.
func (s *GoalService) GetRecentGoals(ctx context.Context) ([]models.Goal, error) {
	since := s.clock.Now().Add(-RetentionWindow)
	goals, err := s.goalRepo.GetRecentGoals(ctx, since)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch recent goals")
		return nil, fmt.Errorf("failed to fetch recent goals: %v", err)
	}
	return goals, nil
}

// GetCycleStatus computes the user's countdown view from cycle_start and the
// clock. Nothing is stored or enforced here; an expired cycle is only
// reported, never acted on.
func (s *GoalService) GetCycleStatus(ctx context.Context, userID primitive.ObjectID) (*models.CycleStatus, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := models.CycleStatusAt(user, s.clock.Now())
	return &status, nil
}
