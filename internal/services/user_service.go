package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/Accountability_Tracker/internal/apperror"
	"github.com/Dias221467/Accountability_Tracker/internal/identity"
	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService encapsulates login/registration and the leaderboard.
type UserService struct {
	repo      repository.UserRepository
	validator identity.Validator
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo repository.UserRepository, validator identity.Validator) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
	}
}

// Login finds a user by exact name or, when absent and a GitHub reference is
// supplied, registers them. There is deliberately no password: the unique
// name is the identity key, and the GitHub profile check at registration is
// the only gate.
func (s *UserService) Login(ctx context.Context, name, githubRef string) (*models.User, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	user, err := s.repo.GetUserByName(ctx, name)
	if err == nil {
		// Existing user: pure lookup, returned unchanged.
		logrus.WithField("userID", user.ID.Hex()).Info("User logged in")
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	if githubRef == "" {
		logrus.WithField("name", name).Warn("Login attempt for unknown user without GitHub reference")
		return nil, apperror.NotRegistered(name)
	}

	ok, verr := s.validator.VerifyProfile(ctx, githubRef)
	if verr != nil || !ok {
		if verr != nil {
			logrus.WithError(verr).WithField("github", githubRef).Warn("GitHub profile verification errored")
		}
		return nil, apperror.IdentityValidationFailed(githubRef)
	}

	newUser := &models.User{
		Name:   name,
		GitHub: githubRef,
		Streak: 0,
		// CycleStart stays nil: a fresh user has no active cycle.
	}

	created, err := s.repo.CreateUser(ctx, newUser)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": created.ID.Hex(),
		"name":   created.Name,
	}).Info("User registered successfully")
	return created, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	return s.repo.GetUserByID(ctx, objID)
}

// GetLeaderboard returns every user ordered by streak, best first.
func (s *UserService) GetLeaderboard(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsersByStreakDesc(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch leaderboard")
		return nil, fmt.Errorf("failed to fetch leaderboard: %v", err)
	}
	return users, nil
}

// GetAllUsers returns all users without ordering. The reminder scan uses it.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAllUsers(ctx)
}
