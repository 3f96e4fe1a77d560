package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/apperror"
	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository handles database operations related to users.
type MongoUserRepository struct {
	collection *mongo.Collection
}

var _ UserRepository = (*MongoUserRepository)(nil)

// NewUserRepository creates a new instance of MongoUserRepository.
func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", id.Hex())
		}
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Warn("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}

	return &user, nil
}

// GetUserByName retrieves a user by their unique display name. The match is
// exact and case-sensitive; the name is the login key.
func (r *MongoUserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", name)
		}
		logrus.WithFields(logrus.Fields{
			"name":  name,
			"error": err,
		}).Warn("Failed to find user by name")
		return nil, fmt.Errorf("failed to find user by name: %v", err)
	}

	return &user, nil
}

// OpenCycle starts the user's 24h cycle at the given instant, but only if no
// cycle is currently open. The filter makes the write a no-op when
// cycle_start is already set, so a second goal never moves the window.
func (r *MongoUserRepository) OpenCycle(ctx context.Context, userID primitive.ObjectID, start time.Time) error {
	// A nil filter value matches both a null and an absent cycle_start.
	filter := bson.M{
		"_id":         userID,
		"cycle_start": nil,
	}
	update := bson.M{"$set": bson.M{
		"cycle_start": start,
		"updated_at":  time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("userID", userID.Hex()).Error("Failed to open cycle")
		return fmt.Errorf("failed to open cycle: %v", err)
	}

	if result.ModifiedCount > 0 {
		logrus.WithFields(logrus.Fields{
			"userID":     userID.Hex(),
			"cycleStart": start,
		}).Info("Cycle opened for user")
	}
	return nil
}

// AdvanceStreak increments the user's streak by one and clears the cycle.
func (r *MongoUserRepository) AdvanceStreak(ctx context.Context, userID primitive.ObjectID, now time.Time) error {
	update := bson.M{
		"$inc":   bson.M{"streak": 1},
		"$unset": bson.M{"cycle_start": ""},
		"$set":   bson.M{"updated_at": now},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		logrus.WithError(err).WithField("userID", userID.Hex()).Error("Failed to advance streak")
		return fmt.Errorf("failed to advance streak: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("user", userID.Hex())
	}

	logrus.WithField("userID", userID.Hex()).Info("Streak advanced and cycle cleared")
	return nil
}

// GetAllUsers returns every user without any particular order.
func (r *MongoUserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}

	return users, nil
}

// ListUsersByStreakDesc returns all users ordered by streak, best first.
func (r *MongoUserRepository) ListUsersByStreakDesc(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "streak", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch leaderboard")
		return nil, fmt.Errorf("failed to fetch leaderboard: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %v", err)
	}

	return users, nil
}
