package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/apperror"
	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGoalRepository handles database operations related to goals.
type MongoGoalRepository struct {
	collection *mongo.Collection
}

var _ GoalRepository = (*MongoGoalRepository)(nil)

// NewGoalRepository creates a new instance of MongoGoalRepository.
func NewGoalRepository(db *mongo.Database) *MongoGoalRepository {
	return &MongoGoalRepository{
		collection: db.Collection("goals"),
	}
}

// CreateGoal inserts a new goal. CreatedAt is stamped here and never touched
// again; the delete window and the feed filter both hang off it.
func (r *MongoGoalRepository) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert goal")
		return nil, fmt.Errorf("failed to insert goal: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	goal.ID = insertedID

	logger.Log.WithField("goal_id", goal.ID.Hex()).Info("Goal created successfully")
	return goal, nil
}

// GetGoalByID fetches a goal by its ID.
func (r *MongoGoalRepository) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error) {
	var goal models.Goal

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("goal", id.Hex())
		}
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to find goal by ID")
		return nil, fmt.Errorf("failed to find goal: %v", err)
	}

	return &goal, nil
}

// GetGoalsByUser fetches the full live goal set for a user, with no time
// filter. Streak evaluation must see everything, not just the display window.
func (r *MongoGoalRepository) GetGoalsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch user goals")
		return nil, fmt.Errorf("failed to fetch user goals: %v", err)
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("failed to decode user goals: %v", err)
	}

	return goals, nil
}

// GetRecentGoals fetches goals created at or after the given instant, newest
// first. This is a visibility filter only; older goals stay stored.
func (r *MongoGoalRepository) GetRecentGoals(ctx context.Context, since time.Time) ([]models.Goal, error) {
	filter := bson.M{"created_at": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch recent goals")
		return nil, fmt.Errorf("failed to fetch recent goals: %v", err)
	}
	defer cursor.Close(ctx)

	var goals []models.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("failed to decode recent goals: %v", err)
	}

	return goals, nil
}

// SetGoalCompleted writes the completion flag. Field-level last-write-wins is
// accepted here; a single user acting serially on their own goals is the
// target usage.
func (r *MongoGoalRepository) SetGoalCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"completed": completed}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to update goal completion")
		return fmt.Errorf("failed to update goal completion: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("goal", id.Hex())
	}

	return nil
}

// DeleteGoal deletes a goal from the database by its ID.
func (r *MongoGoalRepository) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to delete goal")
		return fmt.Errorf("failed to delete goal: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperror.NotFound("goal", id.Hex())
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Goal deleted successfully")
	return nil
}

// DeleteGoalsByUser removes every goal owned by the user. Called only when a
// cycle is fully satisfied and the streak advances.
func (r *MongoGoalRepository) DeleteGoalsByUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to purge user goals")
		return fmt.Errorf("failed to purge user goals: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID.Hex(),
		"count":   result.DeletedCount,
	}).Info("User goals purged after completed cycle")
	return nil
}
