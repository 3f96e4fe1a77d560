package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is a single commitment inside a user's 24h cycle. UserName is
// denormalized so the shared goal feed can show who committed without a
// second lookup. CreatedAt is set once and drives both the 30-minute delete
// window and the 3-day feed filter.
type Goal struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"userId"`
	UserName         string             `bson:"user_name" json:"userName"`
	Text             string             `bson:"text" json:"text"`
	AllocatedMinutes int                `bson:"allocated_minutes" json:"allocatedMinutes"`
	Completed        bool               `bson:"completed" json:"completed"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
}
