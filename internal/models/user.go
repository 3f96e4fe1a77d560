package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the accountability tracker. The display name
// is unique and acts as the login key; there is no password by design. GitHub
// is an external profile reference captured once at registration and never
// changed afterwards.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	GitHub     string             `bson:"github,omitempty" json:"github,omitempty"`
	Streak     int                `bson:"streak" json:"streak"`
	CycleStart *time.Time         `bson:"cycle_start,omitempty" json:"cycleStart,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HasActiveCycle reports whether the user currently has an open 24h cycle.
func (u *User) HasActiveCycle() bool {
	return u.CycleStart != nil
}
