package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUnitOfWork runs a function inside a Mongo session transaction.
// Requires the server to run as a replica set; a single-node replica set is
// enough for local development.
type MongoUnitOfWork struct {
	client *mongo.Client
}

var _ UnitOfWork = (*MongoUnitOfWork)(nil)

func NewUnitOfWork(db *mongo.Database) *MongoUnitOfWork {
	return &MongoUnitOfWork{client: db.Client()}
}

// WithinTransaction starts a session and executes fn inside a transaction.
// Every repository call made with the derived context joins the transaction,
// so the user write and the goal purge commit or abort together.
func (u *MongoUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := u.client.StartSession()
	if err != nil {
		logrus.WithError(err).Error("Failed to start Mongo session")
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
