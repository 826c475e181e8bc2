package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"voting/internal/core/model"
)

const (
	usersCollection      = "users"
	candidatesCollection = "candidates"

	nationalIDIndex  = "aadharCardNumber_unique"
	singleAdminIndex = "single_admin"
	voteCountIndex   = "voteCount_desc"
)

// EnsureIndexes creates the indexes that back the store invariants:
// national-ID uniqueness and at most one admin.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "aadharCardNumber", Value: 1}},
			Options: options.Index().SetName(nationalIDIndex).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
			Options: options.Index().
				SetName(singleAdminIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": model.RoleAdmin}),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = db.Collection(candidatesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "voteCount", Value: -1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName(voteCountIndex),
	})
	if err != nil {
		return fmt.Errorf("create candidate indexes: %w", err)
	}
	return nil
}
