package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatabase returns the app database, honoring MONGO_DB.
func MongoDatabase() *mongo.Database {
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "campusplace"
	}
	return MongoClient.Database(dbName)
}

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// bulk_runs indexes
	runs := MongoDatabase().Collection("bulk_runs")
	_, err := runs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// 1) Run ids are handed out once
		{
			Keys: bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_run_id").
				SetUnique(true),
		},
		// 2) Query helper for the per-college run history
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_owner_created"),
		},
	})
	return err
}
