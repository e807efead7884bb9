package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BulkRunRepository interface {
	Insert(ctx context.Context, run *models.BulkRun) error
	GetByRunID(ctx context.Context, runID string) (*models.BulkRun, error)
	ListByOwner(ctx context.Context, ownerID string, limit int64) ([]models.BulkRun, error)
}

type bulkRunRepo struct {
	col *mongo.Collection
}

func NewBulkRunRepo(db *mongo.Database) BulkRunRepository {
	return &bulkRunRepo{col: db.Collection("bulk_runs")}
}

func (r *bulkRunRepo) Insert(ctx context.Context, run *models.BulkRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, run)
	return err
}

func (r *bulkRunRepo) GetByRunID(ctx context.Context, runID string) (*models.BulkRun, error) {
	var run models.BulkRun
	err := r.col.FindOne(ctx, bson.M{"run_id": runID}).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &run, err
}

func (r *bulkRunRepo) ListByOwner(ctx context.Context, ownerID string, limit int64) ([]models.BulkRun, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	runs := []models.BulkRun{}
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
