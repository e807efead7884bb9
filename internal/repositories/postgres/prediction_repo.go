package postgres

import (
	"context"
	"errors"

	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/utils"
	"gorm.io/gorm"
)

// OwnedPrediction is one row of the owner-scoped Prediction-to-Profile join.
// Every prediction carries an owner; its profile may be ownerless (bulk
// ingestion), which is why the join anchors on predictions.owner_id.
type OwnedPrediction struct {
	Prediction models.Prediction
	Profile    models.StudentProfile
}

type PredictionRepository interface {
	Create(ctx context.Context, p *models.Prediction) error
	GetByID(ctx context.Context, id string) (*models.Prediction, error)
	GetByProfileAndOwner(ctx context.Context, profileID, ownerID string) (*models.Prediction, error)
	// ListByOwner returns the owner's predictions in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Prediction, error)
	// ListJoinedByOwner returns the owner's predictions joined to their
	// profiles, in insertion order. Predictions whose profile no longer
	// exists are skipped.
	ListJoinedByOwner(ctx context.Context, ownerID string) ([]OwnedPrediction, error)
	// HistoryByOwner returns the newest joined rows first, at most limit.
	HistoryByOwner(ctx context.Context, ownerID string, limit int) ([]OwnedPrediction, error)
	Delete(ctx context.Context, id string) error
}

type predictionRepo struct {
	db *gorm.DB
}

func NewPredictionRepo(db *gorm.DB) PredictionRepository {
	return &predictionRepo{db: db}
}

func (r *predictionRepo) Create(ctx context.Context, p *models.Prediction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *predictionRepo) GetByID(ctx context.Context, id string) (*models.Prediction, error) {
	var p models.Prediction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *predictionRepo) GetByProfileAndOwner(ctx context.Context, profileID, ownerID string) (*models.Prediction, error) {
	var p models.Prediction
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND owner_id = ?", profileID, ownerID).
		Order("created_at DESC").
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *predictionRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Prediction, error) {
	var rows []models.Prediction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *predictionRepo) ListJoinedByOwner(ctx context.Context, ownerID string) ([]OwnedPrediction, error) {
	preds, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return r.join(ctx, preds)
}

func (r *predictionRepo) HistoryByOwner(ctx context.Context, ownerID string, limit int) ([]OwnedPrediction, error) {
	var preds []models.Prediction
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&preds).Error; err != nil {
		return nil, err
	}
	return r.join(ctx, preds)
}

func (r *predictionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Prediction{}).Error
}

// join stitches profiles onto predictions, preserving prediction order.
func (r *predictionRepo) join(ctx context.Context, preds []models.Prediction) ([]OwnedPrediction, error) {
	if len(preds) == 0 {
		return []OwnedPrediction{}, nil
	}

	ids := make([]string, 0, len(preds))
	for _, p := range preds {
		ids = append(ids, p.ProfileID)
	}

	var profiles []models.StudentProfile
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.StudentProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make([]OwnedPrediction, 0, len(preds))
	for _, p := range preds {
		profile, ok := byID[p.ProfileID]
		if !ok {
			continue
		}
		out = append(out, OwnedPrediction{Prediction: p, Profile: profile})
	}
	return out, nil
}
