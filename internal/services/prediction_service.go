package services

import (
	"context"
	"errors"

	"github.com/campusplace/backend/internal/models"
	pgrepo "github.com/campusplace/backend/internal/repositories/postgres"
	"github.com/campusplace/backend/internal/utils"
)

// PredictionService covers the account-facing read/delete paths over
// existing predictions.
type PredictionService interface {
	// History returns the account's joined predictions, newest first.
	History(ctx context.Context, ownerID string) ([]RankedStudent, error)
	Get(ctx context.Context, ownerID, predictionID string) (*RankedStudent, error)
	Delete(ctx context.Context, ownerID, predictionID string) error
}

const historyLimit = 10

type predictionService struct {
	predictions pgrepo.PredictionRepository
	profiles    pgrepo.StudentProfileRepository
}

func NewPredictionService(
	predictions pgrepo.PredictionRepository,
	profiles pgrepo.StudentProfileRepository,
) PredictionService {
	return &predictionService{predictions: predictions, profiles: profiles}
}

func (s *predictionService) History(ctx context.Context, ownerID string) ([]RankedStudent, error) {
	const op = "PredictionService.History"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account is required", nil)
	}

	joined, err := s.predictions.HistoryByOwner(ctx, ownerID, historyLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list prediction history", err)
	}

	out := make([]RankedStudent, 0, len(joined))
	for _, row := range joined {
		out = append(out, RankedStudent{Prediction: row.Prediction, Student: row.Profile})
	}
	return out, nil
}

func (s *predictionService) Get(ctx context.Context, ownerID, predictionID string) (*RankedStudent, error) {
	const op = "PredictionService.Get"

	pred, err := s.owned(ctx, op, ownerID, predictionID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(ctx, pred.ProfileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "student profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get student profile", err)
	}

	return &RankedStudent{Prediction: *pred, Student: *profile}, nil
}

func (s *predictionService) Delete(ctx context.Context, ownerID, predictionID string) error {
	const op = "PredictionService.Delete"

	pred, err := s.owned(ctx, op, ownerID, predictionID)
	if err != nil {
		return err
	}

	if err := s.predictions.Delete(ctx, pred.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete prediction", err)
	}
	return nil
}

// owned fetches a prediction and enforces that the caller owns it.
func (s *predictionService) owned(ctx context.Context, op, ownerID, predictionID string) (*models.Prediction, error) {
	if ownerID == "" || predictionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account and prediction id are required", nil)
	}

	pred, err := s.predictions.GetByID(ctx, predictionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "prediction not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get prediction", err)
	}
	if pred.OwnerID != ownerID {
		return nil, utils.E(utils.CodeForbidden, op, "not authorized to access this prediction", nil)
	}
	return pred, nil
}
