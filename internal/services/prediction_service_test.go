package services

import (
	"context"
	"testing"

	"github.com/campusplace/backend/internal/utils"
)

func TestHistory_NewestFirstLimited(t *testing.T) {
	profiles := newFakeProfileRepo()
	predictions := newFakePredictionRepo(profiles)
	rows := make([]seedRow, 12)
	for i := range rows {
		rows[i] = seedRow{probability: float64(i) / 12}
	}
	ids := seedOwned(t, profiles, predictions, "user-1", rows)
	svc := NewPredictionService(predictions, profiles)

	history, err := svc.History(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != historyLimit {
		t.Fatalf("history length = %d, want %d", len(history), historyLimit)
	}
	if history[0].Prediction.ID != ids[len(ids)-1] {
		t.Fatalf("history must start with the newest prediction")
	}
}

func TestGet_OwnershipEnforced(t *testing.T) {
	profiles := newFakeProfileRepo()
	predictions := newFakePredictionRepo(profiles)
	ids := seedOwned(t, profiles, predictions, "user-1", []seedRow{{probability: 0.5}})
	svc := NewPredictionService(predictions, profiles)

	got, err := svc.Get(context.Background(), "user-1", ids[0])
	if err != nil {
		t.Fatalf("owner could not read its prediction: %v", err)
	}
	if got.Prediction.ID != ids[0] {
		t.Fatalf("wrong prediction returned")
	}

	if _, err := svc.Get(context.Background(), "user-2", ids[0]); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("foreign account should be forbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", "missing"); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("missing prediction should be not found, got %v", err)
	}
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	profiles := newFakeProfileRepo()
	predictions := newFakePredictionRepo(profiles)
	ids := seedOwned(t, profiles, predictions, "user-1", []seedRow{{probability: 0.5}})
	svc := NewPredictionService(predictions, profiles)

	if err := svc.Delete(context.Background(), "user-2", ids[0]); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("foreign delete should be forbidden, got %v", err)
	}
	if predictions.count() != 1 {
		t.Fatalf("forbidden delete must not remove the prediction")
	}

	if err := svc.Delete(context.Background(), "user-1", ids[0]); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if predictions.count() != 0 {
		t.Fatalf("prediction not deleted")
	}
}
