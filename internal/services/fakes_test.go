package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/providers/scoring"
	pgrepo "github.com/campusplace/backend/internal/repositories/postgres"
	"github.com/campusplace/backend/internal/utils"
)

type fakeProfileRepo struct {
	mu        sync.Mutex
	rows      map[string]models.StudentProfile
	order     []string
	createErr error
	deleteErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: map[string]models.StudentProfile{}}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *models.StudentProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *fakeProfileRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakePredictionRepo struct {
	mu        sync.Mutex
	rows      []models.Prediction
	profiles  *fakeProfileRepo
	createErr error
}

func newFakePredictionRepo(profiles *fakeProfileRepo) *fakePredictionRepo {
	return &fakePredictionRepo{profiles: profiles}
}

func (r *fakePredictionRepo) Create(_ context.Context, p *models.Prediction) error {
	if r.createErr != nil {
		return r.createErr
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *p)
	return nil
}

func (r *fakePredictionRepo) GetByID(_ context.Context, id string) (*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakePredictionRepo) GetByProfileAndOwner(_ context.Context, profileID, ownerID string) (*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].ProfileID == profileID && r.rows[i].OwnerID == ownerID {
			out := r.rows[i]
			return &out, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakePredictionRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Prediction{}
	for _, p := range r.rows {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePredictionRepo) ListJoinedByOwner(ctx context.Context, ownerID string) ([]pgrepo.OwnedPrediction, error) {
	preds, _ := r.ListByOwner(ctx, ownerID)
	out := []pgrepo.OwnedPrediction{}
	for _, p := range preds {
		profile, err := r.profiles.GetByID(ctx, p.ProfileID)
		if err != nil {
			continue
		}
		out = append(out, pgrepo.OwnedPrediction{Prediction: p, Profile: *profile})
	}
	return out, nil
}

func (r *fakePredictionRepo) HistoryByOwner(ctx context.Context, ownerID string, limit int) ([]pgrepo.OwnedPrediction, error) {
	joined, err := r.ListJoinedByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].Prediction.CreatedAt.After(joined[j].Prediction.CreatedAt)
	})
	if limit > 0 && len(joined) > limit {
		joined = joined[:limit]
	}
	return joined, nil
}

func (r *fakePredictionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.rows {
		if p.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePredictionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeScorer struct {
	mu    sync.Mutex
	fn    func(ctx context.Context, req scoring.Request) (*scoring.Result, error)
	calls []scoring.Request
}

func (f *fakeScorer) Score(ctx context.Context, req scoring.Request) (*scoring.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, req)
	}
	return okResult(0.8), nil
}

func okResult(probability float64) *scoring.Result {
	salary := 300000.0
	return &scoring.Result{
		Placement: models.PlacementOutcome{Placed: probability >= 0.5, Probability: probability, Confidence: 0.9},
		Salary: &scoring.SalaryResult{
			ExpectedSalary: &salary,
			SalaryRange:    &models.SalaryRange{Min: 250000, Max: 350000},
		},
		SkillAnalysis: models.SkillAnalysis{
			Recommendations:      []string{"Practice aptitude tests"},
			OverallScore:         72,
			ImprovementPotential: "moderate",
		},
	}
}

type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.store, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs []models.BulkRun
}

func (r *fakeRunRepo) Insert(_ context.Context, run *models.BulkRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *run)
	return nil
}

func (r *fakeRunRepo) GetByRunID(_ context.Context, runID string) (*models.BulkRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.RunID == runID {
			out := run
			return &out, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeRunRepo) ListByOwner(_ context.Context, ownerID string, _ int64) ([]models.BulkRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.BulkRun{}
	for _, run := range r.runs {
		if run.OwnerID == ownerID {
			out = append(out, run)
		}
	}
	return out, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeUploader() *fakeUploader { return &fakeUploader{objects: map[string][]byte{}} }

func (u *fakeUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[objectName] = buf.Bytes()
	return objectName, nil
}

func validInput(name, enrollment string) SubmissionInput {
	return SubmissionInput{
		Name:             name,
		EnrollmentNumber: enrollment,
		Batch:            "2024",
		Branch:           "CSE",
		Academics: models.Academics{
			Gender:         "M",
			SSCPercent:     67,
			SSCBoard:       "Others",
			HSCPercent:     91,
			HSCBoard:       "Others",
			HSCStream:      "Commerce",
			DegreePercent:  58,
			DegreeType:     "Sci&Tech",
			WorkExperience: "No",
			EtestPercent:   55,
			Specialisation: "Mkt&HR",
			MBAPercent:     58.8,
		},
		Skills: []string{"Python", "SQL"},
	}
}
