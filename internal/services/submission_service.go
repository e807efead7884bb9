package services

import (
	"context"
	"time"

	"github.com/campusplace/backend/internal/cache"
	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/providers/scoring"
	pgrepo "github.com/campusplace/backend/internal/repositories/postgres"
	"github.com/campusplace/backend/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SubmissionInput is one raw submission payload, shared by the single and
// bulk paths.
type SubmissionInput struct {
	Name             string              `json:"name"`
	EnrollmentNumber string              `json:"enrollmentNumber"`
	Batch            string              `json:"batch"`
	Branch           string              `json:"branch"`
	Academics        models.Academics    `json:"academics"`
	Skills           []string            `json:"skills"`
	Projects         []models.Project    `json:"projects"`
	Internships      []models.Internship `json:"internships"`
	PlacementStatus  string              `json:"placementStatus"`
	SalaryOffered    *float64            `json:"salary_offered"`
}

// SubmitOptions distinguishes the self-submission, admin, and bulk paths.
type SubmitOptions struct {
	// OwnerID is the authenticated account the prediction is attributed to.
	OwnerID string
	// AttributeProfile records OwnerID on the profile row as well. Bulk
	// ingestion leaves it false: bulk profiles are ownerless and reach
	// their account only through the prediction (the ranking join relies
	// on this asymmetry).
	AttributeProfile bool
	// ManuallyAdded marks administrator-entered records, which must carry
	// an enrollment number.
	ManuallyAdded bool
}

type SubmissionResult struct {
	Profile    *models.StudentProfile `json:"student"`
	Prediction *models.Prediction     `json:"prediction"`
}

// SubmissionService turns one payload into a consistent (profile,
// prediction) pair, or no persisted state at all.
type SubmissionService interface {
	Submit(ctx context.Context, in SubmissionInput, opts SubmitOptions) (*SubmissionResult, error)
}

type submissionService struct {
	profiles    pgrepo.StudentProfileRepository
	predictions pgrepo.PredictionRepository
	scorer      scoring.Client
	cache       cache.Cache // optional; stats invalidation
	log         *logrus.Logger
}

func NewSubmissionService(
	profiles pgrepo.StudentProfileRepository,
	predictions pgrepo.PredictionRepository,
	scorer scoring.Client,
	c cache.Cache,
	log *logrus.Logger,
) SubmissionService {
	return &submissionService{
		profiles:    profiles,
		predictions: predictions,
		scorer:      scorer,
		cache:       c,
		log:         log,
	}
}

// Submit validates, creates the profile, calls the scorer, and creates the
// prediction as a saga whose only compensation is deleting the profile.
// After a successful return exactly one profile and one prediction exist
// and are linked; after a failure neither survives. Validation failures
// perform no writes at all.
func (s *submissionService) Submit(ctx context.Context, in SubmissionInput, opts SubmitOptions) (*SubmissionResult, error) {
	const op = "SubmissionService.Submit"

	if opts.OwnerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account is required", nil)
	}
	if in.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}
	if opts.ManuallyAdded && in.EnrollmentNumber == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "enrollment number is required", nil)
	}

	profile := s.buildProfile(in, opts)
	if err := profile.Validate(); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}

	var (
		result     *scoring.Result
		prediction *models.Prediction
	)

	steps := []sagaStep{
		{
			name: "create profile",
			run: func(ctx context.Context) error {
				if err := s.profiles.Create(ctx, profile); err != nil {
					return utils.E(utils.CodeInternal, op, "failed to create student profile", err)
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.profiles.Delete(ctx, profile.ID)
			},
		},
		{
			name: "score profile",
			run: func(ctx context.Context) error {
				out, err := s.scorer.Score(ctx, scoring.Request{
					Academics:   in.Academics,
					Skills:      profile.Skills,
					Projects:    in.Projects,
					Internships: in.Internships,
				})
				if err != nil {
					if utils.IsCode(err, utils.CodeUnavailable) {
						return err
					}
					return utils.E(utils.CodeUnavailable, op, "scoring service unavailable", err)
				}
				result = out
				return nil
			},
		},
		{
			name: "create prediction",
			run: func(ctx context.Context) error {
				prediction = buildPrediction(opts.OwnerID, profile.ID, result)
				if err := s.predictions.Create(ctx, prediction); err != nil {
					return utils.E(utils.CodeInternal, op, "failed to create prediction", err)
				}
				return nil
			},
		},
	}

	if err := runSaga(ctx, s.log, steps); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, opts.OwnerID)

	return &SubmissionResult{Profile: profile, Prediction: prediction}, nil
}

func (s *submissionService) buildProfile(in SubmissionInput, opts SubmitOptions) *models.StudentProfile {
	status := models.PlacementStatus(in.PlacementStatus)
	if status == "" {
		status = models.StatusSeeking
	}

	p := &models.StudentProfile{
		ID:               uuid.NewString(),
		Name:             in.Name,
		EnrollmentNumber: in.EnrollmentNumber,
		Batch:            in.Batch,
		Branch:           in.Branch,
		IsManuallyAdded:  opts.ManuallyAdded,
		Academics:        in.Academics,
		Skills:           dedupeSkills(in.Skills),
		Projects:         datatypes.NewJSONSlice(in.Projects),
		Internships:      datatypes.NewJSONSlice(in.Internships),
		PlacementStatus:  status,
		SalaryOffered:    in.SalaryOffered,
	}
	if opts.AttributeProfile {
		owner := opts.OwnerID
		p.OwnerID = &owner
	}
	return p
}

func buildPrediction(ownerID, profileID string, r *scoring.Result) *models.Prediction {
	p := &models.Prediction{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		ProfileID:     profileID,
		Placement:     r.Placement,
		SkillAnalysis: datatypes.NewJSONType(r.SkillAnalysis),
		CreatedAt:     time.Now().UTC(),
	}
	if r.Salary != nil {
		p.Salary = models.SalaryEstimate{
			ExpectedSalary: r.Salary.ExpectedSalary,
			SalaryRange:    datatypes.NewJSONType(r.Salary.SalaryRange),
		}
	}
	return p
}

// dedupeSkills drops repeated skills while preserving first-seen order.
func dedupeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, sk := range skills {
		if _, ok := seen[sk]; ok {
			continue
		}
		seen[sk] = struct{}{}
		out = append(out, sk)
	}
	return out
}

func (s *submissionService) invalidateStats(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(ownerID)); err != nil && s.log != nil {
		s.log.WithError(err).Debug("failed to invalidate stats cache")
	}
}
