package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/campusplace/backend/internal/cache"
	"github.com/campusplace/backend/internal/models"
	pgrepo "github.com/campusplace/backend/internal/repositories/postgres"
	"github.com/campusplace/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// Sort keys accepted by the list/rank query. Anything else falls back to
// newest-first.
const (
	SortProbabilityDesc = "prob_desc"
	SortSalaryDesc      = "salary_desc"
)

type RankOptions struct {
	Batch  string // exact-match filter on the profile's batch, "" = no filter
	Branch string // exact-match filter on the profile's branch, "" = no filter
	Sort   string
}

// RankedStudent is one row of the owner-scoped prediction/profile join.
type RankedStudent struct {
	Prediction models.Prediction     `json:"prediction"`
	Student    models.StudentProfile `json:"student"`
}

type DashboardStats struct {
	TotalStudents  int     `json:"totalStudents"`
	AvgProbability float64 `json:"avgProbability"`
	PlacedCount    int     `json:"placedCount"`
	// AvgSalary averages only the predictions that carry an expected
	// salary; with none it stays 0.
	AvgSalary float64 `json:"avgSalary"`
}

// RankingService answers the read queries over the predictions owned by
// one account, each joined 1:1 to its profile. Both queries are read-only.
type RankingService interface {
	// Rank filters and orders the owner's joined rows. Filters are
	// conjunctive equality matches; ties in the sort key keep insertion
	// order so pagination and exports stay deterministic.
	Rank(ctx context.Context, ownerID string, opts RankOptions) ([]RankedStudent, error)
	// Stats aggregates over all the owner's predictions. An owner with no
	// predictions gets the all-zero record, not an error.
	Stats(ctx context.Context, ownerID string) (*DashboardStats, error)
	// Student returns one profile together with the owner's prediction
	// for it.
	Student(ctx context.Context, ownerID, profileID string) (*RankedStudent, error)
}

const statsCacheTTL = 60 * time.Second

func statsCacheKey(ownerID string) string { return "college:stats:" + ownerID }

type rankingService struct {
	predictions pgrepo.PredictionRepository
	profiles    pgrepo.StudentProfileRepository
	cache       cache.Cache // optional
	log         *logrus.Logger
}

func NewRankingService(
	predictions pgrepo.PredictionRepository,
	profiles pgrepo.StudentProfileRepository,
	c cache.Cache,
	log *logrus.Logger,
) RankingService {
	return &rankingService{
		predictions: predictions,
		profiles:    profiles,
		cache:       c,
		log:         log,
	}
}

func (s *rankingService) Rank(ctx context.Context, ownerID string, opts RankOptions) ([]RankedStudent, error) {
	const op = "RankingService.Rank"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account is required", nil)
	}

	joined, err := s.predictions.ListJoinedByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list predictions", err)
	}

	rows := make([]RankedStudent, 0, len(joined))
	for _, row := range joined {
		if opts.Batch != "" && row.Profile.Batch != opts.Batch {
			continue
		}
		if opts.Branch != "" && row.Profile.Branch != opts.Branch {
			continue
		}
		rows = append(rows, RankedStudent{Prediction: row.Prediction, Student: row.Profile})
	}

	// Rows arrive in insertion order; a stable sort keeps that order for
	// ties in the requested key.
	switch opts.Sort {
	case SortProbabilityDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Prediction.Placement.Probability > rows[j].Prediction.Placement.Probability
		})
	case SortSalaryDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return expectedSalary(rows[i].Prediction) > expectedSalary(rows[j].Prediction)
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Prediction.CreatedAt.After(rows[j].Prediction.CreatedAt)
		})
	}

	return rows, nil
}

func (s *rankingService) Stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	const op = "RankingService.Stats"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account is required", nil)
	}

	if s.cache != nil {
		var cached DashboardStats
		if hit, err := s.cache.GetJSON(ctx, statsCacheKey(ownerID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	preds, err := s.predictions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list predictions", err)
	}

	stats := computeStats(preds)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey(ownerID), stats, statsCacheTTL); err != nil && s.log != nil {
			s.log.WithError(err).Debug("failed to cache dashboard stats")
		}
	}
	return stats, nil
}

func (s *rankingService) Student(ctx context.Context, ownerID, profileID string) (*RankedStudent, error) {
	const op = "RankingService.Student"

	if ownerID == "" || profileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account and student id are required", nil)
	}

	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "student not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get student profile", err)
	}

	pred, err := s.predictions.GetByProfileAndOwner(ctx, profileID, ownerID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "prediction data not found for this student", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get prediction", err)
	}

	return &RankedStudent{Prediction: *pred, Student: *profile}, nil
}

func computeStats(preds []models.Prediction) *DashboardStats {
	stats := &DashboardStats{TotalStudents: len(preds)}
	if len(preds) == 0 {
		return stats
	}

	var probSum, salarySum float64
	var salaryCount int
	for _, p := range preds {
		probSum += p.Placement.Probability
		if p.Placement.Placed {
			stats.PlacedCount++
		}
		if p.Salary.ExpectedSalary != nil {
			salarySum += *p.Salary.ExpectedSalary
			salaryCount++
		}
	}

	stats.AvgProbability = probSum / float64(len(preds))
	if salaryCount > 0 {
		stats.AvgSalary = salarySum / float64(salaryCount)
	}
	return stats
}

// expectedSalary orders predictions without a salary estimate last in a
// descending sort.
func expectedSalary(p models.Prediction) float64 {
	if p.Salary.ExpectedSalary == nil {
		return -1
	}
	return *p.Salary.ExpectedSalary
}
