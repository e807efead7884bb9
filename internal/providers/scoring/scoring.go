package scoring

import (
	"context"

	"github.com/campusplace/backend/internal/models"
)

// Request carries the academic/skill subset of a profile. Identity, owner,
// and status fields never leave the backend.
type Request struct {
	models.Academics

	Skills      []string            `json:"skills,omitempty"`
	Projects    []models.Project    `json:"projects,omitempty"`
	Internships []models.Internship `json:"internships,omitempty"`
}

// SalaryResult is absent entirely when the scorer predicts no placement.
type SalaryResult struct {
	ExpectedSalary *float64            `json:"expected_salary"`
	SalaryRange    *models.SalaryRange `json:"salary_range"`
}

type Result struct {
	Placement     models.PlacementOutcome `json:"placement"`
	Salary        *SalaryResult           `json:"salary"`
	SkillAnalysis models.SkillAnalysis    `json:"skill_analysis"`
}

// Client is the only boundary to the external scoring service. One call,
// no retries, no local side effects; retry policy belongs to the caller.
// Any failure (transport, timeout, non-success status) surfaces as a single
// CodeUnavailable error carrying the underlying cause.
type Client interface {
	Score(ctx context.Context, req Request) (*Result, error)
}
