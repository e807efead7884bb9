package models

import (
	"time"

	"gorm.io/datatypes"
)

type PlacementOutcome struct {
	Placed      bool    `gorm:"column:placed" json:"placed"`
	Probability float64 `gorm:"column:probability" json:"probability"` // [0,1]
	Confidence  float64 `gorm:"column:confidence" json:"confidence"`   // [0,1]
}

type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SalaryEstimate struct {
	ExpectedSalary *float64                         `gorm:"column:expected_salary" json:"expected_salary"`
	SalaryRange    datatypes.JSONType[*SalaryRange] `gorm:"column:salary_range;type:jsonb" json:"salary_range"`
}

type SkillGap struct {
	Area     string `json:"area"`
	Current  string `json:"current"`
	Target   string `json:"target"`
	Priority string `json:"priority"`
}

type SkillAnalysis struct {
	SkillGaps            []SkillGap `json:"skill_gaps"`
	Recommendations      []string   `json:"recommendations"`
	OverallScore         float64    `json:"overall_score"`
	ImprovementPotential string     `json:"improvement_potential"`
}

// Prediction is one scoring outcome for one StudentProfile. Rows are
// immutable after creation; the only write after Create is an explicit
// delete. OwnerID is always set, even when the joined profile is ownerless.
type Prediction struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID   string `gorm:"column:owner_id;type:uuid;index:idx_predictions_owner" json:"userId"`
	ProfileID string `gorm:"column:profile_id;type:uuid;index" json:"profileId"`

	Placement PlacementOutcome `gorm:"embedded;embeddedPrefix:placement_" json:"placement"`
	Salary    SalaryEstimate   `gorm:"embedded" json:"salary"`

	SkillAnalysis datatypes.JSONType[SkillAnalysis] `gorm:"column:skill_analysis;type:jsonb" json:"skill_analysis"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
}

func (Prediction) TableName() string { return "predictions" }
