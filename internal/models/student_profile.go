package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type PlacementStatus string

const (
	StatusSeeking   PlacementStatus = "Seeking"
	StatusPlaced    PlacementStatus = "Placed"
	StatusNotPlaced PlacementStatus = "Not Placed"
)

func (s PlacementStatus) Valid() bool {
	switch s {
	case StatusSeeking, StatusPlaced, StatusNotPlaced:
		return true
	}
	return false
}

type Project struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
}

type Internship struct {
	Role     string `json:"role"`
	Company  string `json:"company"`
	Duration string `json:"duration"` // e.g. "3 months"
}

// StudentProfile is one student's academic, skill, and status record.
// OwnerID is nullable: bulk-ingested rows are ownerless and reach their
// owning account only through the Prediction they are joined to.
type StudentProfile struct {
	ID               string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID          *string `gorm:"column:owner_id;type:uuid;index" json:"userId,omitempty"`
	Name             string  `gorm:"column:name;type:text" json:"name"`
	EnrollmentNumber string  `gorm:"column:enrollment_number;type:text" json:"enrollmentNumber,omitempty"`
	Batch            string  `gorm:"column:batch;type:text" json:"batch,omitempty"`
	Branch           string  `gorm:"column:branch;type:text" json:"branch,omitempty"`
	IsManuallyAdded  bool    `gorm:"column:is_manually_added" json:"isManuallyAdded"`

	Academics

	Skills      pq.StringArray                  `gorm:"column:skills;type:text[]" json:"skills"`
	Projects    datatypes.JSONSlice[Project]    `gorm:"column:projects;type:jsonb" json:"projects"`
	Internships datatypes.JSONSlice[Internship] `gorm:"column:internships;type:jsonb" json:"internships"`

	PlacementStatus PlacementStatus `gorm:"column:placement_status;type:text;default:Seeking" json:"placementStatus"`
	SalaryOffered   *float64        `gorm:"column:salary_offered" json:"salary_offered,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updatedAt"`
}

func (StudentProfile) TableName() string { return "student_profiles" }

func (p *StudentProfile) Validate() error {
	if err := p.Academics.Validate(); err != nil {
		return err
	}
	if p.PlacementStatus != "" && !p.PlacementStatus.Valid() {
		return fmt.Errorf("placementStatus must be one of Seeking, Placed, Not Placed, got %q", p.PlacementStatus)
	}
	return nil
}
