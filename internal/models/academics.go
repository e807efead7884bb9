package models

import "fmt"

// Academics holds the fixed academic fields consumed by the scoring model.
// Enumerations and ranges mirror the scoring service contract; values outside
// them are rejected at creation time, never clamped.
type Academics struct {
	Gender         string  `gorm:"column:gender;type:text" json:"gender"`
	SSCPercent     float64 `gorm:"column:ssc_p" json:"ssc_p"`
	SSCBoard       string  `gorm:"column:ssc_b;type:text" json:"ssc_b"`
	HSCPercent     float64 `gorm:"column:hsc_p" json:"hsc_p"`
	HSCBoard       string  `gorm:"column:hsc_b;type:text" json:"hsc_b"`
	HSCStream      string  `gorm:"column:hsc_s;type:text" json:"hsc_s"`
	DegreePercent  float64 `gorm:"column:degree_p" json:"degree_p"`
	DegreeType     string  `gorm:"column:degree_t;type:text" json:"degree_t"`
	WorkExperience string  `gorm:"column:workex;type:text" json:"workex"`
	EtestPercent   float64 `gorm:"column:etest_p" json:"etest_p"`
	Specialisation string  `gorm:"column:specialisation;type:text" json:"specialisation"`
	MBAPercent     float64 `gorm:"column:mba_p" json:"mba_p"`
}

var (
	genders         = []string{"M", "F"}
	boards          = []string{"Central", "Others"}
	hscStreams      = []string{"Commerce", "Science", "Arts"}
	degreeTypes     = []string{"Sci&Tech", "Comm&Mgmt", "Others"}
	workExperiences = []string{"Yes", "No"}
	specialisations = []string{"Mkt&HR", "Mkt&Fin"}
)

func (a Academics) Validate() error {
	if err := oneOf("gender", a.Gender, genders); err != nil {
		return err
	}
	if err := percent("ssc_p", a.SSCPercent); err != nil {
		return err
	}
	if err := oneOf("ssc_b", a.SSCBoard, boards); err != nil {
		return err
	}
	if err := percent("hsc_p", a.HSCPercent); err != nil {
		return err
	}
	if err := oneOf("hsc_b", a.HSCBoard, boards); err != nil {
		return err
	}
	if err := oneOf("hsc_s", a.HSCStream, hscStreams); err != nil {
		return err
	}
	if err := percent("degree_p", a.DegreePercent); err != nil {
		return err
	}
	if err := oneOf("degree_t", a.DegreeType, degreeTypes); err != nil {
		return err
	}
	if err := oneOf("workex", a.WorkExperience, workExperiences); err != nil {
		return err
	}
	if err := percent("etest_p", a.EtestPercent); err != nil {
		return err
	}
	if err := oneOf("specialisation", a.Specialisation, specialisations); err != nil {
		return err
	}
	return percent("mba_p", a.MBAPercent)
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", field, allowed, v)
}

func percent(field string, v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %v", field, v)
	}
	return nil
}
