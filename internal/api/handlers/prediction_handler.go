package handlers

import (
	"net/http"

	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/services"
	"github.com/campusplace/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	submissions services.SubmissionService
	predictions services.PredictionService
}

func NewPredictionHandler(submissions services.SubmissionService, predictions services.PredictionService) *PredictionHandler {
	return &PredictionHandler{submissions: submissions, predictions: predictions}
}

// StudentRequest is the wire shape of one submission payload, shared by the
// self-submission, admin, and bulk endpoints.
type StudentRequest struct {
	Name             string              `json:"name"`
	EnrollmentNumber string              `json:"enrollmentNumber"`
	Batch            string              `json:"batch"`
	Branch           string              `json:"branch"`
	Gender           string              `json:"gender"`
	SSCPercent       float64             `json:"ssc_p"`
	SSCBoard         string              `json:"ssc_b"`
	HSCPercent       float64             `json:"hsc_p"`
	HSCBoard         string              `json:"hsc_b"`
	HSCStream        string              `json:"hsc_s"`
	DegreePercent    float64             `json:"degree_p"`
	DegreeType       string              `json:"degree_t"`
	WorkExperience   string              `json:"workex"`
	EtestPercent     float64             `json:"etest_p"`
	Specialisation   string              `json:"specialisation"`
	MBAPercent       float64             `json:"mba_p"`
	Skills           []string            `json:"skills"`
	Projects         []models.Project    `json:"projects"`
	Internships      []models.Internship `json:"internships"`
	PlacementStatus  string              `json:"placementStatus"`
	SalaryOffered    *float64            `json:"salary_offered"`
}

func (r StudentRequest) toInput() services.SubmissionInput {
	return services.SubmissionInput{
		Name:             r.Name,
		EnrollmentNumber: r.EnrollmentNumber,
		Batch:            r.Batch,
		Branch:           r.Branch,
		Academics: models.Academics{
			Gender:         r.Gender,
			SSCPercent:     r.SSCPercent,
			SSCBoard:       r.SSCBoard,
			HSCPercent:     r.HSCPercent,
			HSCBoard:       r.HSCBoard,
			HSCStream:      r.HSCStream,
			DegreePercent:  r.DegreePercent,
			DegreeType:     r.DegreeType,
			WorkExperience: r.WorkExperience,
			EtestPercent:   r.EtestPercent,
			Specialisation: r.Specialisation,
			MBAPercent:     r.MBAPercent,
		},
		Skills:          r.Skills,
		Projects:        r.Projects,
		Internships:     r.Internships,
		PlacementStatus: r.PlacementStatus,
		SalaryOffered:   r.SalaryOffered,
	}
}

// Submit handles POST /api/predictions/submit.
func (h *PredictionHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PredictionHandler.Submit", "invalid request body", err))
		return
	}

	res, err := h.submissions.Submit(c.Request.Context(), req.toInput(), services.SubmitOptions{
		OwnerID:          userID,
		AttributeProfile: true,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// History handles GET /api/predictions/history.
func (h *PredictionHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.predictions.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rows), "data": rows})
}

// Get handles GET /api/predictions/:id.
func (h *PredictionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	row, err := h.predictions.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// Delete handles DELETE /api/predictions/:id.
func (h *PredictionHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.predictions.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "prediction deleted"})
}
