package handlers

import (
	"net/http"

	"github.com/campusplace/backend/internal/services"
	"github.com/campusplace/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type CollegeHandler struct {
	submissions services.SubmissionService
	bulk        services.BulkService
	ranking     services.RankingService
}

func NewCollegeHandler(
	submissions services.SubmissionService,
	bulk services.BulkService,
	ranking services.RankingService,
) *CollegeHandler {
	return &CollegeHandler{submissions: submissions, bulk: bulk, ranking: ranking}
}

// AddStudent handles POST /api/college/students. Admin-entered records
// carry the manually-added flag and require an enrollment number.
func (h *CollegeHandler) AddStudent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CollegeHandler.AddStudent", "invalid request body", err))
		return
	}

	res, err := h.submissions.Submit(c.Request.Context(), req.toInput(), services.SubmitOptions{
		OwnerID:          userID,
		AttributeProfile: true,
		ManuallyAdded:    true,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Students handles GET /api/college/students with optional batch, branch
// and sort query params.
func (h *CollegeHandler) Students(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.ranking.Rank(c.Request.Context(), userID, services.RankOptions{
		Batch:  c.Query("batch"),
		Branch: c.Query("branch"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rows), "data": rows})
}

// StudentByID handles GET /api/college/students/:id.
func (h *CollegeHandler) StudentByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	row, err := h.ranking.Student(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// BulkAdd handles POST /api/college/students/bulk.
func (h *CollegeHandler) BulkAdd(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var reqs []StudentRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CollegeHandler.BulkAdd", "request body must be a JSON array of students", err))
		return
	}

	items := make([]services.SubmissionInput, len(reqs))
	for i, r := range reqs {
		items[i] = r.toInput()
	}

	run, err := h.bulk.Ingest(c.Request.Context(), userID, items)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// Stats handles GET /api/college/stats.
func (h *CollegeHandler) Stats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.ranking.Stats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// BulkRuns handles GET /api/college/bulk-runs.
func (h *CollegeHandler) BulkRuns(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	runs, err := h.bulk.Runs(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(runs), "data": runs})
}

// BulkRun handles GET /api/college/bulk-runs/:run_id.
func (h *CollegeHandler) BulkRun(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	run, err := h.bulk.Run(c.Request.Context(), userID, c.Param("run_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}
