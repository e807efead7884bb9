package routes

import (
	"github.com/campusplace/backend/internal/api/handlers"
	"github.com/campusplace/backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Prediction *handlers.PredictionHandler
	College    *handlers.CollegeHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/api")
	auth.Use(middleware.JWTAuth())

	auth.POST("/predictions/submit", d.Prediction.Submit)
	auth.GET("/predictions/history", d.Prediction.History)
	auth.GET("/predictions/:id", d.Prediction.Get)
	auth.DELETE("/predictions/:id", d.Prediction.Delete)

	// College administration surface
	college := auth.Group("/college")
	college.Use(middleware.RequireCollege())

	college.POST("/students", d.College.AddStudent)
	college.GET("/students", d.College.Students)
	college.GET("/students/:id", d.College.StudentByID)
	college.POST("/students/bulk", d.College.BulkAdd)
	college.GET("/stats", d.College.Stats)
	college.GET("/bulk-runs", d.College.BulkRuns)
	college.GET("/bulk-runs/:run_id", d.College.BulkRun)
}
