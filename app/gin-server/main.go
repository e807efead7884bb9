package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/campusplace/backend/config"
	"github.com/campusplace/backend/internal/api/handlers"
	"github.com/campusplace/backend/internal/api/middleware"
	"github.com/campusplace/backend/internal/api/routes"
	"github.com/campusplace/backend/internal/cache"
	"github.com/campusplace/backend/internal/logger"
	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/providers/scoring"
	mongorepo "github.com/campusplace/backend/internal/repositories/mongo"
	pgrepo "github.com/campusplace/backend/internal/repositories/postgres"
	"github.com/campusplace/backend/internal/services"
	"github.com/campusplace/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.PostgresDB.AutoMigrate(&models.StudentProfile{}, &models.Prediction{}); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	log.Info("PostgreSQL connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	// Redis is optional; without it the stats queries just hit Postgres.
	var statsCache cache.Cache
	if os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_URI") != "" || os.Getenv("REDIS_URL") != "" {
		if err := config.InitRedis(); err != nil {
			log.WithError(err).Fatal("Redis init error")
		}
		statsCache = cache.NewRedisCache(config.RedisClient)
		log.Info("Redis connected")
	}

	// Report export is optional as well.
	var reports storage.Uploader
	if bucket := os.Getenv("REPORTS_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(context.Background(), bucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer up.Close()
		reports = up
	}

	scoringURL := os.Getenv("SCORING_URL")
	if scoringURL == "" {
		scoringURL = "http://localhost:8000"
	}
	scorer := scoring.NewHTTPClient(scoringURL, envDuration("SCORING_TIMEOUT", 0), log)

	profileRepo := pgrepo.NewStudentProfileRepo(config.PostgresDB)
	predictionRepo := pgrepo.NewPredictionRepo(config.PostgresDB)
	runRepo := mongorepo.NewBulkRunRepo(config.MongoDatabase())

	submissionSvc := services.NewSubmissionService(profileRepo, predictionRepo, scorer, statsCache, log)
	predictionSvc := services.NewPredictionService(predictionRepo, profileRepo)
	rankingSvc := services.NewRankingService(predictionRepo, profileRepo, statsCache, log)
	bulkSvc := services.NewBulkService(submissionSvc, runRepo, reports, services.BulkConfig{
		Concurrency: envInt("BULK_CONCURRENCY", 0),
		ItemTimeout: envDuration("BULK_ITEM_TIMEOUT", 0),
	}, log)

	d := routes.Deps{
		Prediction: handlers.NewPredictionHandler(submissionSvc, predictionSvc),
		College:    handlers.NewCollegeHandler(submissionSvc, bulkSvc, rankingSvc),
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())
	routes.RegisterRoutes(r, d)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
