package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campusplace/backend/internal/models"
	mongorepo "github.com/campusplace/backend/internal/repositories/mongo"
	"github.com/campusplace/backend/internal/storage"
	"github.com/campusplace/backend/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// BulkConfig bounds the load one run puts on the scoring service.
type BulkConfig struct {
	// Concurrency is the number of items scored at once. 1 (the default)
	// processes strictly sequentially.
	Concurrency int
	// ItemTimeout caps one item's full create-score-create sequence so a
	// hung scoring call cannot wedge the whole run.
	ItemTimeout time.Duration
}

func (c BulkConfig) withDefaults() BulkConfig {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.ItemTimeout <= 0 {
		c.ItemTimeout = 60 * time.Second
	}
	return c
}

// BulkService applies the submission flow to an ordered collection of
// payloads, isolating failures per item.
type BulkService interface {
	// Ingest processes items in input order and returns the run summary.
	// One item's failure never aborts the others; the summary's error list
	// preserves input order.
	Ingest(ctx context.Context, ownerID string, items []SubmissionInput) (*models.BulkRun, error)
	// Run returns a past run's summary, scoped to its owner.
	Run(ctx context.Context, ownerID, runID string) (*models.BulkRun, error)
	// Runs returns the owner's recent run summaries, newest first.
	Runs(ctx context.Context, ownerID string) ([]models.BulkRun, error)
}

const runHistoryLimit = 20

type bulkService struct {
	submissions SubmissionService
	runs        mongorepo.BulkRunRepository // optional audit trail
	reports     storage.Uploader            // optional report export
	cfg         BulkConfig
	log         *logrus.Logger
}

func NewBulkService(
	submissions SubmissionService,
	runs mongorepo.BulkRunRepository,
	reports storage.Uploader,
	cfg BulkConfig,
	log *logrus.Logger,
) BulkService {
	return &bulkService{
		submissions: submissions,
		runs:        runs,
		reports:     reports,
		cfg:         cfg.withDefaults(),
		log:         log,
	}
}

func (s *bulkService) Ingest(ctx context.Context, ownerID string, items []SubmissionInput) (*models.BulkRun, error) {
	const op = "BulkService.Ingest"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account is required", nil)
	}
	if len(items) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "provide at least one student", nil)
	}

	itemErrs := make([]error, len(items))
	if s.cfg.Concurrency == 1 {
		for i := range items {
			itemErrs[i] = s.ingestOne(ctx, ownerID, items[i])
		}
	} else {
		sem := semaphore.NewWeighted(int64(s.cfg.Concurrency))
		var wg sync.WaitGroup
		for i := range items {
			if err := sem.Acquire(ctx, 1); err != nil {
				itemErrs[i] = err
				continue
			}
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer sem.Release(1)
				itemErrs[i] = s.ingestOne(ctx, ownerID, items[i])
			}(i)
		}
		wg.Wait()
	}

	run := &models.BulkRun{
		RunID:     uuid.NewString(),
		OwnerID:   ownerID,
		Total:     len(items),
		Errors:    []models.BulkRunError{},
		CreatedAt: time.Now().UTC(),
	}
	for i, err := range itemErrs {
		if err == nil {
			run.SuccessCount++
			continue
		}
		run.FailureCount++
		run.Errors = append(run.Errors, models.BulkRunError{
			Item:  itemIdentifier(items[i]),
			Error: err.Error(),
		})
	}

	s.exportReport(ctx, run)
	s.persistRun(ctx, run)

	s.logSummary(run)
	return run, nil
}

func (s *bulkService) Run(ctx context.Context, ownerID, runID string) (*models.BulkRun, error) {
	const op = "BulkService.Run"

	if runID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "run_id is required", nil)
	}
	if s.runs == nil {
		return nil, utils.E(utils.CodeInternal, op, "bulk run store is not configured", nil)
	}

	run, err := s.runs.GetByRunID(ctx, runID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "bulk run not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get bulk run", err)
	}
	if run.OwnerID != ownerID {
		return nil, utils.E(utils.CodeForbidden, op, "not authorized to access this bulk run", nil)
	}
	return run, nil
}

func (s *bulkService) Runs(ctx context.Context, ownerID string) ([]models.BulkRun, error) {
	const op = "BulkService.Runs"

	if ownerID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner account is required", nil)
	}
	if s.runs == nil {
		return nil, utils.E(utils.CodeInternal, op, "bulk run store is not configured", nil)
	}

	runs, err := s.runs.ListByOwner(ctx, ownerID, runHistoryLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list bulk runs", err)
	}
	return runs, nil
}

// ingestOne runs the full submission flow for one item under its own
// timeout. Bulk profiles stay ownerless; only the prediction carries the
// invoking account.
func (s *bulkService) ingestOne(ctx context.Context, ownerID string, item SubmissionInput) error {
	itemCtx, cancel := context.WithTimeout(ctx, s.cfg.ItemTimeout)
	defer cancel()

	_, err := s.submissions.Submit(itemCtx, item, SubmitOptions{
		OwnerID:          ownerID,
		AttributeProfile: false,
		ManuallyAdded:    true,
	})
	return err
}

func itemIdentifier(in SubmissionInput) string {
	if in.EnrollmentNumber != "" {
		return in.EnrollmentNumber
	}
	if in.Name != "" {
		return in.Name
	}
	return "Unknown"
}

// exportReport uploads the summary as a JSON object when a reports bucket
// is configured. The run is already complete; an export failure only
// costs the report, never the run.
func (s *bulkService) exportReport(ctx context.Context, run *models.BulkRun) {
	if s.reports == nil {
		return
	}

	body, err := json.Marshal(run)
	if err != nil {
		return
	}

	objectName := fmt.Sprintf("bulk-runs/%s.json", run.RunID)
	path, err := s.reports.Upload(ctx, objectName, "application/json", bytes.NewReader(body))
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("run_id", run.RunID).Warn("failed to export bulk run report")
		}
		return
	}
	run.ReportPath = path
}

func (s *bulkService) persistRun(ctx context.Context, run *models.BulkRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Insert(ctx, run); err != nil && s.log != nil {
		s.log.WithError(err).WithField("run_id", run.RunID).Warn("failed to persist bulk run summary")
	}
}

func (s *bulkService) logSummary(run *models.BulkRun) {
	if s.log == nil {
		return
	}
	s.log.WithFields(logrus.Fields{
		"run_id":  run.RunID,
		"total":   run.Total,
		"success": run.SuccessCount,
		"failed":  run.FailureCount,
	}).Info("bulk ingestion completed")
}
