package services

import (
	"context"

	"github.com/sirupsen/logrus"
)

// sagaStep is one unit of a multi-store write sequence. compensate undoes
// run and may be nil when there is nothing to undo.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga executes steps in order. On the first failure it unwinds the
// already-completed steps in reverse and returns the failing step's error.
// Compensation runs on a context detached from cancellation so that a
// timed-out step still gets cleaned up; a compensation failure is logged
// and does not mask the original error.
func runSaga(ctx context.Context, log *logrus.Logger, steps []sagaStep) error {
	done := make([]sagaStep, 0, len(steps))
	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			done = append(done, step)
			continue
		}

		undoCtx := context.WithoutCancel(ctx)
		for i := len(done) - 1; i >= 0; i-- {
			if done[i].compensate == nil {
				continue
			}
			if cerr := done[i].compensate(undoCtx); cerr != nil && log != nil {
				log.WithFields(logrus.Fields{
					"step":        done[i].name,
					"failed_step": step.name,
				}).WithError(cerr).Error("saga compensation failed")
			}
		}
		return err
	}
	return nil
}
