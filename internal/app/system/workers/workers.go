// internal/app/system/workers/workers.go

// Package workers runs the scheduled maintenance jobs: carrying
// distribution switches over the working-day cutover and sweeping spent
// login tokens. Jobs are keyed to the fixed UTC+6 business timezone.
package workers

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/app/system/workday"
)

// SwitchCarrier copies distribution switches from one working day to the next.
type SwitchCarrier interface {
	CarryForward(ctx context.Context, fromDay, toDay string) (int64, error)
}

// TokenSweeper removes used and expired login tokens.
type TokenSweeper interface {
	DeleteExpiredUsed(ctx context.Context) (int64, error)
}

// Runner owns the cron scheduler and its jobs.
type Runner struct {
	cron     *cron.Cron
	switches SwitchCarrier
	tokens   TokenSweeper
	log      *zap.Logger
}

// NewRunner wires the scheduled jobs. The cutover job fires at 10:00 in
// the business timezone, the moment the working day rolls over.
func NewRunner(switches SwitchCarrier, tokens TokenSweeper, logger *zap.Logger) (*Runner, error) {
	r := &Runner{
		cron:     cron.New(cron.WithLocation(workday.Zone)),
		switches: switches,
		tokens:   tokens,
		log:      logger,
	}

	// Fires after 10:00:00.000 local; only the exact boundary instant maps
	// to the previous day, so Today() inside the job is the new day.
	if _, err := r.cron.AddFunc("0 10 * * *", r.runCutover); err != nil {
		return nil, err
	}
	if _, err := r.cron.AddFunc("0 * * * *", r.runTokenSweep); err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins job scheduling.
func (r *Runner) Start() {
	r.cron.Start()
	r.log.Info("scheduled workers started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("scheduled workers stopped")
}

func (r *Runner) runCutover() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	today := workday.Today()
	prev, err := workday.Previous(today)
	if err != nil {
		r.log.Error("cutover: resolve previous day failed", zap.Error(err))
		return
	}

	n, err := r.switches.CarryForward(ctx, prev, today)
	if err != nil {
		r.log.Error("cutover: carry switches forward failed",
			zap.String("from", prev),
			zap.String("to", today),
			zap.Error(err))
		return
	}
	r.log.Info("cutover: switches carried forward",
		zap.String("working_day", today),
		zap.Int64("count", n))
}

func (r *Runner) runTokenSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	n, err := r.tokens.DeleteExpiredUsed(ctx)
	if err != nil {
		r.log.Error("token sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		r.log.Info("token sweep removed spent tokens", zap.Int64("count", n))
	}
}
