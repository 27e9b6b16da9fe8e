// Package housekeeping drives the periodic maintenance pass: streak decay,
// the daily score reset, and abandoned session cleanup.
package housekeeping

import (
	"context"
	"sync"
	"time"

	"github.com/meera/leitbox/internal/logger"
)

// StatsMaintainer is the slice of the stats service the runner needs.
// Declared here so the package does not import services.
type StatsMaintainer interface {
	RunHousekeeping(ctx context.Context, now time.Time) error
}

// Runner invokes the maintenance pass once at startup, on a fixed interval,
// and at local midnight so the daily reset lands on the day boundary rather
// than up to an interval late.
type Runner struct {
	stats    StatsMaintainer
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	log      *logger.Logger
}

func NewRunner(stats StatsMaintainer, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	log := logger.Default().WithPrefix("housekeeping")
	log.Debug("creating housekeeping runner with interval %s", interval)
	return &Runner{
		stats:    stats,
		interval: interval,
		log:      log,
	}
}

func (r *Runner) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.log.Info("starting housekeeping runner, interval %s", r.interval)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		runCtx := logger.NewContext(ctx, r.log)
		r.runOnce(runCtx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		midnight := time.NewTimer(UntilNextMidnight(time.Now()))
		defer midnight.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Debug("runner shutting down (context cancelled)")
				return
			case <-ticker.C:
				r.runOnce(runCtx)
			case <-midnight.C:
				r.runOnce(runCtx)
				midnight.Reset(UntilNextMidnight(time.Now()))
			}
		}
	}()
}

func (r *Runner) Stop() {
	r.log.Info("stopping housekeeping runner")
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.log.Info("housekeeping runner stopped")
}

func (r *Runner) runOnce(ctx context.Context) {
	start := time.Now()
	if err := r.stats.RunHousekeeping(ctx, start); err != nil {
		r.log.Error("maintenance pass failed after %v: %v", time.Since(start), err)
		return
	}
	r.log.Debug("maintenance pass completed in %v", time.Since(start))
}

// UntilNextMidnight returns the duration until the next local day boundary,
// with a small slack so the pass runs just after the day flips.
func UntilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now) + time.Second
}
