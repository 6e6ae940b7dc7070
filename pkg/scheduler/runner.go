package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fib-entry-bot/pkg/entry"
)

// ErrCycleInProgress is returned when a cycle is requested while another is running
var ErrCycleInProgress = errors.New("entry cycle already in progress")

// Cycler runs one entry cycle
type Cycler interface {
	RunCycle(ctx context.Context) entry.CycleReport
}

// Options configures a Runner
type Options struct {
	Interval   time.Duration // Time between cycle starts
	Budget     time.Duration // Wall-clock limit for one attempt
	MaxRetries int           // Retries after a data-source abort
	Backoff    time.Duration // First retry delay, doubled each attempt
}

// DefaultOptions mirror the original task settings
func DefaultOptions() Options {
	return Options{
		Interval:   time.Minute,
		Budget:     30 * time.Second,
		MaxRetries: 3,
		Backoff:    2 * time.Second,
	}
}

// Runner triggers entry cycles periodically, never more than one at a time
type Runner struct {
	cycler Cycler
	opts   Options
	logger *slog.Logger
	mu     sync.Mutex
}

// NewRunner creates a runner
func NewRunner(cycler Cycler, opts Options, logger *slog.Logger) *Runner {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Budget <= 0 {
		opts.Budget = def.Budget
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = def.Backoff
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cycler: cycler, opts: opts, logger: logger}
}

// RunOnce runs one cycle, retrying with exponential backoff while it aborts on
// a data-source failure. Each attempt gets its own time budget.
func (r *Runner) RunOnce(ctx context.Context) (entry.CycleReport, error) {
	if !r.mu.TryLock() {
		return entry.CycleReport{}, ErrCycleInProgress
	}
	defer r.mu.Unlock()

	delay := r.opts.Backoff
	for attempt := 0; ; attempt++ {
		report := r.attempt(ctx)
		r.logReport(report, attempt)

		if report.Err == nil || !errors.Is(report.Err, entry.ErrDataSource) {
			return report, nil
		}
		if attempt >= r.opts.MaxRetries {
			r.logger.Error("entry cycle failed, retries exhausted", "attempts", attempt+1, "error", report.Err)
			return report, report.Err
		}

		r.logger.Warn("entry cycle aborted, retrying", "attempt", attempt+1, "delay", delay, "error", report.Err)
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (r *Runner) attempt(ctx context.Context) entry.CycleReport {
	cycleCtx, cancel := context.WithTimeout(ctx, r.opts.Budget)
	defer cancel()

	report := r.cycler.RunCycle(cycleCtx)
	if errors.Is(cycleCtx.Err(), context.DeadlineExceeded) {
		r.logger.Warn("entry cycle exceeded its time budget", "budget", r.opts.Budget)
	}
	return report
}

func (r *Runner) logReport(report entry.CycleReport, attempt int) {
	r.logger.Info("entry cycle finished",
		"attempt", attempt+1,
		"duration", report.Finished.Sub(report.Started),
		"instruments", len(report.Outcomes),
		"opened", report.Count(entry.EventTradeOpened),
		"failed", report.Count(entry.EventTradeFailed),
		"skipped", report.Count(entry.EventSkip),
		"no_signal", report.Count(entry.EventNoSignal),
		"errors", report.Count(entry.EventError),
		"aborted", report.Aborted(),
	)
}

// Run executes a cycle immediately and then on every interval until ctx is done
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("scheduler started", "interval", r.opts.Interval, "budget", r.opts.Budget)

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("entry cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
