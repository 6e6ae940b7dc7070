package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/fib-entry-bot/pkg/config"
	"github.com/fib-entry-bot/pkg/strategy"
)

// Engine evaluates the configured instruments and opens at most one trade per
// instrument per cycle. It holds no state between cycles; callers must not run
// two cycles concurrently against the same account.
type Engine struct {
	cfg         config.Strategy
	rules       strategy.EntryRules
	instruments []string
	deps        Deps
	gates       []gate
	logger      *slog.Logger
	now         func() time.Time
	mode        string
}

// Option customises an Engine
type Option func(*Engine)

// WithLogger sets the logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the time source used for trade records
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMode labels persisted trades (live, paper)
func WithMode(mode string) Option {
	return func(e *Engine) { e.mode = mode }
}

// NewEngine creates an engine over an immutable copy of cfg
func NewEngine(cfg config.Strategy, deps Deps, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := deps.check(); err != nil {
		return nil, err
	}

	cfg = cfg.Clone()
	e := &Engine{
		cfg:         cfg,
		rules:       cfg.EntryRules(),
		instruments: cfg.Instruments(),
		deps:        deps,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.gates = e.pipeline()
	return e, nil
}

func (d Deps) check() error {
	checks := []struct {
		name    string
		missing bool
	}{
		{"Positions", d.Positions == nil},
		{"Session", d.Session == nil},
		{"Market", d.Market == nil},
		{"Account", d.Account == nil},
		{"Orders", d.Orders == nil},
		{"PnL", d.PnL == nil},
		{"Trades", d.Trades == nil},
	}
	for _, c := range checks {
		if c.missing {
			return fmt.Errorf("%w: %s", ErrMissingDependency, c.name)
		}
	}
	return nil
}

// Instruments returns the symbols visited each cycle, in order
func (e *Engine) Instruments() []string {
	return append([]string(nil), e.instruments...)
}

// RunCycle evaluates every instrument sequentially. A data-source failure
// aborts the remaining instruments; a panic is recovered and reported.
func (e *Engine) RunCycle(ctx context.Context) (report CycleReport) {
	report.Started = e.now()
	defer func() {
		if r := recover(); r != nil {
			report.Panicked = true
			report.Err = fmt.Errorf("cycle panic: %v", r)
			e.logger.Error("entry cycle panicked", "panic", r, "stack", string(debug.Stack()))
		}
		report.Finished = e.now()
	}()

	for _, symbol := range e.instruments {
		out, err := e.Evaluate(ctx, symbol)
		out.Log(ctx, e.logger)
		report.Outcomes = append(report.Outcomes, out)
		if err != nil {
			report.Err = err
			e.logger.Error("entry cycle aborted", "symbol", symbol, "error", err)
			return report
		}
	}

	e.logger.Debug("entry cycle complete",
		"instruments", len(e.instruments),
		"opened", report.Count(EventTradeOpened),
	)
	return report
}

// Evaluate runs the gate pipeline for one instrument. The returned error is
// non-nil only for cycle-level failures.
func (e *Engine) Evaluate(ctx context.Context, symbol string) (Outcome, error) {
	ev := &evaluation{symbol: symbol}
	for _, g := range e.gates {
		out, err := g.run(ctx, ev)
		if err != nil {
			failed := ev.outcome(EventError, err.Error())
			failed.Gate = g.name
			failed.Err = err
			if errors.Is(err, ErrDataSource) {
				return failed, err
			}
			return failed, nil
		}
		if out != nil {
			out.Gate = g.name
			return *out, nil
		}
	}
	// The submit gate always ends the pipeline
	return ev.outcome(EventError, "pipeline ended without outcome"), nil
}
