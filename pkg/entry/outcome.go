package entry

import (
	"context"
	"log/slog"
	"time"

	"github.com/fib-entry-bot/pkg/strategy"
)

// Event classifies how an instrument's evaluation ended
type Event string

const (
	EventSkip        Event = "skip"
	EventNoSignal    Event = "no_signal"
	EventError       Event = "error"
	EventTradeOpened Event = "trade_opened"
	EventTradeFailed Event = "trade_failed"
)

// Pricing holds the stop and target prices implied by the desired PnL,
// and the PnL the position would realise at each of them
type Pricing struct {
	DesiredSLPnL     float64
	DesiredTPPnL     float64
	SLInclCommission float64
	SLExclCommission float64
	TPInclCommission float64
	TPExclCommission float64
	PnLAtSLIncl      float64
	PnLAtSLExcl      float64
	PnLAtTPIncl      float64
	PnLAtTPExcl      float64
}

// Outcome is the structured result of evaluating one instrument
type Outcome struct {
	Event  Event
	Symbol string
	Gate   string // Gate that ended the evaluation
	Reason string
	Err    error

	Trend     strategy.Trend
	Pattern   strategy.Pattern
	Price     float64
	SwingHigh float64
	SwingLow  float64
	Levels    []float64

	Signal  *strategy.Signal
	Order   *OrderRequest
	Handle  *OrderHandle
	Pricing *Pricing
}

// Level returns the log level for the outcome: errors and failed trades at error, the rest at info
func (o Outcome) Level() slog.Level {
	switch o.Event {
	case EventError, EventTradeFailed:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log writes the outcome as one structured record
func (o Outcome) Log(ctx context.Context, logger *slog.Logger) {
	attrs := []slog.Attr{
		slog.String("event", string(o.Event)),
		slog.String("symbol", o.Symbol),
		slog.String("gate", o.Gate),
	}
	if o.Reason != "" {
		attrs = append(attrs, slog.String("reason", o.Reason))
	}
	if o.Err != nil {
		attrs = append(attrs, slog.String("error", o.Err.Error()))
	}
	if o.Trend != "" {
		attrs = append(attrs, slog.String("trend", string(o.Trend)))
	}
	if o.Pattern != "" {
		attrs = append(attrs, slog.String("candlestick_pattern", string(o.Pattern)))
	}
	if o.Price != 0 {
		attrs = append(attrs,
			slog.Float64("price", o.Price),
			slog.Float64("swing_high", o.SwingHigh),
			slog.Float64("swing_low", o.SwingLow),
		)
	}
	if len(o.Levels) > 0 {
		attrs = append(attrs, slog.Any("fibonacci_levels", o.Levels))
	}
	if o.Signal != nil {
		attrs = append(attrs, slog.Group("signal",
			slog.String("side", string(o.Signal.Side)),
			slog.Float64("level_ratio", o.Signal.Level.Ratio),
			slog.Float64("level_price", o.Signal.Level.Price),
			slog.Float64("sl", o.Signal.StopLoss),
			slog.Float64("tp", o.Signal.TakeProfit),
		))
	}
	if o.Order != nil {
		attrs = append(attrs, slog.Group("order",
			slog.Float64("volume", o.Order.Volume),
			slog.Float64("sl", o.Order.StopLoss),
			slog.Float64("tp", o.Order.TakeProfit),
			slog.Float64("capital", o.Order.Sizing.Capital),
			slog.Float64("notional", o.Order.Sizing.Notional),
			slog.Float64("commission", o.Order.Sizing.Commission),
		))
	}
	if o.Handle != nil {
		attrs = append(attrs, slog.String("order_id", o.Handle.OrderID))
	}
	if p := o.Pricing; p != nil {
		attrs = append(attrs, slog.Group("pricing",
			slog.Float64("desired_sl_pnl", p.DesiredSLPnL),
			slog.Float64("desired_tp_pnl", p.DesiredTPPnL),
			slog.Float64("sl_including_commission", p.SLInclCommission),
			slog.Float64("sl_excluding_commission", p.SLExclCommission),
			slog.Float64("tp_including_commission", p.TPInclCommission),
			slog.Float64("tp_excluding_commission", p.TPExclCommission),
			slog.Float64("pnl_at_sl_including_commission", p.PnLAtSLIncl),
			slog.Float64("pnl_at_sl_excluding_commission", p.PnLAtSLExcl),
			slog.Float64("pnl_at_tp_including_commission", p.PnLAtTPIncl),
			slog.Float64("pnl_at_tp_excluding_commission", p.PnLAtTPExcl),
		))
	}

	logger.LogAttrs(ctx, o.Level(), "entry "+string(o.Event), attrs...)
}

// CycleReport summarises one pass over the instrument list
type CycleReport struct {
	Started  time.Time
	Finished time.Time
	Outcomes []Outcome
	Err      error // Cycle-level failure (data source abort or recovered panic)
	Panicked bool
}

// Count returns how many outcomes ended with the given event
func (r CycleReport) Count(event Event) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Event == event {
			n++
		}
	}
	return n
}

// Aborted reports whether the cycle stopped before visiting every instrument
func (r CycleReport) Aborted() bool {
	return r.Err != nil
}
