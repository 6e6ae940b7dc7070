package entry

import (
	"context"
	"fmt"
	"strings"

	"github.com/fib-entry-bot/pkg/feed"
	"github.com/fib-entry-bot/pkg/journal"
	"github.com/fib-entry-bot/pkg/risk"
	"github.com/fib-entry-bot/pkg/strategy"
)

// Gate names, in pipeline order
const (
	GateOpenPosition  = "open_position"
	GateMarketSession = "market_session"
	GateBars          = "bars"
	GateSwingPoints   = "swing_points"
	GateFibonacci     = "fibonacci"
	GateTick          = "tick"
	GateSignal        = "signal"
	GateSizing        = "sizing"
	GatePricing       = "pricing"
	GateSubmit        = "submit"
)

// gate is one step of the pipeline. It returns a non-nil outcome to stop,
// nil to continue, or an error for an operational failure.
type gate struct {
	name string
	run  func(ctx context.Context, ev *evaluation) (*Outcome, error)
}

// evaluation accumulates what the gates learn about one instrument
type evaluation struct {
	symbol string

	primary []strategy.Bar // Trend and levels
	entry   []strategy.Bar // Pattern confirmation

	highs     []strategy.SwingPoint
	lows      []strategy.SwingPoint
	trend     strategy.Trend
	swingHigh float64
	swingLow  float64
	levels    []strategy.FibLevel

	pattern strategy.Pattern
	tick    *feed.Tick
	price   float64

	signal     *strategy.Signal
	entryPrice float64
	balance    float64
	stopPips   float64
	volume     float64

	sizing  Sizing
	pricing *Pricing
}

func (ev *evaluation) outcome(event Event, reason string) Outcome {
	return Outcome{
		Event:     event,
		Symbol:    ev.symbol,
		Reason:    reason,
		Trend:     ev.trend,
		Pattern:   ev.pattern,
		Price:     ev.price,
		SwingHigh: ev.swingHigh,
		SwingLow:  ev.swingLow,
		Levels:    strategy.LevelPrices(ev.levels),
		Signal:    ev.signal,
		Pricing:   ev.pricing,
	}
}

func (ev *evaluation) stop(event Event, reason string) *Outcome {
	out := ev.outcome(event, reason)
	return &out
}

func (e *Engine) pipeline() []gate {
	return []gate{
		{GateOpenPosition, e.gateOpenPosition},
		{GateMarketSession, e.gateMarketSession},
		{GateBars, e.gateBars},
		{GateSwingPoints, e.gateSwingPoints},
		{GateFibonacci, e.gateFibonacci},
		{GateTick, e.gateTick},
		{GateSignal, e.gateSignal},
		{GateSizing, e.gateSizing},
		{GatePricing, e.gatePricing},
		{GateSubmit, e.gateSubmit},
	}
}

func (e *Engine) gateOpenPosition(ctx context.Context, ev *evaluation) (*Outcome, error) {
	open, err := e.deps.Positions.HasOpenPosition(ctx, ev.symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to check open positions: %w", err)
	}
	if open {
		return ev.stop(EventSkip, "position already open"), nil
	}
	return nil, nil
}

func (e *Engine) gateMarketSession(ctx context.Context, ev *evaluation) (*Outcome, error) {
	open, err := e.deps.Session.IsMarketOpen(ctx, ev.symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to check market session: %w", err)
	}
	if !open {
		return ev.stop(EventSkip, "market closed"), nil
	}
	return nil, nil
}

func (e *Engine) gateBars(ctx context.Context, ev *evaluation) (*Outcome, error) {
	var err error
	// Two extra bars so the newest swing candidates have their right-hand neighbours
	ev.primary, err = e.deps.Market.FetchBars(ctx, ev.symbol, e.cfg.PrimaryTimeframe, e.cfg.Lookback+2)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s bars: %w", e.cfg.PrimaryTimeframe, err)
	}
	ev.entry, err = e.deps.Market.FetchBars(ctx, ev.symbol, e.cfg.EntryTimeframe, e.cfg.Lookback)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s bars: %w", e.cfg.EntryTimeframe, err)
	}
	if len(ev.primary) == 0 || len(ev.entry) == 0 {
		return ev.stop(EventSkip, "no data"), nil
	}
	return nil, nil
}

func (e *Engine) gateSwingPoints(_ context.Context, ev *evaluation) (*Outcome, error) {
	ev.highs, ev.lows = strategy.DetectSwingPoints(ev.primary)
	ev.trend = strategy.ClassifyTrend(ev.highs, ev.lows)
	return nil, nil
}

func (e *Engine) gateFibonacci(_ context.Context, ev *evaluation) (*Outcome, error) {
	if len(ev.highs) < 2 || len(ev.lows) < 2 {
		return ev.stop(EventSkip, "not enough swing points"), nil
	}
	ev.swingHigh = ev.highs[len(ev.highs)-1].Price
	ev.swingLow = ev.lows[len(ev.lows)-1].Price
	ev.levels = strategy.FibonacciLevels(ev.swingHigh, ev.swingLow, e.cfg.FibLevels)
	return nil, nil
}

func (e *Engine) gateTick(ctx context.Context, ev *evaluation) (*Outcome, error) {
	ev.pattern = strategy.DetectPattern(ev.entry)

	tick, err := e.deps.Market.CurrentTick(ctx, ev.symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tick: %w", err)
	}
	if tick == nil {
		out := ev.stop(EventSkip, "no tick info available")
		out.Err = ErrNoTick
		return out, nil
	}
	ev.tick = tick
	ev.price = tick.Price(ev.trend == strategy.Uptrend)
	return nil, nil
}

func (e *Engine) gateSignal(_ context.Context, ev *evaluation) (*Outcome, error) {
	ev.signal = e.rules.Synthesize(ev.trend, ev.pattern, ev.levels, ev.price, ev.swingHigh, ev.swingLow)
	if ev.signal == nil {
		return ev.stop(EventNoSignal, "no entry signal"), nil
	}
	return nil, nil
}

func (e *Engine) gateSizing(ctx context.Context, ev *evaluation) (*Outcome, error) {
	ev.entryPrice = ev.tick.Price(ev.signal.Side == strategy.Buy)

	account, err := e.deps.Account.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account balance: %w", err)
	}
	if account == nil {
		return nil, ErrNoAccount
	}
	ev.balance = account.Balance

	ev.stopPips = risk.StopLossPips(ev.entryPrice, ev.signal.StopLoss, ev.tick.Point)
	ev.volume = risk.PositionSize(e.cfg.RiskPerTrade, ev.balance, ev.stopPips, ev.tick.TickValue)
	if ev.volume < risk.MinVolume {
		return nil, fmt.Errorf("%w: %.2f lots (stop %.1f pips)", ErrVolumeTooLow, ev.volume, ev.stopPips)
	}
	return nil, nil
}

func (e *Engine) gatePricing(_ context.Context, ev *evaluation) (*Outcome, error) {
	pnl := e.deps.PnL
	dir := Direction(ev.signal.Side)
	leverage := e.cfg.Leverage

	capital := pnl.OrderCapital(ev.balance, e.cfg.RiskPerTrade)
	notional := pnl.OrderNotional(capital, leverage)
	commission := pnl.Commission(notional, ev.symbol)
	ev.sizing = Sizing{
		Capital:    capital,
		Notional:   notional,
		Leverage:   leverage,
		Commission: commission,
	}

	p := &Pricing{
		DesiredSLPnL: -capital * e.cfg.RiskPerTrade * e.cfg.SLMultiplier,
		DesiredTPPnL: capital * e.cfg.RiskPerTrade * e.cfg.TPMultiplier,
	}
	p.SLInclCommission, p.SLExclCommission = pnl.PriceAtPnL(p.DesiredSLPnL, commission, notional, leverage, ev.entryPrice, dir)
	p.TPInclCommission, p.TPExclCommission = pnl.PriceAtPnL(p.DesiredTPPnL, commission, notional, leverage, ev.entryPrice, dir)
	// Each price is checked against the PnL it was solved for
	pnlAt := func(price float64) (incl, excl float64) {
		return pnl.PnLAtPrice(price, ev.entryPrice, notional, leverage, dir, commission)
	}
	p.PnLAtSLIncl, _ = pnlAt(p.SLInclCommission)
	_, p.PnLAtSLExcl = pnlAt(p.SLExclCommission)
	p.PnLAtTPIncl, _ = pnlAt(p.TPInclCommission)
	_, p.PnLAtTPExcl = pnlAt(p.TPExclCommission)
	ev.pricing = p
	return nil, nil
}

func (e *Engine) gateSubmit(ctx context.Context, ev *evaluation) (*Outcome, error) {
	decimals := risk.QuoteDecimals(ev.entryPrice, ev.tick.Digits)
	req := OrderRequest{
		Symbol:     ev.symbol,
		Side:       ev.signal.Side,
		Volume:     ev.volume,
		StopLoss:   risk.Round(ev.signal.StopLoss, decimals),
		TakeProfit: risk.Round(ev.signal.TakeProfit, decimals),
		Deviation:  e.cfg.Deviation,
		FillPolicy: FillPolicyName(e.cfg.FillPolicy),
		Magic:      e.cfg.MagicNumber,
		Comment:    e.cfg.Tag,
		Sizing:     ev.sizing,
	}

	handle, err := e.deps.Orders.SubmitMarketOrder(ctx, req)
	if err == nil && handle == nil {
		err = ErrOrderRejected
	}
	if err != nil {
		out := ev.stop(EventTradeFailed, "order submission failed")
		out.Order = &req
		out.Err = err
		return out, nil
	}

	rec := e.tradeRecord(ev, req, handle)
	if err := e.deps.Trades.Persist(ctx, rec); err != nil {
		e.logger.ErrorContext(ctx, "failed to persist trade", "symbol", ev.symbol, "order_id", handle.OrderID, "error", err)
	}

	out := ev.stop(EventTradeOpened, entryCondition(e.cfg.Tag, ev.pattern))
	out.Order = &req
	out.Handle = handle
	return out, nil
}

// entryCondition describes why the trade was opened
func entryCondition(tag string, pattern strategy.Pattern) string {
	return fmt.Sprintf("%s %s PATTERN DETECTED AT FIB LEVEL", tag, strings.ToUpper(string(pattern)))
}

func (e *Engine) tradeRecord(ev *evaluation, req OrderRequest, handle *OrderHandle) journal.TradeRecord {
	rec := journal.NewTradeRecord(e.now())
	rec.Symbol = req.Symbol
	rec.Side = string(Direction(req.Side))
	rec.Mode = e.mode
	rec.OrderID = handle.OrderID
	rec.Magic = req.Magic
	rec.Tag = e.cfg.Tag
	rec.Timeframe = e.cfg.PrimaryTimeframe
	rec.Broker = e.cfg.Broker
	rec.AssetClass = e.cfg.AssetClass

	rec.Volume = req.Volume
	rec.EntryPrice = ev.entryPrice
	if handle.Price != 0 {
		rec.EntryPrice = handle.Price
	}
	rec.StopLoss = req.StopLoss
	rec.TakeProfit = req.TakeProfit

	rec.Pattern = string(ev.pattern)
	rec.Trend = string(ev.trend)
	rec.FibRatio = ev.signal.Level.Ratio
	rec.LevelPrice = ev.signal.Level.Price
	rec.SwingHigh = ev.swingHigh
	rec.SwingLow = ev.swingLow

	rec.RiskPerTrade = e.cfg.RiskPerTrade
	rec.Capital = req.Sizing.Capital
	rec.Notional = req.Sizing.Notional
	rec.Leverage = req.Sizing.Leverage
	rec.Commission = req.Sizing.Commission
	if p := ev.pricing; p != nil {
		rec.DesiredSLPnL = p.DesiredSLPnL
		rec.DesiredTPPnL = p.DesiredTPPnL
		rec.SLInclCommission = p.SLInclCommission
		rec.SLExclCommission = p.SLExclCommission
		rec.TPInclCommission = p.TPInclCommission
		rec.TPExclCommission = p.TPExclCommission
	}
	return rec
}
