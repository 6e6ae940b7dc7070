package execution

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fib-entry-bot/pkg/entry"
	"github.com/fib-entry-bot/pkg/feed"
	"github.com/fib-entry-bot/pkg/strategy"
)

// DefaultSlippage is the share of the spread added against the trader on every fill
const DefaultSlippage = 0.3

// TickSource supplies quotes to fill against
type TickSource interface {
	CurrentTick(ctx context.Context, symbol string) (*feed.Tick, error)
}

// Position is an open paper position
type Position struct {
	Ticket     string
	Symbol     string
	Side       strategy.Side
	Volume     float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	Magic      int64
	Comment    string
	OpenedAt   time.Time
}

// PaperBroker fills market orders in memory against live quotes.
// It implements the position, account and order collaborators for paper mode.
type PaperBroker struct {
	mu        sync.Mutex
	ticks     TickSource
	balance   float64
	slippage  float64
	positions map[string]*Position // symbol -> position
	now       func() time.Time
}

// NewPaperBroker creates a paper broker with a starting balance
func NewPaperBroker(ticks TickSource, balance float64) *PaperBroker {
	return &PaperBroker{
		ticks:     ticks,
		balance:   balance,
		slippage:  DefaultSlippage,
		positions: make(map[string]*Position),
		now:       time.Now,
	}
}

// HasOpenPosition checks if there is a position in symbol. An open position
// whose stop or target the current quote has crossed is closed first.
func (pb *PaperBroker) HasOpenPosition(ctx context.Context, symbol string) (bool, error) {
	pb.mu.Lock()
	_, exists := pb.positions[symbol]
	pb.mu.Unlock()
	if !exists {
		return false, nil
	}

	tick, err := pb.ticks.CurrentTick(ctx, symbol)
	if err != nil {
		return false, err
	}
	if tick == nil {
		return true, nil
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()

	position, exists := pb.positions[symbol]
	if !exists {
		return false, nil
	}
	if !position.exitHit(tick) {
		return true, nil
	}
	pb.settle(position, tick)
	return false, nil
}

// Balance returns the paper account
func (pb *PaperBroker) Balance(_ context.Context) (*feed.AccountInfo, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return &feed.AccountInfo{Balance: pb.balance, Equity: pb.balance, Currency: "USD"}, nil
}

// SubmitMarketOrder fills at the worst price allowed by the order's deviation.
// A missing quote leaves the order unfilled (nil handle).
func (pb *PaperBroker) SubmitMarketOrder(ctx context.Context, req entry.OrderRequest) (*entry.OrderHandle, error) {
	if req.Volume <= 0 {
		return nil, fmt.Errorf("invalid volume %.2f", req.Volume)
	}

	tick, err := pb.ticks.CurrentTick(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	if tick == nil {
		return nil, nil
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()

	if _, exists := pb.positions[req.Symbol]; exists {
		return nil, fmt.Errorf("position already open for %s", req.Symbol)
	}

	price := pb.fillPrice(tick, req)
	position := &Position{
		Ticket:     uuid.NewString(),
		Symbol:     req.Symbol,
		Side:       req.Side,
		Volume:     req.Volume,
		EntryPrice: price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Magic:      req.Magic,
		Comment:    req.Comment,
		OpenedAt:   pb.now(),
	}
	pb.positions[req.Symbol] = position

	return &entry.OrderHandle{
		OrderID: position.Ticket,
		Price:   price,
		Volume:  req.Volume,
	}, nil
}

// fillPrice applies slippage in the worst-case direction:
// buys fill above the ask, sells below the bid, never beyond the deviation.
func (pb *PaperBroker) fillPrice(tick *feed.Tick, req entry.OrderRequest) float64 {
	slip := tick.Spread() * pb.slippage
	if maxSlip := float64(req.Deviation) * tick.Point; slip > maxSlip {
		slip = maxSlip
	}
	slip = math.Max(slip, 0)

	if req.Side == strategy.Sell {
		return tick.Bid - slip
	}
	return tick.Ask + slip
}

// exitHit reports whether the quote the position would close at has reached
// one of its exit levels. A level below entry on a buy (above on a sell) is
// hit when price falls (rises) to it; a level on the other side when price rises
// (falls) to it.
func (p *Position) exitHit(tick *feed.Tick) bool {
	for _, level := range []float64{p.StopLoss, p.TakeProfit} {
		if level == 0 {
			continue
		}
		if p.Side == strategy.Sell {
			if (level > p.EntryPrice && tick.Ask >= level) || (level < p.EntryPrice && tick.Ask <= level) {
				return true
			}
			continue
		}
		if (level < p.EntryPrice && tick.Bid <= level) || (level > p.EntryPrice && tick.Bid >= level) {
			return true
		}
	}
	return false
}

// settle closes a position at the current quote and books the PnL
// (price move in points times tick value times volume). Caller holds mu.
func (pb *PaperBroker) settle(position *Position, tick *feed.Tick) {
	move := tick.Bid - position.EntryPrice
	if position.Side == strategy.Sell {
		move = position.EntryPrice - tick.Ask
	}

	if tick.Point > 0 {
		pb.balance += move / tick.Point * tick.TickValue * position.Volume
	}
	delete(pb.positions, position.Symbol)
}
