package entry

import (
	"context"

	"github.com/fib-entry-bot/pkg/feed"
	"github.com/fib-entry-bot/pkg/journal"
	"github.com/fib-entry-bot/pkg/risk"
	"github.com/fib-entry-bot/pkg/strategy"
)

// PositionChecker reports whether an instrument already has an open position
type PositionChecker interface {
	HasOpenPosition(ctx context.Context, symbol string) (bool, error)
}

// SessionChecker reports whether the market for an instrument is open
type SessionChecker interface {
	IsMarketOpen(ctx context.Context, symbol string) (bool, error)
}

// MarketData supplies bars and the latest quote.
// FetchBars returns bars oldest first; an empty slice means no data.
// CurrentTick returns nil when no quote is available.
type MarketData interface {
	FetchBars(ctx context.Context, symbol, timeframe string, count int) ([]strategy.Bar, error)
	CurrentTick(ctx context.Context, symbol string) (*feed.Tick, error)
}

// Account supplies the account balance. Nil means unavailable.
type Account interface {
	Balance(ctx context.Context) (*feed.AccountInfo, error)
}

// OrderSubmitter sends market orders. A nil handle means the order was not accepted.
type OrderSubmitter interface {
	SubmitMarketOrder(ctx context.Context, req OrderRequest) (*OrderHandle, error)
}

// PnLCalculator converts between money and price for a leveraged position
type PnLCalculator interface {
	OrderCapital(accountBalance, riskPerTrade float64) float64
	OrderNotional(capital, leverage float64) float64
	Commission(notional float64, symbol string) float64
	PriceAtPnL(desiredPnL, commission, notional, leverage, entryPrice float64, direction risk.Direction) (float64, float64)
	PnLAtPrice(price, entryPrice, notional, leverage float64, direction risk.Direction, commission float64) (float64, float64)
}

// TradeStore persists opened trades
type TradeStore interface {
	Persist(ctx context.Context, rec journal.TradeRecord) error
}

// Deps bundles the engine's collaborators
type Deps struct {
	Positions PositionChecker
	Session   SessionChecker
	Market    MarketData
	Account   Account
	Orders    OrderSubmitter
	PnL       PnLCalculator
	Trades    TradeStore
}
