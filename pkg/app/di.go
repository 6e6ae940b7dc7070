package app

import (
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/fib-entry-bot/pkg/config"
	"github.com/fib-entry-bot/pkg/entry"
	"github.com/fib-entry-bot/pkg/execution"
	"github.com/fib-entry-bot/pkg/feed"
	"github.com/fib-entry-bot/pkg/journal"
	"github.com/fib-entry-bot/pkg/risk"
	"github.com/fib-entry-bot/pkg/scheduler"
	"github.com/fib-entry-bot/pkg/slogx"
)

// Broker groups the account-side collaborators, which differ between live and paper mode
type Broker struct {
	Positions entry.PositionChecker
	Account   entry.Account
	Orders    entry.OrderSubmitter
	Session   entry.SessionChecker
}

// ProvideConfig loads and validates config from environment (for Wire).
func ProvideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLogger creates the process logger and installs it as the slog default (for Wire).
func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := slogx.NewDefault(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return logger
}

// ProvideHTTPClient creates the shared bridge HTTP client (for Wire).
func ProvideHTTPClient(cfg *config.Config) *resty.Client {
	return feed.NewHTTPClient(cfg.BridgeURL, cfg.BridgeTimeout)
}

// ProvideBridge creates the market data client (for Wire).
func ProvideBridge(client *resty.Client) *feed.Bridge {
	return feed.NewBridge(client)
}

// ProvideTradeStore creates the journal from config (for Wire).
func ProvideTradeStore(cfg *config.Config) (journal.Store, error) {
	return journal.NewStore(cfg.JournalFormat, cfg.JournalPath)
}

// ProvideBroker picks live or paper execution (for Wire).
// Market data and the session check come from the bridge in both modes.
func ProvideBroker(cfg *config.Config, bridge *feed.Bridge, client *resty.Client) *Broker {
	if cfg.Mode == config.ModePaper {
		paper := execution.NewPaperBroker(bridge, cfg.PaperBalance)
		return &Broker{Positions: paper, Account: paper, Orders: paper, Session: bridge}
	}
	return &Broker{
		Positions: bridge,
		Account:   bridge,
		Orders:    execution.NewBridgeBroker(client),
		Session:   bridge,
	}
}

// ProvidePnLCalculator creates the commission and PnL calculator (for Wire).
func ProvidePnLCalculator() *risk.Calculator {
	return risk.NewCalculator()
}

// ProvideEngine wires the entry engine (for Wire).
func ProvideEngine(cfg *config.Config, logger *slog.Logger, bridge *feed.Bridge, broker *Broker, pnl *risk.Calculator, store journal.Store) (*entry.Engine, error) {
	return entry.NewEngine(cfg.Strategy, entry.Deps{
		Positions: broker.Positions,
		Session:   broker.Session,
		Market:    bridge,
		Account:   broker.Account,
		Orders:    broker.Orders,
		PnL:       pnl,
		Trades:    store,
	},
		entry.WithLogger(logger),
		entry.WithMode(cfg.Mode),
	)
}

// ProvideRunner creates the periodic cycle runner (for Wire).
func ProvideRunner(cfg *config.Config, engine *entry.Engine, logger *slog.Logger) *scheduler.Runner {
	opts := scheduler.DefaultOptions()
	opts.Interval = cfg.CycleInterval
	opts.Budget = cfg.CycleTimeout
	opts.MaxRetries = cfg.MaxRetries
	return scheduler.NewRunner(engine, opts, logger)
}
