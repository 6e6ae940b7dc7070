//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/fib-entry-bot/pkg/app"
	"github.com/fib-entry-bot/pkg/config"
	"github.com/fib-entry-bot/pkg/entry"
	"github.com/fib-entry-bot/pkg/journal"
	"github.com/fib-entry-bot/pkg/scheduler"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Engine *entry.Engine
	Runner *scheduler.Runner
	Store  journal.Store
}

// InitializeApp builds the engine and its runner via Wire.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideHTTPClient,
		app.ProvideBridge,
		app.ProvideTradeStore,
		app.ProvideBroker,
		app.ProvidePnLCalculator,
		app.ProvideEngine,
		app.ProvideRunner,
		wire.Struct(new(App), "Config", "Logger", "Engine", "Runner", "Store"),
	)
	return nil, nil
}
