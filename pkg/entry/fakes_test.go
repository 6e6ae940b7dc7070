package entry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fib-entry-bot/pkg/config"
	"github.com/fib-entry-bot/pkg/feed"
	"github.com/fib-entry-bot/pkg/journal"
	"github.com/fib-entry-bot/pkg/risk"
	"github.com/fib-entry-bot/pkg/slogx"
	"github.com/fib-entry-bot/pkg/strategy"
)

// htfBars builds higher-timeframe bars from High/Low series
func htfBars(highs, lows []float64) []strategy.Bar {
	start := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	bars := make([]strategy.Bar, len(highs))
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		bars[i] = strategy.Bar{
			Time:  start.Add(time.Duration(i) * 7 * 24 * time.Hour),
			Open:  mid,
			High:  highs[i],
			Low:   lows[i],
			Close: mid,
		}
	}
	return bars
}

// mirror reflects bars around level/2 so an uptrend becomes a downtrend
func mirror(bars []strategy.Bar, level float64) []strategy.Bar {
	out := make([]strategy.Bar, len(bars))
	for i, b := range bars {
		out[i] = strategy.Bar{
			Time:  b.Time,
			Open:  level - b.Open,
			High:  level - b.Low,
			Low:   level - b.High,
			Close: level - b.Close,
		}
	}
	return out
}

// uptrend with swing highs 1.19, 1.20 and swing lows 1.12, 1.18
func goldenUptrend() []strategy.Bar {
	return htfBars(
		[]float64{1.150, 1.160, 1.190, 1.170, 1.165, 1.175, 1.180, 1.200, 1.195, 1.190, 1.192, 1.193},
		[]float64{1.140, 1.130, 1.150, 1.120, 1.135, 1.140, 1.160, 1.185, 1.188, 1.180, 1.186, 1.187},
	)
}

// uptrend with swing highs 1.17, 1.19 and swing lows 1.12, 1.18
func narrowUptrend() []strategy.Bar {
	return htfBars(
		[]float64{1.150, 1.160, 1.170, 1.160, 1.165, 1.175, 1.180, 1.190, 1.188, 1.186, 1.187, 1.188},
		[]float64{1.140, 1.130, 1.150, 1.120, 1.135, 1.140, 1.160, 1.182, 1.183, 1.180, 1.184, 1.185},
	)
}

// uptrend with swing highs 1.19, 1.21 and swing lows 1.12, 1.1834;
// the 0.382 level sits at 1.19984, next to a round 1.2000 quote
func roundQuoteUptrend() []strategy.Bar {
	return htfBars(
		[]float64{1.150, 1.160, 1.190, 1.170, 1.165, 1.175, 1.180, 1.210, 1.195, 1.190, 1.192, 1.193},
		[]float64{1.140, 1.130, 1.150, 1.120, 1.135, 1.140, 1.160, 1.185, 1.188, 1.1834, 1.186, 1.187},
	)
}

func flatBars(n int, price float64) []strategy.Bar {
	bars := make([]strategy.Bar, n)
	for i := range bars {
		bars[i] = strategy.Bar{Open: price, High: price, Low: price, Close: price}
	}
	return bars
}

func ohlc(o, h, l, c float64) strategy.Bar {
	return strategy.Bar{Open: o, High: h, Low: l, Close: c}
}

// bullishEngulfingBars ends with a green candle engulfing a red one
func bullishEngulfingBars() []strategy.Bar {
	return []strategy.Bar{
		ohlc(1.1875, 1.1885, 1.1870, 1.1880),
		ohlc(1.1880, 1.1882, 1.1868, 1.1870),
		ohlc(1.1865, 1.1888, 1.1862, 1.1885),
	}
}

// bearishEngulfingBars ends with a red candle engulfing a green one
func bearishEngulfingBars() []strategy.Bar {
	return []strategy.Bar{
		ohlc(1.2075, 1.2078, 1.2068, 1.2070),
		ohlc(1.2070, 1.2082, 1.2069, 1.2080),
		ohlc(1.2085, 1.2088, 1.2062, 1.2065),
	}
}

type fakeMarket struct {
	mu        sync.Mutex
	primary   []strategy.Bar
	entry     []strategy.Bar
	tick      *feed.Tick
	barsErr   error
	tickErr   error
	panicOn   string
	requested []string
}

func (m *fakeMarket) FetchBars(_ context.Context, symbol, timeframe string, count int) ([]strategy.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if symbol == m.panicOn {
		panic("bridge returned garbage")
	}
	m.requested = append(m.requested, fmt.Sprintf("%s/%s/%d", symbol, timeframe, count))
	if m.barsErr != nil {
		return nil, m.barsErr
	}
	if timeframe == "W1" {
		return m.primary, nil
	}
	return m.entry, nil
}

func (m *fakeMarket) CurrentTick(_ context.Context, symbol string) (*feed.Tick, error) {
	if m.tickErr != nil {
		return nil, m.tickErr
	}
	if m.tick == nil {
		return nil, nil
	}
	t := *m.tick
	t.Symbol = symbol
	return &t, nil
}

type fakePositions struct {
	open map[string]bool
	errs map[string]error
}

func (p *fakePositions) HasOpenPosition(_ context.Context, symbol string) (bool, error) {
	if err := p.errs[symbol]; err != nil {
		return false, err
	}
	return p.open[symbol], nil
}

type fakeSession struct {
	closed bool
}

func (s *fakeSession) IsMarketOpen(context.Context, string) (bool, error) {
	return !s.closed, nil
}

type fakeAccount struct {
	info *feed.AccountInfo
	err  error
}

func (a *fakeAccount) Balance(context.Context) (*feed.AccountInfo, error) {
	return a.info, a.err
}

type fakeOrders struct {
	mu       sync.Mutex
	handle   *OrderHandle
	err      error
	requests []OrderRequest
}

func (o *fakeOrders) SubmitMarketOrder(_ context.Context, req OrderRequest) (*OrderHandle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, req)
	return o.handle, o.err
}

type fakeTrades struct {
	mu      sync.Mutex
	records []journal.TradeRecord
	err     error
}

func (s *fakeTrades) Persist(_ context.Context, rec journal.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

// harness wires fakes for a single EURUSD instrument that produces a buy at the 0.618 level
type harness struct {
	cfg       config.Strategy
	market    *fakeMarket
	positions *fakePositions
	session   *fakeSession
	account   *fakeAccount
	orders    *fakeOrders
	trades    *fakeTrades
}

func newHarness() *harness {
	cfg := config.DefaultStrategy()
	cfg.Pairs = []string{"EURUSD"}

	return &harness{
		cfg: cfg,
		market: &fakeMarket{
			primary: goldenUptrend(),
			entry:   bullishEngulfingBars(),
			tick:    &feed.Tick{Bid: 1.1875, Ask: 1.1877, Point: 0.00001, TickValue: 1},
		},
		positions: &fakePositions{open: map[string]bool{}, errs: map[string]error{}},
		session:   &fakeSession{},
		account:   &fakeAccount{info: &feed.AccountInfo{Balance: 10000}},
		orders:    &fakeOrders{handle: &OrderHandle{OrderID: "1001", Price: 1.1877, Volume: 0.26}},
		trades:    &fakeTrades{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Positions: h.positions,
		Session:   h.session,
		Market:    h.market,
		Account:   h.account,
		Orders:    h.orders,
		PnL:       risk.NewCalculator(),
		Trades:    h.trades,
	}
}

func (h *harness) engine() *Engine {
	e, err := NewEngine(h.cfg, h.deps(),
		WithLogger(slogx.Discard),
		WithMode("paper"),
		WithClock(func() time.Time { return time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		panic(err)
	}
	return e
}
