package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fib-entry-bot/pkg/strategy"
)

// NewHTTPClient creates a resty client for the terminal bridge
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// bridgeError is the error body returned by the bridge
type bridgeError struct {
	Error string `json:"error"`
}

// CheckResponse classifies a bridge round trip. Transport failures and 5xx
// responses wrap ErrDataSource; other non-2xx statuses are plain errors.
func CheckResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrDataSource, err)
	}
	if !resp.IsError() {
		return nil
	}

	msg := strings.TrimSpace(resp.String())
	if be, ok := resp.Error().(*bridgeError); ok && be.Error != "" {
		msg = be.Error
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%s: %w: status %d: %s", op, ErrDataSource, resp.StatusCode(), msg)
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), msg)
}

// Bridge reads market data and account state from the terminal bridge
type Bridge struct {
	client *resty.Client
}

// NewBridge creates a bridge client
func NewBridge(client *resty.Client) *Bridge {
	return &Bridge{client: client}
}

// bridgeTime accepts unix seconds or the HTTP date strings Flask emits for timestamps
type bridgeTime time.Time

func (bt *bridgeTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*bt = bridgeTime(time.Time{})
		return nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		*bt = bridgeTime(time.Unix(int64(secs), 0).UTC())
		return nil
	}
	if t, err := http.ParseTime(s); err == nil {
		*bt = bridgeTime(t.UTC())
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("unrecognised time %q", s)
	}
	*bt = bridgeTime(t.UTC())
	return nil
}

type rateRecord struct {
	Time       bridgeTime `json:"time"`
	Open       float64    `json:"open"`
	High       float64    `json:"high"`
	Low        float64    `json:"low"`
	Close      float64    `json:"close"`
	TickVolume float64    `json:"tick_volume"`
	Spread     float64    `json:"spread"`
	RealVolume float64    `json:"real_volume"`
}

// FetchBars fetches the most recent count bars, oldest first.
// A symbol the terminal has no rates for yields an empty slice.
func (b *Bridge) FetchBars(ctx context.Context, symbol, timeframe string, count int) ([]strategy.Bar, error) {
	if !Timeframes[timeframe] {
		return nil, fmt.Errorf("unsupported timeframe %q", timeframe)
	}

	var records []rateRecord
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":    symbol,
			"timeframe": timeframe,
			"num_bars":  strconv.Itoa(count),
		}).
		SetResult(&records).
		SetError(&bridgeError{}).
		Get("/fetch_data_pos")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return []strategy.Bar{}, nil
	}
	if err := CheckResponse("fetch bars", resp, err); err != nil {
		return nil, err
	}

	bars := make([]strategy.Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, strategy.Bar{
			Time:   time.Time(r.Time),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: int64(r.TickVolume),
		})
	}
	return bars, nil
}

type tickRecord struct {
	Bid  float64    `json:"bid"`
	Ask  float64    `json:"ask"`
	Time bridgeTime `json:"time"`
}

type symbolRecord struct {
	Point          float64 `json:"point"`
	TradeTickValue float64 `json:"trade_tick_value"`
	Digits         int     `json:"digits"`
}

// CurrentTick returns the latest quote merged with the symbol's point and tick value.
// It returns nil without error when the bridge has no tick for the symbol.
func (b *Bridge) CurrentTick(ctx context.Context, symbol string) (*Tick, error) {
	var tick tickRecord
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&tick).
		SetError(&bridgeError{}).
		Get("/symbol_info_tick")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := CheckResponse("symbol tick", resp, err); err != nil {
		return nil, err
	}

	var info symbolRecord
	resp, err = b.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&info).
		SetError(&bridgeError{}).
		Get("/symbol_info")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := CheckResponse("symbol info", resp, err); err != nil {
		return nil, err
	}

	if tick.Bid == 0 && tick.Ask == 0 {
		return nil, nil
	}

	return &Tick{
		Symbol:    symbol,
		Bid:       tick.Bid,
		Ask:       tick.Ask,
		Point:     info.Point,
		TickValue: info.TradeTickValue,
		Digits:    info.Digits,
		Time:      time.Time(tick.Time),
	}, nil
}

// Balance returns account information. It returns nil without error when
// the terminal is not logged in.
func (b *Bridge) Balance(ctx context.Context) (*AccountInfo, error) {
	var info AccountInfo
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&info).
		SetError(&bridgeError{}).
		Get("/account_info")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := CheckResponse("account info", resp, err); err != nil {
		return nil, err
	}
	return &info, nil
}

// HasOpenPosition reports whether the account holds any position in symbol
func (b *Bridge) HasOpenPosition(ctx context.Context, symbol string) (bool, error) {
	var positions []json.RawMessage
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&positions).
		SetError(&bridgeError{}).
		Get("/positions")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if err := CheckResponse("positions", resp, err); err != nil {
		return false, err
	}
	return len(positions) > 0, nil
}

// IsMarketOpen asks the bridge whether symbol is tradable now. Bridges
// without the market_open route fall back to the FX weekly session.
func (b *Bridge) IsMarketOpen(ctx context.Context, symbol string) (bool, error) {
	var out struct {
		Open bool `json:"open"`
	}
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&out).
		SetError(&bridgeError{}).
		Get("/market_open")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return ForexSession{}.IsOpenAt(time.Now()), nil
	}
	if err := CheckResponse("market open", resp, err); err != nil {
		return false, err
	}
	return out.Open, nil
}
