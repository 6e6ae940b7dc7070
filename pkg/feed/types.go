package feed

import (
	"errors"
	"time"
)

// ErrDataSource marks a connectivity failure talking to the broker bridge.
// Callers treat it as a cycle-level failure rather than a per-symbol skip.
var ErrDataSource = errors.New("data source unavailable")

// Timeframes accepted by the bridge
var Timeframes = map[string]bool{
	"M1": true, "M5": true, "M15": true, "M30": true,
	"H1": true, "H4": true, "D1": true, "W1": true, "MN1": true,
}

// Tick is the latest quote for a symbol together with the contract
// properties needed to convert price distances into money.
type Tick struct {
	Symbol    string
	Bid       float64
	Ask       float64
	Point     float64 // Smallest price increment
	TickValue float64 // Account-currency value of one point per lot
	Digits    int     // Decimal places the broker quotes in
	Time      time.Time
}

// Price returns the ask for buys and the bid for sells
func (t *Tick) Price(buy bool) float64 {
	if buy {
		return t.Ask
	}
	return t.Bid
}

// Spread returns ask minus bid
func (t *Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// AccountInfo is the subset of the trading account used for sizing
type AccountInfo struct {
	Login    int64   `json:"login"`
	Balance  float64 `json:"balance"`
	Equity   float64 `json:"equity"`
	Leverage float64 `json:"leverage"`
	Currency string  `json:"currency"`
}
