package journal

import (
	"time"

	"github.com/google/uuid"
)

// TradeRecord is one opened trade as persisted to the journal.
// Shared by the JSON-lines and Parquet stores.
type TradeRecord struct {
	ID         string `json:"id" parquet:"id"`
	OpenedAt   int64  `json:"opened_at" parquet:"opened_at"` // Unix timestamp in milliseconds
	Symbol     string `json:"symbol" parquet:"symbol"`
	Side       string `json:"side" parquet:"side"` // BUY | SELL
	Mode       string `json:"mode" parquet:"mode"`
	OrderID    string `json:"order_id" parquet:"order_id"`
	Magic      int64  `json:"magic" parquet:"magic"`
	Tag        string `json:"tag" parquet:"tag"`
	Timeframe  string `json:"timeframe" parquet:"timeframe"` // Timeframe the trend and levels were read from
	Broker     string `json:"broker,omitempty" parquet:"broker,optional"`
	AssetClass string `json:"asset_class,omitempty" parquet:"asset_class,optional"`

	// Order
	Volume     float64 `json:"volume" parquet:"volume"`
	EntryPrice float64 `json:"entry_price" parquet:"entry_price"`
	StopLoss   float64 `json:"stop_loss" parquet:"stop_loss"`
	TakeProfit float64 `json:"take_profit" parquet:"take_profit"`

	// Entry condition
	Pattern    string  `json:"pattern" parquet:"pattern"`
	Trend      string  `json:"trend" parquet:"trend"`
	FibRatio   float64 `json:"fib_ratio" parquet:"fib_ratio"`
	LevelPrice float64 `json:"level_price" parquet:"level_price"`
	SwingHigh  float64 `json:"swing_high" parquet:"swing_high"`
	SwingLow   float64 `json:"swing_low" parquet:"swing_low"`

	// Sizing and PnL projections
	RiskPerTrade     float64 `json:"risk_per_trade" parquet:"risk_per_trade"`
	Capital          float64 `json:"capital" parquet:"capital"`
	Notional         float64 `json:"notional" parquet:"notional"`
	Leverage         float64 `json:"leverage" parquet:"leverage"`
	Commission       float64 `json:"commission" parquet:"commission"`
	DesiredSLPnL     float64 `json:"desired_sl_pnl" parquet:"desired_sl_pnl"`
	DesiredTPPnL     float64 `json:"desired_tp_pnl" parquet:"desired_tp_pnl"`
	SLInclCommission float64 `json:"sl_incl_commission" parquet:"sl_incl_commission"`
	SLExclCommission float64 `json:"sl_excl_commission" parquet:"sl_excl_commission"`
	TPInclCommission float64 `json:"tp_incl_commission" parquet:"tp_incl_commission"`
	TPExclCommission float64 `json:"tp_excl_commission" parquet:"tp_excl_commission"`
}

// NewTradeRecord returns a record with a fresh ID and the given open time
func NewTradeRecord(openedAt time.Time) TradeRecord {
	return TradeRecord{
		ID:       uuid.NewString(),
		OpenedAt: openedAt.UnixMilli(),
	}
}

// OpenedTime returns OpenedAt as a time.Time in UTC
func (r TradeRecord) OpenedTime() time.Time {
	return time.UnixMilli(r.OpenedAt).UTC()
}
