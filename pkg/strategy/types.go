package strategy

import (
	"time"
)

// Bar represents a single bar/candlestick
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// IsBullish reports whether the bar closed above its open
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the bar closed below its open
func (b Bar) IsBearish() bool {
	return b.Open > b.Close
}

// SwingKind distinguishes swing highs from swing lows
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a local extremum within a bar sequence
type SwingPoint struct {
	Index int     // Position within the bar sequence
	Price float64 // High for swing highs, Low for swing lows
	Kind  SwingKind
}

// Trend represents the market direction derived from swing points
type Trend string

const (
	Uptrend   Trend = "uptrend"
	Downtrend Trend = "downtrend"
	Range     Trend = "range"
)

// FibLevel is an absolute price at a retracement ratio
type FibLevel struct {
	Ratio float64 `json:"ratio" yaml:"ratio"`
	Price float64 `json:"price" yaml:"price"`
}

// Pattern represents detected candlestick reversal patterns
type Pattern string

const (
	NoPattern        Pattern = "none"
	BullishEngulfing Pattern = "bullish_engulfing"
	BearishEngulfing Pattern = "bearish_engulfing"
	MorningStar      Pattern = "morning_star"
	EveningStar      Pattern = "evening_star"
)

// Side is the direction of a trade
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Signal represents a trading opportunity at a Fibonacci level
type Signal struct {
	Side       Side
	Level      FibLevel // First level within tolerance of the reference price
	StopLoss   float64
	TakeProfit float64
}
