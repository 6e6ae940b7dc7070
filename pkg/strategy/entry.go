package strategy

import (
	"math"
)

// DefaultLevelTolerance is the absolute price distance at which a Fibonacci level counts as touched.
// It is not normalised per instrument, so it is far tighter in pip terms on JPY crosses.
const DefaultLevelTolerance = 0.0005

// EntryRules holds the parameters for turning trend, pattern and levels into a signal
type EntryRules struct {
	Tolerance float64    // Absolute price tolerance for level matching
	Bullish   PatternSet // Patterns confirming a buy in an uptrend
	Bearish   PatternSet // Patterns confirming a sell in a downtrend
}

// NewEntryRules creates entry rules with the default tolerance and pattern categories
func NewEntryRules() EntryRules {
	return EntryRules{
		Tolerance: DefaultLevelTolerance,
		Bullish:   PatternSet{BullishEngulfing, MorningStar},
		Bearish:   PatternSet{BearishEngulfing, EveningStar},
	}
}

// Synthesize checks whether the current price sits on a Fibonacci level that agrees with
// trend and pattern. Levels are scanned in their given order and the first one within
// tolerance is used; later levels are never considered even if nearer.
// Returns nil when no signal exists.
func (r EntryRules) Synthesize(trend Trend, pattern Pattern, levels []FibLevel, price, swingHigh, swingLow float64) *Signal {
	if len(levels) == 0 {
		return nil
	}

	switch {
	case trend == Uptrend && r.Bullish.Contains(pattern):
		for _, level := range levels {
			if r.near(price, level.Price) && price > swingLow {
				return &Signal{
					Side:       Buy,
					Level:      level,
					StopLoss:   swingLow,
					TakeProfit: levels[len(levels)-1].Price,
				}
			}
		}
	case trend == Downtrend && r.Bearish.Contains(pattern):
		for _, level := range levels {
			if r.near(price, level.Price) && price < swingHigh {
				return &Signal{
					Side:       Sell,
					Level:      level,
					StopLoss:   swingHigh,
					TakeProfit: levels[0].Price,
				}
			}
		}
	}

	return nil
}

func (r EntryRules) near(price, level float64) bool {
	return math.Abs(price-level) < r.Tolerance
}
