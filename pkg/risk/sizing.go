package risk

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MinVolume is the smallest tradable position in lots
const MinVolume = 0.01

// lotDecimals is the lot-size granularity
const lotDecimals = 2

// PositionSize calculates the volume in lots that risks riskPerTrade of the balance
// riskPerTrade: fraction of the balance to risk (e.g., 0.02 for 2%)
// stopLossPips: stop distance in points
// tickValue: monetary value of one point per lot
// Returns 0 when the stop distance or tick value is zero.
func PositionSize(riskPerTrade, accountBalance, stopLossPips, tickValue float64) float64 {
	if tickValue == 0 || stopLossPips == 0 {
		return 0
	}

	riskAmount := accountBalance * riskPerTrade
	size := riskAmount / (stopLossPips * tickValue)

	return Round(size, lotDecimals)
}

// StopLossPips converts the distance between entry and stop into points
func StopLossPips(entryPrice, stopPrice, point float64) float64 {
	if point == 0 {
		return 0
	}
	return math.Abs(entryPrice-stopPrice) / point
}

// Round rounds half away from zero to the given number of decimal places
func Round(value float64, places int) float64 {
	return decimal.NewFromFloat(value).Round(int32(places)).InexactFloat64()
}

// QuoteDecimals returns the rounding precision for prices quoted at price.
// The broker's digits win when printing the price drops trailing zeros.
func QuoteDecimals(price float64, digits int) int {
	return max(digits, PriceDecimals(price))
}

// PriceDecimals returns the number of decimal places in a quoted price as printed.
// Used to round stop and target prices to the precision the broker quotes in.
func PriceDecimals(price float64) int {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0
	}
	return len(s) - dot - 1
}
