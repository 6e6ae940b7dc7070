package risk

import (
	"strings"
)

// DefaultCommissionPerMillion is the round-turn commission charged per 1,000,000 of notional
const DefaultCommissionPerMillion = 7.0

// Direction is the trade side as seen by the PnL arithmetic
type Direction string

const (
	Long  Direction = "BUY"
	Short Direction = "SELL"
)

func (d Direction) sign() float64 {
	if strings.EqualFold(string(d), string(Short)) {
		return -1
	}
	return 1
}

// Calculator implements the order capital, notional, commission and PnL/price conversions.
// Notional already includes leverage, so PnL is the relative price move times notional.
type Calculator struct {
	CommissionPerMillion float64            // Default commission rate
	SymbolRates          map[string]float64 // Per-symbol overrides (commission per million)
}

// NewCalculator creates a calculator with the default commission rate
func NewCalculator() *Calculator {
	return &Calculator{
		CommissionPerMillion: DefaultCommissionPerMillion,
		SymbolRates:          make(map[string]float64),
	}
}

// OrderCapital returns the capital committed to one order
func (c *Calculator) OrderCapital(accountBalance, riskPerTrade float64) float64 {
	return accountBalance * riskPerTrade
}

// OrderNotional returns the leveraged position size in account currency
func (c *Calculator) OrderNotional(capital, leverage float64) float64 {
	return capital * leverage
}

// Commission calculates the round-turn commission for a notional amount
func (c *Calculator) Commission(notional float64, symbol string) float64 {
	rate := c.CommissionPerMillion
	if r, ok := c.SymbolRates[symbol]; ok {
		rate = r
	}
	return notional / 1_000_000 * rate
}

// PriceAtPnL returns the price at which the position reaches desiredPnL,
// first with commission counted against the PnL, then ignoring it.
func (c *Calculator) PriceAtPnL(desiredPnL, commission, notional, leverage, entryPrice float64, direction Direction) (float64, float64) {
	if notional == 0 {
		return entryPrice, entryPrice
	}
	s := direction.sign()
	including := entryPrice * (1 + s*(desiredPnL+commission)/notional)
	excluding := entryPrice * (1 + s*desiredPnL/notional)
	return including, excluding
}

// PnLAtPrice returns the PnL of the position at price, with and without commission
func (c *Calculator) PnLAtPrice(price, entryPrice, notional, leverage float64, direction Direction, commission float64) (float64, float64) {
	if entryPrice == 0 {
		return -commission, 0
	}
	excluding := direction.sign() * (price - entryPrice) / entryPrice * notional
	return excluding - commission, excluding
}
