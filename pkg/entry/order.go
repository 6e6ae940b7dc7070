package entry

import (
	"github.com/fib-entry-bot/pkg/risk"
	"github.com/fib-entry-bot/pkg/strategy"
)

// Sizing carries the money side of an order for the broker's bookkeeping
type Sizing struct {
	Capital    float64 `json:"capital"`
	Notional   float64 `json:"notional"`
	Leverage   float64 `json:"leverage"`
	Commission float64 `json:"commission"`
}

// OrderRequest is a market order with attached stop-loss and take-profit
type OrderRequest struct {
	Symbol     string        `json:"symbol"`
	Side       strategy.Side `json:"side"`
	Volume     float64       `json:"volume"`
	StopLoss   float64       `json:"sl"`
	TakeProfit float64       `json:"tp"`
	Deviation  int           `json:"deviation"`
	FillPolicy string        `json:"type_filling"`
	Magic      int64         `json:"magic"`
	Comment    string        `json:"comment"`
	Sizing     Sizing        `json:"sizing"`
}

// Direction maps the order side onto the PnL arithmetic
func (r OrderRequest) Direction() risk.Direction {
	return Direction(r.Side)
}

// OrderHandle identifies an accepted order
type OrderHandle struct {
	OrderID string  `json:"order"`
	Price   float64 `json:"price"`
	Volume  float64 `json:"volume"`
}

// Direction converts a signal side into a PnL direction
func Direction(side strategy.Side) risk.Direction {
	if side == strategy.Sell {
		return risk.Short
	}
	return risk.Long
}

// FillPolicyName expands a configured policy (FOK, IOC, RETURN) to the terminal constant
func FillPolicyName(policy string) string {
	return "ORDER_FILLING_" + policy
}
