package risk

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculator_CapitalAndNotional(t *testing.T) {
	c := NewCalculator()
	capital := c.OrderCapital(5000, 0.02)
	if capital != 100 {
		t.Fatalf("capital = %v, want 100", capital)
	}
	if n := c.OrderNotional(capital, 200); n != 20000 {
		t.Errorf("notional = %v, want 20000", n)
	}
}

func TestCalculator_Commission(t *testing.T) {
	c := NewCalculator()
	if got := c.Commission(1_000_000, "EURUSD"); got != DefaultCommissionPerMillion {
		t.Errorf("got %v", got)
	}
	c.SymbolRates["USDJPY"] = 10
	if got := c.Commission(500_000, "USDJPY"); got != 5 {
		t.Errorf("override: got %v, want 5", got)
	}
}

func TestCalculator_PriceAtPnLRoundTrip(t *testing.T) {
	c := NewCalculator()
	notional := 20000.0
	commission := c.Commission(notional, "EURUSD")
	entry := 1.1850

	for _, dir := range []Direction{Long, Short} {
		for _, pnl := range []float64{-2, 6} {
			incl, excl := c.PriceAtPnL(pnl, commission, notional, 200, entry, dir)

			_, gotExcl := c.PnLAtPrice(excl, entry, notional, 200, dir, commission)
			if !approx(gotExcl, pnl) {
				t.Errorf("%s pnl %v: excluding price %v gives pnl %v", dir, pnl, excl, gotExcl)
			}

			gotIncl, _ := c.PnLAtPrice(incl, entry, notional, 200, dir, commission)
			if !approx(gotIncl, pnl) {
				t.Errorf("%s pnl %v: including price %v gives net pnl %v", dir, pnl, incl, gotIncl)
			}
		}
	}
}

func TestCalculator_LossPriceSide(t *testing.T) {
	c := NewCalculator()
	_, longStop := c.PriceAtPnL(-1, 0, 10000, 100, 1.2, Long)
	if longStop >= 1.2 {
		t.Errorf("long loss price %v should be below entry", longStop)
	}
	_, shortStop := c.PriceAtPnL(-1, 0, 10000, 100, 1.2, Short)
	if shortStop <= 1.2 {
		t.Errorf("short loss price %v should be above entry", shortStop)
	}
}

func TestCalculator_ZeroNotional(t *testing.T) {
	c := NewCalculator()
	incl, excl := c.PriceAtPnL(-1, 0.1, 0, 100, 1.2, Long)
	if incl != 1.2 || excl != 1.2 {
		t.Errorf("zero notional should return entry price, got %v %v", incl, excl)
	}
}
