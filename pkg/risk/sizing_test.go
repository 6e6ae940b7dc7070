package risk

import "testing"

func TestPositionSize(t *testing.T) {
	tests := []struct {
		name      string
		risk      float64
		balance   float64
		pips      float64
		tickValue float64
		want      float64
	}{
		{"zero stop distance", 0.02, 10000, 0, 10, 0},
		{"zero tick value", 0.02, 10000, 20, 0, 0},
		{"one lot", 0.02, 10000, 20, 10, 1.0},
		{"two lots", 0.02, 5000, 50, 1, 2.0},
		{"rounded to lot granularity", 0.01, 10000, 300, 1, 0.33},
		{"below minimum", 0.02, 100, 5000, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PositionSize(tt.risk, tt.balance, tt.pips, tt.tickValue); got != tt.want {
				t.Errorf("PositionSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionSize_AnyTickValueWithZeroStop(t *testing.T) {
	for _, tv := range []float64{-1, 0, 0.5, 1, 10, 1e6} {
		if got := PositionSize(0.02, 10000, 0, tv); got != 0 {
			t.Errorf("tickValue %v: got %v, want 0", tv, got)
		}
	}
}

func TestStopLossPips(t *testing.T) {
	if got := StopLossPips(1.1850, 1.1800, 0.0001); Round(got, 6) != 50 {
		t.Errorf("got %v, want 50", got)
	}
	if got := StopLossPips(1.1800, 1.1850, 0.0001); Round(got, 6) != 50 {
		t.Errorf("direction must not matter, got %v", got)
	}
	if got := StopLossPips(1.2, 1.1, 0); got != 0 {
		t.Errorf("zero point: got %v", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{1.23456, 2, 1.23},
		{1.235, 2, 1.24},
		{-1.235, 2, -1.24},
		{1.18764, 4, 1.1876},
		{150, 0, 150},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestPriceDecimals(t *testing.T) {
	tests := []struct {
		price float64
		want  int
	}{
		{1.18784, 5},
		{151.234, 3},
		{1.1, 1},
		{150, 0},
	}
	for _, tt := range tests {
		if got := PriceDecimals(tt.price); got != tt.want {
			t.Errorf("PriceDecimals(%v) = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestQuoteDecimals(t *testing.T) {
	tests := []struct {
		price  float64
		digits int
		want   int
	}{
		{1.2, 5, 5}, // 1.20000 prints as 1.2
		{1.18784, 5, 5},
		{150, 3, 3},
		{1.18784, 0, 5},
	}
	for _, tt := range tests {
		if got := QuoteDecimals(tt.price, tt.digits); got != tt.want {
			t.Errorf("QuoteDecimals(%v, %d) = %d, want %d", tt.price, tt.digits, got, tt.want)
		}
	}

	// A stop below a round-number entry must not be rounded up onto it
	if got := Round(1.1834, QuoteDecimals(1.2, 5)); got != 1.1834 {
		t.Errorf("stop rounded to %v, want 1.1834", got)
	}
}
