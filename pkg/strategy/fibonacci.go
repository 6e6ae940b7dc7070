package strategy

// FibonacciLevels maps retracement ratios to absolute prices.
// Ratio 0 is the swing high and ratio 1 the swing low; the output keeps the ratio order.
// Passing swingLow > swingHigh is not rejected and produces a mirrored level set.
func FibonacciLevels(swingHigh, swingLow float64, ratios []float64) []FibLevel {
	diff := swingHigh - swingLow
	levels := make([]FibLevel, 0, len(ratios))
	for _, ratio := range ratios {
		levels = append(levels, FibLevel{
			Ratio: ratio,
			Price: swingHigh - diff*ratio,
		})
	}
	return levels
}

// LevelPrices returns just the prices of a level set
func LevelPrices(levels []FibLevel) []float64 {
	prices := make([]float64, len(levels))
	for i, l := range levels {
		prices[i] = l.Price
	}
	return prices
}
