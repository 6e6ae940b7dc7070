package strategy

// swingWindow is the number of confirming bars required on each side of a swing point
const swingWindow = 2

// DetectSwingPoints finds swing highs and swing lows in a bar sequence.
// A bar is a swing high when its High is strictly greater than the High of the
// two bars before and after it; swing lows use the Low field symmetrically.
// Sequences shorter than 5 bars yield no swing points.
func DetectSwingPoints(bars []Bar) (highs, lows []SwingPoint) {
	highs = make([]SwingPoint, 0)
	lows = make([]SwingPoint, 0)

	if len(bars) < 2*swingWindow+1 {
		return highs, lows
	}

	for i := swingWindow; i < len(bars)-swingWindow; i++ {
		if isSwingHigh(bars, i) {
			highs = append(highs, SwingPoint{Index: i, Price: bars[i].High, Kind: SwingHigh})
		}
		if isSwingLow(bars, i) {
			lows = append(lows, SwingPoint{Index: i, Price: bars[i].Low, Kind: SwingLow})
		}
	}

	return highs, lows
}

func isSwingHigh(bars []Bar, i int) bool {
	for j := i - swingWindow; j <= i+swingWindow; j++ {
		if j != i && bars[j].High >= bars[i].High {
			return false
		}
	}
	return true
}

func isSwingLow(bars []Bar, i int) bool {
	for j := i - swingWindow; j <= i+swingWindow; j++ {
		if j != i && bars[j].Low <= bars[i].Low {
			return false
		}
	}
	return true
}
