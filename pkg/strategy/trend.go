package strategy

// ClassifyTrend labels market direction from the two most recent swing highs and lows.
// Higher high and higher low is an uptrend, lower high and lower low a downtrend,
// anything else (including fewer than two points of either kind) is a range.
func ClassifyTrend(highs, lows []SwingPoint) Trend {
	if len(highs) < 2 || len(lows) < 2 {
		return Range
	}

	lastHigh, prevHigh := highs[len(highs)-1].Price, highs[len(highs)-2].Price
	lastLow, prevLow := lows[len(lows)-1].Price, lows[len(lows)-2].Price

	if lastHigh > prevHigh && lastLow > prevLow {
		return Uptrend
	}
	if lastHigh < prevHigh && lastLow < prevLow {
		return Downtrend
	}

	return Range
}
