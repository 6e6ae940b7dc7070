package strategy

// DetectPattern labels the last three bars with a reversal pattern.
// Rules are checked in a fixed order and the first match wins.
func DetectPattern(bars []Bar) Pattern {
	// Need at least 3 candles for star patterns
	if len(bars) < 3 {
		return NoPattern
	}

	current := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	prev2 := bars[len(bars)-3]

	if isBullishEngulfing(current, prev) {
		return BullishEngulfing
	}

	if isBearishEngulfing(current, prev) {
		return BearishEngulfing
	}

	if isMorningStar(current, prev, prev2) {
		return MorningStar
	}

	if isEveningStar(current, prev, prev2) {
		return EveningStar
	}

	return NoPattern
}

// isBullishEngulfing checks for a green candle opening below and closing above a red one
func isBullishEngulfing(current, prev Bar) bool {
	if !current.IsBullish() || !prev.IsBearish() {
		return false
	}
	return current.Close > prev.Open && current.Open < prev.Close
}

// isBearishEngulfing checks for a red candle opening above and closing below a green one
func isBearishEngulfing(current, prev Bar) bool {
	if !current.IsBearish() || !prev.IsBullish() {
		return false
	}
	return current.Close < prev.Open && current.Open > prev.Close
}

// isMorningStar checks for bearish, bullish, bullish with a close above the far bar's low/close midpoint
func isMorningStar(current, prev, prev2 Bar) bool {
	if !prev2.IsBearish() || !prev.IsBullish() || !current.IsBullish() {
		return false
	}
	return current.Close > (prev2.Low+prev2.Close)/2
}

// isEveningStar checks for bullish, bearish, bearish with a close below the far bar's low/close midpoint
func isEveningStar(current, prev, prev2 Bar) bool {
	if !prev2.IsBullish() || !prev.IsBearish() || !current.IsBearish() {
		return false
	}
	return current.Close < (prev2.Low+prev2.Close)/2
}

// PatternSet is a category of patterns (e.g. the bullish confirmations)
type PatternSet []Pattern

// Contains reports whether p belongs to the set. NoPattern never matches.
func (s PatternSet) Contains(p Pattern) bool {
	if p == NoPattern {
		return false
	}
	for _, candidate := range s {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePattern converts a label to a Pattern, reporting whether the label is known
func ParsePattern(label string) (Pattern, bool) {
	switch Pattern(label) {
	case BullishEngulfing, BearishEngulfing, MorningStar, EveningStar, NoPattern:
		return Pattern(label), true
	default:
		return NoPattern, false
	}
}
