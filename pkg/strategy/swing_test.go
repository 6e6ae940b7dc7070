package strategy

import (
	"math/rand"
	"testing"
	"time"
)

// barsFromHighsLows builds bars whose High/Low follow the given series
func barsFromHighsLows(highs, lows []float64) []Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, len(highs))
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		bars[i] = Bar{
			Time:  start.Add(time.Duration(i) * time.Hour),
			Open:  mid,
			High:  highs[i],
			Low:   lows[i],
			Close: mid,
		}
	}
	return bars
}

func TestDetectSwingPoints_TooFewBars(t *testing.T) {
	for n := 0; n < 5; n++ {
		highs := make([]float64, n)
		lows := make([]float64, n)
		for i := 0; i < n; i++ {
			highs[i] = float64(10 + i)
			lows[i] = float64(5 - i)
		}
		h, l := DetectSwingPoints(barsFromHighsLows(highs, lows))
		if len(h) != 0 || len(l) != 0 {
			t.Errorf("n=%d: expected no swing points, got %d highs %d lows", n, len(h), len(l))
		}
	}
}

func TestDetectSwingPoints_ConstructedPeak(t *testing.T) {
	highs := []float64{10, 11, 15, 12, 11, 13, 14}
	lows := []float64{9, 8, 7, 8, 4, 9, 10}

	h, l := DetectSwingPoints(barsFromHighsLows(highs, lows))

	if len(h) != 1 || h[0].Index != 2 || h[0].Price != 15 || h[0].Kind != SwingHigh {
		t.Fatalf("expected single swing high at index 2 price 15, got %+v", h)
	}
	if len(l) != 1 || l[0].Index != 4 || l[0].Price != 4 || l[0].Kind != SwingLow {
		t.Fatalf("expected single swing low at index 4 price 4, got %+v", l)
	}
}

func TestDetectSwingPoints_TiesDoNotQualify(t *testing.T) {
	highs := []float64{10, 11, 15, 15, 11, 10}
	lows := []float64{5, 4, 3, 3, 4, 5}

	h, l := DetectSwingPoints(barsFromHighsLows(highs, lows))
	if len(h) != 0 {
		t.Errorf("equal neighbouring highs must not form a swing high, got %+v", h)
	}
	if len(l) != 0 {
		t.Errorf("equal neighbouring lows must not form a swing low, got %+v", l)
	}
}

func TestDetectSwingPoints_ExcludesEdges(t *testing.T) {
	// Extremes on the first and last two bars can never be confirmed
	highs := []float64{20, 19, 10, 11, 12, 30, 31}
	lows := []float64{1, 2, 8, 9, 8, 0.5, 0.1}

	h, l := DetectSwingPoints(barsFromHighsLows(highs, lows))
	for _, p := range h {
		if p.Index < 2 || p.Index > len(highs)-3 {
			t.Errorf("swing high at edge index %d", p.Index)
		}
	}
	for _, p := range l {
		if p.Index < 2 || p.Index > len(lows)-3 {
			t.Errorf("swing low at edge index %d", p.Index)
		}
	}
}

func TestDetectSwingPoints_DoesNotMutateInput(t *testing.T) {
	bars := barsFromHighsLows([]float64{1, 2, 5, 2, 1, 3}, []float64{0.5, 1, 4, 1, 0.2, 2})
	snapshot := make([]Bar, len(bars))
	copy(snapshot, bars)

	DetectSwingPoints(bars)

	for i := range bars {
		if bars[i] != snapshot[i] {
			t.Fatalf("bar %d mutated: %+v -> %+v", i, snapshot[i], bars[i])
		}
	}
}

func TestDetectSwingPoints_RandomisedStrictness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 5 + rng.Intn(60)
		highs := make([]float64, n)
		lows := make([]float64, n)
		for i := 0; i < n; i++ {
			// Coarse grid so ties show up regularly
			highs[i] = float64(rng.Intn(20))
			lows[i] = highs[i] - float64(1+rng.Intn(5))
		}
		bars := barsFromHighsLows(highs, lows)

		h, l := DetectSwingPoints(bars)

		lastIdx := -1
		for _, p := range h {
			if p.Index <= lastIdx {
				t.Fatalf("run %d: swing highs not in ascending order", run)
			}
			lastIdx = p.Index
			for j := p.Index - 2; j <= p.Index+2; j++ {
				if j != p.Index && bars[j].High >= p.Price {
					t.Fatalf("run %d: swing high %d not strictly above neighbour %d", run, p.Index, j)
				}
			}
		}

		lastIdx = -1
		for _, p := range l {
			if p.Index <= lastIdx {
				t.Fatalf("run %d: swing lows not in ascending order", run)
			}
			lastIdx = p.Index
			for j := p.Index - 2; j <= p.Index+2; j++ {
				if j != p.Index && bars[j].Low <= p.Price {
					t.Fatalf("run %d: swing low %d not strictly below neighbour %d", run, p.Index, j)
				}
			}
		}

		// Every bar that satisfies the rule must be reported
		reported := make(map[int]bool, len(h))
		for _, p := range h {
			reported[p.Index] = true
		}
		for i := 2; i < n-2; i++ {
			if isSwingHigh(bars, i) != reported[i] {
				t.Fatalf("run %d: index %d swing-high mismatch", run, i)
			}
		}
	}
}
