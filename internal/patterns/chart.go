package patterns

import (
	"math"

	"quant-engine/internal/market"
)

// Pivot marks a local extremum found by the symmetric window scan
type Pivot struct {
	Index int
	Price float64
	IsTop bool
}

// FindPivots scans for local extrema: a bar is a peak (trough) if its
// high (low) is the maximum (minimum) within +-window bars.
func FindPivots(candles []market.Candle, window int) []Pivot {
	var pivots []Pivot
	if window <= 0 || len(candles) < 2*window+1 {
		return pivots
	}

	for i := window; i < len(candles)-window; i++ {
		isPeak := true
		isTrough := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if candles[j].High >= candles[i].High {
				isPeak = false
			}
			if candles[j].Low <= candles[i].Low {
				isTrough = false
			}
		}
		if isPeak {
			pivots = append(pivots, Pivot{Index: i, Price: candles[i].High, IsTop: true})
		}
		if isTrough {
			pivots = append(pivots, Pivot{Index: i, Price: candles[i].Low, IsTop: false})
		}
	}
	return pivots
}

// DetectChart runs the chart-shape scan over the window
func (d *Detector) DetectChart(candles []market.Candle) []Pattern {
	var found []Pattern
	pivots := FindPivots(candles, 3)
	if len(pivots) == 0 {
		return found
	}

	if p, ok := d.detectDoubleTopBottom(pivots); ok {
		found = append(found, p)
	}
	if p, ok := d.detectHeadAndShoulders(pivots); ok {
		found = append(found, p)
	}
	if p, ok := d.detectSupportResistance(candles); ok {
		found = append(found, p)
	}
	if p, ok := d.detectWedge(candles, pivots); ok {
		found = append(found, p)
	}
	if p, ok := d.detectFlag(candles); ok {
		found = append(found, p)
	}
	if p, ok := d.detectCupAndHandle(candles, pivots); ok {
		found = append(found, p)
	}
	return found
}

// detectDoubleTopBottom matches two same-side pivots within 2% price
// tolerance separated by more than 10 bars
func (d *Detector) detectDoubleTopBottom(pivots []Pivot) (Pattern, bool) {
	tops := filterPivots(pivots, true)
	bottoms := filterPivots(pivots, false)

	if _, _, ok := lastPairWithin(tops, 0.02, 10); ok {
		return Pattern{Name: "double_top", Type: Bearish, Strength: 3}, true
	}
	if _, _, ok := lastPairWithin(bottoms, 0.02, 10); ok {
		return Pattern{Name: "double_bottom", Type: Bullish, Strength: 3}, true
	}
	return Pattern{}, false
}

// detectHeadAndShoulders matches three same-side pivots with the center
// as the extremum and shoulders within 5% of each other
func (d *Detector) detectHeadAndShoulders(pivots []Pivot) (Pattern, bool) {
	tops := filterPivots(pivots, true)
	if len(tops) >= 3 {
		l, h, r := tops[len(tops)-3], tops[len(tops)-2], tops[len(tops)-1]
		if h.Price > l.Price && h.Price > r.Price && within(l.Price, r.Price, 0.05) {
			return Pattern{Name: "head_and_shoulders", Type: Bearish, Strength: 3}, true
		}
	}

	bottoms := filterPivots(pivots, false)
	if len(bottoms) >= 3 {
		l, h, r := bottoms[len(bottoms)-3], bottoms[len(bottoms)-2], bottoms[len(bottoms)-1]
		if h.Price < l.Price && h.Price < r.Price && within(l.Price, r.Price, 0.05) {
			return Pattern{Name: "inverse_head_and_shoulders", Type: Bullish, Strength: 3}, true
		}
	}
	return Pattern{}, false
}

// detectSupportResistance flags price within 1% of the trailing-window
// extremes
func (d *Detector) detectSupportResistance(candles []market.Candle) (Pattern, bool) {
	if len(candles) < 10 {
		return Pattern{}, false
	}

	high := candles[0].High
	low := candles[0].Low
	for _, c := range candles {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	price := candles[len(candles)-1].Close
	if low > 0 && (price-low)/low < 0.01 {
		return Pattern{Name: "at_support", Type: Bullish, Strength: 2}, true
	}
	if high > 0 && (high-price)/high < 0.01 {
		return Pattern{Name: "at_resistance", Type: Bearish, Strength: 2}, true
	}
	return Pattern{}, false
}

// detectWedge compares the slope of the top pivots against the slope of
// the bottom pivots: both rising with the lows rising faster is a
// rising wedge (bearish); the mirror is a falling wedge (bullish).
func (d *Detector) detectWedge(candles []market.Candle, pivots []Pivot) (Pattern, bool) {
	tops := filterPivots(pivots, true)
	bottoms := filterPivots(pivots, false)
	if len(tops) < 2 || len(bottoms) < 2 {
		return Pattern{}, false
	}

	topSlope := pivotSlope(tops)
	bottomSlope := pivotSlope(bottoms)

	if topSlope > 0 && bottomSlope > 0 && bottomSlope > topSlope {
		return Pattern{Name: "rising_wedge", Type: Bearish, Strength: 2}, true
	}
	if topSlope < 0 && bottomSlope < 0 && topSlope < bottomSlope {
		return Pattern{Name: "falling_wedge", Type: Bullish, Strength: 2}, true
	}
	return Pattern{}, false
}

// detectFlag looks for a strong directional pole followed by a shallow
// counter-trend drift
func (d *Detector) detectFlag(candles []market.Candle) (Pattern, bool) {
	if len(candles) < 20 {
		return Pattern{}, false
	}

	pole := candles[len(candles)-20 : len(candles)-8]
	flag := candles[len(candles)-8:]

	poleStart := pole[0].Close
	poleEnd := pole[len(pole)-1].Close
	if poleStart == 0 {
		return Pattern{}, false
	}
	poleMove := (poleEnd - poleStart) / poleStart

	flagStart := flag[0].Close
	flagEnd := flag[len(flag)-1].Close
	if flagStart == 0 {
		return Pattern{}, false
	}
	flagMove := (flagEnd - flagStart) / flagStart

	// Pole of at least 5%; flag retraces less than 40% of it against
	// the pole direction
	if poleMove > 0.05 && flagMove <= 0 && math.Abs(flagMove) < math.Abs(poleMove)*0.4 {
		return Pattern{Name: "bull_flag", Type: Bullish, Strength: 2}, true
	}
	if poleMove < -0.05 && flagMove >= 0 && math.Abs(flagMove) < math.Abs(poleMove)*0.4 {
		return Pattern{Name: "bear_flag", Type: Bearish, Strength: 2}, true
	}
	return Pattern{}, false
}

// detectCupAndHandle looks for a rounded trough between two rims at
// similar levels followed by a shallow handle pullback
func (d *Detector) detectCupAndHandle(candles []market.Candle, pivots []Pivot) (Pattern, bool) {
	tops := filterPivots(pivots, true)
	bottoms := filterPivots(pivots, false)
	if len(tops) < 2 || len(bottoms) < 1 {
		return Pattern{}, false
	}

	left := tops[0]
	right := tops[len(tops)-1]
	if right.Index-left.Index < 15 || !within(left.Price, right.Price, 0.05) {
		return Pattern{}, false
	}

	// Deepest trough must sit between the rims with a meaningful depth
	var cupLow *Pivot
	for i := range bottoms {
		b := bottoms[i]
		if b.Index > left.Index && b.Index < right.Index {
			if cupLow == nil || b.Price < cupLow.Price {
				cupLow = &bottoms[i]
			}
		}
	}
	if cupLow == nil || left.Price == 0 {
		return Pattern{}, false
	}
	depth := (left.Price - cupLow.Price) / left.Price
	if depth < 0.05 || depth > 0.5 {
		return Pattern{}, false
	}

	// Handle: price after the right rim holds above the upper half of
	// the cup
	price := candles[len(candles)-1].Close
	if price > cupLow.Price+(left.Price-cupLow.Price)*0.5 && price < right.Price {
		return Pattern{Name: "cup_and_handle", Type: Bullish, Strength: 2}, true
	}
	return Pattern{}, false
}

func filterPivots(pivots []Pivot, tops bool) []Pivot {
	var out []Pivot
	for _, p := range pivots {
		if p.IsTop == tops {
			out = append(out, p)
		}
	}
	return out
}

// lastPairWithin finds the most recent pair of pivots within tolerance
// and separated by more than minBars
func lastPairWithin(pivots []Pivot, tolerance float64, minBars int) (Pivot, Pivot, bool) {
	for i := len(pivots) - 1; i > 0; i-- {
		for j := i - 1; j >= 0; j-- {
			if pivots[i].Index-pivots[j].Index > minBars && within(pivots[i].Price, pivots[j].Price, tolerance) {
				return pivots[j], pivots[i], true
			}
		}
	}
	return Pivot{}, Pivot{}, false
}

func within(a, b, tolerance float64) bool {
	if a == 0 {
		return false
	}
	return math.Abs(a-b)/math.Abs(a) <= tolerance
}

// pivotSlope fits price change per bar across first and last pivot
func pivotSlope(pivots []Pivot) float64 {
	first := pivots[0]
	last := pivots[len(pivots)-1]
	bars := last.Index - first.Index
	if bars == 0 {
		return 0
	}
	return (last.Price - first.Price) / float64(bars)
}
