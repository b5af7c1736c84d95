package patterns

import (
	"testing"

	"quant-engine/internal/market"
)

// baseline builds n flat candles around the given price
func baseline(n int, price float64) []market.Candle {
	candles := make([]market.Candle, n)
	for i := range candles {
		candles[i] = market.Candle{
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return candles
}

func TestFindPivots(t *testing.T) {
	candles := baseline(15, 100)
	candles[7].High = 110

	pivots := FindPivots(candles, 3)
	if len(pivots) != 1 {
		t.Fatalf("one spike should yield one pivot, got %v", pivots)
	}
	if !pivots[0].IsTop || pivots[0].Index != 7 || pivots[0].Price != 110 {
		t.Errorf("pivot should be the top at index 7, got %+v", pivots[0])
	}

	if got := FindPivots(candles[:4], 3); len(got) != 0 {
		t.Errorf("window too small for the scan should yield no pivots, got %v", got)
	}
}

func TestDetectDoubleTop(t *testing.T) {
	candles := baseline(30, 100)
	candles[5].High = 110
	candles[20].High = 110.5

	d := NewDetector()
	found := d.DetectChart(candles)
	if !hasPattern(found, "double_top") {
		t.Errorf("two tops within tolerance separated by 15 bars should match, got %v", found)
	}
}

func TestDetectDoubleBottom(t *testing.T) {
	candles := baseline(30, 100)
	candles[5].Low = 90
	candles[20].Low = 90.4

	d := NewDetector()
	found := d.DetectChart(candles)
	if !hasPattern(found, "double_bottom") {
		t.Errorf("two troughs within tolerance separated by 15 bars should match, got %v", found)
	}
}

func TestDetectHeadAndShoulders(t *testing.T) {
	candles := baseline(40, 100)
	candles[8].High = 110
	candles[20].High = 120
	candles[32].High = 111

	d := NewDetector()
	found := d.DetectChart(candles)
	if !hasPattern(found, "head_and_shoulders") {
		t.Errorf("center extremum with matched shoulders should match, got %v", found)
	}
}

func TestDetectSupportResistance(t *testing.T) {
	d := NewDetector()

	atSupport := baseline(15, 100)
	for i := range atSupport {
		atSupport[i].Low = 99.5
	}
	atSupport[4].High = 103 // a pivot so the chart scan runs
	atSupport[len(atSupport)-1].Close = 99.6
	found := d.DetectChart(atSupport)
	if !hasPattern(found, "at_support") {
		t.Errorf("close within 1%% of the window low should match at_support, got %v", found)
	}

	atResistance := baseline(15, 100)
	atResistance[4].Low = 97 // a pivot so the chart scan runs
	atResistance[len(atResistance)-1].Close = 100.95
	found = d.DetectChart(atResistance)
	if !hasPattern(found, "at_resistance") {
		t.Errorf("close within 1%% of the window high should match at_resistance, got %v", found)
	}
}

func TestDetectBullFlag(t *testing.T) {
	// 12-bar pole up ~10%, then a shallow 8-bar drift down
	candles := make([]market.Candle, 25)
	price := 100.0
	for i := range candles {
		switch {
		case i < 5:
		case i < 17:
			price *= 1.009
		default:
			price *= 0.998
		}
		candles[i] = market.Candle{Open: price, High: price + 0.2, Low: price - 0.2, Close: price, Volume: 1000}
	}

	d := NewDetector()
	found := d.DetectChart(candles)
	if !hasPattern(found, "bull_flag") {
		t.Errorf("strong pole with shallow retrace should match bull_flag, got %v", found)
	}
}
