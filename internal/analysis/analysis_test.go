package analysis

import (
	"testing"

	"quant-engine/internal/market"
)

func flatCandles(n int, price float64) []market.Candle {
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

func TestDetectDivergenceRegularBullish(t *testing.T) {
	candles := flatCandles(20, 100)
	candles[5].Low = 95
	candles[14].Low = 93 // lower price low

	osc := make([]float64, 20)
	for i := range osc {
		osc[i] = 50
	}
	osc[5] = 30
	osc[14] = 40 // higher oscillator low

	divs := DetectDivergence(candles, osc, 20)
	if len(divs) != 1 {
		t.Fatalf("expected one divergence, got %v", divs)
	}
	if divs[0].Type != RegularBullish || divs[0].Signal != market.Buy {
		t.Errorf("lower low on a stronger oscillator should be regular bullish BUY, got %+v", divs[0])
	}
	if divs[0].Strength != 2 {
		t.Errorf("10-point oscillator gap should grade strength 2, got %d", divs[0].Strength)
	}
}

func TestDetectDivergenceRegularBearish(t *testing.T) {
	candles := flatCandles(20, 100)
	candles[5].High = 105
	candles[14].High = 107 // higher price high

	osc := make([]float64, 20)
	for i := range osc {
		osc[i] = 50
	}
	osc[5] = 80
	osc[14] = 60 // weaker oscillator high

	divs := DetectDivergence(candles, osc, 20)
	if len(divs) != 1 {
		t.Fatalf("expected one divergence, got %v", divs)
	}
	if divs[0].Type != RegularBearish || divs[0].Signal != market.Sell {
		t.Errorf("higher high on a weaker oscillator should be regular bearish SELL, got %+v", divs[0])
	}
	if divs[0].Strength != 3 {
		t.Errorf("20-point oscillator gap should grade strength 3, got %d", divs[0].Strength)
	}
}

func TestDetectDivergenceGuards(t *testing.T) {
	candles := flatCandles(20, 100)
	osc := make([]float64, 19) // misaligned

	if divs := DetectDivergence(candles, osc, 20); len(divs) != 0 {
		t.Errorf("misaligned series should yield nothing, got %v", divs)
	}
	if divs := DetectDivergence(candles, make([]float64, 20), 5); len(divs) != 0 {
		t.Errorf("lookback under 10 should yield nothing, got %v", divs)
	}
}

func TestCalculatePivotPointsClassic(t *testing.T) {
	prev := market.Candle{Open: 95, High: 110, Low: 90, Close: 100}

	levels := CalculatePivotPoints(prev, 105, Classic)
	if levels.PP != 100 {
		t.Errorf("classic PP of (110+90+100)/3 should be 100, got %v", levels.PP)
	}
	if levels.R1 != 110 || levels.S1 != 90 {
		t.Errorf("expected R1 110 / S1 90, got %v / %v", levels.R1, levels.S1)
	}
	if levels.Signal != market.Buy {
		t.Errorf("price between PP and R1 should signal BUY, got %s", levels.Signal)
	}

	if got := CalculatePivotPoints(prev, 111, Classic).Signal; got != market.StrongBuy {
		t.Errorf("price above R1 should signal STRONG_BUY, got %s", got)
	}
	if got := CalculatePivotPoints(prev, 95, Classic).Signal; got != market.Sell {
		t.Errorf("price between S1 and PP should signal SELL, got %s", got)
	}
	if got := CalculatePivotPoints(prev, 89, Classic).Signal; got != market.StrongSell {
		t.Errorf("price below S1 should signal STRONG_SELL, got %s", got)
	}
	if got := CalculatePivotPoints(prev, 100, Classic).Signal; got != market.Hold {
		t.Errorf("price at PP should signal HOLD, got %s", got)
	}
}

func TestCalculatePivotPointsWoodie(t *testing.T) {
	prev := market.Candle{Open: 100, High: 110, Low: 90, Close: 105}
	levels := CalculatePivotPoints(prev, 100, Woodie)

	// (110 + 90 + 2*100) / 4
	if levels.PP != 100 {
		t.Errorf("woodie PP should weight the open twice, expected 100, got %v", levels.PP)
	}
}

func TestCalculateKeltner(t *testing.T) {
	short := CalculateKeltner(flatCandles(5, 100), 20, 10, 2)
	if short.Signal != market.Hold {
		t.Errorf("insufficient candles should be HOLD, got %s", short.Signal)
	}

	flat := CalculateKeltner(flatCandles(30, 100), 20, 10, 2)
	if flat.Signal != market.Hold {
		t.Errorf("price inside the channel should be HOLD, got %+v", flat)
	}
	if flat.Upper <= flat.Middle || flat.Lower >= flat.Middle {
		t.Errorf("bands should straddle the middle line, got %+v", flat)
	}

	breakout := flatCandles(21, 100)
	breakout[20] = market.Candle{Open: 100, High: 120, Low: 100, Close: 120, Volume: 1000}
	up := CalculateKeltner(breakout, 20, 10, 2)
	if up.Signal != market.Buy {
		t.Errorf("close above the upper band should signal BUY, got %+v", up)
	}
}

func TestCalculateAroon(t *testing.T) {
	short := CalculateAroon(flatCandles(5, 100), 25)
	if short.Up != 50 || short.Down != 50 || short.Signal != market.Hold {
		t.Errorf("insufficient candles should be neutral {50, 50, HOLD}, got %+v", short)
	}

	rising := make([]market.Candle, 30)
	for i := range rising {
		base := 100.0 + float64(i)
		rising[i] = market.Candle{Open: base, High: base + 1, Low: base - 1, Close: base + 0.5, Volume: 1000}
	}
	up := CalculateAroon(rising, 25)
	if up.Up != 100 {
		t.Errorf("fresh high on the last bar should give Aroon-up 100, got %v", up.Up)
	}
	if up.Signal != market.Buy {
		t.Errorf("strong uptrend should signal BUY, got %+v", up)
	}
}
