package analysis

import (
	"quant-engine/internal/indicators"
	"quant-engine/internal/market"
)

// KeltnerResult holds the channel bounds around the EMA center line
type KeltnerResult struct {
	Upper  float64       `json:"upper"`
	Middle float64       `json:"middle"`
	Lower  float64       `json:"lower"`
	Signal market.Signal `json:"signal"`
}

// CalculateKeltner builds an EMA +- multiplier*ATR channel and signals
// on a close beyond either band (breakout semantics).
func CalculateKeltner(candles []market.Candle, emaPeriod, atrPeriod int, multiplier float64) KeltnerResult {
	if len(candles) < emaPeriod || len(candles) < atrPeriod+1 {
		return KeltnerResult{Signal: market.Hold}
	}

	middle := indicators.CalculateEMA(candles, emaPeriod)
	atr := indicators.CalculateATR(candles, atrPeriod).Value

	upper := middle + multiplier*atr
	lower := middle - multiplier*atr

	price := candles[len(candles)-1].Close
	signal := market.Hold
	if price > upper {
		signal = market.Buy
	} else if price < lower {
		signal = market.Sell
	}

	return KeltnerResult{Upper: upper, Middle: middle, Lower: lower, Signal: signal}
}

// AroonResult holds the time-since-extremum oscillator pair
type AroonResult struct {
	Up     float64       `json:"up"`
	Down   float64       `json:"down"`
	Signal market.Signal `json:"signal"`
}

// CalculateAroon normalizes bars-since-high and bars-since-low to a
// 0-100 range. BUY when up>70 with down<30, symmetric for SELL.
func CalculateAroon(candles []market.Candle, period int) AroonResult {
	if len(candles) < period+1 || period <= 0 {
		return AroonResult{Up: 50, Down: 50, Signal: market.Hold}
	}

	start := len(candles) - period - 1
	highIdx := start
	lowIdx := start
	for i := start; i < len(candles); i++ {
		if candles[i].High > candles[highIdx].High {
			highIdx = i
		}
		if candles[i].Low < candles[lowIdx].Low {
			lowIdx = i
		}
	}

	last := len(candles) - 1
	up := float64(period-(last-highIdx)) / float64(period) * 100
	down := float64(period-(last-lowIdx)) / float64(period) * 100

	signal := market.Hold
	if up > 70 && down < 30 {
		signal = market.Buy
	} else if down > 70 && up < 30 {
		signal = market.Sell
	}

	return AroonResult{Up: up, Down: down, Signal: signal}
}
