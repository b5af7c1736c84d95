// Package indicators implements the pure indicator library. Every
// function is synchronous, side-effect free, and returns a documented
// neutral default when the input window is too short.
package indicators

import (
	"math"

	"quant-engine/internal/market"
)

// ============================================================================
// MOVING AVERAGES
// ============================================================================

// CalculateSMA calculates Simple Moving Average of closes
func CalculateSMA(candles []market.Candle, period int) float64 {
	if len(candles) < period || period <= 0 {
		return 0
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period)
}

// CalculateEMA calculates Exponential Moving Average of closes
func CalculateEMA(candles []market.Candle, period int) float64 {
	if len(candles) < period || period <= 0 {
		return 0
	}

	// Seed with SMA of the first period, then roll forward
	ema := CalculateSMA(candles[:period], period)
	multiplier := 2.0 / float64(period+1)

	for i := period; i < len(candles); i++ {
		ema = candles[i].Close*multiplier + ema*(1-multiplier)
	}
	return ema
}

// ============================================================================
// RSI
// ============================================================================

// CalculateRSI calculates the Relative Strength Index.
// Returns the neutral 50 with insufficient history.
func CalculateRSI(candles []market.Candle, period int) float64 {
	if len(candles) < period+1 {
		return 50.0
	}

	gains := 0.0
	losses := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100.0
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - (100 / (1 + rs))
}

// ============================================================================
// ATR (Average True Range)
// ============================================================================

// CalculateATR calculates Wilder-smoothed Average True Range.
// ATR carries no direction; the signal is always HOLD.
func CalculateATR(candles []market.Candle, period int) market.IndicatorResult {
	if len(candles) < period+1 {
		return market.IndicatorResult{Value: 0, Signal: market.Hold}
	}

	// Seed with a simple average of the first period true ranges,
	// then apply Wilder smoothing over the remainder
	atr := 0.0
	for i := 1; i <= period; i++ {
		atr += trueRange(candles[i], candles[i-1])
	}
	atr /= float64(period)

	for i := period + 1; i < len(candles); i++ {
		atr = (atr*float64(period-1) + trueRange(candles[i], candles[i-1])) / float64(period)
	}

	return market.IndicatorResult{Value: atr, Signal: market.Hold}
}

// ATRPercent returns ATR as a percentage of the latest close
func ATRPercent(candles []market.Candle, period int) float64 {
	if len(candles) == 0 {
		return 0
	}
	last := candles[len(candles)-1].Close
	if last <= 0 {
		return 0
	}
	return CalculateATR(candles, period).Value / last * 100
}

func trueRange(c, prev market.Candle) float64 {
	return math.Max(c.High-c.Low,
		math.Max(math.Abs(c.High-prev.Close), math.Abs(c.Low-prev.Close)))
}

// ============================================================================
// ROC (Rate of Change)
// ============================================================================

// CalculateROC calculates percentage rate of change over a period.
// BUY above +5%, SELL below -5%.
func CalculateROC(candles []market.Candle, period int) market.IndicatorResult {
	if len(candles) < period+1 {
		return market.IndicatorResult{Value: 0, Signal: market.Hold}
	}

	current := candles[len(candles)-1].Close
	past := candles[len(candles)-period-1].Close
	if past == 0 {
		return market.IndicatorResult{Value: 0, Signal: market.Hold}
	}

	roc := (current - past) / past * 100

	signal := market.Hold
	if roc > 5 {
		signal = market.Buy
	} else if roc < -5 {
		signal = market.Sell
	}
	return market.IndicatorResult{Value: roc, Signal: signal}
}

// ============================================================================
// OBV (On-Balance Volume)
// ============================================================================

// CalculateOBV accumulates signed volume and signals when the OBV trend
// agrees with the price trend over the window.
func CalculateOBV(candles []market.Candle, period int) market.IndicatorResult {
	if len(candles) < period+1 || period < 2 {
		return market.IndicatorResult{Value: 0, Signal: market.Hold}
	}

	obv := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			obv[i] = obv[i-1] + candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			obv[i] = obv[i-1] - candles[i].Volume
		default:
			obv[i] = obv[i-1]
		}
	}

	last := len(candles) - 1
	obvTrend := obv[last] - obv[last-period]
	priceTrend := candles[last].Close - candles[last-period].Close

	signal := market.Hold
	if obvTrend > 0 && priceTrend > 0 {
		signal = market.Buy
	} else if obvTrend < 0 && priceTrend < 0 {
		signal = market.Sell
	}
	return market.IndicatorResult{Value: obv[last], Signal: signal}
}

// ============================================================================
// MFI (Money Flow Index)
// ============================================================================

// CalculateMFI calculates the volume-weighted money flow ratio.
// BUY below 20 (oversold), SELL above 80 (overbought); neutral 50 on
// insufficient history.
func CalculateMFI(candles []market.Candle, period int) market.IndicatorResult {
	if len(candles) < period+1 {
		return market.IndicatorResult{Value: 50, Signal: market.Hold}
	}

	positive := 0.0
	negative := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		tp := typicalPrice(candles[i])
		prevTP := typicalPrice(candles[i-1])
		flow := tp * candles[i].Volume

		if tp > prevTP {
			positive += flow
		} else if tp < prevTP {
			negative += flow
		}
	}

	if negative == 0 {
		return market.IndicatorResult{Value: 100, Signal: market.Sell}
	}

	mfi := 100 - 100/(1+positive/negative)

	signal := market.Hold
	if mfi < 20 {
		signal = market.Buy
	} else if mfi > 80 {
		signal = market.Sell
	}
	return market.IndicatorResult{Value: mfi, Signal: signal}
}

func typicalPrice(c market.Candle) float64 {
	return (c.High + c.Low + c.Close) / 3
}

// ============================================================================
// VOLUME
// ============================================================================

// CalculateAverageVolume calculates mean volume over a trailing period
func CalculateAverageVolume(candles []market.Candle, period int) float64 {
	if len(candles) == 0 {
		return 0
	}
	if len(candles) < period {
		period = len(candles)
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Volume
	}
	return sum / float64(period)
}

// IsVolumeSpike reports whether the latest volume exceeds the trailing
// average by the given multiplier
func IsVolumeSpike(candles []market.Candle, period int, multiplier float64) bool {
	if len(candles) < period+1 {
		return false
	}
	avg := CalculateAverageVolume(candles[:len(candles)-1], period)
	return avg > 0 && candles[len(candles)-1].Volume >= avg*multiplier
}
