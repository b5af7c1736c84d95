package indicators

import (
	"quant-engine/internal/market"
)

// ============================================================================
// ADX / DI (Average Directional Index)
// ============================================================================

// ADXResult carries trend strength plus both directional indicators
type ADXResult struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
	Signal  market.Signal
}

// CalculateADX calculates Wilder-smoothed ADX with +DI/-DI.
// Signals only when the trend is established (ADX > 25) and one
// directional indicator dominates.
func CalculateADX(candles []market.Candle, period int) ADXResult {
	if len(candles) < 2*period+1 || period <= 0 {
		return ADXResult{Signal: market.Hold}
	}

	// Wilder smoothing seeds: sum the first `period` values
	var smTR, smPlusDM, smMinusDM float64
	for i := 1; i <= period; i++ {
		tr, pdm, mdm := directionalMovement(candles[i], candles[i-1])
		smTR += tr
		smPlusDM += pdm
		smMinusDM += mdm
	}

	dxSum := 0.0
	dxCount := 0
	adx := 0.0

	for i := period + 1; i < len(candles); i++ {
		tr, pdm, mdm := directionalMovement(candles[i], candles[i-1])
		smTR = smTR - smTR/float64(period) + tr
		smPlusDM = smPlusDM - smPlusDM/float64(period) + pdm
		smMinusDM = smMinusDM - smMinusDM/float64(period) + mdm

		if smTR == 0 {
			continue
		}
		plusDI := smPlusDM / smTR * 100
		minusDI := smMinusDM / smTR * 100

		diSum := plusDI + minusDI
		dx := 0.0
		if diSum > 0 {
			dx = abs(plusDI-minusDI) / diSum * 100
		}

		// Seed ADX with the average of the first `period` DX values,
		// then continue with Wilder smoothing
		if dxCount < period {
			dxSum += dx
			dxCount++
			if dxCount == period {
				adx = dxSum / float64(period)
			}
		} else {
			adx = (adx*float64(period-1) + dx) / float64(period)
		}
	}

	plusDI := 0.0
	minusDI := 0.0
	if smTR > 0 {
		plusDI = smPlusDM / smTR * 100
		minusDI = smMinusDM / smTR * 100
	}

	signal := market.Hold
	if adx > 25 {
		if plusDI > minusDI {
			signal = market.Buy
		} else if minusDI > plusDI {
			signal = market.Sell
		}
	}

	return ADXResult{ADX: adx, PlusDI: plusDI, MinusDI: minusDI, Signal: signal}
}

func directionalMovement(c, prev market.Candle) (tr, plusDM, minusDM float64) {
	upMove := c.High - prev.High
	downMove := prev.Low - c.Low

	if upMove > downMove && upMove > 0 {
		plusDM = upMove
	}
	if downMove > upMove && downMove > 0 {
		minusDM = downMove
	}
	return trueRange(c, prev), plusDM, minusDM
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// ============================================================================
// PARABOLIC SAR
// ============================================================================

// CalculateParabolicSAR runs the acceleration-factor trailing stop over
// the whole window and reports the current stop level. BUY while the
// stop trails below price, SELL while it trails above.
func CalculateParabolicSAR(candles []market.Candle, step, maxAF float64) market.IndicatorResult {
	if len(candles) < 3 {
		value := 0.0
		if len(candles) > 0 {
			value = candles[len(candles)-1].Close
		}
		return market.IndicatorResult{Value: value, Signal: market.Hold}
	}
	if step <= 0 {
		step = 0.02
	}
	if maxAF <= 0 {
		maxAF = 0.2
	}

	uptrend := candles[1].Close > candles[0].Close
	sar := candles[0].Low
	ep := candles[0].High
	if !uptrend {
		sar = candles[0].High
		ep = candles[0].Low
	}
	af := step

	for i := 1; i < len(candles); i++ {
		c := candles[i]
		sar += af * (ep - sar)

		if uptrend {
			// Stop breach flips the trend
			if c.Low < sar {
				uptrend = false
				sar = ep
				ep = c.Low
				af = step
				continue
			}
			if c.High > ep {
				ep = c.High
				af += step
				if af > maxAF {
					af = maxAF
				}
			}
		} else {
			if c.High > sar {
				uptrend = true
				sar = ep
				ep = c.High
				af = step
				continue
			}
			if c.Low < ep {
				ep = c.Low
				af += step
				if af > maxAF {
					af = maxAF
				}
			}
		}
	}

	signal := market.Sell
	if uptrend {
		signal = market.Buy
	}
	return market.IndicatorResult{Value: sar, Signal: signal}
}

// ============================================================================
// ICHIMOKU (lite)
// ============================================================================

// IchimokuResult carries the rolling-midpoint lines
type IchimokuResult struct {
	Tenkan  float64
	Kijun   float64
	SenkouA float64
	SenkouB float64
	Signal  market.Signal
}

// CalculateIchimoku computes tenkan/kijun/senkou from rolling high/low
// midpoints (9/26/52). BUY when price sits above the cloud with tenkan
// over kijun, SELL in the mirror case.
func CalculateIchimoku(candles []market.Candle) IchimokuResult {
	if len(candles) < 52 {
		return IchimokuResult{Signal: market.Hold}
	}

	tenkan := midpoint(candles, 9)
	kijun := midpoint(candles, 26)
	senkouA := (tenkan + kijun) / 2
	senkouB := midpoint(candles, 52)

	price := candles[len(candles)-1].Close
	cloudTop := senkouA
	cloudBottom := senkouB
	if senkouB > senkouA {
		cloudTop = senkouB
		cloudBottom = senkouA
	}

	signal := market.Hold
	if price > cloudTop && tenkan > kijun {
		signal = market.Buy
	} else if price < cloudBottom && tenkan < kijun {
		signal = market.Sell
	}

	return IchimokuResult{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: senkouA,
		SenkouB: senkouB,
		Signal:  signal,
	}
}

// midpoint returns the mean of the highest high and lowest low over the
// trailing period
func midpoint(candles []market.Candle, period int) float64 {
	start := len(candles) - period
	highest := candles[start].High
	lowest := candles[start].Low
	for i := start; i < len(candles); i++ {
		if candles[i].High > highest {
			highest = candles[i].High
		}
		if candles[i].Low < lowest {
			lowest = candles[i].Low
		}
	}
	return (highest + lowest) / 2
}
