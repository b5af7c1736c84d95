package indicators

import (
	"math"

	"quant-engine/internal/market"
)

// ============================================================================
// STOCHASTIC OSCILLATOR
// ============================================================================

// CalculateStochastic calculates %K and %D with crossover detection.
// BUY when oversold (<20) or on a bullish K/D cross, SELL when
// overbought (>80) or on a bearish cross. Neutral {50, 50} on
// insufficient history.
func CalculateStochastic(candles []market.Candle, kPeriod, dPeriod int) market.IndicatorResult {
	if len(candles) < kPeriod+dPeriod || kPeriod <= 0 || dPeriod <= 0 {
		return market.IndicatorResult{
			Values: map[string]float64{"k": 50, "d": 50},
			Value:  50,
			Signal: market.Hold,
		}
	}

	k := stochasticK(candles, kPeriod, 0)
	d := 0.0
	for off := 0; off < dPeriod; off++ {
		d += stochasticK(candles, kPeriod, off)
	}
	d /= float64(dPeriod)

	prevK := stochasticK(candles, kPeriod, 1)
	prevD := 0.0
	for off := 1; off <= dPeriod; off++ {
		prevD += stochasticK(candles, kPeriod, off)
	}
	prevD /= float64(dPeriod)

	signal := market.Hold
	switch {
	case k < 20:
		signal = market.Buy
	case k > 80:
		signal = market.Sell
	case k > d && prevK <= prevD:
		signal = market.Buy
	case k < d && prevK >= prevD:
		signal = market.Sell
	}

	return market.IndicatorResult{
		Values: map[string]float64{"k": k, "d": d},
		Value:  k,
		Signal: signal,
	}
}

// stochasticK computes raw %K for the window ending `offset` bars back
func stochasticK(candles []market.Candle, kPeriod, offset int) float64 {
	end := len(candles) - offset
	start := end - kPeriod
	if start < 0 {
		return 50
	}

	highest := candles[start].High
	lowest := candles[start].Low
	for i := start; i < end; i++ {
		if candles[i].High > highest {
			highest = candles[i].High
		}
		if candles[i].Low < lowest {
			lowest = candles[i].Low
		}
	}

	if highest == lowest {
		return 50
	}
	return (candles[end-1].Close - lowest) / (highest - lowest) * 100
}

// ============================================================================
// WILLIAMS %R
// ============================================================================

// CalculateWilliamsR calculates Williams %R on a -100..0 scale.
// BUY below -80 (oversold), SELL above -20 (overbought); neutral -50.
func CalculateWilliamsR(candles []market.Candle, period int) market.IndicatorResult {
	if len(candles) < period || period <= 0 {
		return market.IndicatorResult{Value: -50, Signal: market.Hold}
	}

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

	if highest == lowest {
		return market.IndicatorResult{Value: -50, Signal: market.Hold}
	}

	wr := (highest - candles[len(candles)-1].Close) / (highest - lowest) * -100

	signal := market.Hold
	if wr < -80 {
		signal = market.Buy
	} else if wr > -20 {
		signal = market.Sell
	}
	return market.IndicatorResult{Value: wr, Signal: signal}
}

// ============================================================================
// CCI (Commodity Channel Index)
// ============================================================================

// CalculateCCI calculates the mean-deviation normalized typical price.
// BUY below -100, SELL above +100; neutral 0.
func CalculateCCI(candles []market.Candle, period int) market.IndicatorResult {
	if len(candles) < period || period <= 0 {
		return market.IndicatorResult{Value: 0, Signal: market.Hold}
	}

	start := len(candles) - period
	sum := 0.0
	for i := start; i < len(candles); i++ {
		sum += typicalPrice(candles[i])
	}
	mean := sum / float64(period)

	meanDev := 0.0
	for i := start; i < len(candles); i++ {
		meanDev += math.Abs(typicalPrice(candles[i]) - mean)
	}
	meanDev /= float64(period)

	if meanDev == 0 {
		return market.IndicatorResult{Value: 0, Signal: market.Hold}
	}

	cci := (typicalPrice(candles[len(candles)-1]) - mean) / (0.015 * meanDev)

	signal := market.Hold
	if cci < -100 {
		signal = market.Buy
	} else if cci > 100 {
		signal = market.Sell
	}
	return market.IndicatorResult{Value: cci, Signal: signal}
}
