// Package analysis implements oscillator/price divergence, pivot-point
// levels, volatility channels and the Aroon trend-exhaustion oscillator.
package analysis

import (
	"quant-engine/internal/market"
)

// DivergenceType names the four divergence classes
type DivergenceType string

const (
	RegularBullish DivergenceType = "regular_bullish"
	RegularBearish DivergenceType = "regular_bearish"
	HiddenBullish  DivergenceType = "hidden_bullish"
	HiddenBearish  DivergenceType = "hidden_bearish"
)

// Divergence is one detected price/oscillator disagreement
type Divergence struct {
	Type     DivergenceType `json:"type"`
	Signal   market.Signal  `json:"signal"`
	Strength int            `json:"strength"` // 1-3, scaled by extremum distance
}

// DetectDivergence compares the last two price extrema inside the
// lookback window against the oscillator values at the same indices.
// The oscillator series must be index-aligned with the candles.
func DetectDivergence(candles []market.Candle, oscillator []float64, lookback int) []Divergence {
	var out []Divergence
	if len(candles) != len(oscillator) || len(candles) < lookback || lookback < 10 {
		return out
	}

	start := len(candles) - lookback
	window := candles[start:]
	osc := oscillator[start:]

	lows := localExtrema(window, false)
	highs := localExtrema(window, true)

	if len(lows) >= 2 {
		a, b := lows[len(lows)-2], lows[len(lows)-1]
		priceDown := window[b].Low < window[a].Low
		oscDown := osc[b] < osc[a]

		if priceDown && !oscDown {
			// Price made a lower low while the oscillator held: reversal up
			out = append(out, Divergence{Type: RegularBullish, Signal: market.Buy, Strength: divStrength(osc[a], osc[b])})
		} else if !priceDown && oscDown {
			// Higher price low on a weaker oscillator low: trend continuation up
			out = append(out, Divergence{Type: HiddenBullish, Signal: market.Buy, Strength: divStrength(osc[a], osc[b])})
		}
	}

	if len(highs) >= 2 {
		a, b := highs[len(highs)-2], highs[len(highs)-1]
		priceUp := window[b].High > window[a].High
		oscUp := osc[b] > osc[a]

		if priceUp && !oscUp {
			out = append(out, Divergence{Type: RegularBearish, Signal: market.Sell, Strength: divStrength(osc[a], osc[b])})
		} else if !priceUp && oscUp {
			out = append(out, Divergence{Type: HiddenBearish, Signal: market.Sell, Strength: divStrength(osc[a], osc[b])})
		}
	}

	return out
}

// localExtrema returns indices that are the max/min of their +-2 bar
// neighborhood
func localExtrema(candles []market.Candle, tops bool) []int {
	var out []int
	const w = 2
	for i := w; i < len(candles)-w; i++ {
		ok := true
		for j := i - w; j <= i+w; j++ {
			if j == i {
				continue
			}
			if tops && candles[j].High >= candles[i].High {
				ok = false
				break
			}
			if !tops && candles[j].Low <= candles[i].Low {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// divStrength grades a divergence by the oscillator gap between the
// two extrema (tuned for 0-100 scale oscillators)
func divStrength(a, b float64) int {
	gap := a - b
	if gap < 0 {
		gap = -gap
	}
	switch {
	case gap >= 15:
		return 3
	case gap >= 7:
		return 2
	default:
		return 1
	}
}
