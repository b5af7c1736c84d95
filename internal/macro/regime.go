package macro

import (
	"math"

	"quant-engine/internal/indicators"
	"quant-engine/internal/market"
)

// RegimeType classifies current market behavior
type RegimeType string

const (
	StrongTrend   RegimeType = "STRONG_TREND"
	WeakTrend     RegimeType = "WEAK_TREND"
	Ranging       RegimeType = "RANGING"
	VolatileChaos RegimeType = "VOLATILE_CHAOS"
)

// Regime carries the classification plus its risk controls
type Regime struct {
	Type           RegimeType `json:"type"`
	ADX            float64    `json:"adx"`
	ATRPercent     float64    `json:"atr_percent"`
	ROC            float64    `json:"roc"`
	Tradeable      bool       `json:"tradeable"`
	RiskMultiplier float64    `json:"risk_multiplier"`
}

// ClassifyRegime combines ADX, ATR-as-%-of-price and rate of change
// into one regime. Chaos (ATR% above 8) is untradeable with zero risk;
// a strong trend runs full risk; everything else runs half.
func ClassifyRegime(candles []market.Candle) Regime {
	adx := indicators.CalculateADX(candles, 14).ADX
	atrPct := indicators.ATRPercent(candles, 14)
	roc := indicators.CalculateROC(candles, 10).Value

	return classify(adx, atrPct, roc)
}

// ClassifyRegimeFrom builds the regime from precomputed inputs
func ClassifyRegimeFrom(adx, atrPct, roc float64) Regime {
	return classify(adx, atrPct, roc)
}

func classify(adx, atrPct, roc float64) Regime {
	r := Regime{ADX: adx, ATRPercent: atrPct, ROC: roc}

	switch {
	case atrPct > 8:
		r.Type = VolatileChaos
		r.Tradeable = false
		r.RiskMultiplier = 0
	case adx >= 30 && math.Abs(roc) > 2:
		r.Type = StrongTrend
		r.Tradeable = true
		r.RiskMultiplier = 1
	case adx >= 20:
		r.Type = WeakTrend
		r.Tradeable = true
		r.RiskMultiplier = 0.5
	default:
		r.Type = Ranging
		r.Tradeable = true
		r.RiskMultiplier = 0.5
	}
	return r
}
