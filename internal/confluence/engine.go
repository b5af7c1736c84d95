// Package confluence aggregates every upstream signal into one graded
// decision.
package confluence

import (
	"quant-engine/internal/macro"
	"quant-engine/internal/market"
)

// Result is the graded consensus decision
type Result struct {
	Signal     market.Signal      `json:"signal"`
	Confidence float64            `json:"confidence"` // 0-100
	Score      float64            `json:"score"`      // -1.5..1.5
	Regime     macro.Regime       `json:"regime"`
	Details    map[string]float64 `json:"details"` // Per-source weighted contribution
}

// sourceWeights fixes the per-source weights. Trend and pattern heavy
// sources carry the most; ambient context (sentiment, news) the least.
var sourceWeights = map[string]float64{
	"adx":        1.5,
	"ichimoku":   1.5,
	"pattern":    1.4,
	"divergence": 1.3,
	"sar":        1.2,
	"stochastic": 1.0,
	"obv":        1.0,
	"mfi":        1.0,
	"pivot":      1.0,
	"roc":        0.9,
	"keltner":    0.9,
	"aroon":      0.9,
	"williams":   0.8,
	"cci":        0.8,
	"sentiment":  0.7,
	"news":       0.6,
}

const defaultWeight = 1.0

// CalculateSuperConfluence normalizes each source signal onto the
// -1.5..+1.5 scale, weights it, and divides by the total weight of
// sources that actually reported. Sources absent from the bag are
// excluded, not zero-filled. A non-tradeable regime forces HOLD and
// zeroes confidence regardless of score.
func CalculateSuperConfluence(signals map[string]market.Signal, regime macro.Regime) Result {
	details := make(map[string]float64, len(signals))

	weightedSum := 0.0
	totalWeight := 0.0
	for source, signal := range signals {
		weight, ok := sourceWeights[source]
		if !ok {
			weight = defaultWeight
		}
		contribution := signal.Weight() * weight
		details[source] = contribution
		weightedSum += contribution
		totalWeight += weight
	}

	score := 0.0
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	signal := signalForScore(score)
	confidence := score * 100 * regime.RiskMultiplier
	if confidence < 0 {
		confidence = -confidence
	}
	if confidence > 100 {
		confidence = 100
	}

	if !regime.Tradeable {
		signal = market.Hold
	}

	return Result{
		Signal:     signal,
		Confidence: confidence,
		Score:      score,
		Regime:     regime,
		Details:    details,
	}
}

func signalForScore(score float64) market.Signal {
	switch {
	case score >= 0.6:
		return market.StrongBuy
	case score >= 0.25:
		return market.Buy
	case score <= -0.6:
		return market.StrongSell
	case score <= -0.25:
		return market.Sell
	default:
		return market.Hold
	}
}
