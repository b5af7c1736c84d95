package analysis

import (
	"quant-engine/internal/market"
)

// PivotMethod selects the pivot-point formula
type PivotMethod string

const (
	Classic   PivotMethod = "classic"
	Woodie    PivotMethod = "woodie"
	Camarilla PivotMethod = "camarilla"
)

// PivotLevels holds the computed support/resistance ladder
type PivotLevels struct {
	PP     float64       `json:"pp"`
	R1     float64       `json:"r1"`
	R2     float64       `json:"r2"`
	R3     float64       `json:"r3"`
	S1     float64       `json:"s1"`
	S2     float64       `json:"s2"`
	S3     float64       `json:"s3"`
	Signal market.Signal `json:"signal"`
}

// CalculatePivotPoints derives the level ladder from the prior period's
// candle and signals from the current price's position in it: above R1
// is a confirmed breakout (STRONG_BUY), above PP a bullish bias, the
// mirror below.
func CalculatePivotPoints(prev market.Candle, currentPrice float64, method PivotMethod) PivotLevels {
	h, l, c, o := prev.High, prev.Low, prev.Close, prev.Open
	rng := h - l

	var levels PivotLevels
	switch method {
	case Woodie:
		// Woodie weights the open twice in place of the close
		pp := (h + l + 2*o) / 4
		levels = PivotLevels{
			PP: pp,
			R1: 2*pp - l,
			R2: pp + rng,
			R3: h + 2*(pp-l),
			S1: 2*pp - h,
			S2: pp - rng,
			S3: l - 2*(h-pp),
		}
	case Camarilla:
		pp := (h + l + c) / 3
		levels = PivotLevels{
			PP: pp,
			R1: c + rng*1.1/12,
			R2: c + rng*1.1/6,
			R3: c + rng*1.1/4,
			S1: c - rng*1.1/12,
			S2: c - rng*1.1/6,
			S3: c - rng*1.1/4,
		}
	default:
		pp := (h + l + c) / 3
		levels = PivotLevels{
			PP: pp,
			R1: 2*pp - l,
			R2: pp + rng,
			R3: h + 2*(pp-l),
			S1: 2*pp - h,
			S2: pp - rng,
			S3: l - 2*(h-pp),
		}
	}

	switch {
	case currentPrice > levels.R1:
		levels.Signal = market.StrongBuy
	case currentPrice > levels.PP:
		levels.Signal = market.Buy
	case currentPrice < levels.S1:
		levels.Signal = market.StrongSell
	case currentPrice < levels.PP:
		levels.Signal = market.Sell
	default:
		levels.Signal = market.Hold
	}

	return levels
}
