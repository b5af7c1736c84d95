package market

import "time"

// Signal represents a directional trade signal
type Signal string

const (
	StrongBuy  Signal = "STRONG_BUY"
	Buy        Signal = "BUY"
	Hold       Signal = "HOLD"
	Sell       Signal = "SELL"
	StrongSell Signal = "STRONG_SELL"
)

// Weight maps a signal onto the confluence scale
func (s Signal) Weight() float64 {
	switch s {
	case StrongBuy:
		return 1.5
	case Buy:
		return 1.0
	case Sell:
		return -1.0
	case StrongSell:
		return -1.5
	default:
		return 0
	}
}

// Candle represents one OHLCV bar. Sequences are ordered oldest-first.
type Candle struct {
	OpenTime int64   `json:"openTime"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}

// Time returns the candle open time as a time.Time
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.OpenTime)
}

// IsBullish reports whether the candle closed above its open
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// Body returns the absolute body size
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the full high-low range
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// UpperShadow returns the wick above the body
func (c Candle) UpperShadow() float64 {
	if c.Close > c.Open {
		return c.High - c.Close
	}
	return c.High - c.Open
}

// LowerShadow returns the wick below the body
func (c Candle) LowerShadow() float64 {
	if c.Close > c.Open {
		return c.Open - c.Low
	}
	return c.Close - c.Low
}

// IndicatorResult is the output of a single indicator calculation.
// It is never mutated after creation.
type IndicatorResult struct {
	Value  float64            `json:"value"`
	Values map[string]float64 `json:"values,omitempty"`
	Signal Signal             `json:"signal"`
}

// Highs extracts the high series from candles
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low series from candles
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// Closes extracts the close series from candles
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Volumes extracts the volume series from candles
func Volumes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}
