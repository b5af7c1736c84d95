// Package patterns detects candlestick and chart-shape patterns over a
// trailing candle window. All detection is pure and synchronous.
package patterns

// Direction classifies a pattern's bias
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// Pattern is one detected formation. Strength grades reliability 1-3.
type Pattern struct {
	Name     string    `json:"name"`
	Type     Direction `json:"type"`
	Strength int       `json:"strength"`
}
