// Package exchange provides the injected market-access capability: a
// narrow client interface with a paper (simulated) implementation and a
// live Binance implementation.
package exchange

import (
	"context"
	"time"

	"quant-engine/internal/market"
)

// Order is one executed market order
type Order struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"` // BUY or SELL
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Client is the capability the engine consumes. Implementations must be
// safe for concurrent use.
type Client interface {
	// FetchBalance returns the free quote-currency balance
	FetchBalance(ctx context.Context) (float64, error)
	// CreateMarketOrder submits a market order and returns the fill
	CreateMarketOrder(ctx context.Context, symbol, side string, quantity float64) (*Order, error)
	// GetKlines returns up to limit trailing candles, oldest first
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error)
}
