package exchange

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"quant-engine/internal/market"
)

// PaperClient simulates an exchange against an in-memory balance.
// Market data is a random walk seeded from realistic base prices.
type PaperClient struct {
	mu      sync.RWMutex
	balance float64
	prices  map[string]float64
	rng     *rand.Rand
}

// NewPaperClient creates a paper client with the given starting balance
func NewPaperClient(startingBalance float64) *PaperClient {
	return &PaperClient{
		balance: startingBalance,
		prices: map[string]float64{
			"BTCUSDT": 104500.00,
			"ETHUSDT": 3900.00,
			"BNBUSDT": 710.00,
			"SOLUSDT": 220.00,
			"XRPUSDT": 2.35,
			"ADAUSDT": 1.05,
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchBalance returns the simulated quote balance
func (p *PaperClient) FetchBalance(ctx context.Context) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.balance, nil
}

// CreateMarketOrder fills instantly at the simulated price
func (p *PaperClient) CreateMarketOrder(ctx context.Context, symbol, side string, quantity float64) (*Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("invalid quantity %v", quantity)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	price := p.priceLocked(symbol)
	notional := price * quantity

	switch side {
	case "BUY":
		if notional > p.balance {
			return nil, fmt.Errorf("insufficient paper balance: need %.2f, have %.2f", notional, p.balance)
		}
		p.balance -= notional
	case "SELL":
		p.balance += notional
	default:
		return nil, fmt.Errorf("unknown side %q", side)
	}

	return &Order{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		ExecutedAt: time.Now(),
	}, nil
}

// GetKlines synthesizes a random-walk candle series ending at the
// current simulated price
func (p *PaperClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	if limit <= 0 {
		limit = 100
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	price := p.priceLocked(symbol)
	step := intervalDuration(interval)

	candles := make([]market.Candle, limit)
	// Walk backwards from the current price so the last close matches
	closes := make([]float64, limit)
	closes[limit-1] = price
	for i := limit - 2; i >= 0; i-- {
		drift := (p.rng.Float64() - 0.5) * 0.01
		closes[i] = closes[i+1] / (1 + drift)
	}

	now := time.Now().Truncate(step)
	for i := 0; i < limit; i++ {
		open := closes[i]
		if i > 0 {
			open = closes[i-1]
		}
		c := closes[i]
		high := maxf(open, c) * (1 + p.rng.Float64()*0.003)
		low := minf(open, c) * (1 - p.rng.Float64()*0.003)

		candles[i] = market.Candle{
			OpenTime: now.Add(-time.Duration(limit-i) * step).UnixMilli(),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    c,
			Volume:   1000 + p.rng.Float64()*5000,
		}
	}
	return candles, nil
}

// priceLocked nudges and returns the simulated price; callers hold mu
func (p *PaperClient) priceLocked(symbol string) float64 {
	price, ok := p.prices[symbol]
	if !ok {
		price = 100.0
	}
	price *= 1 + (p.rng.Float64()-0.5)*0.002
	p.prices[symbol] = price
	return price
}

func intervalDuration(interval string) time.Duration {
	switch interval {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "1h":
		return time.Hour
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
