package strategy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"quant-engine/internal/market"
)

func flatCandles(n int, price float64) []market.Candle {
	candles := make([]market.Candle, n)
	for i := range candles {
		candles[i] = market.Candle{
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return candles
}

func newOfflineAnalyzer() *Analyzer {
	// nil providers: sentiment and news sources are simply absent
	return NewAnalyzer(nil, nil, 60, 10, 0.02, 0.04, zerolog.Nop())
}

func TestAnalyzeFlatMarketHolds(t *testing.T) {
	a := newOfflineAnalyzer()
	decision := a.Analyze(context.Background(), "BTCUSDT", flatCandles(100, 100), 0, false)

	if decision.Symbol != "BTCUSDT" {
		t.Errorf("decision should carry the symbol, got %q", decision.Symbol)
	}
	if decision.Price != 100 {
		t.Errorf("decision price should be the last close, got %v", decision.Price)
	}
	if decision.Action != market.Hold {
		t.Errorf("a featureless flat market should HOLD, got %s", decision.Action)
	}
	if decision.Approved {
		t.Error("a HOLD decision must never be approved for execution")
	}
}

func TestAnalyzeEmptyCandles(t *testing.T) {
	a := newOfflineAnalyzer()
	decision := a.Analyze(context.Background(), "BTCUSDT", nil, 0, false)

	if decision.Action != market.Hold || decision.Approved {
		t.Errorf("no market data should produce an unapproved HOLD, got %+v", decision)
	}
	if decision.Price != 0 {
		t.Errorf("no market data should leave price at 0, got %v", decision.Price)
	}
}

func TestAnalyzeConfidenceWithinRange(t *testing.T) {
	a := newOfflineAnalyzer()

	series := [][]market.Candle{
		flatCandles(100, 100),
		flatCandles(60, 50000),
		nil,
	}
	for _, candles := range series {
		decision := a.Analyze(context.Background(), "ETHUSDT", candles, 0, false)
		if decision.Confluence.Confidence < 0 || decision.Confluence.Confidence > 100 {
			t.Errorf("confidence must stay in 0..100, got %v", decision.Confluence.Confidence)
		}
	}
}
