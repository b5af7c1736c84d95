package exchange

import (
	"context"
	"testing"
)

func TestPaperClientBalance(t *testing.T) {
	client := NewPaperClient(5000)
	balance, err := client.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("fetch balance: %v", err)
	}
	if balance != 5000 {
		t.Errorf("expected starting balance 5000, got %v", balance)
	}
}

func TestPaperClientOrdersMoveBalance(t *testing.T) {
	client := NewPaperClient(10000)
	ctx := context.Background()

	order, err := client.CreateMarketOrder(ctx, "BTCUSDT", "BUY", 0.01)
	if err != nil {
		t.Fatalf("buy order: %v", err)
	}
	if order.Price <= 0 {
		t.Errorf("paper fill should carry a positive price, got %v", order.Price)
	}

	balance, _ := client.FetchBalance(ctx)
	if balance >= 10000 {
		t.Errorf("buy should reduce the balance, got %v", balance)
	}

	if _, err := client.CreateMarketOrder(ctx, "BTCUSDT", "SELL", 0.01); err != nil {
		t.Fatalf("sell order: %v", err)
	}
	after, _ := client.FetchBalance(ctx)
	if after <= balance {
		t.Errorf("sell should credit the balance, got %v after %v", after, balance)
	}
}

func TestPaperClientRejectsBadOrders(t *testing.T) {
	client := NewPaperClient(100)
	ctx := context.Background()

	if _, err := client.CreateMarketOrder(ctx, "BTCUSDT", "BUY", 0); err == nil {
		t.Error("zero quantity should be rejected")
	}
	if _, err := client.CreateMarketOrder(ctx, "BTCUSDT", "BUY", 1); err == nil {
		t.Error("order beyond the paper balance should be rejected")
	}
	if _, err := client.CreateMarketOrder(ctx, "BTCUSDT", "HODL", 0.001); err == nil {
		t.Error("unknown side should be rejected")
	}
}

func TestPaperClientKlines(t *testing.T) {
	client := NewPaperClient(10000)
	candles, err := client.GetKlines(context.Background(), "ETHUSDT", "15m", 50)
	if err != nil {
		t.Fatalf("get klines: %v", err)
	}
	if len(candles) != 50 {
		t.Fatalf("expected 50 candles, got %d", len(candles))
	}

	for i, c := range candles {
		if c.High < c.Low || c.Close <= 0 {
			t.Errorf("candle %d has inconsistent prices: %+v", i, c)
		}
		if i > 0 && c.OpenTime <= candles[i-1].OpenTime {
			t.Errorf("candles must be ordered oldest first, index %d", i)
		}
	}
}
