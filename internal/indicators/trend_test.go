package indicators

import (
	"testing"

	"quant-engine/internal/market"
)

func TestCalculateStochastic(t *testing.T) {
	short := CalculateStochastic(flatCandles(5, 100), 14, 3)
	if short.Values["k"] != 50 || short.Values["d"] != 50 || short.Signal != market.Hold {
		t.Errorf("stochastic with insufficient candles should be neutral {50, 50, HOLD}, got %+v", short)
	}

	up := CalculateStochastic(risingCandles(20), 14, 3)
	if up.Values["k"] < 80 {
		t.Errorf("close at the top of the range should put %%K above 80, got %v", up.Values["k"])
	}
	if up.Signal != market.Sell {
		t.Errorf("overbought stochastic should signal SELL, got %s", up.Signal)
	}
}

func TestCalculateWilliamsR(t *testing.T) {
	short := CalculateWilliamsR(flatCandles(5, 100), 14)
	if short.Value != -50 || short.Signal != market.Hold {
		t.Errorf("Williams %%R with insufficient candles should be {-50, HOLD}, got %+v", short)
	}

	up := CalculateWilliamsR(risingCandles(20), 14)
	if up.Signal != market.Sell {
		t.Errorf("close near the range high should signal SELL, got %s (value %v)", up.Signal, up.Value)
	}

	down := CalculateWilliamsR(fallingCandles(20), 14)
	if down.Signal != market.Buy {
		t.Errorf("close near the range low should signal BUY, got %s (value %v)", down.Signal, down.Value)
	}
}

func TestCalculateCCI(t *testing.T) {
	short := CalculateCCI(flatCandles(5, 100), 20)
	if short.Value != 0 || short.Signal != market.Hold {
		t.Errorf("CCI with insufficient candles should be {0, HOLD}, got %+v", short)
	}

	up := CalculateCCI(risingCandles(30), 20)
	if up.Value <= 100 || up.Signal != market.Sell {
		t.Errorf("steady uptrend should push CCI above +100 with SELL, got %+v", up)
	}
}

func TestCalculateADX(t *testing.T) {
	short := CalculateADX(flatCandles(10, 100), 14)
	if short.Signal != market.Hold {
		t.Errorf("ADX with insufficient candles should be HOLD, got %s", short.Signal)
	}

	up := CalculateADX(risingCandles(40), 14)
	if up.ADX <= 25 {
		t.Errorf("steady uptrend should produce ADX above 25, got %v", up.ADX)
	}
	if up.PlusDI <= up.MinusDI {
		t.Errorf("uptrend should have +DI above -DI, got +%v -%v", up.PlusDI, up.MinusDI)
	}
	if up.Signal != market.Buy {
		t.Errorf("established uptrend should signal BUY, got %s", up.Signal)
	}

	down := CalculateADX(fallingCandles(40), 14)
	if down.Signal != market.Sell {
		t.Errorf("established downtrend should signal SELL, got %s", down.Signal)
	}
}

func TestCalculateParabolicSAR(t *testing.T) {
	short := CalculateParabolicSAR(flatCandles(2, 100), 0.02, 0.2)
	if short.Signal != market.Hold {
		t.Errorf("SAR with under 3 candles should be HOLD, got %s", short.Signal)
	}

	candles := risingCandles(30)
	up := CalculateParabolicSAR(candles, 0.02, 0.2)
	if up.Signal != market.Buy {
		t.Errorf("SAR in an uptrend should signal BUY, got %s", up.Signal)
	}
	if up.Value >= candles[len(candles)-1].Close {
		t.Errorf("SAR in an uptrend should trail below price, got %v", up.Value)
	}

	down := CalculateParabolicSAR(fallingCandles(30), 0.02, 0.2)
	if down.Signal != market.Sell {
		t.Errorf("SAR in a downtrend should signal SELL, got %s", down.Signal)
	}
}

func TestCalculateIchimoku(t *testing.T) {
	short := CalculateIchimoku(flatCandles(30, 100))
	if short.Signal != market.Hold {
		t.Errorf("ichimoku with under 52 candles should be HOLD, got %s", short.Signal)
	}

	up := CalculateIchimoku(risingCandles(60))
	if up.Tenkan <= up.Kijun {
		t.Errorf("uptrend should put tenkan above kijun, got %v vs %v", up.Tenkan, up.Kijun)
	}
	if up.Signal != market.Buy {
		t.Errorf("price above cloud with tenkan over kijun should signal BUY, got %s", up.Signal)
	}

	down := CalculateIchimoku(fallingCandles(60))
	if down.Signal != market.Sell {
		t.Errorf("price below cloud should signal SELL, got %s", down.Signal)
	}
}
