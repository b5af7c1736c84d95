package confluence

import (
	"testing"

	"quant-engine/internal/macro"
	"quant-engine/internal/market"
)

func strongTrendRegime() macro.Regime {
	return macro.ClassifyRegimeFrom(35, 2, 4)
}

func TestCalculateSuperConfluenceUnanimousBuy(t *testing.T) {
	signals := map[string]market.Signal{
		"adx":        market.Buy,
		"ichimoku":   market.Buy,
		"stochastic": market.Buy,
		"obv":        market.Buy,
	}

	result := CalculateSuperConfluence(signals, strongTrendRegime())
	if result.Score != 1.0 {
		t.Errorf("unanimous BUY should score 1.0, got %v", result.Score)
	}
	if result.Signal != market.StrongBuy {
		t.Errorf("score at or above 0.6 should be STRONG_BUY, got %s", result.Signal)
	}
	if result.Confidence != 100 {
		t.Errorf("unanimous BUY at full risk should max out confidence, got %v", result.Confidence)
	}
}

func TestCalculateSuperConfluenceConfidenceClamp(t *testing.T) {
	signals := map[string]market.Signal{
		"adx":      market.StrongBuy,
		"ichimoku": market.StrongBuy,
	}

	result := CalculateSuperConfluence(signals, strongTrendRegime())
	if result.Score != 1.5 {
		t.Errorf("unanimous STRONG_BUY should score 1.5, got %v", result.Score)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence must clamp at 100, got %v", result.Confidence)
	}
}

func TestCalculateSuperConfluenceConfidenceRange(t *testing.T) {
	bags := []map[string]market.Signal{
		{"adx": market.Buy, "cci": market.Sell},
		{"adx": market.StrongSell, "ichimoku": market.StrongSell, "obv": market.Sell},
		{"news": market.Hold},
		{},
	}
	regimes := []macro.Regime{
		macro.ClassifyRegimeFrom(35, 2, 4),
		macro.ClassifyRegimeFrom(22, 2, 1),
		macro.ClassifyRegimeFrom(45, 10, 8),
	}

	for _, bag := range bags {
		for _, regime := range regimes {
			result := CalculateSuperConfluence(bag, regime)
			if result.Confidence < 0 || result.Confidence > 100 {
				t.Errorf("confidence must stay in 0..100, got %v for %v", result.Confidence, bag)
			}
		}
	}
}

func TestCalculateSuperConfluenceNonTradeableForcesHold(t *testing.T) {
	signals := map[string]market.Signal{
		"adx":      market.StrongBuy,
		"ichimoku": market.StrongBuy,
		"obv":      market.StrongBuy,
	}
	chaos := macro.ClassifyRegimeFrom(45, 10, 8)

	result := CalculateSuperConfluence(signals, chaos)
	if result.Signal != market.Hold {
		t.Errorf("a non-tradeable regime must force HOLD, got %s", result.Signal)
	}
	if result.Confidence != 0 {
		t.Errorf("zero risk multiplier should zero confidence, got %v", result.Confidence)
	}
}

func TestCalculateSuperConfluenceBands(t *testing.T) {
	regime := strongTrendRegime()

	// One BUY against three HOLDs lands in the plain BUY band
	mild := CalculateSuperConfluence(map[string]market.Signal{
		"adx":        market.Buy,
		"stochastic": market.Hold,
		"obv":        market.Hold,
		"mfi":        market.Hold,
	}, regime)
	if mild.Signal != market.Buy {
		t.Errorf("score %v should land in the BUY band, got %s", mild.Score, mild.Signal)
	}

	bear := CalculateSuperConfluence(map[string]market.Signal{
		"adx":        market.Sell,
		"stochastic": market.Hold,
		"obv":        market.Hold,
		"mfi":        market.Hold,
	}, regime)
	if bear.Signal != market.Sell {
		t.Errorf("score %v should land in the SELL band, got %s", bear.Score, bear.Signal)
	}

	flat := CalculateSuperConfluence(map[string]market.Signal{
		"adx": market.Hold,
		"obv": market.Hold,
	}, regime)
	if flat.Signal != market.Hold {
		t.Errorf("all-HOLD bag should stay HOLD, got %s", flat.Signal)
	}
}

func TestCalculateSuperConfluenceDetails(t *testing.T) {
	signals := map[string]market.Signal{
		"adx": market.Buy,
		"obv": market.Sell,
	}
	result := CalculateSuperConfluence(signals, strongTrendRegime())

	if len(result.Details) != 2 {
		t.Fatalf("details should carry one entry per source, got %v", result.Details)
	}
	if result.Details["adx"] != 1.5 {
		t.Errorf("adx BUY contribution should be weight 1.5 x 1.0, got %v", result.Details["adx"])
	}
	if result.Details["obv"] != -1.0 {
		t.Errorf("obv SELL contribution should be weight 1.0 x -1.0, got %v", result.Details["obv"])
	}
}
