// Package strategy assembles every upstream signal source into the
// confluence bag and runs the trade decision pipeline for one symbol.
package strategy

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"quant-engine/internal/analysis"
	"quant-engine/internal/calendar"
	"quant-engine/internal/confluence"
	"quant-engine/internal/indicators"
	"quant-engine/internal/macro"
	"quant-engine/internal/market"
	"quant-engine/internal/news"
	"quant-engine/internal/patterns"
	"quant-engine/internal/rules"
)

// Decision is the full analysis outcome for one symbol
type Decision struct {
	Symbol     string            `json:"symbol"`
	Price      float64           `json:"price"`
	Action     market.Signal     `json:"action"`
	Confluence confluence.Result `json:"confluence"`
	Verdict    rules.Verdict     `json:"verdict"`
	ATRPercent float64           `json:"atr_percent"`
	Approved   bool              `json:"approved"`
}

// Analyzer wires the pure computation layer to the async context
// providers
type Analyzer struct {
	sentiment     *macro.SentimentProvider
	newsFetcher   *news.Fetcher
	detector      *patterns.Detector
	minConfluence float64
	maxDaily      int
	stopLossPct   float64
	takeProfitPct float64
	logger        zerolog.Logger
}

// NewAnalyzer creates the decision pipeline
func NewAnalyzer(sentiment *macro.SentimentProvider, newsFetcher *news.Fetcher,
	minConfluence float64, maxDailyTrades int, stopLossPct, takeProfitPct float64, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		sentiment:     sentiment,
		newsFetcher:   newsFetcher,
		detector:      patterns.NewDetector(),
		minConfluence: minConfluence,
		maxDaily:      maxDailyTrades,
		stopLossPct:   stopLossPct,
		takeProfitPct: takeProfitPct,
		logger:        logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze runs the full pipeline: indicators, patterns, divergence,
// macro context, confluence and the rules engine. dailyTrades and
// inCooldown come from the execution engine's ledger.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, candles []market.Candle, dailyTrades int, inCooldown bool) Decision {
	price := 0.0
	if len(candles) > 0 {
		price = candles[len(candles)-1].Close
	}

	bag := a.buildSignalBag(ctx, symbol, candles, price)
	regime := macro.ClassifyRegime(candles)
	result := confluence.CalculateSuperConfluence(bag, regime)

	decision := Decision{
		Symbol:     symbol,
		Price:      price,
		Confluence: result,
		ATRPercent: regime.ATRPercent,
	}

	action := directionOf(result.Signal)
	decision.Action = action
	if action == market.Hold {
		return decision
	}

	sentimentValue := 50
	if a.sentiment != nil {
		sentimentValue = a.sentiment.Get(ctx).Value
	}

	verdict := rules.EvaluateTradingRules(rules.Params{
		Action:          action,
		ADX:             indicators.CalculateADX(candles, 14),
		RSI:             indicators.CalculateRSI(candles, 14),
		ATRPercent:      regime.ATRPercent,
		Confidence:      result.Confidence,
		MinConfluence:   a.minConfluence,
		SentimentValue:  sentimentValue,
		VolumeConfirmed: indicators.IsVolumeSpike(candles, 20, 1.2),
		CalendarPause:   calendar.Assess(time.Now()).ShouldPause,
		DailyTrades:     dailyTrades,
		MaxDailyTrades:  a.maxDaily,
		InCooldown:      inCooldown,
		StopLossPct:     a.stopLossPct,
		TakeProfitPct:   a.takeProfitPct,
	})

	decision.Verdict = verdict
	decision.Approved = verdict.Approved
	return decision
}

// buildSignalBag collects every source that produced a signal. Sources
// without enough data report HOLD and still count toward the weighting;
// only unavailable async sources are omitted entirely.
func (a *Analyzer) buildSignalBag(ctx context.Context, symbol string, candles []market.Candle, price float64) map[string]market.Signal {
	bag := map[string]market.Signal{
		"adx":        indicators.CalculateADX(candles, 14).Signal,
		"stochastic": indicators.CalculateStochastic(candles, 14, 3).Signal,
		"williams":   indicators.CalculateWilliamsR(candles, 14).Signal,
		"cci":        indicators.CalculateCCI(candles, 20).Signal,
		"obv":        indicators.CalculateOBV(candles, 20).Signal,
		"mfi":        indicators.CalculateMFI(candles, 14).Signal,
		"roc":        indicators.CalculateROC(candles, 10).Signal,
		"sar":        indicators.CalculateParabolicSAR(candles, 0.02, 0.2).Signal,
		"ichimoku":   indicators.CalculateIchimoku(candles).Signal,
		"keltner":    analysis.CalculateKeltner(candles, 20, 10, 2).Signal,
		"aroon":      analysis.CalculateAroon(candles, 25).Signal,
	}

	if len(candles) >= 2 {
		bag["pivot"] = analysis.CalculatePivotPoints(candles[len(candles)-2], price, analysis.Classic).Signal
	}

	bag["pattern"] = patternConsensus(
		append(a.detector.DetectCandlestick(candles), a.detector.DetectChart(candles)...))

	if divs := analysis.DetectDivergence(candles, rsiSeries(candles, 14), 40); len(divs) > 0 {
		bag["divergence"] = divs[len(divs)-1].Signal
	}

	if a.sentiment != nil {
		bag["sentiment"] = a.sentiment.Get(ctx).Signal
	}
	if a.newsFetcher != nil {
		bag["news"] = a.newsFetcher.Get(ctx, symbol).Signal
	}

	return bag
}

// patternConsensus nets bullish strength against bearish strength
func patternConsensus(found []patterns.Pattern) market.Signal {
	net := 0
	for _, p := range found {
		switch p.Type {
		case patterns.Bullish:
			net += p.Strength
		case patterns.Bearish:
			net -= p.Strength
		}
	}
	switch {
	case net >= 4:
		return market.StrongBuy
	case net > 0:
		return market.Buy
	case net <= -4:
		return market.StrongSell
	case net < 0:
		return market.Sell
	default:
		return market.Hold
	}
}

// rsiSeries computes index-aligned rolling RSI values for divergence
// comparison
func rsiSeries(candles []market.Candle, period int) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = indicators.CalculateRSI(candles[:i+1], period)
	}
	return out
}

// directionOf collapses graded signals onto a trade direction
func directionOf(s market.Signal) market.Signal {
	switch s {
	case market.StrongBuy, market.Buy:
		return market.Buy
	case market.StrongSell, market.Sell:
		return market.Sell
	default:
		return market.Hold
	}
}
