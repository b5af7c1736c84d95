// Package rules evaluates a trade candidate against the trading
// discipline checklist. Rules are declarative descriptors evaluated
// uniformly; the verdict depends only on failure priorities.
package rules

import (
	"fmt"

	"quant-engine/internal/indicators"
	"quant-engine/internal/market"
)

// Priority grades how binding a rule is
type Priority string

const (
	Critical Priority = "CRITICAL"
	High     Priority = "HIGH"
	Medium   Priority = "MEDIUM"
)

// Params carries everything the rule set inspects
type Params struct {
	Action          market.Signal // BUY or SELL intent
	ADX             indicators.ADXResult
	RSI             float64
	ATRPercent      float64
	Confidence      float64 // Confluence confidence, 0-100
	MinConfluence   float64
	SentimentValue  int // Fear & greed index, 0-100
	VolumeConfirmed bool
	CalendarPause   bool
	DailyTrades     int
	MaxDailyTrades  int
	InCooldown      bool
	StopLossPct     float64
	TakeProfitPct   float64
}

// Evaluation is the outcome of one rule check
type Evaluation struct {
	Rule     string   `json:"rule"`
	Passed   bool     `json:"passed"`
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason"`
}

// Verdict is the ordered rule list plus the aggregate decision
type Verdict struct {
	Evaluations []Evaluation `json:"evaluations"`
	Approved    bool         `json:"approved"`
}

// rule is one descriptor in the declarative rule table
type rule struct {
	name     string
	priority Priority
	check    func(p Params) (bool, string)
}

var ruleTable = []rule{
	{"trend_alignment", Critical, checkTrendAlignment},
	{"reward_risk_ratio", High, checkRewardRisk},
	{"daily_trade_cap", Critical, checkDailyTradeCap},
	{"volatility_ceiling", Critical, checkVolatilityCeiling},
	{"calendar_pause", Critical, checkCalendarPause},
	{"min_confluence", Critical, checkMinConfluence},
	{"rsi_extreme_guard", High, checkRSIExtreme},
	{"volume_confirmation", Medium, checkVolumeConfirmation},
	{"no_revenge_cooldown", High, checkCooldown},
	{"contrarian_sentiment_guard", Critical, checkContrarianSentiment},
}

// EvaluateTradingRules runs the full rule table in order. Approved iff
// zero CRITICAL failures and at most one HIGH failure; MEDIUM failures
// never block.
func EvaluateTradingRules(p Params) Verdict {
	evaluations := make([]Evaluation, 0, len(ruleTable))
	criticalFails := 0
	highFails := 0

	for _, r := range ruleTable {
		passed, reason := r.check(p)
		evaluations = append(evaluations, Evaluation{
			Rule:     r.name,
			Passed:   passed,
			Priority: r.priority,
			Reason:   reason,
		})
		if !passed {
			switch r.priority {
			case Critical:
				criticalFails++
			case High:
				highFails++
			}
		}
	}

	return Verdict{
		Evaluations: evaluations,
		Approved:    criticalFails == 0 && highFails <= 1,
	}
}

// checkTrendAlignment rejects trades against an established trend
func checkTrendAlignment(p Params) (bool, string) {
	if p.ADX.ADX <= 25 {
		return true, "no established trend to align with"
	}
	if p.Action == market.Buy && p.ADX.Signal == market.Sell {
		return false, fmt.Sprintf("BUY against downtrend (ADX %.1f)", p.ADX.ADX)
	}
	if p.Action == market.Sell && p.ADX.Signal == market.Buy {
		return false, fmt.Sprintf("SELL against uptrend (ADX %.1f)", p.ADX.ADX)
	}
	return true, "aligned with trend"
}

// checkRewardRisk requires at least 2:1 take-profit to stop-loss
func checkRewardRisk(p Params) (bool, string) {
	if p.StopLossPct <= 0 {
		return false, "stop loss not set"
	}
	ratio := p.TakeProfitPct / p.StopLossPct
	if ratio < 2 {
		return false, fmt.Sprintf("reward:risk %.2f below 2:1", ratio)
	}
	return true, fmt.Sprintf("reward:risk %.2f", ratio)
}

func checkDailyTradeCap(p Params) (bool, string) {
	if p.DailyTrades >= p.MaxDailyTrades {
		return false, fmt.Sprintf("daily trade cap reached (%d/%d)", p.DailyTrades, p.MaxDailyTrades)
	}
	return true, fmt.Sprintf("trades today %d/%d", p.DailyTrades, p.MaxDailyTrades)
}

func checkVolatilityCeiling(p Params) (bool, string) {
	if p.ATRPercent > 8 {
		return false, fmt.Sprintf("volatility %.1f%% above 8%% ceiling", p.ATRPercent)
	}
	return true, fmt.Sprintf("volatility %.1f%%", p.ATRPercent)
}

func checkCalendarPause(p Params) (bool, string) {
	if p.CalendarPause {
		return false, "economic calendar pause active"
	}
	return true, "no calendar pause"
}

func checkMinConfluence(p Params) (bool, string) {
	min := p.MinConfluence
	if min <= 0 {
		min = 60
	}
	if p.Confidence < min {
		return false, fmt.Sprintf("confluence %.0f below minimum %.0f", p.Confidence, min)
	}
	return true, fmt.Sprintf("confluence %.0f", p.Confidence)
}

// checkRSIExtreme blocks chasing an already-exhausted move
func checkRSIExtreme(p Params) (bool, string) {
	if p.Action == market.Buy && p.RSI > 75 {
		return false, fmt.Sprintf("BUY with RSI %.0f overbought", p.RSI)
	}
	if p.Action == market.Sell && p.RSI < 25 {
		return false, fmt.Sprintf("SELL with RSI %.0f oversold", p.RSI)
	}
	return true, fmt.Sprintf("RSI %.0f", p.RSI)
}

func checkVolumeConfirmation(p Params) (bool, string) {
	if !p.VolumeConfirmed {
		return false, "no volume confirmation"
	}
	return true, "volume confirms"
}

func checkCooldown(p Params) (bool, string) {
	if p.InCooldown {
		return false, "post-loss cooldown active"
	}
	return true, "no cooldown"
}

// checkContrarianSentiment blocks buying euphoria and selling panic
func checkContrarianSentiment(p Params) (bool, string) {
	if p.Action == market.Buy && p.SentimentValue >= 80 {
		return false, fmt.Sprintf("BUY into extreme greed (index %d)", p.SentimentValue)
	}
	if p.Action == market.Sell && p.SentimentValue <= 20 {
		return false, fmt.Sprintf("SELL into extreme fear (index %d)", p.SentimentValue)
	}
	return true, fmt.Sprintf("sentiment index %d", p.SentimentValue)
}
