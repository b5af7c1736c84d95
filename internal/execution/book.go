// Package execution owns the position/risk state machine: sizing,
// order submission, stop and target monitoring, and the loss-limit
// kill switches.
package execution

import (
	"time"

	"quant-engine/internal/market"
)

// Status is the position lifecycle state. The only legal transition is
// OPEN -> CLOSED.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Close reasons
const (
	ReasonStopLoss   = "STOP_LOSS"
	ReasonTakeProfit = "TAKE_PROFIT"
	ReasonKillSwitch = "KILL_SWITCH"
	ReasonManual     = "MANUAL"
)

// Position is one risk-managed trade. Created only by ExecuteTrade;
// mutated only by the close paths and the trailing-stop ratchet.
type Position struct {
	ID          string        `json:"id"`
	Symbol      string        `json:"symbol"`
	Action      market.Signal `json:"action"` // BUY or SELL
	EntryPrice  float64       `json:"entry_price"`
	Size        float64       `json:"size"`
	StopLoss    float64       `json:"stop_loss"`
	TakeProfit  float64       `json:"take_profit"`
	Cost        float64       `json:"cost"` // Entry notional
	Status      Status        `json:"status"`
	PnL         float64       `json:"pnl,omitempty"`
	CloseReason string        `json:"close_reason,omitempty"`
	OpenedAt    time.Time     `json:"opened_at"`
	ClosedAt    time.Time     `json:"closed_at,omitempty"`

	// Trailing stop state
	highWaterMark  float64
	lowWaterMark   float64
	trailingActive bool
}

// TradeRecord is one entry in the daily trade log
type TradeRecord struct {
	PositionID string        `json:"position_id"`
	Symbol     string        `json:"symbol"`
	Action     market.Signal `json:"action"`
	Notional   float64       `json:"notional"`
	OpenedAt   time.Time     `json:"opened_at"`
}

// RiskLedger tracks realized PnL and trade counts for the loss limits.
// Daily figures reset by date comparison; the weekly figure resets on
// the Monday boundary.
type RiskLedger struct {
	DailyPnL    float64
	WeeklyPnL   float64
	DailyTrades []TradeRecord
	LastLossAt  time.Time

	day       time.Time // Midnight of the day the daily figures belong to
	weekStart time.Time // Monday midnight of the current week
}

// NewRiskLedger creates a ledger anchored at now
func NewRiskLedger(now time.Time) *RiskLedger {
	l := &RiskLedger{}
	l.day = midnight(now)
	l.weekStart = mondayOf(now)
	return l
}

// Roll resets daily and weekly figures when their boundaries have
// passed. Called before every read or mutation.
func (l *RiskLedger) Roll(now time.Time) {
	if day := midnight(now); day.After(l.day) {
		l.DailyPnL = 0
		l.DailyTrades = nil
		l.day = day
	}
	if week := mondayOf(now); week.After(l.weekStart) {
		l.WeeklyPnL = 0
		l.weekStart = week
	}
}

// Realize applies a closed position's PnL to both ledgers and starts
// the cooldown clock on a loss
func (l *RiskLedger) Realize(pnl float64, now time.Time) {
	l.Roll(now)
	l.DailyPnL += pnl
	l.WeeklyPnL += pnl
	if pnl < 0 {
		l.LastLossAt = now
	}
}

// InCooldown reports whether now is inside the post-loss window
func (l *RiskLedger) InCooldown(now time.Time, cooldown time.Duration) bool {
	return !l.LastLossAt.IsZero() && now.Sub(l.LastLossAt) < cooldown
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mondayOf(t time.Time) time.Time {
	t = midnight(t)
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return t.AddDate(0, 0, -offset)
}
