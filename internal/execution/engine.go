package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quant-engine/config"
	"quant-engine/internal/exchange"
	"quant-engine/internal/macro"
	"quant-engine/internal/market"
)

// ExecutionResult is the structured outcome of an entry attempt. Guard
// rejections are expected results, not errors.
type ExecutionResult struct {
	Executed bool      `json:"executed"`
	Trade    *Position `json:"trade,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// CloseResult is the structured outcome of a close attempt
type CloseResult struct {
	Closed bool      `json:"closed"`
	Trade  *Position `json:"trade,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// Engine owns all mutable trading state. All public methods serialize
// through one mutex, so concurrent callers are safe.
type Engine struct {
	cfg       config.RiskConfig
	client    exchange.Client
	guard     *macro.CorrelationGuard
	logger    zerolog.Logger
	paperMode bool

	mu          sync.Mutex
	open        []*Position
	ledger      *RiskLedger
	lastBalance float64
	now         func() time.Time
}

// NewEngine creates an execution engine bound to an exchange client
func NewEngine(cfg config.RiskConfig, client exchange.Client, guard *macro.CorrelationGuard, paperMode bool, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		client:    client,
		guard:     guard,
		paperMode: paperMode,
		logger:    logger.With().Str("component", "execution").Logger(),
		ledger:    NewRiskLedger(time.Now()),
		now:       time.Now,
	}
}

// ExecuteTrade is the only transition into OPEN. The guard chain runs
// in a fixed order; the first rejection wins and is returned as a
// structured result.
func (e *Engine) ExecuteTrade(ctx context.Context, action market.Signal, symbol string, price, volatilityPct float64) ExecutionResult {
	if action != market.Buy && action != market.Sell {
		return ExecutionResult{Reason: fmt.Sprintf("unsupported action %s", action)}
	}
	if price <= 0 {
		return ExecutionResult{Reason: "invalid price"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.ledger.Roll(now)

	if len(e.ledger.DailyTrades) >= e.cfg.MaxDailyTrades {
		return ExecutionResult{Reason: fmt.Sprintf("daily trade cap reached (%d)", e.cfg.MaxDailyTrades)}
	}
	if len(e.open) >= e.cfg.MaxOpenPositions {
		return ExecutionResult{Reason: fmt.Sprintf("max open positions reached (%d)", e.cfg.MaxOpenPositions)}
	}
	if e.ledger.InCooldown(now, e.cfg.Cooldown()) {
		return ExecutionResult{Reason: "post-loss cooldown active"}
	}
	if blocked, why := e.guard.CheckCorrelationBlock(e.openSymbolsLocked(), symbol); blocked {
		return ExecutionResult{Reason: why}
	}

	balance := e.fetchBalanceLocked(ctx)
	if balance <= 0 {
		return ExecutionResult{Reason: "balance unavailable"}
	}

	if e.ledger.WeeklyPnL <= -balance*e.cfg.MaxWeeklyLossPct {
		return ExecutionResult{Reason: "weekly loss limit reached"}
	}
	if e.ledger.DailyPnL <= -balance*e.cfg.MaxDailyLossPct {
		return ExecutionResult{Reason: "daily loss limit reached"}
	}

	notional := e.sizeNotional(balance, volatilityPct)
	if notional < e.cfg.MinNotionalUSD {
		return ExecutionResult{Reason: fmt.Sprintf("notional %.2f below minimum %.2f", notional, e.cfg.MinNotionalUSD)}
	}
	size := notional / price

	order, err := e.client.CreateMarketOrder(ctx, symbol, string(action), size)
	if err != nil {
		// Adapter failures surface as a rejection, never a panic up
		// the call stack
		e.logger.Error().Err(err).Str("symbol", symbol).Msg("order placement failed")
		return ExecutionResult{Reason: err.Error()}
	}

	entry := order.Price
	if entry <= 0 {
		entry = price
	}

	pos := &Position{
		ID:            uuid.NewString(),
		Symbol:        symbol,
		Action:        action,
		EntryPrice:    entry,
		Size:          size,
		Cost:          entry * size,
		Status:        StatusOpen,
		OpenedAt:      now,
		highWaterMark: entry,
		lowWaterMark:  entry,
	}
	if action == market.Buy {
		pos.StopLoss = entry * (1 - e.cfg.StopLossPct)
		pos.TakeProfit = entry * (1 + e.cfg.TakeProfitPct)
	} else {
		pos.StopLoss = entry * (1 + e.cfg.StopLossPct)
		pos.TakeProfit = entry * (1 - e.cfg.TakeProfitPct)
	}

	e.open = append(e.open, pos)
	e.ledger.DailyTrades = append(e.ledger.DailyTrades, TradeRecord{
		PositionID: pos.ID,
		Symbol:     symbol,
		Action:     action,
		Notional:   pos.Cost,
		OpenedAt:   now,
	})

	e.logger.Info().
		Str("id", pos.ID).
		Str("symbol", symbol).
		Str("action", string(action)).
		Float64("entry", entry).
		Float64("size", size).
		Float64("stop", pos.StopLoss).
		Float64("target", pos.TakeProfit).
		Bool("paper", e.paperMode).
		Msg("position opened")

	return ExecutionResult{Executed: true, Trade: pos}
}

// sizeNotional applies risk-based sizing, the configured notional cap,
// then the volatility multiplier
func (e *Engine) sizeNotional(balance, volatilityPct float64) float64 {
	riskAmount := balance * e.cfg.MaxRiskPerTrade
	notional := riskAmount / e.cfg.StopLossPct
	if notional > e.cfg.MaxPositionUSD {
		notional = e.cfg.MaxPositionUSD
	}
	return macro.VolatilityAdjustedSize(notional, volatilityPct)
}

// ClosePosition is a transition to CLOSED. It removes the position from
// the open list exactly once and realizes PnL into both ledgers.
func (e *Engine) ClosePosition(ctx context.Context, id string, currentPrice float64, reason string) CloseResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeLocked(ctx, id, currentPrice, reason)
}

func (e *Engine) closeLocked(ctx context.Context, id string, currentPrice float64, reason string) CloseResult {
	idx := -1
	for i, p := range e.open {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CloseResult{Reason: fmt.Sprintf("position %s not open", id)}
	}
	pos := e.open[idx]

	exitSide := market.Sell
	if pos.Action == market.Sell {
		exitSide = market.Buy
	}
	if _, err := e.client.CreateMarketOrder(ctx, pos.Symbol, string(exitSide), pos.Size); err != nil {
		// Exit order failures are logged but the book still closes:
		// leaving a phantom open position is worse than a manual
		// reconcile
		e.logger.Error().Err(err).Str("id", id).Msg("exit order failed")
	}

	now := e.now()
	if pos.Action == market.Buy {
		pos.PnL = (currentPrice - pos.EntryPrice) * pos.Size
	} else {
		pos.PnL = (pos.EntryPrice - currentPrice) * pos.Size
	}
	pos.Status = StatusClosed
	pos.CloseReason = reason
	pos.ClosedAt = now

	e.open = append(e.open[:idx], e.open[idx+1:]...)
	e.ledger.Realize(pos.PnL, now)

	e.logger.Info().
		Str("id", pos.ID).
		Str("symbol", pos.Symbol).
		Str("reason", reason).
		Float64("exit", currentPrice).
		Float64("pnl", pos.PnL).
		Float64("daily_pnl", e.ledger.DailyPnL).
		Msg("position closed")

	return CloseResult{Closed: true, Trade: pos}
}

// CheckStopsAndTargets ratchets trailing stops and closes any position
// whose stop or target is breached at the given prices
func (e *Engine) CheckStopsAndTargets(ctx context.Context, currentPrices map[string]float64) []CloseResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var results []CloseResult
	// Snapshot IDs first: closeLocked mutates the open slice
	type check struct {
		id     string
		price  float64
		reason string
	}
	var toClose []check

	for _, pos := range e.open {
		price, ok := currentPrices[pos.Symbol]
		if !ok || price <= 0 {
			continue
		}
		e.ratchetTrailingStop(pos, price)

		if pos.Action == market.Buy {
			if price <= pos.StopLoss {
				toClose = append(toClose, check{pos.ID, price, ReasonStopLoss})
			} else if price >= pos.TakeProfit {
				toClose = append(toClose, check{pos.ID, price, ReasonTakeProfit})
			}
		} else {
			if price >= pos.StopLoss {
				toClose = append(toClose, check{pos.ID, price, ReasonStopLoss})
			} else if price <= pos.TakeProfit {
				toClose = append(toClose, check{pos.ID, price, ReasonTakeProfit})
			}
		}
	}

	for _, c := range toClose {
		results = append(results, e.closeLocked(ctx, c.id, c.price, c.reason))
	}
	return results
}

// ratchetTrailingStop arms the trail once price moves in favor by the
// activation fraction, then drags the stop behind the favorable
// extreme. The stop only ever tightens.
func (e *Engine) ratchetTrailingStop(pos *Position, price float64) {
	if e.cfg.TrailingDistance <= 0 {
		return
	}

	if pos.Action == market.Buy {
		if price > pos.highWaterMark {
			pos.highWaterMark = price
		}
		if !pos.trailingActive && price >= pos.EntryPrice*(1+e.cfg.TrailingActivation) {
			pos.trailingActive = true
		}
		if pos.trailingActive {
			if stop := pos.highWaterMark * (1 - e.cfg.TrailingDistance); stop > pos.StopLoss {
				pos.StopLoss = stop
			}
		}
	} else {
		if price < pos.lowWaterMark {
			pos.lowWaterMark = price
		}
		if !pos.trailingActive && price <= pos.EntryPrice*(1-e.cfg.TrailingActivation) {
			pos.trailingActive = true
		}
		if pos.trailingActive {
			if stop := pos.lowWaterMark * (1 + e.cfg.TrailingDistance); stop < pos.StopLoss {
				pos.StopLoss = stop
			}
		}
	}
}

// KillSwitch closes every open position unconditionally
func (e *Engine) KillSwitch(ctx context.Context, currentPrices map[string]float64) []CloseResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Warn().Int("open_positions", len(e.open)).Msg("kill switch engaged")

	var results []CloseResult
	for len(e.open) > 0 {
		pos := e.open[0]
		price, ok := currentPrices[pos.Symbol]
		if !ok || price <= 0 {
			price = pos.EntryPrice
		}
		results = append(results, e.closeLocked(ctx, pos.ID, price, ReasonKillSwitch))
	}
	return results
}

// fetchBalanceLocked queries the exchange, falling back to the last
// known balance on failure
func (e *Engine) fetchBalanceLocked(ctx context.Context) float64 {
	balance, err := e.client.FetchBalance(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Float64("last_known", e.lastBalance).Msg("balance query failed, using last known")
		return e.lastBalance
	}
	e.lastBalance = balance
	return balance
}

func (e *Engine) openSymbolsLocked() []string {
	symbols := make([]string, len(e.open))
	for i, p := range e.open {
		symbols[i] = p.Symbol
	}
	return symbols
}

// OpenPositions returns a snapshot of open positions
func (e *Engine) OpenPositions() []Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Position, len(e.open))
	for i, p := range e.open {
		out[i] = *p
	}
	return out
}

// TodayTrades returns a snapshot of the day's trade log
func (e *Engine) TodayTrades() []TradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger.Roll(e.now())
	out := make([]TradeRecord, len(e.ledger.DailyTrades))
	copy(out, e.ledger.DailyTrades)
	return out
}

// Ledger returns current daily and weekly realized PnL
func (e *Engine) Ledger() (dailyPnL, weeklyPnL float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger.Roll(e.now())
	return e.ledger.DailyPnL, e.ledger.WeeklyPnL
}

// InCooldown reports whether the post-loss cooldown is active
func (e *Engine) InCooldown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.InCooldown(e.now(), e.cfg.Cooldown())
}

// PaperMode reports whether execution is simulated
func (e *Engine) PaperMode() bool {
	return e.paperMode
}

// SetClock overrides the engine's time source, for tests
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
	e.ledger.day = midnight(now())
	e.ledger.weekStart = mondayOf(now())
}
