package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"quant-engine/config"
	"quant-engine/internal/exchange"
	"quant-engine/internal/execution"
	"quant-engine/internal/logging"
	"quant-engine/internal/macro"
	"quant-engine/internal/market"
	"quant-engine/internal/news"
	"quant-engine/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	// Missing .env is fine, env vars may come from the environment
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config load failed")
	}

	logger := logging.New(cfg.LoggingConfig)
	logger.Info().
		Bool("paper_mode", cfg.ExchangeConfig.PaperMode).
		Strs("symbols", cfg.TradingConfig.Symbols).
		Str("interval", cfg.TradingConfig.Interval).
		Msg("quant engine starting")

	var client exchange.Client
	if cfg.ExchangeConfig.PaperMode {
		client = exchange.NewPaperClient(cfg.ExchangeConfig.PaperBalance)
	} else {
		client = exchange.NewBinanceClient(cfg.ExchangeConfig.APIKey, cfg.ExchangeConfig.SecretKey, cfg.ExchangeConfig.BaseURL)
	}

	sentiment := macro.NewSentimentProvider(cfg.MacroConfig.FearGreedURL,
		time.Duration(cfg.MacroConfig.CacheTTL)*time.Second, logger)
	newsFetcher := news.NewFetcher(cfg.NewsConfig.FeedURL,
		time.Duration(cfg.NewsConfig.CacheTTL)*time.Second, logger)
	guard := macro.NewCorrelationGuard(cfg.RiskConfig.CorrelatedGroups)

	engine := execution.NewEngine(cfg.RiskConfig, client, guard, cfg.ExchangeConfig.PaperMode, logger)
	analyzer := strategy.NewAnalyzer(sentiment, newsFetcher,
		cfg.TradingConfig.MinConfluence, cfg.RiskConfig.MaxDailyTrades,
		cfg.RiskConfig.StopLossPct, cfg.RiskConfig.TakeProfitPct, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &runner{
		cfg:      cfg,
		client:   client,
		engine:   engine,
		analyzer: analyzer,
		logger:   logging.Component(logger, "loop"),
	}
	runner.run(ctx)

	logger.Info().Msg("quant engine stopped")
}

// runner drives the analysis cycle. The poll ticker covers every symbol;
// in live mode a kline stream per symbol additionally triggers analysis
// the moment a candle closes instead of waiting for the next tick.
type runner struct {
	cfg      *config.Config
	client   exchange.Client
	engine   *execution.Engine
	analyzer *strategy.Analyzer
	logger   zerolog.Logger
}

func (r *runner) run(ctx context.Context) {
	var wg sync.WaitGroup

	if !r.cfg.ExchangeConfig.PaperMode && r.cfg.ExchangeConfig.StreamURL != "" {
		for _, symbol := range r.cfg.TradingConfig.Symbols {
			stream := exchange.NewKlineStream(r.cfg.ExchangeConfig.StreamURL, symbol, r.cfg.TradingConfig.Interval, r.logger)
			wg.Add(2)
			go func() {
				defer wg.Done()
				stream.Run(ctx)
			}()
			go func(symbol string) {
				defer wg.Done()
				for range stream.Candles() {
					r.analyzeSymbol(ctx, symbol)
				}
			}(symbol)
		}
	}

	interval := time.Duration(r.cfg.TradingConfig.PollInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r.cycle(ctx)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			wg.Wait()
			return
		}
	}
}

// cycle runs one full pass: every symbol, then risk monitoring
func (r *runner) cycle(ctx context.Context) {
	currentPrices := make(map[string]float64, len(r.cfg.TradingConfig.Symbols))

	for _, symbol := range r.cfg.TradingConfig.Symbols {
		if price, ok := r.analyzeSymbol(ctx, symbol); ok {
			currentPrices[symbol] = price
		}
	}

	r.monitorRisk(ctx, currentPrices)
}

// analyzeSymbol fetches the candle window, runs the decision pipeline
// and executes an approved entry. Returns the latest price.
func (r *runner) analyzeSymbol(ctx context.Context, symbol string) (float64, bool) {
	candles, err := r.client.GetKlines(ctx, symbol, r.cfg.TradingConfig.Interval, r.cfg.TradingConfig.CandleLimit)
	if err != nil {
		r.logger.Error().Err(err).Str("symbol", symbol).Msg("kline fetch failed, skipping symbol")
		return 0, false
	}
	if len(candles) == 0 {
		return 0, false
	}
	price := candles[len(candles)-1].Close

	decision := r.analyzer.Analyze(ctx, symbol, candles, len(r.engine.TodayTrades()), r.engine.InCooldown())

	r.logger.Info().
		Str("symbol", symbol).
		Str("action", string(decision.Action)).
		Float64("confidence", decision.Confluence.Confidence).
		Str("regime", string(decision.Confluence.Regime.Type)).
		Bool("approved", decision.Approved).
		Msg("analysis cycle")

	if decision.Approved && decision.Action != market.Hold {
		result := r.engine.ExecuteTrade(ctx, decision.Action, symbol, decision.Price, decision.ATRPercent)
		if !result.Executed {
			r.logger.Info().Str("symbol", symbol).Str("reason", result.Reason).Msg("entry rejected")
		}
	}
	return price, true
}

// monitorRisk sweeps stops and targets, then flattens everything if a
// loss limit has been breached intraday
func (r *runner) monitorRisk(ctx context.Context, currentPrices map[string]float64) {
	for _, closed := range r.engine.CheckStopsAndTargets(ctx, currentPrices) {
		if closed.Closed {
			r.logger.Info().
				Str("symbol", closed.Trade.Symbol).
				Str("reason", closed.Trade.CloseReason).
				Float64("pnl", closed.Trade.PnL).
				Msg("position closed by monitor")
		}
	}

	dailyPnL, weeklyPnL := r.engine.Ledger()
	balance, err := r.client.FetchBalance(ctx)
	if err != nil || balance <= 0 {
		return
	}
	if dailyPnL <= -balance*r.cfg.RiskConfig.MaxDailyLossPct || weeklyPnL <= -balance*r.cfg.RiskConfig.MaxWeeklyLossPct {
		r.logger.Warn().
			Float64("daily_pnl", dailyPnL).
			Float64("weekly_pnl", weeklyPnL).
			Msg("loss limit breached, flattening all positions")
		r.engine.KillSwitch(ctx, currentPrices)
	}
}
