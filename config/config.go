package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ExchangeConfig ExchangeConfig `json:"exchange"`
	TradingConfig  TradingConfig  `json:"trading"`
	RiskConfig     RiskConfig     `json:"risk"`
	MacroConfig    MacroConfig    `json:"macro"`
	NewsConfig     NewsConfig     `json:"news"`
	LoggingConfig  LoggingConfig  `json:"logging"`
}

// ExchangeConfig holds exchange adapter configuration
type ExchangeConfig struct {
	APIKey       string  `json:"api_key"`
	SecretKey    string  `json:"secret_key"`
	BaseURL      string  `json:"base_url"`
	StreamURL    string  `json:"stream_url"`
	PaperMode    bool    `json:"paper_mode"`    // Simulated execution, no real orders
	PaperBalance float64 `json:"paper_balance"` // Starting balance in paper mode
}

// TradingConfig holds trade selection parameters
type TradingConfig struct {
	Symbols       []string `json:"symbols"`
	Interval      string   `json:"interval"`       // e.g. "15m", "1h"
	CandleLimit   int      `json:"candle_limit"`   // Trailing window size per fetch
	PollInterval  int      `json:"poll_interval"`  // Seconds between analysis cycles
	MinConfluence float64  `json:"min_confluence"` // Minimum confluence confidence to trade
}

// RiskConfig holds position sizing and loss-limit configuration
type RiskConfig struct {
	MaxRiskPerTrade    float64    `json:"max_risk_per_trade"`  // Fraction of balance risked per trade
	MaxPositionUSD     float64    `json:"max_position_usd"`    // Cap on position notional
	MinNotionalUSD     float64    `json:"min_notional_usd"`    // Exchange minimum order value
	MaxOpenPositions   int        `json:"max_open_positions"`
	MaxDailyTrades     int        `json:"max_daily_trades"`
	MaxDailyLossPct    float64    `json:"max_daily_loss_pct"`  // Fraction of balance, daily kill switch
	MaxWeeklyLossPct   float64    `json:"max_weekly_loss_pct"` // Fraction of balance, weekly kill
	StopLossPct        float64    `json:"stop_loss_pct"`       // Default stop distance
	TakeProfitPct      float64    `json:"take_profit_pct"`     // Default target distance
	CooldownMinutes    int        `json:"cooldown_minutes"`    // Post-loss cooldown
	TrailingActivation float64    `json:"trailing_activation"` // Profit fraction that arms the trailing stop
	TrailingDistance   float64    `json:"trailing_distance"`   // Trailing stop distance fraction
	CorrelatedGroups   [][]string `json:"correlated_groups"`
}

// MacroConfig holds macro context provider configuration
type MacroConfig struct {
	FearGreedURL string `json:"fear_greed_url"`
	CacheTTL     int    `json:"cache_ttl"` // Seconds; sentiment index cache lifetime
}

// NewsConfig holds news sentiment configuration
type NewsConfig struct {
	FeedURL  string `json:"feed_url"`
	CacheTTL int    `json:"cache_ttl"` // Seconds; per-asset headline cache lifetime
}

type LoggingConfig struct {
	Level   string `json:"level"`   // debug, info, warn, error
	Console bool   `json:"console"` // Human-readable output instead of JSON
}

// LoadConfig reads configuration from a JSON file and applies
// environment variable overrides
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.ExchangeConfig.APIKey = getEnv("EXCHANGE_API_KEY", cfg.ExchangeConfig.APIKey)
	cfg.ExchangeConfig.SecretKey = getEnv("EXCHANGE_SECRET_KEY", cfg.ExchangeConfig.SecretKey)
	cfg.ExchangeConfig.BaseURL = getEnv("EXCHANGE_BASE_URL", cfg.ExchangeConfig.BaseURL)
	cfg.ExchangeConfig.PaperMode = getEnvBool("PAPER_MODE", cfg.ExchangeConfig.PaperMode)
	cfg.LoggingConfig.Level = getEnv("LOG_LEVEL", cfg.LoggingConfig.Level)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the engine defaults
func DefaultConfig() *Config {
	return &Config{
		ExchangeConfig: ExchangeConfig{
			BaseURL:      "https://api.binance.com",
			StreamURL:    "wss://stream.binance.com:9443/ws",
			PaperMode:    true,
			PaperBalance: 10000,
		},
		TradingConfig: TradingConfig{
			Symbols:       []string{"BTCUSDT", "ETHUSDT"},
			Interval:      "15m",
			CandleLimit:   100,
			PollInterval:  60,
			MinConfluence: 60,
		},
		RiskConfig: RiskConfig{
			MaxRiskPerTrade:    0.01,
			MaxPositionUSD:     1000,
			MinNotionalUSD:     10,
			MaxOpenPositions:   3,
			MaxDailyTrades:     10,
			MaxDailyLossPct:    0.03,
			MaxWeeklyLossPct:   0.08,
			StopLossPct:        0.02,
			TakeProfitPct:      0.04,
			CooldownMinutes:    5,
			TrailingActivation: 0.015,
			TrailingDistance:   0.01,
			CorrelatedGroups: [][]string{
				{"BTCUSDT", "ETHUSDT", "SOLUSDT"},
				{"BNBUSDT", "ADAUSDT", "XRPUSDT"},
			},
		},
		MacroConfig: MacroConfig{
			FearGreedURL: "https://api.alternative.me/fng/?limit=1",
			CacheTTL:     1800,
		},
		NewsConfig: NewsConfig{
			CacheTTL: 900,
		},
		LoggingConfig: LoggingConfig{
			Level:   "info",
			Console: false,
		},
	}
}

// Validate checks config invariants that would otherwise surface as
// silent bad trades
func (c *Config) Validate() error {
	r := c.RiskConfig
	if r.MaxRiskPerTrade <= 0 || r.MaxRiskPerTrade > 0.1 {
		return fmt.Errorf("max_risk_per_trade must be in (0, 0.1], got %v", r.MaxRiskPerTrade)
	}
	if r.MaxOpenPositions <= 0 {
		return fmt.Errorf("max_open_positions must be positive, got %d", r.MaxOpenPositions)
	}
	if r.StopLossPct <= 0 || r.TakeProfitPct <= 0 {
		return fmt.Errorf("stop_loss_pct and take_profit_pct must be positive")
	}
	if r.TakeProfitPct < 2*r.StopLossPct {
		return fmt.Errorf("take_profit_pct must be at least 2x stop_loss_pct for 2:1 reward:risk")
	}
	if !c.ExchangeConfig.PaperMode && (c.ExchangeConfig.APIKey == "" || c.ExchangeConfig.SecretKey == "") {
		return fmt.Errorf("live mode requires exchange credentials")
	}
	return nil
}

// Cooldown returns the post-loss cooldown as a duration
func (r RiskConfig) Cooldown() time.Duration {
	return time.Duration(r.CooldownMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
