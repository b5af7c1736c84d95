package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"quant-engine/internal/market"
)

// klineEvent mirrors the Binance kline stream payload
type klineEvent struct {
	Kline struct {
		StartTime int64  `json:"t"`
		Open      string `json:"o"`
		High      string `json:"h"`
		Low       string `json:"l"`
		Close     string `json:"c"`
		Volume    string `json:"v"`
		Closed    bool   `json:"x"`
	} `json:"k"`
}

// KlineStream subscribes to the live kline websocket and delivers
// closed candles on its channel. It reconnects with backoff until the
// context is cancelled.
type KlineStream struct {
	streamURL string
	symbol    string
	interval  string
	logger    zerolog.Logger
	candles   chan market.Candle
}

// NewKlineStream creates a stream for one symbol/interval pair
func NewKlineStream(streamURL, symbol, interval string, logger zerolog.Logger) *KlineStream {
	return &KlineStream{
		streamURL: streamURL,
		symbol:    symbol,
		interval:  interval,
		logger:    logger.With().Str("component", "kline_stream").Str("symbol", symbol).Logger(),
		candles:   make(chan market.Candle, 16),
	}
}

// Candles returns the closed-candle channel. It is closed when the
// stream shuts down.
func (s *KlineStream) Candles() <-chan market.Candle {
	return s.candles
}

// Run connects and pumps candles until ctx is cancelled
func (s *KlineStream) Run(ctx context.Context) {
	defer close(s.candles)

	backoff := time.Second
	for {
		if err := s.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn().Err(err).Dur("backoff", backoff).Msg("stream disconnected, reconnecting")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		return
	}
}

func (s *KlineStream) consume(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/%s@kline_%s", s.streamURL, strings.ToLower(s.symbol), s.interval)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer conn.Close()

	s.logger.Info().Str("endpoint", endpoint).Msg("kline stream connected")

	// Unblock ReadMessage on cancellation
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var ev klineEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Debug().Err(err).Msg("skipping unparseable stream message")
			continue
		}
		if !ev.Kline.Closed {
			continue
		}

		candle := market.Candle{
			OpenTime: ev.Kline.StartTime,
			Open:     parseStreamFloat(ev.Kline.Open),
			High:     parseStreamFloat(ev.Kline.High),
			Low:      parseStreamFloat(ev.Kline.Low),
			Close:    parseStreamFloat(ev.Kline.Close),
			Volume:   parseStreamFloat(ev.Kline.Volume),
		}

		select {
		case s.candles <- candle:
		case <-ctx.Done():
			return nil
		}
	}
}

func parseStreamFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
