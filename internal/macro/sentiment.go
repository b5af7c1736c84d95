// Package macro provides market-context inputs: the cached sentiment
// index, the volatility/trend regime classifier, the correlation guard
// and volatility-scaled position sizing.
package macro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"quant-engine/internal/cache"
	"quant-engine/internal/market"
)

// SentimentIndex is the fear & greed reading mapped to a signal.
// Contrarian mapping: extreme fear is a buy, extreme greed a sell.
type SentimentIndex struct {
	Value  int           `json:"value"` // 0-100
	Label  string        `json:"label"`
	Signal market.Signal `json:"signal"`
}

// fearGreedResponse mirrors the alternative.me payload
type fearGreedResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
	} `json:"data"`
}

const sentimentCacheKey = "fear_greed"

// SentimentProvider fetches the sentiment index and caches it to bound
// call frequency. On failure it degrades to the stale cached value, or
// a neutral reading if nothing was ever fetched.
type SentimentProvider struct {
	url        string
	httpClient *http.Client
	cache      *cache.TTLCache[string, SentimentIndex]
	logger     zerolog.Logger
}

// NewSentimentProvider creates a provider with the given TTL
func NewSentimentProvider(url string, ttl time.Duration, logger zerolog.Logger) *SentimentProvider {
	return &SentimentProvider{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.NewTTL[string, SentimentIndex](ttl),
		logger:     logger.With().Str("component", "sentiment").Logger(),
	}
}

// Get returns the current sentiment index, cached or freshly fetched.
// Never returns an error to the caller; failures degrade to neutral.
func (p *SentimentProvider) Get(ctx context.Context) SentimentIndex {
	if cached, ok := p.cache.Get(sentimentCacheKey); ok {
		return cached
	}

	idx, err := p.fetch(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("sentiment fetch failed, using fallback")
		if stale, ok := p.cache.Stale(sentimentCacheKey); ok {
			return stale
		}
		return SentimentIndex{Value: 50, Label: "Neutral", Signal: market.Hold}
	}

	p.cache.Set(sentimentCacheKey, idx)
	return idx
}

func (p *SentimentProvider) fetch(ctx context.Context) (SentimentIndex, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return SentimentIndex{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return SentimentIndex{}, fmt.Errorf("fetch sentiment index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SentimentIndex{}, fmt.Errorf("sentiment index returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SentimentIndex{}, fmt.Errorf("read response: %w", err)
	}

	var fg fearGreedResponse
	if err := json.Unmarshal(body, &fg); err != nil {
		return SentimentIndex{}, fmt.Errorf("parse response: %w", err)
	}
	if len(fg.Data) == 0 {
		return SentimentIndex{}, fmt.Errorf("empty sentiment response")
	}

	value, err := strconv.Atoi(fg.Data[0].Value)
	if err != nil {
		return SentimentIndex{}, fmt.Errorf("parse index value %q: %w", fg.Data[0].Value, err)
	}

	return SentimentIndex{
		Value:  value,
		Label:  fg.Data[0].ValueClassification,
		Signal: ClassifySentiment(value),
	}, nil
}

// ClassifySentiment maps the 0-100 index to a contrarian signal:
// fear side (<40) buys, greed side (>60) sells, midband holds.
func ClassifySentiment(value int) market.Signal {
	switch {
	case value <= 20:
		return market.Buy // extreme fear
	case value < 40:
		return market.Buy
	case value >= 80:
		return market.Sell // extreme greed
	case value > 60:
		return market.Sell
	default:
		return market.Hold
	}
}
