package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"quant-engine/internal/cache"
	"quant-engine/internal/market"
)

// AssetSentiment is the cached aggregate for one asset
type AssetSentiment struct {
	Asset     string        `json:"asset"`
	Score     HeadlineScore `json:"score"`
	Headlines int           `json:"headlines"`
	Signal    market.Signal `json:"signal"`
}

// Fetcher pulls headlines from a public feed and caches the aggregate
// per asset. Fetch failures degrade to a neutral reading, never an
// error to the caller.
type Fetcher struct {
	feedURL    string
	httpClient *http.Client
	cache      *cache.TTLCache[string, AssetSentiment]
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher with the given per-asset TTL
func NewFetcher(feedURL string, ttl time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.NewTTL[string, AssetSentiment](ttl),
		logger:     logger.With().Str("component", "news").Logger(),
	}
}

// Get returns the aggregate sentiment for an asset, cached or fetched
func (f *Fetcher) Get(ctx context.Context, asset string) AssetSentiment {
	if cached, ok := f.cache.Get(asset); ok {
		return cached
	}

	headlines, err := f.fetchHeadlines(ctx, asset)
	if err != nil {
		f.logger.Warn().Err(err).Str("asset", asset).Msg("news fetch failed, using neutral")
		if stale, ok := f.cache.Stale(asset); ok {
			return stale
		}
		return AssetSentiment{Asset: asset, Signal: market.Hold, Score: HeadlineScore{Label: LabelNeutral}}
	}

	agg := AggregateScore(headlines, 15)
	sentiment := AssetSentiment{
		Asset:     asset,
		Score:     agg,
		Headlines: len(headlines),
		Signal:    signalFor(agg),
	}
	f.cache.Set(asset, sentiment)
	return sentiment
}

// Classify scores an explicit headline set without touching the cache
func Classify(asset string, headlines []string) AssetSentiment {
	agg := AggregateScore(headlines, 15)
	return AssetSentiment{
		Asset:     asset,
		Score:     agg,
		Headlines: len(headlines),
		Signal:    signalFor(agg),
	}
}

func signalFor(s HeadlineScore) market.Signal {
	switch s.Label {
	case LabelBullish:
		return market.Buy
	case LabelBearish:
		return market.Sell
	default:
		return market.Hold
	}
}

func (f *Fetcher) fetchHeadlines(ctx context.Context, asset string) ([]string, error) {
	if f.feedURL == "" {
		return nil, fmt.Errorf("no news feed configured")
	}

	url := fmt.Sprintf("%s?currencies=%s", f.feedURL, asset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var payload struct {
		Results []struct {
			Title string `json:"title"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	headlines := make([]string, 0, len(payload.Results))
	for _, r := range payload.Results {
		headlines = append(headlines, r.Title)
	}
	return headlines, nil
}
