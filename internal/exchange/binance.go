package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quant-engine/internal/market"
)

// BinanceClient is the live REST implementation of Client
type BinanceClient struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewBinanceClient creates a live client against the given base URL
func NewBinanceClient(apiKey, secretKey, baseURL string) *BinanceClient {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &BinanceClient{
		apiKey:     apiKey,
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *BinanceClient) sign(params string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(params))
	return hex.EncodeToString(mac.Sum(nil))
}

// GetKlines fetches trailing candles, oldest first
func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	endpoint := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		c.baseURL, symbol, interval, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build klines request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read klines response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("klines returned status %d: %s", resp.StatusCode, body)
	}

	var raw [][]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse klines: %w", err)
	}

	candles := make([]market.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			continue
		}
		openTime, ok := k[0].(float64)
		if !ok {
			continue
		}
		open := parseField(k[1])
		high := parseField(k[2])
		low := parseField(k[3])
		cls := parseField(k[4])
		volume := parseField(k[5])

		candles = append(candles, market.Candle{
			OpenTime: int64(openTime),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    cls,
			Volume:   volume,
		})
	}
	return candles, nil
}

// FetchBalance returns the free USDT balance from the account endpoint
func (c *BinanceClient) FetchBalance(ctx context.Context) (float64, error) {
	params := fmt.Sprintf("timestamp=%d", time.Now().UnixMilli())
	endpoint := fmt.Sprintf("%s/api/v3/account?%s&signature=%s", c.baseURL, params, c.sign(params))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build account request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch account: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read account response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("account returned status %d: %s", resp.StatusCode, body)
	}

	var account struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(body, &account); err != nil {
		return 0, fmt.Errorf("parse account: %w", err)
	}

	for _, b := range account.Balances {
		if b.Asset == "USDT" {
			free, err := strconv.ParseFloat(b.Free, 64)
			if err != nil {
				return 0, fmt.Errorf("parse balance %q: %w", b.Free, err)
			}
			return free, nil
		}
	}
	return 0, nil
}

// CreateMarketOrder submits a signed market order
func (c *BinanceClient) CreateMarketOrder(ctx context.Context, symbol, side string, quantity float64) (*Order, error) {
	values := url.Values{}
	values.Set("symbol", symbol)
	values.Set("side", side)
	values.Set("type", "MARKET")
	values.Set("quantity", strconv.FormatFloat(quantity, 'f', 8, 64))
	values.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	params := values.Encode()
	endpoint := fmt.Sprintf("%s/api/v3/order?%s&signature=%s", c.baseURL, params, c.sign(params))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order returned status %d: %s", resp.StatusCode, body)
	}

	var fill struct {
		OrderID int64  `json:"orderId"`
		Symbol  string `json:"symbol"`
		Fills   []struct {
			Price string `json:"price"`
			Qty   string `json:"qty"`
		} `json:"fills"`
	}
	if err := json.Unmarshal(body, &fill); err != nil {
		return nil, fmt.Errorf("parse order response: %w", err)
	}

	price := 0.0
	if len(fill.Fills) > 0 {
		price, _ = strconv.ParseFloat(fill.Fills[0].Price, 64)
	}

	return &Order{
		ID:         strconv.FormatInt(fill.OrderID, 10),
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		ExecutedAt: time.Now(),
	}, nil
}

// parseField handles Binance's string-encoded numeric kline fields
func parseField(v interface{}) float64 {
	switch t := v.(type) {
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case float64:
		return t
	default:
		return 0
	}
}
