package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/clawdia/dashboard-backend/internal/httputil"
	"github.com/rs/zerolog/log"
)

const coingeckoURL = "https://api.coingecko.com/api/v3/simple/price?ids=solana,bitcoin,binancecoin&vs_currencies=usd"

// PriceQuote holds the spot USD prices the wallet fallback needs.
type PriceQuote struct {
	SOL float64 `json:"sol"`
	BTC float64 `json:"btc"`
	BNB float64 `json:"bnb"`
}

type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig

	mu        sync.Mutex
	cached    *PriceQuote
	lastFetch time.Time
	cacheTTL  time.Duration
}

func NewCoinGeckoClient(cacheTTL time.Duration) *CoinGeckoClient {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CoinGeckoClient{
		baseURL:    coingeckoURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   cacheTTL,
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// FetchPrices returns SOL/BTC/BNB spot prices, served from cache while fresh.
func (c *CoinGeckoClient) FetchPrices(ctx context.Context) (*PriceQuote, error) {
	c.mu.Lock()
	if c.cached != nil && time.Since(c.lastFetch) < c.cacheTTL {
		cached := *c.cached
		c.mu.Unlock()
		log.Debug().Float64("sol", cached.SOL).Msg("using cached prices")
		return &cached, nil
	}
	c.mu.Unlock()

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	var data struct {
		Solana struct {
			USD float64 `json:"usd"`
		} `json:"solana"`
		Bitcoin struct {
			USD float64 `json:"usd"`
		} `json:"bitcoin"`
		Binancecoin struct {
			USD float64 `json:"usd"`
		} `json:"binancecoin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if data.Solana.USD <= 0 {
		return nil, fmt.Errorf("invalid SOL price: %f", data.Solana.USD)
	}

	quote := &PriceQuote{
		SOL: data.Solana.USD,
		BTC: data.Bitcoin.USD,
		BNB: data.Binancecoin.USD,
	}

	c.mu.Lock()
	c.cached = quote
	c.lastFetch = time.Now()
	c.mu.Unlock()

	out := *quote
	return &out, nil
}
