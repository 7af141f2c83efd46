package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/clawdia/dashboard-backend/internal/httputil"
)

const (
	// SPL mint addresses the bot wallet holds.
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	wbtcMint = "3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh"
	bnbMint  = "9gP2kCy3wA1ctvYWQk75guqXuHfrEomqydHLtcTCqiLa"

	tokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	lamportsPerSOL = 1e9
)

// WalletBalances are the on-chain balances for the bot wallet.
type WalletBalances struct {
	SOL  float64 `json:"sol"`
	USDC float64 `json:"usdc"`
	WBTC float64 `json:"wbtc"`
	BNB  float64 `json:"bnb"`
}

// SolanaClient talks plain JSON-RPC to a Solana node.
type SolanaClient struct {
	rpcURL     string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		rpcURL:     rpcURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// FetchBalances returns the wallet's SOL balance plus its USDC/WBTC/BNB SPL
// token balances.
func (c *SolanaClient) FetchBalances(ctx context.Context, wallet string) (*WalletBalances, error) {
	balances := &WalletBalances{}

	var solResult struct {
		Value int64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{wallet}, &solResult); err != nil {
		return nil, fmt.Errorf("getBalance: %w", err)
	}
	balances.SOL = float64(solResult.Value) / lamportsPerSOL

	var tokenResult struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							Mint        string `json:"mint"`
							TokenAmount struct {
								UIAmount *float64 `json:"uiAmount"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}
	params := []any{
		wallet,
		map[string]string{"programId": tokenProgramID},
		map[string]string{"encoding": "jsonParsed"},
	}
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &tokenResult); err != nil {
		return nil, fmt.Errorf("getTokenAccountsByOwner: %w", err)
	}

	for _, acct := range tokenResult.Value {
		info := acct.Account.Data.Parsed.Info
		if info.TokenAmount.UIAmount == nil {
			continue
		}
		amount := *info.TokenAmount.UIAmount
		switch info.Mint {
		case usdcMint:
			balances.USDC = amount
		case wbtcMint:
			balances.WBTC = amount
		case bnbMint:
			balances.BNB = amount
		}
	}

	return balances, nil
}

func (c *SolanaClient) call(ctx context.Context, method string, params []any, result any) error {
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if envelope.Result == nil {
		return fmt.Errorf("rpc response has no result")
	}
	return json.Unmarshal(envelope.Result, result)
}
