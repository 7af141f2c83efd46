package models

import "strings"

// WalletSnapshot holds current balances and USD prices for the bot wallet.
type WalletSnapshot struct {
	Timestamp     string  `json:"timestamp"`
	WalletAddress string  `json:"wallet_address,omitempty"`
	SOLBalance    float64 `json:"sol_balance"`
	USDCBalance   float64 `json:"usdc_balance"`
	WBTCBalance   float64 `json:"wbtc_balance"`
	BNBBalance    float64 `json:"bnb_balance"`
	SOLPriceUSD   float64 `json:"sol_price_usd"`
	BTCPriceUSD   float64 `json:"btc_price_usd"`
	BNBPriceUSD   float64 `json:"bnb_price_usd"`
	SOLValueUSD   float64 `json:"sol_value_usd"`
	WBTCValueUSD  float64 `json:"wbtc_value_usd"`
	BNBValueUSD   float64 `json:"bnb_value_usd"`
	TotalUSD      float64 `json:"total_usd"`
}

// PriceFor returns the snapshot's USD price for an asset symbol. USDC is worth
// its face value; assets the snapshot doesn't price return 0.
func (w *WalletSnapshot) PriceFor(token string) float64 {
	if w == nil {
		return 0
	}
	switch strings.ToUpper(token) {
	case "SOL":
		return w.SOLPriceUSD
	case "BTC", "WBTC":
		return w.BTCPriceUSD
	case "BNB":
		return w.BNBPriceUSD
	case QuoteToken:
		return 1
	}
	return 0
}
