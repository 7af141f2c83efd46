package sources

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clawdia/dashboard-backend/internal/enrich"
	"github.com/clawdia/dashboard-backend/internal/external"
	"github.com/clawdia/dashboard-backend/internal/models"
)

// BalanceFetcher reads on-chain balances for a wallet.
type BalanceFetcher interface {
	FetchBalances(ctx context.Context, wallet string) (*external.WalletBalances, error)
}

// PriceFetcher returns current spot prices.
type PriceFetcher interface {
	FetchPrices(ctx context.Context) (*external.PriceQuote, error)
}

// WalletLoader builds a wallet snapshot, preferring the snapshot file the grid
// bot maintains and falling back to a live RPC read when the file is missing
// or stale-unreadable.
type WalletLoader struct {
	snapshotPath  string
	walletAddress string
	balances      BalanceFetcher
	prices        PriceFetcher
}

func NewWalletLoader(snapshotPath, walletAddress string, balances BalanceFetcher, prices PriceFetcher) *WalletLoader {
	return &WalletLoader{
		snapshotPath:  snapshotPath,
		walletAddress: walletAddress,
		balances:      balances,
		prices:        prices,
	}
}

// Load returns the current wallet snapshot, or nil when neither the snapshot
// file nor the chain is reachable. A nil snapshot degrades allocation math to
// zeros downstream rather than failing the refresh.
func (l *WalletLoader) Load(ctx context.Context) *models.WalletSnapshot {
	if snap := l.loadSnapshotFile(); snap != nil {
		return snap
	}
	return l.loadFromChain(ctx)
}

// walletFile is the raw layout of latest_snapshot.json as the grid bot writes
// it.
type walletFile struct {
	Timestamp     string             `json:"timestamp"`
	SOLBalance    float64            `json:"sol_balance"`
	USDCBalance   float64            `json:"usdc_balance"`
	TokenBalances map[string]float64 `json:"token_balances"`
	Prices        map[string]float64 `json:"prices"`
	TotalUSD      float64            `json:"total_usd"`
}

func (l *WalletLoader) loadSnapshotFile() *models.WalletSnapshot {
	data, err := os.ReadFile(l.snapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", l.snapshotPath).Msg("wallet snapshot unreadable")
		}
		return nil
	}

	var raw walletFile
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("file", l.snapshotPath).Msg("wallet snapshot malformed")
		return nil
	}

	snap := &models.WalletSnapshot{
		Timestamp:     raw.Timestamp,
		WalletAddress: l.walletAddress,
		SOLBalance:    raw.SOLBalance,
		USDCBalance:   raw.USDCBalance,
		WBTCBalance:   raw.TokenBalances["WBTC"],
		BNBBalance:    raw.TokenBalances["BNB"],
		SOLPriceUSD:   raw.Prices["SOL"],
		BTCPriceUSD:   raw.Prices["BTC"],
		BNBPriceUSD:   raw.Prices["BNB"],
		TotalUSD:      raw.TotalUSD,
	}
	snap.SOLValueUSD = enrich.Round2(snap.SOLBalance * snap.SOLPriceUSD)
	snap.WBTCValueUSD = enrich.Round2(snap.WBTCBalance * snap.BTCPriceUSD)
	snap.BNBValueUSD = enrich.Round2(snap.BNBBalance * snap.BNBPriceUSD)
	if snap.TotalUSD == 0 {
		snap.TotalUSD = enrich.Round2(snap.USDCBalance + snap.SOLValueUSD + snap.WBTCValueUSD + snap.BNBValueUSD)
	}
	return snap
}

func (l *WalletLoader) loadFromChain(ctx context.Context) *models.WalletSnapshot {
	if l.balances == nil || l.prices == nil || l.walletAddress == "" {
		return nil
	}

	balances, err := l.balances.FetchBalances(ctx, l.walletAddress)
	if err != nil {
		log.Warn().Err(err).Msg("wallet balance fetch failed, proceeding without wallet")
		return nil
	}
	quote, err := l.prices.FetchPrices(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("price fetch failed, proceeding without wallet")
		return nil
	}

	snap := &models.WalletSnapshot{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		WalletAddress: l.walletAddress,
		SOLBalance:    balances.SOL,
		USDCBalance:   balances.USDC,
		WBTCBalance:   balances.WBTC,
		BNBBalance:    balances.BNB,
		SOLPriceUSD:   quote.SOL,
		BTCPriceUSD:   quote.BTC,
		BNBPriceUSD:   quote.BNB,
	}
	snap.SOLValueUSD = enrich.Round2(snap.SOLBalance * snap.SOLPriceUSD)
	snap.WBTCValueUSD = enrich.Round2(snap.WBTCBalance * snap.BTCPriceUSD)
	snap.BNBValueUSD = enrich.Round2(snap.BNBBalance * snap.BNBPriceUSD)
	snap.TotalUSD = enrich.Round2(snap.USDCBalance + snap.SOLValueUSD + snap.WBTCValueUSD + snap.BNBValueUSD)

	log.Info().Float64("total_usd", snap.TotalUSD).Msg("wallet snapshot rebuilt from chain")
	return snap
}
