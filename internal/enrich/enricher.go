package enrich

import (
	"strings"

	"github.com/clawdia/dashboard-backend/internal/models"
	"github.com/rs/zerolog/log"
)

// BotStatusProvider reports whether the bot process behind a strategy is
// alive. Implementations must default to false for unknown strategies.
type BotStatusProvider interface {
	IsRunning(strategyID string) bool
}

// Sources are the immutable input snapshots for one enrichment pass. Any of
// them may be nil or empty; the pass degrades per section, never aborts.
type Sources struct {
	Config     *models.StrategyConfig
	Trades     []models.Trade
	LiveStates LiveStateLookup
	GridStates GridStateLookup
	Wallet     *models.WalletSnapshot
	BotStatus  BotStatusProvider
}

// Enrich runs one full pass: per pair it resolves the current position and
// FIFO-matches the pair's ledger slice, then derives the allocation view per
// strategy. The same inputs always yield the same document.
func Enrich(src Sources) *models.Report {
	cfg := src.Config
	if cfg == nil {
		cfg = models.EmptyStrategyConfig()
	}
	if cfg.Strategies == nil {
		cfg.Strategies = map[string]*models.Strategy{}
	}

	for id, strat := range cfg.Strategies {
		strat.ID = id

		for pairID, pair := range strat.Pairs {
			pair.PairID = pairID
			pair.Position = ResolvePosition(pair, src.LiveStates, src.GridStates)

			pairTrades := FilterPairTrades(src.Trades, id, pair.Symbol)
			buys, sells := SplitDirections(pairTrades)
			stats := MatchRoundTrips(buys, sells)
			stats.TotalTrades = len(pairTrades)
			pair.LiveStats = stats
		}

		strat.BotRunning = src.BotStatus != nil && src.BotStatus.IsRunning(id)

		log.Debug().
			Str("strategy", id).
			Int("pairs", len(strat.Pairs)).
			Bool("running", strat.BotRunning).
			Msg("strategy enriched")
	}

	return &models.Report{
		Strategies:  cfg.Strategies,
		Allocation:  CalculateAllocation(cfg.Strategies, cfg.Allocation, src.Wallet),
		Conclusions: cfg.Conclusions,
	}
}

// FilterPairTrades selects the ledger slice attributed to one (strategy, pair):
// the strategy id matches exactly (case-insensitive) and the pair's asset
// symbol appears in either token field (case-insensitive substring).
func FilterPairTrades(trades []models.Trade, strategyID, symbol string) []models.Trade {
	symbolUC := strings.ToUpper(symbol)
	var out []models.Trade
	for _, t := range trades {
		if !strings.EqualFold(t.Strategy, strategyID) {
			continue
		}
		if !strings.Contains(strings.ToUpper(t.InputToken), symbolUC) &&
			!strings.Contains(strings.ToUpper(t.OutputToken), symbolUC) {
			continue
		}
		out = append(out, t)
	}
	return out
}
