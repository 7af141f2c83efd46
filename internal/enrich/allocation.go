package enrich

import "github.com/clawdia/dashboard-backend/internal/models"

// CalculateAllocation derives the capital-allocation view across strategies.
//
// Per strategy: position_value prices every held position with the wallet
// snapshot (unpriced assets contribute 0), dry_powder is the unspent budget
// floored at 0, and effective_value = position_value + dry_powder + realized
// P&L. The effective_value sum deliberately over-counts when a position
// outgrows its budget; see models.StrategyCapital.
//
// Strategies with a configured budget but no live definition still appear in
// the summary so total_allocated reflects the whole budget.
func CalculateAllocation(
	strategies map[string]*models.Strategy,
	alloc map[string]models.StrategyAllocation,
	wallet *models.WalletSnapshot,
) *models.AllocationSummary {
	summary := &models.AllocationSummary{
		Strategies: make(map[string]*models.StrategyCapital, len(strategies)),
	}

	var totalAllocated, totalInPositions, totalDryPowder float64

	for id, strat := range strategies {
		cfg := alloc[id]

		var positionValue float64
		var realizedTotal float64
		for _, pair := range strat.Pairs {
			if pair.Position != nil && pair.Position.InPosition {
				token := pair.Position.HeldToken(pair.Symbol)
				positionValue += pair.Position.HeldAmount() * wallet.PriceFor(token)
			}
			if pair.LiveStats != nil && pair.LiveStats.RealizedPnL != nil {
				realizedTotal += *pair.LiveStats.RealizedPnL
			}
		}

		dryPowder := cfg.AllocatedUSD - positionValue
		if dryPowder < 0 {
			dryPowder = 0
		}

		summary.Strategies[id] = &models.StrategyCapital{
			AllocatedUSD:   Round2(cfg.AllocatedUSD),
			PositionValue:  Round2(positionValue),
			DryPowder:      Round2(dryPowder),
			RealizedPnL:    Round2(realizedTotal),
			EffectiveValue: Round2(positionValue + dryPowder + realizedTotal),
			Note:           cfg.Note,
		}

		totalAllocated += cfg.AllocatedUSD
		totalInPositions += positionValue
		totalDryPowder += dryPowder
	}

	// Budgeted strategies the config hierarchy no longer defines.
	for id, cfg := range alloc {
		if _, ok := summary.Strategies[id]; ok {
			continue
		}
		dryPowder := cfg.AllocatedUSD
		if dryPowder < 0 {
			dryPowder = 0
		}
		summary.Strategies[id] = &models.StrategyCapital{
			AllocatedUSD:   Round2(cfg.AllocatedUSD),
			DryPowder:      Round2(dryPowder),
			EffectiveValue: Round2(dryPowder),
			Note:           cfg.Note,
		}
		totalAllocated += cfg.AllocatedUSD
		totalDryPowder += dryPowder
	}

	cashUnallocated := 0.0
	if wallet != nil {
		summary.TotalPortfolio = Round2(wallet.TotalUSD)
		cashUnallocated = wallet.USDCBalance - totalDryPowder
		if cashUnallocated < 0 {
			cashUnallocated = 0
		}
	}

	summary.TotalAllocated = Round2(totalAllocated)
	summary.TotalInPositions = Round2(totalInPositions)
	summary.CashUnallocated = Round2(cashUnallocated)
	return summary
}
