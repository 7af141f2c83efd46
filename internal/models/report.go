package models

import (
	"encoding/json"
	"time"
)

// Report is the single output document of one enrichment pass.
type Report struct {
	Strategies  map[string]*Strategy `json:"strategies"`
	Allocation  *AllocationSummary   `json:"allocation"`
	Conclusions json.RawMessage      `json:"conclusions,omitempty"`
}

// AllocationSummary is the derived capital-allocation view across strategies.
type AllocationSummary struct {
	TotalPortfolio   float64                       `json:"total_portfolio"`
	TotalAllocated   float64                       `json:"total_allocated"`
	TotalInPositions float64                       `json:"total_in_positions"`
	CashUnallocated  float64                       `json:"cash_unallocated"`
	Strategies       map[string]*StrategyCapital   `json:"strategies"`
}

// StrategyCapital is the allocation view for one strategy.
//
// EffectiveValue is a display approximation: when PositionValue exceeds
// AllocatedUSD, DryPowder floors at 0 and the sum no longer reconciles to a
// ledger total. Intentional, not a defect.
type StrategyCapital struct {
	AllocatedUSD   float64 `json:"allocated_usd"`
	PositionValue  float64 `json:"position_value"`
	DryPowder      float64 `json:"dry_powder"`
	RealizedPnL    float64 `json:"realized_pnl"`
	EffectiveValue float64 `json:"effective_value"`
	Note           string  `json:"note,omitempty"`
}

// ReportRecord is one archived enrichment report row.
type ReportRecord struct {
	ID             int64           `json:"id"`
	CreatedAt      time.Time       `json:"createdAt"`
	Document       json.RawMessage `json:"document,omitempty"`
	StrategyCount  int             `json:"strategyCount"`
	TradeCount     int             `json:"tradeCount"`
	TotalPortfolio float64         `json:"totalPortfolio"`
}
