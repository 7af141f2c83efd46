package models

import "encoding/json"

// StrategyConfig is the static strategies.json hierarchy: strategy -> pairs,
// plus the per-strategy allocation budgets and the free-form conclusions block.
type StrategyConfig struct {
	Strategies  map[string]*Strategy          `json:"strategies"`
	Allocation  map[string]StrategyAllocation `json:"portfolio_allocation"`
	Conclusions json.RawMessage               `json:"conclusions,omitempty"`
}

// EmptyStrategyConfig is the degraded default when strategies.json is missing.
func EmptyStrategyConfig() *StrategyConfig {
	return &StrategyConfig{
		Strategies: map[string]*Strategy{},
		Allocation: map[string]StrategyAllocation{},
	}
}

// StrategyAllocation is the configured capital budget for one strategy.
type StrategyAllocation struct {
	AllocatedUSD float64 `json:"allocated_usd"`
	Note         string  `json:"note,omitempty"`
}

type Strategy struct {
	ID         string           `json:"id"`
	Name       string           `json:"name,omitempty"`
	Pairs      map[string]*Pair `json:"pairs"`
	BotRunning bool             `json:"bot_running"`
}

// Pair is one traded pair within a strategy. Position is nil when no
// authoritative state source covered the pair — unknown, not flat.
type Pair struct {
	PairID    string     `json:"pair_id"`
	Symbol    string     `json:"symbol"`
	Position  *Position  `json:"position,omitempty"`
	LiveStats *LiveStats `json:"live_stats,omitempty"`
}

// Position is the resolved current position for a pair. Live-state positions
// carry the entry/stop fields; grid-synthesized positions carry the usdc_spent,
// token_amount and ref_price fields instead.
type Position struct {
	InPosition     bool     `json:"in_position"`
	EntryPrice     *float64 `json:"entry_price,omitempty"`
	EntryTime      string   `json:"entry_time,omitempty"`
	StopLossPrice  *float64 `json:"stop_loss_price,omitempty"`
	PositionAmount *float64 `json:"position_amount,omitempty"`
	PositionToken  string   `json:"position_token,omitempty"`
	USDCSpent      *float64 `json:"usdc_spent,omitempty"`
	TokenAmount    *float64 `json:"token_amount,omitempty"`
	RefPrice       *float64 `json:"ref_price,omitempty"`
}

// HeldAmount returns the token quantity currently held, whichever source
// reported it.
func (p *Position) HeldAmount() float64 {
	if p == nil || !p.InPosition {
		return 0
	}
	if p.PositionAmount != nil {
		return *p.PositionAmount
	}
	if p.TokenAmount != nil {
		return *p.TokenAmount
	}
	return 0
}

// HeldToken returns the held asset symbol, falling back to the pair's
// configured symbol for grid positions that don't record one.
func (p *Position) HeldToken(fallback string) string {
	if p != nil && p.PositionToken != "" {
		return p.PositionToken
	}
	return fallback
}

// LiveStats summarizes a pair's trade history. RealizedPnL is nil (emitted as
// JSON null) until at least one round-trip completes, so "no closed trades yet"
// stays distinguishable from "broke even".
type LiveStats struct {
	TotalTrades    int      `json:"total_trades"`
	Buys           int      `json:"buys"`
	Sells          int      `json:"sells"`
	CompletedTrips int      `json:"completed_trips"`
	TotalInvested  float64  `json:"total_invested"`
	TotalReturned  float64  `json:"total_returned"`
	RealizedPnL    *float64 `json:"realized_pnl"`
}
