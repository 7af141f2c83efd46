package enrich

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/clawdia/dashboard-backend/internal/models"
)

type fakeStatus map[string]bool

func (s fakeStatus) IsRunning(strategyID string) bool { return s[strategyID] }

func testConfig() *models.StrategyConfig {
	return &models.StrategyConfig{
		Strategies: map[string]*models.Strategy{
			"CCI": {
				Pairs: map[string]*models.Pair{
					"SOL_USDC_CCI": {Symbol: "SOL"},
				},
			},
			"GRID": {
				Pairs: map[string]*models.Pair{
					"SOL_GRID": {Symbol: "SOL"},
				},
			},
		},
		Allocation: map[string]models.StrategyAllocation{
			"CCI":  {AllocatedUSD: 500, Note: "CCI reversal"},
			"GRID": {AllocatedUSD: 300},
		},
		Conclusions: json.RawMessage(`{"verdict":"hold"}`),
	}
}

func testSources() Sources {
	return Sources{
		Config: testConfig(),
		Trades: []models.Trade{
			{Timestamp: "2026-01-01T10:00:00", Strategy: "CCI", InputToken: "USDC", OutputToken: "SOL", InputAmount: 100},
			{Timestamp: "2026-01-01T14:00:00", Strategy: "CCI", InputToken: "SOL", OutputToken: "USDC", OutputAmount: 130},
			// different strategy, must not leak into CCI
			{Timestamp: "2026-01-01T11:00:00", Strategy: "GRID", InputToken: "USDC", OutputToken: "SOL", InputAmount: 50},
			// symbol mismatch for both pairs
			{Timestamp: "2026-01-01T12:00:00", Strategy: "CCI", InputToken: "USDC", OutputToken: "WBTC", InputAmount: 40},
		},
		LiveStates: liveTable{
			"SOL_USDC_CCI": {Pair: "SOL_USDC_CCI", InPosition: false},
		},
		GridStates: gridTable{
			"SOL": {
				Position: &models.GridPosition{EntryPrice: f(140), USDCSpent: f(200), TokenAmount: f(1.4)},
				RefPrice: f(142),
			},
		},
		Wallet: &models.WalletSnapshot{
			USDCBalance: 800,
			SOLPriceUSD: 150,
			TotalUSD:    1200,
		},
		BotStatus: fakeStatus{"CCI": true},
	}
}

func TestEnrich_FullPass(t *testing.T) {
	report := Enrich(testSources())

	cci := report.Strategies["CCI"]
	if cci == nil || cci.ID != "CCI" {
		t.Fatal("strategy id not stamped")
	}
	if !cci.BotRunning {
		t.Fatal("CCI bot should be reported running")
	}
	if report.Strategies["GRID"].BotRunning {
		t.Fatal("GRID has no live process, must default to not running")
	}

	pair := cci.Pairs["SOL_USDC_CCI"]
	if pair.PairID != "SOL_USDC_CCI" {
		t.Fatal("pair id not stamped")
	}
	if pair.Position == nil || pair.Position.InPosition {
		t.Fatal("live state reports flat, position must be explicit flat")
	}
	if pair.LiveStats.TotalTrades != 2 {
		t.Fatalf("CCI/SOL should see exactly its 2 ledger trades, got %d", pair.LiveStats.TotalTrades)
	}
	if pair.LiveStats.CompletedTrips != 1 || *pair.LiveStats.RealizedPnL != 30.00 {
		t.Fatalf("live stats: %+v", pair.LiveStats)
	}

	gridPair := report.Strategies["GRID"].Pairs["SOL_GRID"]
	if gridPair.Position == nil || !gridPair.Position.InPosition {
		t.Fatal("grid pair should synthesize its position from grid state")
	}
	if gridPair.LiveStats.Buys != 1 || gridPair.LiveStats.CompletedTrips != 0 {
		t.Fatalf("grid stats: %+v", gridPair.LiveStats)
	}
	if gridPair.LiveStats.RealizedPnL != nil {
		t.Fatal("open grid position has no realized pnl yet")
	}

	// Allocation: GRID position = 1.4 SOL * $150 = $210; dry = 300-210 = 90.
	ga := report.Allocation.Strategies["GRID"]
	if ga.PositionValue != 210.00 || ga.DryPowder != 90.00 {
		t.Fatalf("grid allocation: %+v", ga)
	}
	// CCI: flat, dry = 500, pnl = 30, effective = 530.
	ca := report.Allocation.Strategies["CCI"]
	if ca.DryPowder != 500.00 || ca.EffectiveValue != 530.00 {
		t.Fatalf("cci allocation: %+v", ca)
	}
	// cash_unallocated = 800 - (500 + 90)
	if report.Allocation.CashUnallocated != 210.00 {
		t.Fatalf("cash_unallocated: got %.2f", report.Allocation.CashUnallocated)
	}

	if string(report.Conclusions) != `{"verdict":"hold"}` {
		t.Fatalf("conclusions must pass through verbatim: %s", report.Conclusions)
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	// Two passes over freshly built, identical inputs must serialize
	// identically.
	a, err := json.Marshal(Enrich(testSources()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(Enrich(testSources()))
	if err != nil {
		t.Fatal(err)
	}

	var docA, docB map[string]any
	if err := json.Unmarshal(a, &docA); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &docB); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(docA, docB) {
		t.Fatal("identical inputs produced different documents")
	}
}

func TestEnrich_EmptySources(t *testing.T) {
	report := Enrich(Sources{})
	if report == nil {
		t.Fatal("a pass must always produce a document")
	}
	if report.Strategies == nil || len(report.Strategies) != 0 {
		t.Fatalf("expected empty strategies, got %v", report.Strategies)
	}
	if report.Allocation == nil {
		t.Fatal("allocation summary must be present even with no sources")
	}
	if report.Allocation.CashUnallocated != 0 || report.Allocation.TotalAllocated != 0 {
		t.Fatalf("empty allocation: %+v", report.Allocation)
	}
}

func TestFilterPairTrades(t *testing.T) {
	trades := []models.Trade{
		{Strategy: "cci", InputToken: "USDC", OutputToken: "SOL"},   // strategy match is case-insensitive
		{Strategy: "CCI", InputToken: "wsol", OutputToken: "USDC"},  // symbol substring, case-insensitive
		{Strategy: "CCI", InputToken: "USDC", OutputToken: "WBTC"},  // wrong symbol
		{Strategy: "GRID", InputToken: "USDC", OutputToken: "SOL"},  // wrong strategy
		{Strategy: "CCIX", InputToken: "USDC", OutputToken: "SOL"},  // exact match only
	}

	got := FilterPairTrades(trades, "CCI", "SOL")
	if len(got) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(got))
	}
}
