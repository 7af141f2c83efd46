package models

import "strings"

// QuoteToken is the quote currency all P&L accounting is denominated in.
const QuoteToken = "USDC"

// Trade is one swap record from the bot's JSONL trade ledger.
// Timestamps are ISO-8601 strings produced by the bot in a lexicographically
// sortable form; all ordering in this package compares them as strings.
type Trade struct {
	Timestamp          string   `json:"timestamp"`
	Strategy           string   `json:"strategy"`
	InputToken         string   `json:"input_token"`
	OutputToken        string   `json:"output_token"`
	InputAmount        float64  `json:"input_amount"`
	OutputAmount       float64  `json:"output_amount"`
	ActualInputAmount  *float64 `json:"actual_input_amount,omitempty"`
	ActualOutputAmount *float64 `json:"actual_output_amount,omitempty"`
	Direction          string   `json:"direction,omitempty"`
	Signature          string   `json:"signature,omitempty"`
}

// IsBuy reports whether the trade opened exposure: an explicit buy side,
// or quote currency going in.
func (t *Trade) IsBuy() bool {
	return strings.EqualFold(t.Direction, "buy") || t.InputToken == QuoteToken
}

// IsSell reports whether the trade closed exposure: an explicit sell side,
// or quote currency coming out.
func (t *Trade) IsSell() bool {
	return strings.EqualFold(t.Direction, "sell") || t.OutputToken == QuoteToken
}

// BuyUSD resolves the USD size of a buy. Actual settled amounts are preferred
// over nominal ones. Non-USDC inputs resolve to 0.
func (t *Trade) BuyUSD() float64 {
	if t.InputToken != QuoteToken {
		return 0
	}
	if t.ActualInputAmount != nil {
		return *t.ActualInputAmount
	}
	return t.InputAmount
}

// SellUSD resolves the USD size of a sell. Actual settled amounts are preferred
// over nominal ones. Non-USDC outputs resolve to 0.
func (t *Trade) SellUSD() float64 {
	if t.OutputToken != QuoteToken {
		return 0
	}
	if t.ActualOutputAmount != nil {
		return *t.ActualOutputAmount
	}
	return t.OutputAmount
}

// IsTestFixture reports whether the trade was written by a pipeline test run
// and must be excluded from the ledger.
func (t *Trade) IsTestFixture() bool {
	switch strings.ToUpper(t.Strategy) {
	case "TEST", "PIPELINE_TEST":
		return true
	}
	return false
}
