package models

// LiveState is a per-pair point-in-time position snapshot written by the live
// trader. Read-only; never mutated by the enrichment pass.
type LiveState struct {
	Pair           string   `json:"pair"`
	InPosition     bool     `json:"in_position"`
	EntryPrice     *float64 `json:"entry_price,omitempty"`
	EntryTime      string   `json:"entry_time,omitempty"`
	StopLossPrice  *float64 `json:"stop_loss_price,omitempty"`
	PositionAmount *float64 `json:"position_amount,omitempty"`
	PositionToken  string   `json:"position_token,omitempty"`
}

// GridState is the grid bot's snapshot for one asset. A nil Position means the
// grid holds nothing.
type GridState struct {
	Position *GridPosition `json:"position,omitempty"`
	RefPrice *float64      `json:"ref_price,omitempty"`
}

type GridPosition struct {
	EntryPrice  *float64 `json:"entry_price,omitempty"`
	USDCSpent   *float64 `json:"usdc_spent,omitempty"`
	TokenAmount *float64 `json:"token_amount,omitempty"`
}
