package enrich

import (
	"strings"

	"github.com/clawdia/dashboard-backend/internal/models"
)

// LiveStateLookup is a read-only table of live trader snapshots keyed by pair id.
type LiveStateLookup interface {
	Get(pairID string) (*models.LiveState, bool)
}

// GridStateLookup is a read-only table of grid bot snapshots keyed by asset symbol.
type GridStateLookup interface {
	Get(symbol string) (*models.GridState, bool)
}

const gridPairSuffix = "_GRID"

// IsGridPair reports whether a pair id follows the grid bot naming convention.
func IsGridPair(pairID string) bool {
	return strings.HasSuffix(strings.ToUpper(pairID), gridPairSuffix)
}

// ResolvePosition derives the current position for a pair. Live state always
// wins; grid state is consulted only for grid pairs with no live snapshot.
// A nil result means no authoritative source covered the pair — callers must
// treat it as unknown, not flat.
func ResolvePosition(pair *models.Pair, live LiveStateLookup, grid GridStateLookup) *models.Position {
	if live != nil {
		if ls, ok := live.Get(pair.PairID); ok {
			if !ls.InPosition {
				return &models.Position{InPosition: false}
			}
			return &models.Position{
				InPosition:     true,
				EntryPrice:     ls.EntryPrice,
				EntryTime:      ls.EntryTime,
				StopLossPrice:  ls.StopLossPrice,
				PositionAmount: ls.PositionAmount,
				PositionToken:  ls.PositionToken,
			}
		}
	}

	if IsGridPair(pair.PairID) && grid != nil {
		if gs, ok := grid.Get(pair.Symbol); ok && gs.Position != nil {
			return &models.Position{
				InPosition:  true,
				EntryPrice:  gs.Position.EntryPrice,
				USDCSpent:   gs.Position.USDCSpent,
				TokenAmount: gs.Position.TokenAmount,
				RefPrice:    gs.RefPrice,
			}
		}
	}

	return nil
}
