package enrich

import (
	"math"
	"sort"

	"github.com/clawdia/dashboard-backend/internal/models"
)

// DustThresholdUSD is the sell size below which a trade is treated as noise:
// it is never matched into a round-trip, but it is never consumed either.
const DustThresholdUSD = 0.01

// SplitDirections partitions a pair's trades into buys and sells. A trade with
// USDC on both legs lands in both slices, matching how the ledger records
// quote-to-quote rebalances.
func SplitDirections(trades []models.Trade) (buys, sells []models.Trade) {
	for _, t := range trades {
		if t.IsBuy() {
			buys = append(buys, t)
		}
		if t.IsSell() {
			sells = append(sells, t)
		}
	}
	return buys, sells
}

// MatchRoundTrips computes realized P&L from completed round-trips using FIFO
// matching: buys in ascending timestamp order each claim the earliest
// unconsumed sell that settled strictly after them for more than dust.
//
// Inputs may arrive unordered; they are copied and stable-sorted by timestamp
// string, so equal timestamps keep their source order and repeated runs over
// the same ledger produce the same match set. TotalTrades is left for the
// caller, which knows the unsplit pair-trade count.
func MatchRoundTrips(buys, sells []models.Trade) *models.LiveStats {
	sortedBuys := sortByTimestamp(buys)
	sortedSells := sortByTimestamp(sells)

	stats := &models.LiveStats{
		Buys:  len(buys),
		Sells: len(sells),
	}

	var realized, invested, returned float64
	used := make([]bool, len(sortedSells))

	for i := range sortedBuys {
		buyUSD := sortedBuys[i].BuyUSD()
		for j := range sortedSells {
			if used[j] {
				continue
			}
			// Strict inequality: an equal-timestamp sell never closes the buy.
			if sortedSells[j].Timestamp <= sortedBuys[i].Timestamp {
				continue
			}
			sellUSD := sortedSells[j].SellUSD()
			if sellUSD <= DustThresholdUSD {
				continue
			}
			realized += sellUSD - buyUSD
			invested += buyUSD
			returned += sellUSD
			stats.CompletedTrips++
			used[j] = true
			break
		}
	}

	stats.TotalInvested = Round2(invested)
	stats.TotalReturned = Round2(returned)
	if stats.CompletedTrips > 0 {
		pnl := Round2(realized)
		stats.RealizedPnL = &pnl
	}
	return stats
}

func sortByTimestamp(trades []models.Trade) []models.Trade {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// Round2 rounds a USD amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
