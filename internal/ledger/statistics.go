package ledger

import (
	"sort"

	"github.com/viktorgrom84/trading-notes/internal/models"
)

// MonthlyPerformance is realized profit grouped by the sell month.
type MonthlyPerformance struct {
	Month  string  `json:"month"`
	Profit float64 `json:"profit"`
	Trades int     `json:"trades"`
}

// Statistics is the portfolio summary exposed to the API layer. Currency
// values are major units (dollars), rounded to cents.
type Statistics struct {
	TotalTrades       int     `json:"totalTrades"`
	CompletedTrades   int     `json:"completedTrades"`
	OpenTrades        int     `json:"openTrades"`
	TotalProfit       float64 `json:"totalProfit"`
	TotalInvested     float64 `json:"totalInvested"`
	WinningTrades     int     `json:"winningTrades"`
	LosingTrades      int     `json:"losingTrades"`
	WinRate           float64 `json:"winRate"`
	AvgProfitPerTrade float64 `json:"avgProfitPerTrade"`
	ROI               float64 `json:"roi"`
	BestTrade         float64 `json:"bestTrade"`
	WorstTrade        float64 `json:"worstTrade"`

	RecentTrades       []models.Trade       `json:"recentTrades"`
	MonthlyPerformance []MonthlyPerformance `json:"monthlyPerformance,omitempty"`
}

// Aggregate computes portfolio statistics over a user's ledger. An empty
// ledger is a valid state and yields the all-zero summary; no field ever
// carries NaN or Inf. Zero-profit trades count as neither winning nor
// losing, so winningTrades+losingTrades <= completedTrades.
func Aggregate(trades []models.Trade) Statistics {
	stats := Statistics{TotalTrades: len(trades)}

	var totalProfit, totalInvested float64
	var best, worst float64
	monthly := map[string]*MonthlyPerformance{}

	for _, t := range trades {
		c := Classify(t)
		profit, closed := Profit(c)
		if !closed {
			stats.OpenTrades++
			continue
		}
		stats.CompletedTrades++
		totalProfit += profit
		totalInvested += Volume(c)

		switch {
		case profit > 0:
			stats.WinningTrades++
		case profit < 0:
			stats.LosingTrades++
		}
		if stats.CompletedTrades == 1 || profit > best {
			best = profit
		}
		if stats.CompletedTrades == 1 || profit < worst {
			worst = profit
		}

		if t.SellDate != nil {
			key := t.SellDate.Format("2006-01")
			m, ok := monthly[key]
			if !ok {
				m = &MonthlyPerformance{Month: key}
				monthly[key] = m
			}
			m.Profit += profit
			m.Trades++
		}
	}

	stats.TotalProfit = Round2(totalProfit)
	stats.TotalInvested = Round2(totalInvested)
	if stats.CompletedTrades > 0 {
		stats.WinRate = Round2(float64(stats.WinningTrades) / float64(stats.CompletedTrades) * 100)
		stats.AvgProfitPerTrade = Round2(totalProfit / float64(stats.CompletedTrades))
		stats.BestTrade = Round2(best)
		stats.WorstTrade = Round2(worst)
	}
	if totalInvested > 0 {
		stats.ROI = Round2(totalProfit / totalInvested * 100)
	}

	stats.RecentTrades = recentTrades(trades, 5)
	if len(monthly) > 0 {
		keys := make([]string, 0, len(monthly))
		for k := range monthly {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m := monthly[k]
			m.Profit = Round2(m.Profit)
			stats.MonthlyPerformance = append(stats.MonthlyPerformance, *m)
		}
	}
	return stats
}

// recentTrades returns the n most recently created trades, most recent
// first, regardless of open/closed state.
func recentTrades(trades []models.Trade, n int) []models.Trade {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
