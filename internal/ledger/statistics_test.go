package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/viktorgrom84/trading-notes/internal/models"
)

func closedLong(id uint64, shares int, buy, sell float64, buyDay, sellDay string) models.Trade {
	return models.Trade{
		ID:        id,
		Symbol:    "AAPL",
		Shares:    shares,
		BuyPrice:  buy,
		BuyDate:   day(buyDay),
		SellPrice: fptr(sell),
		SellDate:  dayPtr(sellDay),
		TradeType: models.TradeTypeRegular,
		CreatedAt: day(buyDay),
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	if stats.TotalTrades != 0 || stats.CompletedTrades != 0 || stats.OpenTrades != 0 {
		t.Fatalf("counts nonzero on empty input: %+v", stats)
	}
	for name, v := range map[string]float64{
		"totalProfit":       stats.TotalProfit,
		"totalInvested":     stats.TotalInvested,
		"winRate":           stats.WinRate,
		"avgProfitPerTrade": stats.AvgProfitPerTrade,
		"roi":               stats.ROI,
		"bestTrade":         stats.BestTrade,
		"worstTrade":        stats.WorstTrade,
	} {
		if v != 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s = %v, want 0", name, v)
		}
	}
}

func TestAggregateMixedVariants(t *testing.T) {
	trades := []models.Trade{
		closedLong(1, 10, 150, 160, "2024-01-03", "2024-01-10"), // +100, volume 1500
		closedLong(2, 5, 100, 90, "2024-01-04", "2024-01-12"),   // -50, volume 500
		closedLong(3, 1, 40, 40, "2024-01-05", "2024-01-13"),    // 0, neither win nor loss
		{ // open long
			ID: 4, Symbol: "MSFT", Shares: 3, BuyPrice: 200, BuyDate: day("2024-01-06"),
			TradeType: models.TradeTypeRegular, CreatedAt: day("2024-01-06"),
		},
		{ // profit-only, +250.5, volume 0
			ID: 5, Symbol: "TSLA", Shares: 1, BuyPrice: 0,
			BuyDate: day("2024-02-01"), SellPrice: fptr(250.5), SellDate: dayPtr("2024-02-01"),
			CreatedAt: day("2024-02-01"),
		},
		{ // closed short: sold at 50, covered at 45 => +50, volume 500
			ID: 6, Symbol: "GME", PositionType: models.PositionShort, Shares: 10,
			SellPrice: fptr(50), SellDate: dayPtr("2024-03-01"),
			BuyPrice: 45, BuyDate: day("2024-03-08"),
			TradeType: models.TradeTypeRegular, CreatedAt: day("2024-03-01"),
		},
	}

	stats := Aggregate(trades)

	if stats.TotalTrades != 6 {
		t.Fatalf("totalTrades = %d, want 6", stats.TotalTrades)
	}
	if stats.CompletedTrades != 5 || stats.OpenTrades != 1 {
		t.Fatalf("partition = %d/%d, want 5/1", stats.CompletedTrades, stats.OpenTrades)
	}
	if stats.CompletedTrades+stats.OpenTrades != stats.TotalTrades {
		t.Fatalf("partition identity broken")
	}
	if stats.WinningTrades != 3 || stats.LosingTrades != 1 {
		t.Fatalf("win/lose = %d/%d, want 3/1 (zero-profit in neither)", stats.WinningTrades, stats.LosingTrades)
	}
	if stats.WinningTrades+stats.LosingTrades > stats.CompletedTrades {
		t.Fatalf("win+lose exceeds completed")
	}
	if stats.TotalProfit != 350.5 {
		t.Fatalf("totalProfit = %v, want 350.5", stats.TotalProfit)
	}
	if stats.TotalInvested != 2500 {
		t.Fatalf("totalInvested = %v, want 2500", stats.TotalInvested)
	}
	if stats.WinRate != 60 {
		t.Fatalf("winRate = %v, want 60", stats.WinRate)
	}
	if stats.AvgProfitPerTrade != 70.1 {
		t.Fatalf("avgProfitPerTrade = %v, want 70.1", stats.AvgProfitPerTrade)
	}
	if stats.ROI != 14.02 {
		t.Fatalf("roi = %v, want 14.02", stats.ROI)
	}
	if stats.BestTrade != 250.5 || stats.WorstTrade != -50 {
		t.Fatalf("best/worst = %v/%v, want 250.5/-50", stats.BestTrade, stats.WorstTrade)
	}
}

func TestAggregateOpenTradeDoesNotMoveRealized(t *testing.T) {
	trades := []models.Trade{
		closedLong(1, 10, 150, 160, "2024-01-03", "2024-01-10"),
		closedLong(2, 5, 100, 90, "2024-01-04", "2024-01-12"),
	}
	before := Aggregate(trades)

	trades = append(trades, models.Trade{
		ID: 3, Symbol: "NVDA", Shares: 2, BuyPrice: 500, BuyDate: day("2024-01-20"),
		TradeType: models.TradeTypeRegular, CreatedAt: day("2024-01-20"),
	})
	after := Aggregate(trades)

	if after.TotalTrades != before.TotalTrades+1 || after.OpenTrades != before.OpenTrades+1 {
		t.Fatalf("open trade not counted: before %+v after %+v", before, after)
	}
	if after.TotalProfit != before.TotalProfit || after.WinRate != before.WinRate {
		t.Fatalf("realized figures moved: profit %v->%v winRate %v->%v",
			before.TotalProfit, after.TotalProfit, before.WinRate, after.WinRate)
	}
}

func TestAggregateRoundsOnceAtOutput(t *testing.T) {
	// Three thirds of a cent each; rounding per-trade would give 0.00,
	// accumulating then rounding gives 0.01.
	trades := []models.Trade{
		closedLong(1, 1, 0.10, 0.10333333, "2024-01-01", "2024-01-02"),
		closedLong(2, 1, 0.10, 0.10333333, "2024-01-01", "2024-01-03"),
		closedLong(3, 1, 0.10, 0.10333333, "2024-01-01", "2024-01-04"),
	}
	stats := Aggregate(trades)
	if stats.TotalProfit != 0.01 {
		t.Fatalf("totalProfit = %v, want 0.01", stats.TotalProfit)
	}
}

func TestAggregateMonthlyPerformance(t *testing.T) {
	trades := []models.Trade{
		closedLong(1, 10, 150, 160, "2024-01-03", "2024-01-10"), // Jan +100
		closedLong(2, 5, 100, 90, "2024-01-04", "2024-01-12"),   // Jan -50
		closedLong(3, 2, 50, 80, "2024-02-01", "2024-02-20"),    // Feb +60
		{ // open, must not appear in monthly rollup
			ID: 4, Shares: 1, BuyPrice: 10, BuyDate: day("2024-02-25"),
			TradeType: models.TradeTypeRegular,
		},
	}
	stats := Aggregate(trades)
	want := []MonthlyPerformance{
		{Month: "2024-01", Profit: 50, Trades: 2},
		{Month: "2024-02", Profit: 60, Trades: 1},
	}
	if len(stats.MonthlyPerformance) != len(want) {
		t.Fatalf("months = %d, want %d", len(stats.MonthlyPerformance), len(want))
	}
	for i, m := range stats.MonthlyPerformance {
		if m != want[i] {
			t.Fatalf("month %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestAggregateRecentTrades(t *testing.T) {
	var trades []models.Trade
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		trades = append(trades, models.Trade{
			ID: uint64(i + 1), Symbol: "AAPL", Shares: 1, BuyPrice: 10,
			BuyDate:   day("2024-05-01"),
			TradeType: models.TradeTypeRegular,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	stats := Aggregate(trades)
	if len(stats.RecentTrades) != 5 {
		t.Fatalf("recentTrades = %d, want 5", len(stats.RecentTrades))
	}
	for i, tr := range stats.RecentTrades {
		wantID := uint64(7 - i)
		if tr.ID != wantID {
			t.Fatalf("recentTrades[%d].ID = %d, want %d (most recent first)", i, tr.ID, wantID)
		}
	}
}
