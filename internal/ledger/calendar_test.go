package ledger

import (
	"testing"
	"time"

	"github.com/viktorgrom84/trading-notes/internal/models"
)

func TestDailyPnLExitDateOnly(t *testing.T) {
	trades := []models.Trade{
		closedLong(1, 10, 150, 160, "2024-01-03", "2024-01-10"),
	}
	if got := DailyPnL(trades, day("2024-01-10"), time.UTC); got != 100 {
		t.Fatalf("exit day pnl = %v, want 100", got)
	}
	if got := DailyPnL(trades, day("2024-01-03"), time.UTC); got != 0 {
		t.Fatalf("entry day pnl = %v, want 0", got)
	}
}

func TestDailyPnLShortUsesCoverDate(t *testing.T) {
	trades := []models.Trade{
		{ // sold short 2024-03-01 at 50, covered 2024-03-08 at 45
			ID: 1, PositionType: models.PositionShort, Shares: 10,
			SellPrice: fptr(50), SellDate: dayPtr("2024-03-01"),
			BuyPrice: 45, BuyDate: day("2024-03-08"),
			TradeType: models.TradeTypeRegular,
		},
	}
	if got := DailyPnL(trades, day("2024-03-08"), time.UTC); got != 50 {
		t.Fatalf("cover day pnl = %v, want 50", got)
	}
	if got := DailyPnL(trades, day("2024-03-01"), time.UTC); got != 0 {
		t.Fatalf("short-sale day pnl = %v, want 0", got)
	}
}

func TestDailyPnLIgnoresOpenTrades(t *testing.T) {
	trades := []models.Trade{
		{ID: 1, Shares: 5, BuyPrice: 20, BuyDate: day("2024-04-02"), TradeType: models.TradeTypeRegular},
	}
	if got := DailyPnL(trades, day("2024-04-02"), time.UTC); got != 0 {
		t.Fatalf("open trade pnl = %v, want 0", got)
	}
}

func TestDailyPnLComparesLocalCalendarDays(t *testing.T) {
	// Exit stored as 2024-01-10T00:00Z. Viewed from UTC-5 that instant is
	// still the evening of Jan 9, so the profit lands on the Jan 9 cell.
	est := time.FixedZone("EST", -5*3600)
	trades := []models.Trade{
		closedLong(1, 10, 150, 160, "2024-01-03", "2024-01-10"),
	}
	eveningJan9 := time.Date(2024, 1, 9, 20, 0, 0, 0, est)
	if got := DailyPnL(trades, eveningJan9, est); got != 100 {
		t.Fatalf("UTC-5 local-day pnl = %v, want 100", got)
	}
	noonJan10 := time.Date(2024, 1, 10, 12, 0, 0, 0, est)
	if got := DailyPnL(trades, noonJan10, est); got != 0 {
		t.Fatalf("UTC-5 Jan 10 pnl = %v, want 0 (exit instant is local Jan 9)", got)
	}
}

func TestTradesOnMatchesEitherLeg(t *testing.T) {
	trade := closedLong(1, 10, 150, 160, "2024-01-03", "2024-01-10")
	trades := []models.Trade{trade}

	if got := TradesOn(trades, day("2024-01-03"), time.UTC); len(got) != 1 {
		t.Fatalf("entry cell trades = %d, want 1", len(got))
	}
	if got := TradesOn(trades, day("2024-01-10"), time.UTC); len(got) != 1 {
		t.Fatalf("exit cell trades = %d, want 1", len(got))
	}
	if got := TradesOn(trades, day("2024-01-07"), time.UTC); len(got) != 0 {
		t.Fatalf("between-days trades = %d, want 0", len(got))
	}
}
