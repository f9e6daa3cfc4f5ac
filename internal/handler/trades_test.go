package handler

import (
	"testing"
	"time"

	"github.com/viktorgrom84/trading-notes/internal/models"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func TestTradeFromRequestLong(t *testing.T) {
	trade, msg := tradeFromRequest(tradeRequest{
		Symbol:   " aapl ",
		Shares:   100,
		BuyPrice: 10,
		BuyDate:  "2024-01-05",
	})
	if msg != "" {
		t.Fatalf("unexpected error: %s", msg)
	}
	if trade.Symbol != "AAPL" {
		t.Fatalf("Symbol = %q, want AAPL", trade.Symbol)
	}
	if trade.PositionType != models.PositionLong {
		t.Fatalf("PositionType = %q, want long default", trade.PositionType)
	}
	if trade.TradeType != models.TradeTypeRegular {
		t.Fatalf("TradeType = %q; new rows must carry the explicit tag", trade.TradeType)
	}
	if trade.BuyDate != time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("BuyDate = %v", trade.BuyDate)
	}
}

func TestTradeFromRequestProfitOnlyNormalized(t *testing.T) {
	// Client-sent shares/buyPrice are overridden with the canonical shape.
	trade, msg := tradeFromRequest(tradeRequest{
		Symbol:    "BONUS",
		Shares:    37,
		BuyPrice:  999,
		TradeType: "profit_only",
		SellPrice: fptr(250.5),
		SellDate:  sptr("2024-03-01"),
	})
	if msg != "" {
		t.Fatalf("unexpected error: %s", msg)
	}
	if trade.Shares != 1 || trade.BuyPrice != 0 {
		t.Fatalf("not normalized: shares=%d buyPrice=%v", trade.Shares, trade.BuyPrice)
	}
	if trade.TradeType != models.TradeTypeProfitOnly {
		t.Fatalf("TradeType = %q", trade.TradeType)
	}
	if trade.SellPrice == nil || *trade.SellPrice != 250.5 {
		t.Fatalf("SellPrice = %v", trade.SellPrice)
	}
	if trade.SellDate == nil || trade.BuyDate.IsZero() {
		t.Fatal("profit_only rows must carry both dates")
	}
}

func TestTradeFromRequestProfitOnlyRequiresAmount(t *testing.T) {
	_, msg := tradeFromRequest(tradeRequest{
		Symbol:    "BONUS",
		TradeType: "profit_only",
		SellDate:  sptr("2024-03-01"),
	})
	if msg == "" {
		t.Fatal("accepted profit_only without sellPrice")
	}
}

func TestTradeFromRequestShortOpenLeg(t *testing.T) {
	trade, msg := tradeFromRequest(tradeRequest{
		Symbol:       "TSLA",
		Shares:       10,
		PositionType: "short",
		SellPrice:    fptr(50),
		SellDate:     sptr("2024-04-01"),
	})
	if msg != "" {
		t.Fatalf("unexpected error: %s", msg)
	}
	if trade.PositionType != models.PositionShort {
		t.Fatalf("PositionType = %q", trade.PositionType)
	}
	if !trade.BuyDate.IsZero() {
		t.Fatalf("open short should have no cover date, got %v", trade.BuyDate)
	}
}

func TestTradeFromRequestShortNeedsEntryLeg(t *testing.T) {
	_, msg := tradeFromRequest(tradeRequest{
		Symbol:       "TSLA",
		Shares:       10,
		PositionType: "short",
		BuyPrice:     45,
		BuyDate:      "2024-04-10",
	})
	if msg == "" {
		t.Fatal("accepted short without the sell entry leg")
	}
}

func TestTradeFromRequestRejections(t *testing.T) {
	cases := []struct {
		name string
		req  tradeRequest
	}{
		{"empty symbol", tradeRequest{Shares: 1, BuyPrice: 1, BuyDate: "2024-01-01"}},
		{"symbol too long", tradeRequest{Symbol: "ABCDEFGHIJK", Shares: 1, BuyPrice: 1, BuyDate: "2024-01-01"}},
		{"zero shares", tradeRequest{Symbol: "A", Shares: 0, BuyPrice: 1, BuyDate: "2024-01-01"}},
		{"negative buy price", tradeRequest{Symbol: "A", Shares: 1, BuyPrice: -1, BuyDate: "2024-01-01"}},
		{"bad date", tradeRequest{Symbol: "A", Shares: 1, BuyPrice: 1, BuyDate: "01/02/2024"}},
		{"bad position type", tradeRequest{Symbol: "A", Shares: 1, BuyPrice: 1, BuyDate: "2024-01-01", PositionType: "hedge"}},
		{"bad trade type", tradeRequest{Symbol: "A", Shares: 1, BuyPrice: 1, BuyDate: "2024-01-01", TradeType: "magic"}},
		{"sell price without date", tradeRequest{Symbol: "A", Shares: 1, BuyPrice: 1, BuyDate: "2024-01-01", SellPrice: fptr(2)}},
	}
	for _, tc := range cases {
		if _, msg := tradeFromRequest(tc.req); msg == "" {
			t.Errorf("%s: accepted invalid request", tc.name)
		}
	}
}

func TestViewOfResolvesVariantAndProfit(t *testing.T) {
	sell := 15.0
	sellDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	v := viewOf(models.Trade{
		ID: 1, Symbol: "AAPL", Shares: 100, BuyPrice: 10,
		BuyDate:      time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		SellPrice:    &sell, SellDate: &sellDate,
		PositionType: models.PositionLong, TradeType: models.TradeTypeRegular,
	})
	if v.Status != "completed" {
		t.Fatalf("Status = %q", v.Status)
	}
	if v.Profit == nil || *v.Profit != 500 {
		t.Fatalf("Profit = %v, want 500", v.Profit)
	}

	// Legacy untagged sentinel row surfaces as profit_only.
	legacySell := 250.5
	legacyDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	lv := viewOf(models.Trade{
		ID: 2, Symbol: "BONUS", Shares: 1, BuyPrice: 0,
		BuyDate:   legacyDate,
		SellPrice: &legacySell, SellDate: &legacyDate,
	})
	if lv.TradeType != models.TradeTypeProfitOnly {
		t.Fatalf("TradeType = %q, want profit_only", lv.TradeType)
	}
	if lv.Profit == nil || *lv.Profit != 250.5 {
		t.Fatalf("Profit = %v, want 250.5", lv.Profit)
	}

	open := viewOf(models.Trade{
		ID: 3, Symbol: "MSFT", Shares: 5, BuyPrice: 20,
		BuyDate:      time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		PositionType: models.PositionLong, TradeType: models.TradeTypeRegular,
	})
	if open.Status != "open" || open.Profit != nil {
		t.Fatalf("open trade view = %+v", open)
	}
}
