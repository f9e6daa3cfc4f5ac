package ledger

import (
	"math"
	"time"
)

// Profit returns the realized profit of a classified trade and whether the
// trade is closed. Open trades return (0, false) and are excluded from all
// realized aggregates. This is the single place profit arithmetic occurs;
// statistics and calendar rollups call it instead of re-deriving.
//
// For a profit-only row the sell_price field stores the profit figure
// directly. For a short the sell leg is the entry (short sale) and the buy
// leg the cover, so the same (sell - buy) * shares expression yields the
// short's gain when the cover price is below the sale price.
func Profit(c Classified) (float64, bool) {
	t := c.Raw
	switch c.Variant {
	case ProfitOnly:
		if t.SellPrice == nil {
			return 0, false
		}
		return *t.SellPrice, true
	case Short:
		// A short needs both legs priced and dated to count as closed.
		if t.SellPrice == nil || t.SellDate == nil || t.BuyDate.IsZero() {
			return 0, false
		}
		return (*t.SellPrice - t.BuyPrice) * float64(t.Shares), true
	default:
		if t.SellPrice == nil || t.SellDate == nil {
			return 0, false
		}
		return (*t.SellPrice - t.BuyPrice) * float64(t.Shares), true
	}
}

// Volume is the capital notionally deployed in a closed trade, used as the
// ROI denominator. Profit-only rows carry no capital-at-risk concept and
// open trades are excluded, so both report zero. For a short the deployed
// capital is the short-sale proceeds.
func Volume(c Classified) float64 {
	if _, closed := Profit(c); !closed {
		return 0
	}
	t := c.Raw
	switch c.Variant {
	case ProfitOnly:
		return 0
	case Short:
		return *t.SellPrice * float64(t.Shares)
	default:
		return t.BuyPrice * float64(t.Shares)
	}
}

// ExitDate returns the calendar date the position was closed on, or nil
// for open trades. For a short the exit is the cover leg, which lives in
// buy_date; for long and profit-only rows it is sell_date.
func ExitDate(c Classified) *time.Time {
	if _, closed := Profit(c); !closed {
		return nil
	}
	if c.Variant == Short {
		d := c.Raw.BuyDate
		return &d
	}
	return c.Raw.SellDate
}

// Round2 rounds a currency amount to cents. Aggregations accumulate in
// full precision and round once at the point of output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
