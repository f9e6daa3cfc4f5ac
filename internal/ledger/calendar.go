package ledger

import (
	"time"

	"github.com/viktorgrom84/trading-notes/internal/models"
)

// LocalDate renders t as a calendar-date string in loc. Day matching
// compares these strings instead of instants, which avoids the
// off-by-one-day errors a UTC comparison produces for viewers west or
// east of Greenwich.
func LocalDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}

// DailyPnL is the realized profit attributed to one calendar day. A trade
// contributes only when the day equals its exit date; entry activity on a
// day contributes nothing even though the trade may be displayed there.
func DailyPnL(trades []models.Trade, date time.Time, loc *time.Location) float64 {
	day := LocalDate(date, loc)
	var total float64
	for _, t := range trades {
		c := Classify(t)
		exit := ExitDate(c)
		if exit == nil || LocalDate(*exit, loc) != day {
			continue
		}
		profit, closed := Profit(c)
		if closed {
			total += profit
		}
	}
	return Round2(total)
}

// TradesOn returns the trades appearing on a calendar day, matched by
// either leg date. A position can show on two cells (entry badge on one,
// exit badge on the other) while its profit belongs to exactly one.
func TradesOn(trades []models.Trade, date time.Time, loc *time.Location) []models.Trade {
	day := LocalDate(date, loc)
	var out []models.Trade
	for _, t := range trades {
		if LocalDate(t.BuyDate, loc) == day {
			out = append(out, t)
			continue
		}
		if t.SellDate != nil && LocalDate(*t.SellDate, loc) == day {
			out = append(out, t)
		}
	}
	return out
}
