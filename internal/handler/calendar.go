package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viktorgrom84/trading-notes/internal/auth"
	"github.com/viktorgrom84/trading-notes/internal/ledger"
	"github.com/viktorgrom84/trading-notes/internal/repository"
)

type CalendarHandler struct {
	Repo repository.Repository
}

func (h *CalendarHandler) Register(r *gin.Engine, mw ...gin.HandlerFunc) {
	g := r.Group("/api/calendar", mw...)
	g.GET("", h.day)
}

type calendarDayView struct {
	Date     string      `json:"date"`
	Timezone string      `json:"timezone"`
	PnL      float64     `json:"pnl"`
	Trades   []tradeView `json:"trades"`
}

// day answers "what happened on this local calendar day": realized P&L
// attributed by exit date, plus every trade whose entry or exit falls on
// the day. The tz query selects the calendar; it defaults to UTC so the
// answer does not depend on the server's own zone.
func (h *CalendarHandler) day(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	loc := time.UTC
	if tz := strings.TrimSpace(c.Query("tz")); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			Error(c, http.StatusBadRequest, "unknown tz", nil)
			return
		}
		loc = parsed
	}

	dateParam := strings.TrimSpace(c.Query("date"))
	if dateParam == "" {
		Error(c, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}
	// Midnight in the requested zone, so the day boundary is the
	// caller's, not the server's.
	date, err := time.ParseInLocation(dateLayout, dateParam, loc)
	if err != nil {
		Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}

	trades, err := h.Repo.ListTradesByUser(c.Request.Context(), repository.ListTradesParams{
		UserID: identity.UserID,
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}

	onDay := ledger.TradesOn(trades, date, loc)
	views := make([]tradeView, 0, len(onDay))
	for _, t := range onDay {
		views = append(views, viewOf(t))
	}
	Ok(c, calendarDayView{
		Date:     ledger.LocalDate(date, loc),
		Timezone: loc.String(),
		PnL:      ledger.DailyPnL(trades, date, loc),
		Trades:   views,
	}, nil)
}
