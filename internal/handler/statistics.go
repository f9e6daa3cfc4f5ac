package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viktorgrom84/trading-notes/internal/auth"
	"github.com/viktorgrom84/trading-notes/internal/ledger"
	"github.com/viktorgrom84/trading-notes/internal/repository"
)

type StatisticsHandler struct {
	Repo repository.Repository
}

func (h *StatisticsHandler) Register(r *gin.Engine, mw ...gin.HandlerFunc) {
	g := r.Group("/api/statistics", mw...)
	g.GET("", h.get)
}

// statisticsView swaps the raw recent-trade rows for API-shaped views.
type statisticsView struct {
	ledger.Statistics
	RecentTrades []tradeView `json:"recentTrades"`
}

func (h *StatisticsHandler) get(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	trades, err := h.Repo.ListTradesByUser(c.Request.Context(), repository.ListTradesParams{
		UserID: identity.UserID,
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}

	stats := ledger.Aggregate(trades)
	view := statisticsView{Statistics: stats, RecentTrades: make([]tradeView, 0, len(stats.RecentTrades))}
	for _, t := range stats.RecentTrades {
		view.RecentTrades = append(view.RecentTrades, viewOf(t))
	}
	Ok(c, view, nil)
}
