package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viktorgrom84/trading-notes/internal/aicost"
	"github.com/viktorgrom84/trading-notes/internal/auth"
	"github.com/viktorgrom84/trading-notes/internal/repository"
	"github.com/viktorgrom84/trading-notes/internal/service"
)

type AIHandler struct {
	Svc   *service.AnalysisService
	Meter *aicost.Meter
	Repo  repository.Repository
	Log   *zap.Logger

	// AdminUsername gates every route in this handler.
	AdminUsername string
}

func (h *AIHandler) Register(r *gin.Engine, mw ...gin.HandlerFunc) {
	g := r.Group("/api/ai", mw...)
	g.Use(requireAdmin(h.AdminUsername))
	g.POST("/analyze", h.analyze)
	g.GET("/costs", h.costs)
	g.GET("/history", h.history)
	g.DELETE("/history/:id", h.deleteHistory)
}

type analyzeRequest struct {
	AnalysisType string `json:"analysisType"`
}

func (h *AIHandler) analyze(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	analysisType := strings.ToLower(strings.TrimSpace(req.AnalysisType))
	if analysisType == "" {
		analysisType = service.AnalysisGeneral
	}

	out, err := h.Svc.Analyze(c.Request.Context(), identity.UserID, analysisType)
	switch {
	case errors.Is(err, service.ErrUnknownAnalysisType):
		Error(c, http.StatusBadRequest, "unknown analysis type", nil)
		return
	case errors.Is(err, service.ErrNoTrades):
		Error(c, http.StatusBadRequest, "no trades to analyze", nil)
		return
	case err != nil:
		h.Log.Error("analysis failed",
			zap.Uint64("user_id", identity.UserID),
			zap.String("analysis_type", analysisType),
			zap.Error(err))
		Error(c, http.StatusBadGateway, "analysis generation failed", nil)
		return
	}
	Ok(c, out, nil)
}

type costsView struct {
	Month aicost.MonthSummary `json:"month"`
	Daily []aicost.DailyUsage `json:"daily"`
}

func (h *AIHandler) costs(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	month, err := h.Meter.MonthToDate(c.Request.Context(), identity.UserID)
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	daily, err := h.Meter.Last7Days(c.Request.Context(), identity.UserID)
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	Ok(c, costsView{Month: month, Daily: daily}, nil)
}

type analysisHistoryView struct {
	ID           uint64          `json:"id"`
	AnalysisType string          `json:"analysisType"`
	Analysis     string          `json:"analysis"`
	Statistics   json.RawMessage `json:"statistics,omitempty"`
	Cost         json.RawMessage `json:"cost,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

func (h *AIHandler) history(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	limit := intQuery(c, "limit", 50)

	items, err := h.Repo.ListAnalysisResultsByUser(c.Request.Context(), identity.UserID, limit)
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	views := make([]analysisHistoryView, 0, len(items))
	for _, item := range items {
		views = append(views, analysisHistoryView{
			ID:           item.ID,
			AnalysisType: item.AnalysisType,
			Analysis:     item.AnalysisText,
			Statistics:   json.RawMessage(item.Statistics),
			Cost:         json.RawMessage(item.CostData),
			CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	Ok(c, views, nil)
}

func (h *AIHandler) deleteHistory(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid analysis id", nil)
		return
	}
	deleted, err := h.Repo.DeleteAnalysisResult(c.Request.Context(), identity.UserID, id)
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	if !deleted {
		Error(c, http.StatusNotFound, "analysis not found", nil)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
