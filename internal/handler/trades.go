package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viktorgrom84/trading-notes/internal/auth"
	"github.com/viktorgrom84/trading-notes/internal/ledger"
	"github.com/viktorgrom84/trading-notes/internal/models"
	"github.com/viktorgrom84/trading-notes/internal/repository"
)

type TradeHandler struct {
	Repo repository.Repository
	Log  *zap.Logger
}

func (h *TradeHandler) Register(r *gin.Engine, mw ...gin.HandlerFunc) {
	g := r.Group("/api/trades", mw...)
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.del)
}

type tradeRequest struct {
	Symbol       string   `json:"symbol"`
	Shares       int      `json:"shares"`
	BuyPrice     float64  `json:"buyPrice"`
	BuyDate      string   `json:"buyDate"`
	SellPrice    *float64 `json:"sellPrice"`
	SellDate     *string  `json:"sellDate"`
	PositionType string   `json:"positionType"`
	TradeType    string   `json:"tradeType"`
	Notes        string   `json:"notes"`
}

type tradeView struct {
	ID           uint64    `json:"id"`
	Symbol       string    `json:"symbol"`
	Shares       int       `json:"shares"`
	BuyPrice     float64   `json:"buyPrice"`
	BuyDate      string    `json:"buyDate"`
	SellPrice    *float64  `json:"sellPrice"`
	SellDate     *string   `json:"sellDate"`
	PositionType string    `json:"positionType"`
	TradeType    string    `json:"tradeType"`
	Notes        string    `json:"notes,omitempty"`
	Profit       *float64  `json:"profit"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func viewOf(t models.Trade) tradeView {
	c := ledger.Classify(t)

	v := tradeView{
		ID:           t.ID,
		Symbol:       t.Symbol,
		Shares:       t.Shares,
		BuyPrice:     t.BuyPrice,
		SellPrice:    t.SellPrice,
		PositionType: t.PositionType,
		TradeType:    models.TradeTypeRegular,
		Notes:        t.Notes,
		Status:       "open",
		CreatedAt:    t.CreatedAt,
	}
	if v.PositionType == "" {
		v.PositionType = models.PositionLong
	}
	if c.Variant == ledger.ProfitOnly {
		v.TradeType = models.TradeTypeProfitOnly
	}
	if !t.BuyDate.IsZero() {
		v.BuyDate = t.BuyDate.Format(dateLayout)
	}
	if t.SellDate != nil {
		d := t.SellDate.Format(dateLayout)
		v.SellDate = &d
	}
	if p, ok := ledger.Profit(c); ok {
		p = ledger.Round2(p)
		v.Profit = &p
		v.Status = "completed"
	}
	return v
}

func (h *TradeHandler) list(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)

	trades, err := h.Repo.ListTradesByUser(c.Request.Context(), repository.ListTradesParams{
		UserID: identity.UserID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	views := make([]tradeView, 0, len(trades))
	for _, t := range trades {
		views = append(views, viewOf(t))
	}
	Ok(c, views, paginationMeta(limit, offset, len(views)))
}

func (h *TradeHandler) create(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	trade, msg := tradeFromRequest(req)
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	trade.UserID = identity.UserID

	if err := h.Repo.InsertTrade(c.Request.Context(), trade); err != nil {
		h.Log.Error("insert trade", zap.Uint64("user_id", identity.UserID), zap.Error(err))
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	Created(c, viewOf(*trade))
}

func (h *TradeHandler) update(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	trade, msg := tradeFromRequest(req)
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	trade.ID = id
	trade.UserID = identity.UserID

	updated, err := h.Repo.UpdateTrade(c.Request.Context(), trade)
	if err != nil {
		h.Log.Error("update trade", zap.Uint64("trade_id", id), zap.Error(err))
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	if !updated {
		Error(c, http.StatusNotFound, "trade not found", nil)
		return
	}
	stored, err := h.Repo.GetTradeByID(c.Request.Context(), identity.UserID, id)
	if err != nil || stored == nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	Ok(c, viewOf(*stored), nil)
}

func (h *TradeHandler) del(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid trade id", nil)
		return
	}
	deleted, err := h.Repo.DeleteTrade(c.Request.Context(), identity.UserID, id)
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	if !deleted {
		Error(c, http.StatusNotFound, "trade not found", nil)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

// tradeFromRequest validates and normalizes one incoming trade. Every
// accepted row leaves with an explicit trade_type; profit-only imports
// are rewritten to the canonical sentinel shape regardless of what the
// client sent for shares and buy price.
func tradeFromRequest(req tradeRequest) (*models.Trade, string) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" || len(symbol) > 10 {
		return nil, "symbol is required (max 10 characters)"
	}

	positionType := strings.ToLower(strings.TrimSpace(req.PositionType))
	switch positionType {
	case "":
		positionType = models.PositionLong
	case models.PositionLong, models.PositionShort:
	default:
		return nil, "positionType must be long or short"
	}

	tradeType := strings.ToLower(strings.TrimSpace(req.TradeType))
	switch tradeType {
	case "":
		tradeType = models.TradeTypeRegular
	case models.TradeTypeRegular, models.TradeTypeProfitOnly:
	default:
		return nil, "tradeType must be regular or profit_only"
	}

	var sellPrice *float64
	if req.SellPrice != nil {
		v := *req.SellPrice
		sellPrice = &v
	}
	var sellDate *time.Time
	if req.SellDate != nil && strings.TrimSpace(*req.SellDate) != "" {
		d, ok := parseDate(*req.SellDate)
		if !ok {
			return nil, "sellDate must be YYYY-MM-DD"
		}
		sellDate = &d
	}

	if tradeType == models.TradeTypeProfitOnly {
		if sellPrice == nil {
			return nil, "profit_only trades require sellPrice (the recorded profit)"
		}
		date := time.Time{}
		if sellDate != nil {
			date = *sellDate
		} else if d, ok := parseDate(req.BuyDate); ok {
			date = d
		}
		if date.IsZero() {
			return nil, "profit_only trades require a date"
		}
		sd := date
		return &models.Trade{
			Symbol:       symbol,
			Shares:       1,
			BuyPrice:     0,
			BuyDate:      date,
			SellPrice:    sellPrice,
			SellDate:     &sd,
			PositionType: models.PositionLong,
			TradeType:    models.TradeTypeProfitOnly,
			Notes:        strings.TrimSpace(req.Notes),
		}, ""
	}

	if req.Shares <= 0 {
		return nil, "shares must be positive"
	}
	if req.BuyPrice < 0 {
		return nil, "buyPrice must not be negative"
	}
	if sellPrice != nil && *sellPrice < 0 {
		return nil, "sellPrice must not be negative"
	}

	var buyDate time.Time
	if strings.TrimSpace(req.BuyDate) != "" {
		d, ok := parseDate(req.BuyDate)
		if !ok {
			return nil, "buyDate must be YYYY-MM-DD"
		}
		buyDate = d
	}

	if positionType == models.PositionShort {
		// The sell leg opens a short; the buy leg covers it.
		if sellPrice == nil || sellDate == nil {
			return nil, "short trades require sellPrice and sellDate (the entry leg)"
		}
		if buyDate.IsZero() && req.BuyPrice != 0 {
			return nil, "short cover requires buyDate"
		}
	} else {
		if buyDate.IsZero() {
			return nil, "buyDate must be YYYY-MM-DD"
		}
		if (sellPrice == nil) != (sellDate == nil) {
			return nil, "sellPrice and sellDate must be set together"
		}
	}

	return &models.Trade{
		Symbol:       symbol,
		Shares:       req.Shares,
		BuyPrice:     req.BuyPrice,
		BuyDate:      buyDate,
		SellPrice:    sellPrice,
		SellDate:     sellDate,
		PositionType: positionType,
		TradeType:    models.TradeTypeRegular,
		Notes:        strings.TrimSpace(req.Notes),
	}, ""
}
