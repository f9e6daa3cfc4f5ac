package repository

import (
	"context"
	"time"

	"github.com/viktorgrom84/trading-notes/internal/models"
)

type ListCostEventsParams struct {
	UserID uint64
	Since  *time.Time
	Until  *time.Time
}

type ListTradesParams struct {
	UserID uint64
	Limit  int
	Offset int
}

// Repository is the persistence boundary consumed by handlers and
// services. Every trade/result operation is keyed by user; there are no
// cross-user reads.
type Repository interface {
	// Users.
	CreateUser(ctx context.Context, item *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uint64) (bool, error)

	// Trades.
	ListTradesByUser(ctx context.Context, params ListTradesParams) ([]models.Trade, error)
	GetTradeByID(ctx context.Context, userID, id uint64) (*models.Trade, error)
	InsertTrade(ctx context.Context, item *models.Trade) error
	UpdateTrade(ctx context.Context, item *models.Trade) (bool, error)
	DeleteTrade(ctx context.Context, userID, id uint64) (bool, error)

	// Analysis cost events (append-only).
	InsertCostEvent(ctx context.Context, item *models.AnalysisCostEvent) error
	ListCostEventsByUser(ctx context.Context, params ListCostEventsParams) ([]models.AnalysisCostEvent, error)

	// Analysis results.
	InsertAnalysisResult(ctx context.Context, item *models.AnalysisResult) error
	ListAnalysisResultsByUser(ctx context.Context, userID uint64, limit int) ([]models.AnalysisResult, error)
	DeleteAnalysisResult(ctx context.Context, userID, id uint64) (bool, error)
	DeleteAnalysisResultsBefore(ctx context.Context, before time.Time) (int64, error)
}
