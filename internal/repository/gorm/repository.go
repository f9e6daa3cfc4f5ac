package gormrepository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/viktorgrom84/trading-notes/internal/models"
	"github.com/viktorgrom84/trading-notes/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ repository.Repository = (*Store)(nil)

// --- Users ------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.User
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	return res.RowsAffected > 0, res.Error
}

// --- Trades -----------------------------------------------------------------

func (s *Store) ListTradesByUser(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("user_id = ?", params.UserID).
		Order("created_at desc")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}
	var items []models.Trade
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetTradeByID(ctx context.Context, userID, id uint64) (*models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Trade
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertTrade(ctx context.Context, item *models.Trade) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// UpdateTrade saves the full row, scoped to the owning user. Returns
// false when the row does not exist or belongs to someone else.
func (s *Store) UpdateTrade(ctx context.Context, item *models.Trade) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Select("symbol", "shares", "buy_price", "buy_date", "sell_price", "sell_date",
			"position_type", "trade_type", "notes", "updated_at").
		Updates(map[string]any{
			"symbol":        item.Symbol,
			"shares":        item.Shares,
			"buy_price":     item.BuyPrice,
			"buy_date":      item.BuyDate,
			"sell_price":    item.SellPrice,
			"sell_date":     item.SellDate,
			"position_type": item.PositionType,
			"trade_type":    item.TradeType,
			"notes":         item.Notes,
			"updated_at":    time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) DeleteTrade(ctx context.Context, userID, id uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Trade{})
	return res.RowsAffected > 0, res.Error
}

// --- Analysis cost events ---------------------------------------------------

func (s *Store) InsertCostEvent(ctx context.Context, item *models.AnalysisCostEvent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListCostEventsByUser(ctx context.Context, params repository.ListCostEventsParams) ([]models.AnalysisCostEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.AnalysisCostEvent{}).
		Where("user_id = ?", params.UserID)
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("created_at < ?", *params.Until)
	}
	var items []models.AnalysisCostEvent
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Analysis results -------------------------------------------------------

func (s *Store) InsertAnalysisResult(ctx context.Context, item *models.AnalysisResult) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAnalysisResultsByUser(ctx context.Context, userID uint64, limit int) ([]models.AnalysisResult, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var items []models.AnalysisResult
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteAnalysisResult(ctx context.Context, userID, id uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.AnalysisResult{})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) DeleteAnalysisResultsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.AnalysisResult{})
	return res.RowsAffected, res.Error
}
