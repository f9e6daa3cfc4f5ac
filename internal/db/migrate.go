package db

import (
	"github.com/viktorgrom84/trading-notes/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.Trade{},
		&models.AnalysisCostEvent{},
		&models.AnalysisResult{},
	)
}
