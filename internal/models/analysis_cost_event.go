package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisCostEvent meters one completed text-generation call. Events are
// append-only: never updated, merged or swept, so the spend ledger stays
// complete even when the paired analysis result is deleted.
type AnalysisCostEvent struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`

	AnalysisType string `gorm:"type:varchar(30);not null;index"`

	InputTokens  int `gorm:"not null"`
	OutputTokens int `gorm:"not null"`
	// TotalTokens is always input + output; stored denormalized for rollup queries.
	TotalTokens int `gorm:"not null"`

	EstimatedCost decimal.Decimal `gorm:"type:numeric(12,6);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (AnalysisCostEvent) TableName() string {
	return "ai_analysis_costs"
}
