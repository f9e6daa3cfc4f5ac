package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisResult is the immutable record of one generated analysis,
// created alongside its paired cost event and deletable independently.
type AnalysisResult struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`

	AnalysisType string `gorm:"type:varchar(30);not null;index"`
	AnalysisText string `gorm:"type:text;not null"`

	Statistics datatypes.JSON `gorm:"type:jsonb"`
	CostData   datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (AnalysisResult) TableName() string {
	return "ai_analysis_results"
}
