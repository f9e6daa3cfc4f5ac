package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetentionStore is the slice of the repository the sweeper needs.
type RetentionStore interface {
	DeleteAnalysisResultsBefore(ctx context.Context, before time.Time) (int64, error)
}

// RetentionSweeper deletes stored analysis results older than MaxAge.
// Cost events are deliberately out of scope: the billing ledger is kept
// forever.
type RetentionSweeper struct {
	Repo   RetentionStore
	Log    *zap.Logger
	MaxAge time.Duration
}

func (s *RetentionSweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.MaxAge)
	deleted, err := s.Repo.DeleteAnalysisResultsBefore(ctx, cutoff)
	if err != nil {
		s.Log.Error("analysis result retention sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.Log.Info("analysis result retention sweep",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}
