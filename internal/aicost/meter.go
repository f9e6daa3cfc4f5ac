package aicost

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/viktorgrom84/trading-notes/internal/models"
	"github.com/viktorgrom84/trading-notes/internal/repository"
)

// MonthSummary is the month-to-date spend rollup for one user.
type MonthSummary struct {
	TotalAnalyses int             `json:"totalAnalyses"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	AvgCost       decimal.Decimal `json:"averageCostPerAnalysis"`
}

// DailyUsage is one calendar-day bucket of the last-7-days rollup.
type DailyUsage struct {
	Date     string          `json:"date"`
	Analyses int             `json:"analyses"`
	Cost     decimal.Decimal `json:"cost"`
}

// EventStore is the slice of the repository the meter needs.
type EventStore interface {
	InsertCostEvent(ctx context.Context, item *models.AnalysisCostEvent) error
	ListCostEventsByUser(ctx context.Context, params repository.ListCostEventsParams) ([]models.AnalysisCostEvent, error)
}

// Meter records priced generation events and answers spend queries.
// Rollups filter the ledger at query time rather than maintaining a
// cached window, so they are always current.
type Meter struct {
	Repo EventStore

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (m *Meter) now() time.Time {
	if m != nil && m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

// Record appends one cost event for a completed generation call. The
// event is append-only: it is never updated or merged, and survives even
// when the paired analysis result is lost or deleted.
func (m *Meter) Record(ctx context.Context, userID uint64, analysisType string, inputTokens, outputTokens int) (*models.AnalysisCostEvent, error) {
	event := &models.AnalysisCostEvent{
		UserID:        userID,
		AnalysisType:  analysisType,
		InputTokens:   inputTokens,
		OutputTokens:  outputTokens,
		TotalTokens:   inputTokens + outputTokens,
		EstimatedCost: EstimateCost(inputTokens, outputTokens),
	}
	if err := m.Repo.InsertCostEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// MonthToDate rolls up the current calendar month's events for a user.
// An empty month yields the all-zero summary.
func (m *Meter) MonthToDate(ctx context.Context, userID uint64) (MonthSummary, error) {
	now := m.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	events, err := m.Repo.ListCostEventsByUser(ctx, repository.ListCostEventsParams{
		UserID: userID,
		Since:  &monthStart,
	})
	if err != nil {
		return MonthSummary{}, err
	}

	summary := MonthSummary{
		TotalCost: decimal.Zero,
		AvgCost:   decimal.Zero,
	}
	for _, e := range events {
		summary.TotalAnalyses++
		summary.TotalCost = summary.TotalCost.Add(e.EstimatedCost)
	}
	if summary.TotalAnalyses > 0 {
		summary.AvgCost = summary.TotalCost.Div(decimal.NewFromInt(int64(summary.TotalAnalyses)))
	}
	return summary, nil
}

// Last7Days buckets the user's events by calendar day, today included,
// most recent day first. Days without events appear as explicit zero
// buckets so consumers never have to infer missing days.
func (m *Meter) Last7Days(ctx context.Context, userID uint64) ([]DailyUsage, error) {
	now := m.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowStart := today.AddDate(0, 0, -6)

	events, err := m.Repo.ListCostEventsByUser(ctx, repository.ListCostEventsParams{
		UserID: userID,
		Since:  &windowStart,
	})
	if err != nil {
		return nil, err
	}

	byDay := map[string]*DailyUsage{}
	out := make([]DailyUsage, 0, 7)
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, DailyUsage{Date: d, Cost: decimal.Zero})
		byDay[d] = &out[len(out)-1]
	}
	for _, e := range events {
		key := e.CreatedAt.UTC().Format("2006-01-02")
		bucket, ok := byDay[key]
		if !ok {
			continue
		}
		bucket.Analyses++
		bucket.Cost = bucket.Cost.Add(e.EstimatedCost)
	}
	return out, nil
}
