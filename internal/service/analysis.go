package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/viktorgrom84/trading-notes/internal/aicost"
	"github.com/viktorgrom84/trading-notes/internal/ledger"
	"github.com/viktorgrom84/trading-notes/internal/models"
	"github.com/viktorgrom84/trading-notes/internal/repository"
	"github.com/viktorgrom84/trading-notes/internal/textgen"
)

var (
	ErrNoTrades            = errors.New("no trades to analyze")
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
)

// Analysis types accepted by Analyze.
const (
	AnalysisGeneral    = "general"
	AnalysisRisk       = "risk"
	AnalysisPsychology = "psychology"
	AnalysisStrategy   = "strategy"
)

var systemPrompts = map[string]string{
	AnalysisGeneral: "You are an experienced trading coach. Review the trading " +
		"statistics and trade list below and give an overall assessment of the " +
		"trader's performance, their strongest and weakest habits, and three " +
		"concrete improvements.",
	AnalysisRisk: "You are a risk management specialist. Review the trading " +
		"statistics and trade list below and evaluate position sizing, exposure " +
		"concentration, and loss control. Point out the riskiest patterns and " +
		"suggest specific limits.",
	AnalysisPsychology: "You are a trading psychology coach. Review the trading " +
		"statistics and trade list below and identify behavioral patterns such " +
		"as revenge trading, early exits, or holding losers. Suggest exercises " +
		"to correct them.",
	AnalysisStrategy: "You are a trading strategy analyst. Review the trading " +
		"statistics and trade list below and assess the edge the trader appears " +
		"to be exploiting, where it works, where it fails, and how to sharpen it.",
}

// Analysis is one completed generation run, with the persistence flags
// the caller needs to report partial failures honestly.
type Analysis struct {
	Type       string               `json:"analysisType"`
	Text       string               `json:"analysis"`
	Statistics ledger.Statistics    `json:"statistics"`
	Cost       *costSnapshot        `json:"cost,omitempty"`
	Monthly    *aicost.MonthSummary `json:"monthlyUsage,omitempty"`

	// CostRecorded is false when the cost event could not be persisted.
	CostRecorded bool `json:"costRecorded"`
	// HistoryStored is false when the result row could not be persisted;
	// the cost event is still durable in that case.
	HistoryStored bool `json:"historyStored"`

	GeneratedAt time.Time `json:"generatedAt"`
}

type costSnapshot struct {
	InputTokens   int    `json:"inputTokens"`
	OutputTokens  int    `json:"outputTokens"`
	TotalTokens   int    `json:"totalTokens"`
	EstimatedCost string `json:"estimatedCost"`
}

// AnalysisStore is the slice of the repository Analyze needs.
type AnalysisStore interface {
	ListTradesByUser(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error)
	InsertAnalysisResult(ctx context.Context, item *models.AnalysisResult) error
}

// AnalysisService turns a user's trade ledger into an LLM-backed review
// and accounts for every billable generation call.
type AnalysisService struct {
	Repo  AnalysisStore
	Meter *aicost.Meter
	Gen   textgen.Generator
	Log   *zap.Logger

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *AnalysisService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Analyze runs one generation for the user's full ledger. The cost event
// is written before the result row: a generation that succeeded is
// always billed, even when storing the result afterwards fails.
func (s *AnalysisService) Analyze(ctx context.Context, userID uint64, analysisType string) (*Analysis, error) {
	system, ok := systemPrompts[analysisType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysisType, analysisType)
	}

	trades, err := s.Repo.ListTradesByUser(ctx, repository.ListTradesParams{UserID: userID})
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	stats := ledger.Aggregate(trades)
	prompt := buildPrompt(trades, stats)

	gen, err := s.Gen.Generate(ctx, system, prompt)
	if err != nil {
		// No tokens consumed that we can attest to; no cost event.
		return nil, err
	}

	out := &Analysis{
		Type:        analysisType,
		Text:        gen.Text,
		Statistics:  stats,
		GeneratedAt: s.now(),
	}

	event, err := s.Meter.Record(ctx, userID, analysisType, gen.Usage.InputTokens, gen.Usage.OutputTokens)
	if err != nil {
		s.Log.Warn("analysis cost event not recorded",
			zap.Uint64("user_id", userID),
			zap.String("analysis_type", analysisType),
			zap.Error(err))
	} else {
		out.CostRecorded = true
		out.Cost = &costSnapshot{
			InputTokens:   event.InputTokens,
			OutputTokens:  event.OutputTokens,
			TotalTokens:   event.TotalTokens,
			EstimatedCost: event.EstimatedCost.StringFixed(6),
		}
		if monthly, merr := s.Meter.MonthToDate(ctx, userID); merr == nil {
			out.Monthly = &monthly
		}
	}

	if err := s.storeResult(ctx, userID, out); err != nil {
		s.Log.Warn("analysis result not stored",
			zap.Uint64("user_id", userID),
			zap.String("analysis_type", analysisType),
			zap.Error(err))
	} else {
		out.HistoryStored = true
	}

	return out, nil
}

func (s *AnalysisService) storeResult(ctx context.Context, userID uint64, a *Analysis) error {
	statsJSON, err := json.Marshal(a.Statistics)
	if err != nil {
		return err
	}
	var costJSON datatypes.JSON
	if a.Cost != nil {
		b, err := json.Marshal(a.Cost)
		if err != nil {
			return err
		}
		costJSON = b
	}
	return s.Repo.InsertAnalysisResult(ctx, &models.AnalysisResult{
		UserID:       userID,
		AnalysisType: a.Type,
		AnalysisText: a.Text,
		Statistics:   statsJSON,
		CostData:     costJSON,
	})
}

// buildPrompt renders the aggregate statistics plus a one-line summary
// per trade. Open trades and profit-only imports are labeled so the
// model does not misread them.
func buildPrompt(trades []models.Trade, stats ledger.Statistics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Trading statistics:\n")
	fmt.Fprintf(&b, "- Total trades: %d (%d completed, %d open)\n",
		stats.TotalTrades, stats.CompletedTrades, stats.OpenTrades)
	fmt.Fprintf(&b, "- Total profit: $%.2f\n", stats.TotalProfit)
	fmt.Fprintf(&b, "- Total invested: $%.2f\n", stats.TotalInvested)
	fmt.Fprintf(&b, "- Win rate: %.2f%% (%d winners, %d losers)\n",
		stats.WinRate, stats.WinningTrades, stats.LosingTrades)
	fmt.Fprintf(&b, "- Average profit per trade: $%.2f\n", stats.AvgProfitPerTrade)
	fmt.Fprintf(&b, "- ROI: %.2f%%\n", stats.ROI)
	if stats.CompletedTrades > 0 {
		fmt.Fprintf(&b, "- Best trade: $%.2f, worst trade: $%.2f\n", stats.BestTrade, stats.WorstTrade)
	}

	fmt.Fprintf(&b, "\nTrades:\n")
	for _, c := range ledger.ClassifyAll(trades) {
		b.WriteString("- ")
		b.WriteString(tradeLine(c))
		b.WriteByte('\n')
	}
	return b.String()
}

func tradeLine(c ledger.Classified) string {
	t := c.Raw
	switch c.Variant {
	case ledger.ProfitOnly:
		p, _ := ledger.Profit(c)
		return fmt.Sprintf("%s: imported result, profit $%.2f", t.Symbol, p)
	case ledger.Short:
		if p, ok := ledger.Profit(c); ok {
			return fmt.Sprintf("%s: short %d @ $%.2f, covered @ $%.2f, profit $%.2f",
				t.Symbol, t.Shares, *t.SellPrice, t.BuyPrice, p)
		}
		entry := 0.0
		if t.SellPrice != nil {
			entry = *t.SellPrice
		}
		return fmt.Sprintf("%s: short %d @ $%.2f, still open", t.Symbol, t.Shares, entry)
	default:
		if p, ok := ledger.Profit(c); ok {
			return fmt.Sprintf("%s: long %d @ $%.2f, sold @ $%.2f, profit $%.2f",
				t.Symbol, t.Shares, t.BuyPrice, *t.SellPrice, p)
		}
		return fmt.Sprintf("%s: long %d @ $%.2f, still open", t.Symbol, t.Shares, t.BuyPrice)
	}
}
