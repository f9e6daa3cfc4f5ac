// Package ledger turns persisted trade rows into classified positions,
// realized profit figures and portfolio-level statistics. Everything in
// this package is a pure computation over its input: no storage, no
// locking, no caching between calls.
package ledger

import (
	"github.com/viktorgrom84/trading-notes/internal/models"
)

// Variant is the resolved kind of a trade row.
type Variant int

const (
	Long Variant = iota
	Short
	ProfitOnly
)

func (v Variant) String() string {
	switch v {
	case Short:
		return "short"
	case ProfitOnly:
		return "profit_only"
	default:
		return "long"
	}
}

// Classified pairs a trade with its resolved variant. It is derived fresh
// on every read and never persisted.
type Classified struct {
	Variant Variant
	Raw     models.Trade
}

// Classify resolves the variant of a stored trade. The function is total:
// every row maps to exactly one variant, in priority order -- explicit
// profit_only tag, then the legacy sentinel heuristic for untagged rows,
// then the short position flag, then long.
func Classify(t models.Trade) Classified {
	switch {
	case t.TradeType == models.TradeTypeProfitOnly:
		return Classified{Variant: ProfitOnly, Raw: t}
	case t.TradeType == "" && looksProfitOnly(t):
		return Classified{Variant: ProfitOnly, Raw: t}
	case t.PositionType == models.PositionShort:
		return Classified{Variant: Short, Raw: t}
	default:
		return Classified{Variant: Long, Raw: t}
	}
}

// ClassifyAll classifies a whole ledger in input order.
func ClassifyAll(trades []models.Trade) []Classified {
	out := make([]Classified, 0, len(trades))
	for _, t := range trades {
		out = append(out, Classify(t))
	}
	return out
}

// looksProfitOnly is the pre-migration sentinel heuristic, applied only to
// rows without an explicit trade_type. A genuine 1-share zero-cost-basis
// fill would misclassify here, which is why new writes always carry the
// tag and the heuristic stays a read-time shim.
func looksProfitOnly(t models.Trade) bool {
	return t.Shares == 1 && t.BuyPrice == 0 && t.SellPrice != nil && *t.SellPrice != 0
}
