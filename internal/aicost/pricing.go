// Package aicost meters calls to the text-generation service: it converts
// token usage into a monetary estimate under a fixed rate table and serves
// per-user spend rollups from the append-only cost ledger.
package aicost

import "github.com/shopspring/decimal"

// Per-1000-token rates in USD (GPT-4 Turbo class pricing).
var (
	PricePerKInput  = decimal.RequireFromString("0.01")
	PricePerKOutput = decimal.RequireFromString("0.03")
)

var thousand = decimal.NewFromInt(1000)

// EstimateCost prices one generation call. Pure function of the two token
// counts; the result is stored on the cost event and never recomputed.
func EstimateCost(inputTokens, outputTokens int) decimal.Decimal {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}
	in := decimal.NewFromInt(int64(inputTokens)).Div(thousand).Mul(PricePerKInput)
	out := decimal.NewFromInt(int64(outputTokens)).Div(thousand).Mul(PricePerKOutput)
	return in.Add(out)
}
