package heuristic

import "github.com/shopspring/decimal"

// ComputeGrowth derives the percent move from entry to target, rounded to
// exactly two decimals. Nil unless both prices are present and entry is
// positive; growth is never an independent input.
func ComputeGrowth(entry, target *float64) *float64 {
	if entry == nil || target == nil || *entry <= 0 {
		return nil
	}
	e := decimal.NewFromFloat(*entry)
	t := decimal.NewFromFloat(*target)
	g, _ := t.Sub(e).Div(e).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return &g
}
