// Package consolidate merges per-source lead lists into one canonical
// ranked set. Leads are immutable values, so the merge is a pure
// reduction performed after all producers have finished.
package consolidate

import (
	"sort"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
)

// Consolidate flattens the per-source lists, deduplicates globally by
// identity signature keeping the highest-confidence lead per signature
// (ties keep the first encountered), and sorts descending by
// (confidence, growth-or-zero). Sources are visited in sorted name order
// so the result is deterministic.
func Consolidate(leadsBySource map[string][]model.Lead) []model.Lead {
	sources := make([]string, 0, len(leadsBySource))
	for source := range leadsBySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var flat []model.Lead
	for _, source := range sources {
		flat = append(flat, leadsBySource[source]...)
	}

	deduped := Dedupe(flat)
	SortRanked(deduped)

	zap.L().Info("consolidate: merged sources",
		zap.Int("sources", len(sources)),
		zap.Int("total", len(flat)),
		zap.Int("unique", len(deduped)),
	)
	return deduped
}

// Dedupe collapses leads sharing an identity signature, keeping strictly
// the highest-confidence one; on equal confidence the first encountered
// survives. Idempotent.
func Dedupe(leads []model.Lead) []model.Lead {
	index := make(map[string]int, len(leads))
	var out []model.Lead
	for _, lead := range leads {
		key := lead.DedupeKey()
		if at, seen := index[key]; seen {
			if lead.Confidence > out[at].Confidence {
				out[at] = lead
			}
			continue
		}
		index[key] = len(out)
		out = append(out, lead)
	}
	return out
}

// SortRanked orders leads descending by confidence, then by growth
// percent with nil treated as zero.
func SortRanked(leads []model.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		if leads[i].Confidence != leads[j].Confidence {
			return leads[i].Confidence > leads[j].Confidence
		}
		return growthOrZero(leads[i]) > growthOrZero(leads[j])
	})
}

func growthOrZero(l model.Lead) float64 {
	if l.GrowthPercent == nil {
		return 0
	}
	return *l.GrowthPercent
}

// Quality returns the leads meeting the confidence threshold, ranked.
// The input is assumed deduplicated; the result shares no backing array
// with it.
func Quality(leads []model.Lead, minConfidence float64) []model.Lead {
	var out []model.Lead
	for _, lead := range leads {
		if lead.Confidence >= minConfidence {
			out = append(out, lead)
		}
	}
	SortRanked(out)
	return out
}

// WithGrowth returns every lead carrying a derived growth percent, sorted
// by confidence. It does not filter by the target growth band: the band
// only matters as a scoring bonus.
func WithGrowth(leads []model.Lead) []model.Lead {
	var out []model.Lead
	for _, lead := range leads {
		if lead.GrowthPercent != nil {
			out = append(out, lead)
		}
	}
	SortRanked(out)
	return out
}
