package model

import (
	"fmt"
	"time"
)

// Recommendation is the advisory action attached to a lead.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "buy"
	RecommendationSell Recommendation = "sell"
	RecommendationHold Recommendation = "hold"
)

// Lead is one normalized trade recommendation extracted from a source page.
// Leads are immutable once emitted by an adapter: consolidation drops or
// supersedes them but never edits fields in place.
type Lead struct {
	Symbol         string         `json:"symbol,omitempty" csv:"symbol"`
	CompanyName    string         `json:"company_name,omitempty" csv:"company_name"`
	EntryPrice     *float64       `json:"entry_price,omitempty" csv:"entry_price"`
	TargetPrice    *float64       `json:"target_price,omitempty" csv:"target_price"`
	StopLoss       *float64       `json:"stop_loss,omitempty" csv:"stop_loss"`
	GrowthPercent  *float64       `json:"growth_percent,omitempty" csv:"growth_percent"`
	Recommendation Recommendation `json:"recommendation" csv:"recommendation"`
	Confidence     float64        `json:"confidence" csv:"confidence"`
	Source         string         `json:"source" csv:"source"`
	URL            string         `json:"url" csv:"url"`
	RetrievedAt    time.Time      `json:"retrieved_at" csv:"retrieved_at"`
	RawText        string         `json:"raw_text,omitempty" csv:"-"`
}

// Identified reports whether the lead names an instrument at all. A lead
// with neither a symbol nor a company name is invalid and must not be
// emitted by any adapter.
func (l Lead) Identified() bool {
	return l.Symbol != "" || l.CompanyName != ""
}

// DedupeKey is the identity signature used for deduplication: symbol plus
// target price when a symbol was resolved, otherwise company name plus
// target price.
func (l Lead) DedupeKey() string {
	name := l.Symbol
	if name == "" {
		name = l.CompanyName
	}
	if l.TargetPrice != nil {
		return fmt.Sprintf("%s_%.2f", name, *l.TargetPrice)
	}
	return name + "_"
}
