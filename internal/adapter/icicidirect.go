package adapter

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/scorer"
)

// ICICIDirect harvests the investing-ideas table. The page carries one
// main ideas table identified by id or theme class.
type ICICIDirect struct {
	sc *scorer.Scorer
}

// NewICICIDirect creates the icicidirect adapter.
func NewICICIDirect(sc *scorer.Scorer) *ICICIDirect {
	return &ICICIDirect{sc: sc}
}

func (i *ICICIDirect) Name() string { return "icicidirect" }
func (i *ICICIDirect) URL() string {
	return "https://www.icicidirect.com/research/equity/investing-ideas"
}

// Extract prefers the dedicated ideas table, then any recognizable table,
// then the loose scan.
func (i *ICICIDirect) Extract(doc *goquery.Document, sourceURL string) []model.Lead {
	var leads []model.Lead

	ideas := doc.Find("table#datatableinvestingideas")
	if ideas.Length() == 0 {
		ideas = doc.Find("table.table-theme2")
	}

	if ideas.Length() > 0 {
		leads = extractFromTables(i.sc, ideas, i.Name(), sourceURL)
	}
	if len(leads) == 0 {
		leads = extractFromTables(i.sc, doc.Find("table"), i.Name(), sourceURL)
	}
	if len(leads) == 0 {
		zap.L().Warn("icicidirect: no ideas table matched, falling back to loose scan",
			zap.String("url", sourceURL),
		)
		leads = fallbackScan(i.sc, doc, i.Name(), sourceURL)
	}

	return dedupePage(leads)
}
