package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/scorer"
)

// FivePaisa harvests the daily stocks-to-buy-or-sell listing: usually a
// recommendation table, sometimes a stack of pick cards.
type FivePaisa struct {
	sc *scorer.Scorer
}

// NewFivePaisa creates the fivepaisa adapter.
func NewFivePaisa(sc *scorer.Scorer) *FivePaisa {
	return &FivePaisa{sc: sc}
}

func (f *FivePaisa) Name() string { return "fivepaisa" }
func (f *FivePaisa) URL() string {
	return "https://www.5paisa.com/share-market-today/stocks-to-buy-or-sell-today"
}

var fpCardClassRe = regexp.MustCompile(`(?i)(card|recommendation|stock|pick|listing-item)`)

// Extract tries tables first, then pick cards, then the loose scan.
func (f *FivePaisa) Extract(doc *goquery.Document, sourceURL string) []model.Lead {
	leads := extractFromTables(f.sc, doc.Find("table"), f.Name(), sourceURL)

	if len(leads) == 0 {
		cards := classPattern(doc, "div, li", fpCardClassRe)
		zap.L().Debug("fivepaisa: scanning pick cards", zap.Int("count", cards.Length()))

		cards.Each(func(_ int, card *goquery.Selection) {
			safeFragment(f.Name(), func() {
				text := strings.TrimSpace(card.Text())
				if len(text) < 50 || !looksLikeRecommendation(text) {
					return
				}
				if lead, built := buildLead(f.sc, scorer.PathwayCard, text, f.Name(), sourceURL); built {
					leads = append(leads, lead)
				}
			})
		})
	}

	if len(leads) == 0 {
		zap.L().Warn("fivepaisa: no structural match, falling back to loose scan",
			zap.String("url", sourceURL),
		)
		leads = fallbackScan(f.sc, doc, f.Name(), sourceURL)
	}

	return dedupePage(leads)
}
