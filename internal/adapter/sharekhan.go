package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/scorer"
)

// Sharekhan harvests the investment-ideas page: call tables plus
// research-call list items.
type Sharekhan struct {
	sc *scorer.Scorer
}

// NewSharekhan creates the sharekhan adapter.
func NewSharekhan(sc *scorer.Scorer) *Sharekhan {
	return &Sharekhan{sc: sc}
}

func (s *Sharekhan) Name() string { return "sharekhan" }
func (s *Sharekhan) URL() string {
	return "https://www.sharekhan.com/market/investment-ideas"
}

var skItemClassRe = regexp.MustCompile(`(?i)(card|call|research|item|recommendation)`)

// Extract runs tables first, then research-call items, then the loose
// scan.
func (s *Sharekhan) Extract(doc *goquery.Document, sourceURL string) []model.Lead {
	leads := extractFromTables(s.sc, doc.Find("table"), s.Name(), sourceURL)

	if len(leads) == 0 {
		items := classPattern(doc, "div, article, li", skItemClassRe)
		zap.L().Debug("sharekhan: scanning call items", zap.Int("count", items.Length()))

		items.Each(func(_ int, item *goquery.Selection) {
			safeFragment(s.Name(), func() {
				text := strings.TrimSpace(item.Text())
				if len(text) < 50 || len(text) > 2000 || !looksLikeRecommendation(text) {
					return
				}
				if lead, built := buildLead(s.sc, scorer.PathwayCard, text, s.Name(), sourceURL); built {
					leads = append(leads, lead)
				}
			})
		})
	}

	if len(leads) == 0 {
		zap.L().Warn("sharekhan: no structural match, falling back to loose scan",
			zap.String("url", sourceURL),
		)
		leads = fallbackScan(s.sc, doc, s.Name(), sourceURL)
	}

	return dedupePage(leads)
}
