package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/scorer"
)

// KotakSecurities harvests the research-recommendations page: research
// report containers plus occasional summary tables.
type KotakSecurities struct {
	sc *scorer.Scorer
}

// NewKotakSecurities creates the kotak adapter.
func NewKotakSecurities(sc *scorer.Scorer) *KotakSecurities {
	return &KotakSecurities{sc: sc}
}

func (k *KotakSecurities) Name() string { return "kotak" }
func (k *KotakSecurities) URL() string {
	return "https://www.kotaksecurities.com/stock-research-recommendations/"
}

var kotakContainerRe = regexp.MustCompile(`(?i)(research|card|report|stock|equity)`)

// Extract scans research containers and tables, then falls back to the
// loose scan.
func (k *KotakSecurities) Extract(doc *goquery.Document, sourceURL string) []model.Lead {
	var leads []model.Lead

	containers := classPattern(doc, "div, section", kotakContainerRe)
	zap.L().Debug("kotak: scanning research containers", zap.Int("count", containers.Length()))

	containers.Each(func(_ int, c *goquery.Selection) {
		safeFragment(k.Name(), func() {
			text := strings.TrimSpace(c.Text())
			if len(text) < 50 || len(text) > 2000 || !looksLikeRecommendation(text) {
				return
			}
			if lead, built := buildLead(k.sc, scorer.PathwayCard, text, k.Name(), sourceURL); built {
				leads = append(leads, lead)
			}
		})
	})

	leads = append(leads, extractFromTables(k.sc, doc.Find("table"), k.Name(), sourceURL)...)

	if len(leads) == 0 {
		zap.L().Warn("kotak: no structural match, falling back to loose scan",
			zap.String("url", sourceURL),
		)
		leads = fallbackScan(k.sc, doc, k.Name(), sourceURL)
	}

	return dedupePage(leads)
}
