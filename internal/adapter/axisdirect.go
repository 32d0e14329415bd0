package adapter

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/heuristic"
	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/scorer"
)

// AxisDirect harvests the trade-ideas listing. Axis renders one
// well-structured card per idea (li.shadow-panel), so the structural tier
// reads exact selectors and the loose scan is rarely needed.
type AxisDirect struct {
	sc *scorer.Scorer
}

// NewAxisDirect creates the axisdirect adapter.
func NewAxisDirect(sc *scorer.Scorer) *AxisDirect {
	return &AxisDirect{sc: sc}
}

func (a *AxisDirect) Name() string { return "axisdirect" }
func (a *AxisDirect) URL() string {
	return "https://simplehai.axisdirect.in/research/research-ideas/trade-ideas"
}

// axisSymbolOverrides maps display names that are not usable tickers to
// their exchange symbols.
var axisSymbolOverrides = map[string]string{
	"INDIAN HOTELS CO": "INDHOTEL",
}

var axisEQSuffixRe = regexp.MustCompile(`(?i)\s+EQ$`)

// axisSymbol normalizes the card heading into a ticker: strips the " EQ"
// series suffix and applies manual overrides.
func axisSymbol(text string) string {
	cleaned := strings.TrimSpace(axisEQSuffixRe.ReplaceAllString(strings.TrimSpace(text), ""))
	if mapped, ok := axisSymbolOverrides[strings.ToUpper(cleaned)]; ok {
		return mapped
	}
	return cleaned
}

// Extract pulls leads from the idea cards.
func (a *AxisDirect) Extract(doc *goquery.Document, sourceURL string) []model.Lead {
	var leads []model.Lead

	cards := doc.Find("li.shadow-panel").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		id, _ := sel.Attr("id")
		return strings.HasPrefix(id, "shadow_main_")
	})
	zap.L().Debug("axisdirect: scanning idea cards", zap.Int("count", cards.Length()))

	cards.Each(func(_ int, card *goquery.Selection) {
		safeFragment(a.Name(), func() {
			if lead, built := a.leadFromCard(card, sourceURL); built {
				leads = append(leads, lead)
			}
		})
	})

	if len(leads) == 0 {
		zap.L().Warn("axisdirect: no idea cards found, falling back to loose scan",
			zap.String("url", sourceURL),
		)
		leads = fallbackScan(a.sc, doc, a.Name(), sourceURL)
	}

	return dedupePage(leads)
}

func (a *AxisDirect) leadFromCard(card *goquery.Selection, sourceURL string) (model.Lead, bool) {
	nameTag := card.Find("div.panel-heading-name h5.pro-name a").First()
	if nameTag.Length() == 0 {
		return model.Lead{}, false
	}
	headingText := strings.TrimSpace(nameTag.Text())
	symbol := axisSymbol(headingText)
	if symbol == "" {
		return model.Lead{}, false
	}

	var entry, target, stopLoss *float64

	items := card.Find("div.panel-body ul.pd-list-50 li")
	if items.Length() >= 4 {
		// Entry is published as a range; the lower bound is the entry.
		if rangeTag := items.Eq(1).Find("h4.pro-val-normal").First(); rangeTag.Length() > 0 {
			parts := strings.Split(rangeTag.Text(), "-")
			if len(parts) > 0 {
				entry = heuristic.CleanPrice(parts[0])
			}
		}
		stopLoss = axisPriceByIDPrefix(items.Eq(2), "lossPrice_")
		target = axisPriceByIDPrefix(items.Eq(3), "profitPrice_")
	}

	// Selector drift: recover prices from the card's flattened text.
	if entry == nil && target == nil {
		prices := heuristic.ExtractPrices(heuristic.CleanText(card.Text()))
		entry, target, stopLoss = prices.Entry, prices.Target, prices.StopLoss
	}

	if entry == nil && target == nil {
		return model.Lead{}, false
	}
	if !validSetup(target, stopLoss) {
		return model.Lead{}, false
	}

	growth := heuristic.ComputeGrowth(entry, target)

	lead := model.Lead{
		Symbol:         symbol,
		CompanyName:    headingText,
		EntryPrice:     entry,
		TargetPrice:    target,
		StopLoss:       stopLoss,
		GrowthPercent:  growth,
		Recommendation: heuristic.ClassifyRecommendation(card.Text()),
		Source:         a.Name(),
		URL:            sourceURL,
		RetrievedAt:    time.Now().UTC(),
		RawText:        truncate(heuristic.CleanText(card.Text()), 500),
	}
	lead.Confidence = a.sc.Score(scorer.Evidence{
		Pathway:     scorer.PathwayCard,
		HasSymbol:   true,
		HasEntry:    entry != nil,
		HasTarget:   target != nil,
		HasStopLoss: stopLoss != nil,
		Growth:      growth,
	})
	return lead, true
}

// axisPriceByIDPrefix finds the h4 whose id carries the given prefix and
// parses its text as a price.
func axisPriceByIDPrefix(item *goquery.Selection, prefix string) *float64 {
	var price *float64
	item.Find("h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		id, _ := h.Attr("id")
		if strings.HasPrefix(id, prefix) {
			price = heuristic.CleanPrice(h.Text())
			return false
		}
		return true
	})
	return price
}
