package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/scorer"
)

// Moneycontrol harvests the stock-ideas listing. The page mixes
// recommendation cards with periodic tabular roundups, so both structural
// pathways run; the generic fallback only kicks in when neither matched.
type Moneycontrol struct {
	sc *scorer.Scorer
}

// NewMoneycontrol creates the moneycontrol adapter.
func NewMoneycontrol(sc *scorer.Scorer) *Moneycontrol {
	return &Moneycontrol{sc: sc}
}

func (m *Moneycontrol) Name() string { return "moneycontrol" }
func (m *Moneycontrol) URL() string {
	return "https://www.moneycontrol.com/markets/stock-ideas/"
}

var mcCardClassRe = regexp.MustCompile(`(?i)(card|stockCardCont|story_list|article_box|stock-idea)`)

// Extract pulls leads from recommendation cards and stock tables.
func (m *Moneycontrol) Extract(doc *goquery.Document, sourceURL string) []model.Lead {
	var leads []model.Lead

	cards := classPattern(doc, "div, article", mcCardClassRe)
	zap.L().Debug("moneycontrol: scanning cards", zap.Int("count", cards.Length()))

	cards.Each(func(_ int, card *goquery.Selection) {
		safeFragment(m.Name(), func() {
			if lead, built := m.leadFromCard(card, sourceURL); built {
				leads = append(leads, lead)
			}
		})
	})

	leads = append(leads, extractFromTables(m.sc, doc.Find("table"), m.Name(), sourceURL)...)

	if len(leads) == 0 {
		zap.L().Warn("moneycontrol: no structural match, falling back to loose scan",
			zap.String("url", sourceURL),
		)
		leads = fallbackScan(m.sc, doc, m.Name(), sourceURL)
	}

	return dedupePage(leads)
}

// leadFromCard extracts one lead from a recommendation card. The heading
// names the stock; labeled price spans are preferred, with free-text
// patterns over the whole card as backup.
func (m *Moneycontrol) leadFromCard(card *goquery.Selection, sourceURL string) (model.Lead, bool) {
	cardText := strings.TrimSpace(card.Text())
	if len(cardText) < 50 {
		return model.Lead{}, false
	}
	if !looksLikeRecommendation(cardText) {
		return model.Lead{}, false
	}

	heading := firstText(card, "h1, h2, h3, h4, a")
	if heading == "" {
		heading = firstText(card, "h5, h6, strong, b")
	}

	symbol := ""
	company := ""
	if heading != "" {
		symbol = bareSymbol(heading)
		company = heading
	}
	if symbol == "" {
		symbol = bareSymbol(cardText)
	}

	lead, built := buildLead(m.sc, scorer.PathwayCard, cardText, m.Name(), sourceURL)
	if !built {
		return model.Lead{}, false
	}

	// The heading-derived identity beats whatever free-text matching
	// guessed, but the scored evidence must reflect the final fields.
	if symbol != "" || company != "" {
		lead.Symbol = symbol
		lead.CompanyName = company
		lead.Confidence = m.sc.Score(scorer.Evidence{
			Pathway:     scorer.PathwayCard,
			HasSymbol:   symbol != "",
			HasEntry:    lead.EntryPrice != nil,
			HasTarget:   lead.TargetPrice != nil,
			HasStopLoss: lead.StopLoss != nil,
			Growth:      lead.GrowthPercent,
		})
	}
	if !lead.Identified() {
		return model.Lead{}, false
	}
	return lead, true
}

// firstText returns the first non-empty trimmed text among the matches.
func firstText(sel *goquery.Selection, selector string) string {
	found := ""
	sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := strings.TrimSpace(s.Text()); t != "" {
			found = t
			return false
		}
		return true
	})
	return found
}
