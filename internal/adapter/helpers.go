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

// recommendationHint gates the loose fallback pass: a container is only
// worth field extraction if its flattened text smells like a trade call.
var recommendationHint = regexp.MustCompile(`(?i)\b(buy|sell|hold|target|cmp|recommendation)\b`)

func looksLikeRecommendation(text string) bool {
	return recommendationHint.MatchString(text)
}

// validSetup rejects fragments whose target does not exceed the stop-loss
// when both are present. Such a row is an invalid trade, not a lead.
func validSetup(target, stopLoss *float64) bool {
	if target != nil && stopLoss != nil && *target <= *stopLoss {
		return false
	}
	return true
}

// safeFragment runs fn and swallows panics so one malformed fragment never
// takes down the rest of the page.
func safeFragment(source string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("adapter: fragment parse panic, skipping",
				zap.String("source", source),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

// buildLead assembles a lead from a flattened text block using the shared
// heuristics, scoring it for the given pathway. Returns false when the
// fragment does not yield a valid lead (no identity, no price, or an
// invalid trade setup).
func buildLead(sc *scorer.Scorer, pathway scorer.Pathway, text, source, sourceURL string) (model.Lead, bool) {
	cleaned := heuristic.CleanText(text)

	symbol := heuristic.ExtractSymbol(cleaned)
	company := ""
	if symbol == "" {
		company = heuristic.ExtractCompanyName(cleaned)
	}
	if symbol == "" && company == "" {
		return model.Lead{}, false
	}

	prices := heuristic.ExtractPrices(cleaned)
	if prices.Entry == nil && prices.Target == nil {
		return model.Lead{}, false
	}
	if !validSetup(prices.Target, prices.StopLoss) {
		return model.Lead{}, false
	}

	growth := heuristic.ComputeGrowth(prices.Entry, prices.Target)

	lead := model.Lead{
		Symbol:         symbol,
		CompanyName:    company,
		EntryPrice:     prices.Entry,
		TargetPrice:    prices.Target,
		StopLoss:       prices.StopLoss,
		GrowthPercent:  growth,
		Recommendation: heuristic.ClassifyRecommendation(cleaned),
		Source:         source,
		URL:            sourceURL,
		RetrievedAt:    time.Now().UTC(),
		RawText:        truncate(cleaned, 500),
	}
	lead.Confidence = sc.Score(scorer.Evidence{
		Pathway:     pathway,
		HasSymbol:   symbol != "",
		HasEntry:    prices.Entry != nil,
		HasTarget:   prices.Target != nil,
		HasStopLoss: prices.StopLoss != nil,
		Growth:      growth,
	})
	return lead, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// tableColumns maps recognized header keywords to column indexes.
type tableColumns struct {
	company        int
	entry          int
	target         int
	stopLoss       int
	recommendation int
}

func newTableColumns() tableColumns {
	return tableColumns{company: -1, entry: -1, target: -1, stopLoss: -1, recommendation: -1}
}

var tableHeaderHint = []string{"stock", "company", "symbol", "scrip", "reco", "target", "price"}

// mapTableColumns inspects a header row and maps columns by keyword.
// Returns false when the header does not look like a recommendation table.
func mapTableColumns(headers []string) (tableColumns, bool) {
	hinted := false
	for _, h := range headers {
		for _, kw := range tableHeaderHint {
			if strings.Contains(h, kw) {
				hinted = true
			}
		}
	}
	if !hinted {
		return tableColumns{}, false
	}

	cols := newTableColumns()
	for i, h := range headers {
		switch {
		case containsAny(h, "company", "stock", "scrip", "symbol"):
			cols.company = pick(cols.company, i)
		case containsAny(h, "target", "tgt"):
			cols.target = pick(cols.target, i)
		case containsAny(h, "stop", "sl"):
			cols.stopLoss = pick(cols.stopLoss, i)
		case containsAny(h, "cmp", "ltp", "current", "price"):
			cols.entry = pick(cols.entry, i)
		case containsAny(h, "view", "recommendation", "call", "reco"):
			cols.recommendation = pick(cols.recommendation, i)
		}
	}
	return cols, true
}

// pick keeps the first mapped column for a field.
func pick(current, candidate int) int {
	if current >= 0 {
		return current
	}
	return candidate
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractFromTables runs the structured table pathway over the given
// table selection: header-mapped columns first, positional price guessing
// as the in-row fallback.
func extractFromTables(sc *scorer.Scorer, tables *goquery.Selection, source, sourceURL string) []model.Lead {
	var leads []model.Lead

	tables.Each(func(_ int, table *goquery.Selection) {
		safeFragment(source, func() {
			rows := table.Find("tr")
			if rows.Length() <= 1 {
				return
			}

			var headers []string
			rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				headers = append(headers, strings.ToLower(strings.TrimSpace(cell.Text())))
			})
			cols, ok := mapTableColumns(headers)
			if !ok {
				return
			}

			rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
				safeFragment(source, func() {
					if lead, built := leadFromTableRow(sc, cols, row, source, sourceURL); built {
						leads = append(leads, lead)
					}
				})
			})
		})
	})

	return leads
}

// leadFromTableRow builds one lead from a mapped table row.
func leadFromTableRow(sc *scorer.Scorer, cols tableColumns, row *goquery.Selection, source, sourceURL string) (model.Lead, bool) {
	var cells []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	if len(cells) < 3 {
		return model.Lead{}, false
	}

	cellAt := func(idx int) string {
		if idx >= 0 && idx < len(cells) {
			return cells[idx]
		}
		return ""
	}

	companyText := cellAt(cols.company)
	if companyText == "" {
		companyText = cells[0]
	}
	companyText = heuristic.CleanText(companyText)

	symbol := bareSymbol(companyText)
	companyName := companyText

	entry := heuristic.CleanPrice(cellAt(cols.entry))
	target := heuristic.CleanPrice(cellAt(cols.target))
	stopLoss := heuristic.CleanPrice(cellAt(cols.stopLoss))

	// Column mapping failed on prices: collect numbers across the row and
	// guess first=entry, second=target.
	if entry == nil && target == nil {
		var nums []float64
		for _, c := range cells {
			nums = append(nums, heuristic.NumericTokens(c)...)
		}
		if len(nums) >= 2 {
			entry = &nums[0]
			target = &nums[1]
		}
	}

	if symbol == "" && companyName == "" {
		return model.Lead{}, false
	}
	if entry == nil && target == nil {
		return model.Lead{}, false
	}
	if !validSetup(target, stopLoss) {
		return model.Lead{}, false
	}

	rec := model.RecommendationBuy
	if recText := cellAt(cols.recommendation); recText != "" {
		rec = heuristic.ClassifyRecommendation(recText)
	} else {
		for _, c := range cells {
			lower := strings.ToLower(c)
			if containsAny(lower, "buy", "bullish") {
				rec = model.RecommendationBuy
				break
			}
			if containsAny(lower, "sell", "bearish") {
				rec = model.RecommendationSell
				break
			}
			if containsAny(lower, "hold", "neutral") {
				rec = model.RecommendationHold
				break
			}
		}
	}

	growth := heuristic.ComputeGrowth(entry, target)

	lead := model.Lead{
		Symbol:         symbol,
		CompanyName:    companyName,
		EntryPrice:     entry,
		TargetPrice:    target,
		StopLoss:       stopLoss,
		GrowthPercent:  growth,
		Recommendation: rec,
		Source:         source,
		URL:            sourceURL,
		RetrievedAt:    time.Now().UTC(),
		RawText:        truncate(strings.Join(cells, " | "), 500),
	}
	lead.Confidence = sc.Score(scorer.Evidence{
		Pathway:     scorer.PathwayTable,
		HasSymbol:   symbol != "",
		HasEntry:    entry != nil,
		HasTarget:   target != nil,
		HasStopLoss: stopLoss != nil,
		Growth:      growth,
	})
	return lead, true
}

var bareSymbolRe = regexp.MustCompile(`\b([A-Z]{2,8})\b`)

// bareSymbol pulls the first non-stop-listed uppercase token out of a
// heading or company cell.
func bareSymbol(text string) string {
	for _, m := range bareSymbolRe.FindAllStringSubmatch(text, -1) {
		if !heuristic.IsStopListed(m[1]) {
			return m[1]
		}
	}
	return ""
}

// classPattern matches container elements whose class attribute matches
// the pattern. goquery has no regex selector, so this filters manually.
func classPattern(doc *goquery.Document, elements string, re *regexp.Regexp) *goquery.Selection {
	return doc.Find(elements).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return re.MatchString(class)
	})
}

// fallbackScan is the loose second tier shared by every adapter: when the
// structural pass found nothing, scan generic containers whose text passes
// the recommendation keyword gate and run free-text extraction on each.
func fallbackScan(sc *scorer.Scorer, doc *goquery.Document, source, sourceURL string) []model.Lead {
	var leads []model.Lead
	doc.Find("div, article, li, section").Each(func(_ int, sel *goquery.Selection) {
		safeFragment(source, func() {
			text := strings.TrimSpace(sel.Text())
			if len(text) < 50 || len(text) > 2000 {
				return
			}
			if sel.Children().Length() > 10 {
				// Big layout containers repeat their descendants' text.
				return
			}
			if !looksLikeRecommendation(text) {
				return
			}
			if lead, built := buildLead(sc, scorer.PathwayFreeText, text, source, sourceURL); built {
				leads = append(leads, lead)
			}
		})
	})
	return leads
}

// dedupePage collapses duplicates within a single page's results, keeping
// the highest-confidence lead per identity signature. Encounter order is
// preserved for the survivors.
func dedupePage(leads []model.Lead) []model.Lead {
	best := make(map[string]int, len(leads))
	var out []model.Lead
	for _, lead := range leads {
		key := lead.DedupeKey()
		if idx, seen := best[key]; seen {
			if lead.Confidence > out[idx].Confidence {
				out[idx] = lead
			}
			continue
		}
		best[key] = len(out)
		out = append(out, lead)
	}
	return out
}
