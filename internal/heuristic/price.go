package heuristic

import (
	"regexp"
	"strings"
)

// Label synonym sets for the three price fields. Longer labels come first
// so "price target" wins over the bare "price".
var (
	EntryLabels    = []string{"current market price", "current price", "trading at", "priced at", "cmp", "price"}
	TargetLabels   = []string{"price target", "target price", "upside to", "target", "tgt", "tp"}
	StopLossLabels = []string{"stop loss", "stoploss", "sl"}
)

// labeledPriceRes caches one compiled regex per label.
var labeledPriceRes = map[string]*regexp.Regexp{}

func init() {
	all := make([]string, 0, len(EntryLabels)+len(TargetLabels)+len(StopLossLabels))
	all = append(all, EntryLabels...)
	all = append(all, TargetLabels...)
	all = append(all, StopLossLabels...)
	for _, label := range all {
		labeledPriceRes[label] = compileLabelPattern(label)
	}
}

func compileLabelPattern(label string) *regexp.Regexp {
	// Label, optional separator, optional currency marker, then the number.
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `[:\s]*(?:rs\.?|₹)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
}

// ExtractPriceByLabel scans text for a numeric value adjacent to any of the
// given label synonyms. Labels are tried in order; the first label that
// matches anywhere wins. Returns nil when no label matches.
func ExtractPriceByLabel(text string, labels []string) *float64 {
	for _, label := range labels {
		re, ok := labeledPriceRes[label]
		if !ok {
			re = compileLabelPattern(label)
		}
		if m := re.FindStringSubmatch(text); m != nil {
			if p := CleanPrice(m[1]); p != nil {
				return p
			}
		}
	}
	return nil
}

// PriceSet holds the entry/target/stop-loss prices resolved from one text
// block.
type PriceSet struct {
	Entry    *float64
	Target   *float64
	StopLoss *float64
}

var numericTokenRe = regexp.MustCompile(`(?:rs\.?|₹)?\s*([0-9]+(?:,[0-9]+)*(?:\.[0-9]+)?)`)

// ExtractPrices resolves all three price fields from a text block using the
// labeled cascades, then falls back to positional assignment: first number
// is entry, second is target, smallest of the rest is stop-loss. The
// positional heuristic is a known false-positive source (phone numbers,
// dates) and runs only when zero labeled prices matched and at least two
// numeric tokens exist.
func ExtractPrices(text string) PriceSet {
	lower := strings.ToLower(text)
	ps := PriceSet{
		Entry:    ExtractPriceByLabel(lower, EntryLabels),
		Target:   ExtractPriceByLabel(lower, TargetLabels),
		StopLoss: ExtractPriceByLabel(lower, StopLossLabels),
	}
	if ps.Entry != nil || ps.Target != nil || ps.StopLoss != nil {
		return ps
	}

	nums := NumericTokens(text)
	if len(nums) < 2 {
		return ps
	}
	ps.Entry = &nums[0]
	ps.Target = &nums[1]
	if len(nums) >= 3 {
		min := nums[2]
		for _, n := range nums[3:] {
			if n < min {
				min = n
			}
		}
		ps.StopLoss = &min
	}
	return ps
}

// NumericTokens returns every parseable positive number in the text, in
// order of appearance.
func NumericTokens(text string) []float64 {
	var out []float64
	for _, m := range numericTokenRe.FindAllStringSubmatch(text, -1) {
		if p := CleanPrice(m[1]); p != nil {
			out = append(out, *p)
		}
	}
	return out
}
