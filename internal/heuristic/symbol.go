package heuristic

import (
	"regexp"
	"strings"
)

// symbolStopList holds uppercase tokens that look like tickers but are
// market jargon, label text, or common words.
var symbolStopList = map[string]struct{}{
	"NSE": {}, "BSE": {}, "BUY": {}, "SELL": {}, "CMP": {}, "HOLD": {},
	"SL": {}, "TGT": {}, "MRP": {}, "INR": {}, "THE": {}, "FOR": {}, "LTD": {},
}

// symbolRule is one pattern in the ordered symbol cascade. Rules are tried
// in priority order; the first rule producing a non-stop-listed match wins.
type symbolRule struct {
	name string
	re   *regexp.Regexp
}

var symbolRules = []symbolRule{
	{"nse_notation", regexp.MustCompile(`NSE[:/]([A-Z]{2,8})\b`)},
	{"bse_notation", regexp.MustCompile(`BSE[:/]([A-Z]{2,8})\b`)},
	{"labeled", regexp.MustCompile(`(?i:stock|ticker|symbol)[:\s]+([A-Z]{2,8})\b`)},
	{"bare_token", regexp.MustCompile(`\b([A-Z]{2,8})\b`)},
	{"alnum_token", regexp.MustCompile(`\b([A-Z]{2,6}[0-9]{1,2})\b`)},
}

// ExtractSymbol recovers an exchange ticker from free text. It tries
// explicit NSE:/BSE: notation, then a labeled "symbol:"/"ticker:" prefix,
// then bare uppercase tokens, then the letters-plus-digits variant.
// Returns "" when nothing survives the stop-list.
func ExtractSymbol(text string) string {
	for _, rule := range symbolRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			candidate := m[1]
			if _, stopped := symbolStopList[candidate]; stopped {
				continue
			}
			return candidate
		}
	}
	return ""
}

// IsStopListed reports whether the token is excluded from symbol
// candidacy. Exposed for adapters that pre-filter heading tokens.
func IsStopListed(token string) bool {
	_, ok := symbolStopList[strings.ToUpper(token)]
	return ok
}

var companyRules = []*regexp.Regexp{
	// Capitalized run ending in a corporate suffix.
	regexp.MustCompile(`([A-Z][A-Za-z\s]+?(?:Ltd|Limited|Corp|Corporation|Pvt|Private|Inc|Incorporated))\b`),
	// Capitalized name followed by a share/stock mention.
	regexp.MustCompile(`([A-Z][A-Za-z]{2,}(?:\s+[A-Z][A-Za-z]+)*)\s+(?:shares|stock)\b`),
	// Any three or more consecutive capitalized words.
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+){2,})`),
}

// ExtractCompanyName recovers a company name from free text. Only useful
// when no symbol was found; adapters call it as the fallback identity.
func ExtractCompanyName(text string) string {
	for _, re := range companyRules {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
