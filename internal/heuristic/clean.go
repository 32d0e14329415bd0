// Package heuristic is the shared field-extraction library used by every
// site adapter: text normalization, price and symbol recovery, growth
// computation. All functions are pure and never panic on bad input; field
// cascades are ordered rule lists evaluated first-match-wins so new
// patterns are additive.
package heuristic

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	newlineRe = regexp.MustCompile(`\n+`)
	spaceRe   = regexp.MustCompile(`\s+`)
	// Strip everything outside word characters, common punctuation and
	// currency symbols before regex matching.
	disallowedRe = regexp.MustCompile(`[^\w\s.,:;\-₹$%()]`)

	priceStripRe = regexp.MustCompile(`[^\d.]`)
)

// CleanText collapses newlines and runs of whitespace and removes
// characters outside the allow-list. Source markup is wildly inconsistent;
// every extractor runs on cleaned text.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = newlineRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanPrice strips currency symbols, thousands separators and stray
// characters from a raw price string and parses it as a positive float.
// Returns nil for empty input, the NA/N-A/dash sentinels, or anything
// unparsable. Never returns an error.
func CleanPrice(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	switch strings.ToUpper(trimmed) {
	case "NA", "N/A", "-":
		return nil
	}

	cleaned := priceStripRe.ReplaceAllString(trimmed, "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
