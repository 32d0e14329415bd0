package heuristic

import (
	"strings"

	"github.com/leadscout/leadscout/internal/model"
)

// recommendationRule maps a keyword group to an action. Groups are tested
// in order; the first group with any keyword present wins.
type recommendationRule struct {
	rec      model.Recommendation
	keywords []string
}

var recommendationRules = []recommendationRule{
	{model.RecommendationBuy, []string{"buy", "bullish", "accumulate"}},
	{model.RecommendationSell, []string{"sell", "bearish", "reduce"}},
	{model.RecommendationHold, []string{"hold", "neutral"}},
}

// ClassifyRecommendation maps free text to buy/sell/hold. Defaults to buy
// when no keyword group matches: most published recommendations are
// implicit buys, so buy is the deliberate fallback, not a sentiment guess.
func ClassifyRecommendation(text string) model.Recommendation {
	lower := strings.ToLower(text)
	for _, rule := range recommendationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.rec
			}
		}
	}
	return model.RecommendationBuy
}
