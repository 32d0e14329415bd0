package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadscout/leadscout/internal/model"
)

func TestClassifyRecommendation(t *testing.T) {
	cases := []struct {
		text string
		want model.Recommendation
	}{
		{"Buy Reliance with target 2700", model.RecommendationBuy},
		{"analysts turn bullish on IT", model.RecommendationBuy},
		{"accumulate on dips", model.RecommendationBuy},
		{"Sell Yes Bank below 20", model.RecommendationSell},
		{"bearish setup on the daily chart", model.RecommendationSell},
		{"reduce exposure to metals", model.RecommendationSell},
		{"hold existing positions", model.RecommendationHold},
		{"neutral stance for now", model.RecommendationHold},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyRecommendation(tc.text), "text=%q", tc.text)
	}
}

func TestClassifyRecommendation_BuyBeatsSellOnTie(t *testing.T) {
	// Group order decides when both keyword groups appear.
	assert.Equal(t, model.RecommendationBuy, ClassifyRecommendation("buy now, sell later"))
}

func TestClassifyRecommendation_DefaultsToBuy(t *testing.T) {
	assert.Equal(t, model.RecommendationBuy, ClassifyRecommendation("target 2700 stop 2300"))
}
