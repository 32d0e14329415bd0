package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPriceByLabel_TargetSynonyms(t *testing.T) {
	p := ExtractPriceByLabel("Target Price: Rs. 1,250.50 over 12 months", TargetLabels)
	require.NotNil(t, p)
	assert.Equal(t, 1250.50, *p)

	p = ExtractPriceByLabel("tgt 880", TargetLabels)
	require.NotNil(t, p)
	assert.Equal(t, 880.0, *p)
}

func TestExtractPriceByLabel_CurrencyMarkers(t *testing.T) {
	p := ExtractPriceByLabel("CMP ₹2,400", EntryLabels)
	require.NotNil(t, p)
	assert.Equal(t, 2400.0, *p)
}

func TestExtractPriceByLabel_BarePriceDoesNotEatTargetLabel(t *testing.T) {
	// "price target 500" must not resolve as an entry price.
	assert.Nil(t, ExtractPriceByLabel("price target 500", EntryLabels))
}

func TestExtractPriceByLabel_NoMatch(t *testing.T) {
	assert.Nil(t, ExtractPriceByLabel("no numbers near any label", StopLossLabels))
}

func TestExtractPrices_LabeledCascade(t *testing.T) {
	ps := ExtractPrices("Buy INFY at CMP 1600, target 1800, stop loss 1520")
	require.NotNil(t, ps.Entry)
	require.NotNil(t, ps.Target)
	require.NotNil(t, ps.StopLoss)
	assert.Equal(t, 1600.0, *ps.Entry)
	assert.Equal(t, 1800.0, *ps.Target)
	assert.Equal(t, 1520.0, *ps.StopLoss)
}

func TestExtractPrices_PositionalFallback(t *testing.T) {
	// No labels at all: first is entry, second is target, min of the rest
	// is stop-loss.
	ps := ExtractPrices("Reliance 2400 2700 2300 2650")
	require.NotNil(t, ps.Entry)
	require.NotNil(t, ps.Target)
	require.NotNil(t, ps.StopLoss)
	assert.Equal(t, 2400.0, *ps.Entry)
	assert.Equal(t, 2700.0, *ps.Target)
	assert.Equal(t, 2300.0, *ps.StopLoss)
}

func TestExtractPrices_PositionalNeedsTwoNumbers(t *testing.T) {
	ps := ExtractPrices("Reliance at 2400 looks promising")
	assert.Nil(t, ps.Entry)
	assert.Nil(t, ps.Target)
	assert.Nil(t, ps.StopLoss)
}

func TestExtractPrices_NoFallbackWhenAnyLabelMatched(t *testing.T) {
	// One labeled hit disables positional assignment entirely.
	ps := ExtractPrices("target 1800 as discussed on 2026 with 9999 views")
	require.NotNil(t, ps.Target)
	assert.Equal(t, 1800.0, *ps.Target)
	assert.Nil(t, ps.Entry)
	assert.Nil(t, ps.StopLoss)
}

func TestExtractPrices_TwoNumbersOnly(t *testing.T) {
	ps := ExtractPrices("somestock 150 180")
	require.NotNil(t, ps.Entry)
	require.NotNil(t, ps.Target)
	assert.Equal(t, 150.0, *ps.Entry)
	assert.Equal(t, 180.0, *ps.Target)
	assert.Nil(t, ps.StopLoss)
}

func TestNumericTokens(t *testing.T) {
	nums := NumericTokens("Rs. 2,400 then 2700.50 and 0 at the end")
	assert.Equal(t, []float64{2400, 2700.50}, nums)
}

func TestNumericTokens_Empty(t *testing.T) {
	assert.Empty(t, NumericTokens("no numbers here"))
}
