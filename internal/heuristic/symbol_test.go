package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSymbol_NSENotation(t *testing.T) {
	assert.Equal(t, "RELIANCE", ExtractSymbol("Buy NSE:RELIANCE at 2400"))
	assert.Equal(t, "TCS", ExtractSymbol("listed as NSE/TCS on the exchange"))
}

func TestExtractSymbol_BSENotation(t *testing.T) {
	assert.Equal(t, "INFY", ExtractSymbol("quoted BSE:INFY today"))
}

func TestExtractSymbol_LabeledPrefix(t *testing.T) {
	assert.Equal(t, "HDFCBANK", ExtractSymbol("Symbol: HDFCBANK looks strong"))
	assert.Equal(t, "WIPRO", ExtractSymbol("stock WIPRO gains momentum"))
}

func TestExtractSymbol_BareTokenSkipsStopList(t *testing.T) {
	// BUY and CMP look like tickers but are jargon.
	assert.Equal(t, "TCS", ExtractSymbol("BUY TCS CMP 3500"))
}

func TestExtractSymbol_OnlyStopListedTokens(t *testing.T) {
	assert.Equal(t, "", ExtractSymbol("BUY NSE CMP SL TGT"))
}

func TestExtractSymbol_AlnumVariant(t *testing.T) {
	assert.Equal(t, "IDEA2", ExtractSymbol("intraday call on IDEA2 today"))
}

func TestExtractSymbol_NothingFound(t *testing.T) {
	assert.Equal(t, "", ExtractSymbol("no tickers mentioned here at all"))
}

func TestIsStopListed(t *testing.T) {
	assert.True(t, IsStopListed("buy"))
	assert.True(t, IsStopListed("CMP"))
	assert.False(t, IsStopListed("RELIANCE"))
}

func TestExtractCompanyName_CorporateSuffix(t *testing.T) {
	assert.Equal(t, "Tata Motors Ltd", ExtractCompanyName("the brokerage likes Tata Motors Ltd for the long term"))
	assert.Equal(t, "Avenue Supermarts Limited", ExtractCompanyName("Avenue Supermarts Limited reported strong results"))
}

func TestExtractCompanyName_SharesMention(t *testing.T) {
	assert.Equal(t, "Infosys", ExtractCompanyName("Infosys shares rallied after the results"))
}

func TestExtractCompanyName_CapitalizedRun(t *testing.T) {
	assert.Equal(t, "Bajaj Finance Company", ExtractCompanyName("analysts like Bajaj Finance Company this quarter"))
}

func TestExtractCompanyName_NothingFound(t *testing.T) {
	assert.Equal(t, "", ExtractCompanyName("nothing capitalized in this sentence"))
}
