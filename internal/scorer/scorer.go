// Package scorer assigns the confidence score attached to every lead.
// Scoring logic exists only here: adapters describe what they found via an
// Evidence value and never do confidence arithmetic themselves.
package scorer

// Pathway identifies how a lead's fields were recovered. Structured
// matches are worth more than loose text scraping.
type Pathway string

const (
	// PathwayTable: a recognized table with mapped header columns.
	PathwayTable Pathway = "table"
	// PathwayCard: a repeated card/list container with known structure.
	PathwayCard Pathway = "card"
	// PathwayFreeText: pattern matching over a flattened text block.
	PathwayFreeText Pathway = "freetext"
)

// Evidence describes which fields were recovered for one candidate lead
// and via which pathway.
type Evidence struct {
	Pathway     Pathway
	HasSymbol   bool
	HasEntry    bool
	HasTarget   bool
	HasStopLoss bool
	// Growth is the derived growth percent, nil when undefined.
	Growth *float64
}

// Config holds the scoring ladder. Floors are absolute values the score is
// raised to (never lowered to), keeping accumulation monotone.
type Config struct {
	TableBase    float64
	CardBase     float64
	FreeTextBase float64

	SymbolDelta float64

	BothPricesFloorTable    float64
	BothPricesFloorCard     float64
	BothPricesFloorFreeText float64

	StopLossFloorTable    float64
	StopLossFloorCard     float64
	StopLossFloorFreeText float64

	// GrowthBand is a tunable business rule: leads whose derived growth
	// falls inside [Min, Max] earn a flat bonus, capped at 1.0.
	GrowthBandMin   float64
	GrowthBandMax   float64
	GrowthBandBonus float64
}

// DefaultConfig returns the scoring ladder used in production.
func DefaultConfig() Config {
	return Config{
		TableBase:    0.7,
		CardBase:     0.6,
		FreeTextBase: 0.5,

		SymbolDelta: 0.05,

		BothPricesFloorTable:    0.85,
		BothPricesFloorCard:     0.8,
		BothPricesFloorFreeText: 0.8,

		StopLossFloorTable:    0.9,
		StopLossFloorCard:     0.85,
		StopLossFloorFreeText: 0.85,

		GrowthBandMin:   7.0,
		GrowthBandMax:   15.0,
		GrowthBandBonus: 0.15,
	}
}

// Scorer computes confidence scores from extraction evidence.
type Scorer struct {
	cfg Config
}

// New creates a Scorer. Zero-valued config fields fall back to defaults.
func New(cfg Config) *Scorer {
	def := DefaultConfig()
	if cfg.TableBase == 0 {
		cfg = def
	}
	return &Scorer{cfg: cfg}
}

// Score computes a confidence in [0, 1]. Each corroborating signal can
// only raise the running score: later rules apply as floors or additive
// bonuses, so adding evidence to an otherwise-identical lead never lowers
// the result. Confidence is advisory ranking input, not a probability.
func (s *Scorer) Score(ev Evidence) float64 {
	score := s.base(ev.Pathway)

	if ev.HasSymbol {
		score = max(score, s.base(ev.Pathway)+s.cfg.SymbolDelta)
	}
	if ev.HasEntry && ev.HasTarget {
		score = max(score, s.floor(ev.Pathway, s.cfg.BothPricesFloorTable, s.cfg.BothPricesFloorCard, s.cfg.BothPricesFloorFreeText))
	}
	if ev.HasStopLoss {
		score = max(score, s.floor(ev.Pathway, s.cfg.StopLossFloorTable, s.cfg.StopLossFloorCard, s.cfg.StopLossFloorFreeText))
	}
	if s.InGrowthBand(ev.Growth) {
		score = min(score+s.cfg.GrowthBandBonus, 1.0)
	}

	return min(max(score, 0), 1)
}

// InGrowthBand reports whether the derived growth falls inside the target
// band. Nil growth is never in band.
func (s *Scorer) InGrowthBand(growth *float64) bool {
	if growth == nil {
		return false
	}
	return *growth >= s.cfg.GrowthBandMin && *growth <= s.cfg.GrowthBandMax
}

func (s *Scorer) base(p Pathway) float64 {
	switch p {
	case PathwayTable:
		return s.cfg.TableBase
	case PathwayCard:
		return s.cfg.CardBase
	default:
		return s.cfg.FreeTextBase
	}
}

func (s *Scorer) floor(p Pathway, table, card, freetext float64) float64 {
	switch p {
	case PathwayTable:
		return table
	case PathwayCard:
		return card
	default:
		return freetext
	}
}
