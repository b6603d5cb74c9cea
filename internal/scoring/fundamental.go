package scoring

import (
	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
)

// FundamentalCalculator reduces a symbol's ratio record to a fundamental
// category score in [-1, 1]
// ⭐ SSOT: 펀더멘털 비율 점수화는 여기서만
type FundamentalCalculator struct {
	weights map[string]float64
	bands   map[string]engineconfig.Band
	logger  *logger.Logger
}

// NewFundamentalCalculator creates a new fundamental calculator
func NewFundamentalCalculator(cfg *engineconfig.Config, log *logger.Logger) *FundamentalCalculator {
	return &FundamentalCalculator{
		weights: cfg.FundamentalWeights,
		bands:   cfg.FundamentalBands,
		logger:  log,
	}
}

// Calculate scores the symbol from its fundamental record.
// Each ratio maps through its configured band by linear interpolation;
// ratios without a value or a band are skipped entirely.
func (c *FundamentalCalculator) Calculate(symbol string, record *contracts.FundamentalRecord) contracts.CategoryScore {
	if record == nil {
		return contracts.CategoryScore{}
	}

	ratios := []struct {
		name  string
		value *float64
	}{
		{engineconfig.RatioPE, record.PERatio},
		{engineconfig.RatioPB, record.PBRatio},
		{engineconfig.RatioDebtToEquity, record.DebtToEquity},
		{engineconfig.RatioROE, record.ROE},
		{engineconfig.RatioProfitMargin, record.ProfitMargin},
	}

	subs := make([]subScore, 0, len(ratios))
	for _, r := range ratios {
		if !usable(r.value) {
			continue
		}
		band, ok := c.bands[r.name]
		if !ok {
			continue
		}
		subs = append(subs, subScore{
			indicator: r.name,
			value:     bandScore(*r.value, band),
			weight:    c.weights[r.name],
		})
	}

	score := weightedMean(subs)

	c.logger.WithFields(map[string]interface{}{
		"symbol":       symbol,
		"contributing": score.Contributing,
		"score":        score.Value,
	}).Debug("Calculated fundamental score")

	return score
}

// bandScore interpolates a ratio linearly across its band.
// HigherIsBetter: lower edge -> -1, upper edge -> +1; otherwise inverted.
// Values outside the band clamp at the edges.
func bandScore(value float64, band engineconfig.Band) float64 {
	position := clamp((value-band.Lower)/(band.Upper-band.Lower), 0, 1)
	if band.HigherIsBetter {
		return position*2 - 1
	}
	return 1 - position*2
}
