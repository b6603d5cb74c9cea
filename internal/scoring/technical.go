package scoring

import (
	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
)

// TechnicalCalculator reduces a symbol's market observations to a
// technical category score in [-1, 1]
// ⭐ SSOT: 기술적 지표 점수화는 여기서만
type TechnicalCalculator struct {
	weights map[string]float64
	logger  *logger.Logger
}

// NewTechnicalCalculator creates a new technical calculator
func NewTechnicalCalculator(cfg *engineconfig.Config, log *logger.Logger) *TechnicalCalculator {
	return &TechnicalCalculator{
		weights: cfg.TechnicalWeights,
		logger:  log,
	}
}

// Calculate scores the symbol from its market observations.
// Indicators are read from the most recent observation; when a longer
// window is supplied, missing indicator fields are first derived from
// the price series (see series.go). Observations must be sorted by
// timestamp ascending; the latest one wins.
func (c *TechnicalCalculator) Calculate(symbol string, observations []contracts.MarketObservation) contracts.CategoryScore {
	if len(observations) == 0 {
		return contracts.CategoryScore{}
	}

	latest := deriveIndicators(observations)

	subs := make([]subScore, 0, 4)

	// RSI: 0-100 momentum. High = overbought = bearish.
	if usable(latest.RSI) {
		subs = append(subs, subScore{
			indicator: engineconfig.IndicatorRSI,
			value:     clamp((50-*latest.RSI)/50, -1, 1),
			weight:    c.weights[engineconfig.IndicatorRSI],
		})
	}

	// MACD above its signal line = bullish momentum.
	if usable(latest.MACD) && usable(latest.MACDSignal) {
		value := -1.0
		if *latest.MACD > *latest.MACDSignal {
			value = 1.0
		}
		subs = append(subs, subScore{
			indicator: engineconfig.IndicatorMACD,
			value:     value,
			weight:    c.weights[engineconfig.IndicatorMACD],
		})
	}

	// Position within the Bollinger channel, recentered to [-1, 1].
	if usable(latest.BollingerUpper) && usable(latest.BollingerLower) && *latest.BollingerUpper > *latest.BollingerLower {
		position := (latest.Price - *latest.BollingerLower) / (*latest.BollingerUpper - *latest.BollingerLower)
		subs = append(subs, subScore{
			indicator: engineconfig.IndicatorBollinger,
			value:     clamp((position-0.5)*2, -1, 1),
			weight:    c.weights[engineconfig.IndicatorBollinger],
		})
	}

	// Moving-average crossover: short above long = golden cross.
	if usable(latest.MA50) && usable(latest.MA200) {
		value := -1.0
		if *latest.MA50 > *latest.MA200 {
			value = 1.0
		}
		subs = append(subs, subScore{
			indicator: engineconfig.IndicatorMACross,
			value:     value,
			weight:    c.weights[engineconfig.IndicatorMACross],
		})
	}

	score := weightedMean(subs)

	c.logger.WithFields(map[string]interface{}{
		"symbol":       symbol,
		"observations": len(observations),
		"contributing": score.Contributing,
		"score":        score.Value,
	}).Debug("Calculated technical score")

	return score
}
