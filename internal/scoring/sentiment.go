package scoring

import (
	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
)

// SentimentCalculator reduces a symbol's sentiment records to a
// sentiment category score in [-1, 1]
// ⭐ SSOT: 센티먼트 점수화는 여기서만
type SentimentCalculator struct {
	weights map[string]float64
	logger  *logger.Logger
}

// NewSentimentCalculator creates a new sentiment calculator
func NewSentimentCalculator(cfg *engineconfig.Config, log *logger.Logger) *SentimentCalculator {
	return &SentimentCalculator{
		weights: cfg.SentimentWeights,
		logger:  log,
	}
}

// Calculate scores the symbol from its sentiment records.
// Records must be sorted by timestamp ascending; the latest record wins.
// Sub-scores arrive in [-1, 1] from the feed and are clamped on entry.
func (c *SentimentCalculator) Calculate(symbol string, records []contracts.SentimentRecord) contracts.CategoryScore {
	if len(records) == 0 {
		return contracts.CategoryScore{}
	}

	latest := records[len(records)-1]

	subs := make([]subScore, 0, 3)
	sources := []struct {
		name  string
		value *float64
	}{
		{engineconfig.SentimentNews, latest.NewsScore},
		{engineconfig.SentimentSocial, latest.SocialScore},
		{engineconfig.SentimentAnalyst, latest.AnalystScore},
	}

	for _, s := range sources {
		if !usable(s.value) {
			continue
		}
		subs = append(subs, subScore{
			indicator: s.name,
			value:     clamp(*s.value, -1, 1),
			weight:    c.weights[s.name],
		})
	}

	score := weightedMean(subs)

	c.logger.WithFields(map[string]interface{}{
		"symbol":       symbol,
		"records":      len(records),
		"contributing": score.Contributing,
		"score":        score.Value,
	}).Debug("Calculated sentiment score")

	return score
}
