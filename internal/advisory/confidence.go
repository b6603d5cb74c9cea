package advisory

import (
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
	"gonum.org/v1/gonum/stat"
)

// ConfidenceEstimator scores how much an advisory signal should be trusted.
// Confidence blends two components:
//
//   - data quality: what share of the configured indicators actually
//     produced a sub-score, with penalties when coverage is thin
//   - agreement: how tightly the contributing categories cluster,
//     measured as 1 minus the population standard deviation of their scores
type ConfidenceEstimator struct {
	cfg    *engineconfig.Config
	logger *logger.Logger
}

func NewConfidenceEstimator(cfg *engineconfig.Config, log *logger.Logger) *ConfidenceEstimator {
	return &ConfidenceEstimator{cfg: cfg, logger: log}
}

// Estimate returns a confidence in [0, 1] for the given category scores.
func (e *ConfidenceEstimator) Estimate(scores CategoryScores) float64 {
	quality := e.quality(scores)
	agreement := e.agreement(scores)
	return clamp01((quality + agreement) / 2)
}

func (e *ConfidenceEstimator) quality(scores CategoryScores) float64 {
	total := e.cfg.TotalConfiguredIndicators()
	if total == 0 {
		return 0
	}
	contributing := scores.TotalContributing()
	quality := float64(contributing) / float64(total)

	// 입력이 최소 개수에 못 미치면 품질을 비례 감점한다.
	if min := e.cfg.MinDataPoints; contributing < min {
		quality *= float64(contributing) / float64(min)
	}
	if th := e.cfg.DataQualityThreshold; th > 0 && quality < th {
		quality *= quality / th
	}
	return clamp01(quality)
}

func (e *ConfidenceEstimator) agreement(scores CategoryScores) float64 {
	values := make([]float64, 0, 3)
	for _, c := range []struct {
		contributed bool
		value       float64
	}{
		{scores.Technical.Contributed(), scores.Technical.Value},
		{scores.Fundamental.Contributed(), scores.Fundamental.Value},
		{scores.Sentiment.Contributed(), scores.Sentiment.Value},
	} {
		if c.contributed {
			values = append(values, c.value)
		}
	}

	// Agreement is undefined with fewer than two categories; fall back
	// to the configured neutral value.
	if len(values) < 2 {
		return e.cfg.NeutralAgreement
	}
	return clamp01(1 - stat.PopStdDev(values, nil))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
