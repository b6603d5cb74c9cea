package advisory

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
)

// CategoryScores collects the per-category results for one symbol.
type CategoryScores struct {
	Technical   contracts.CategoryScore
	Fundamental contracts.CategoryScore
	Sentiment   contracts.CategoryScore
}

// Contributing returns how many categories produced at least one sub-score.
func (s CategoryScores) Contributing() int {
	n := 0
	for _, c := range []contracts.CategoryScore{s.Technical, s.Fundamental, s.Sentiment} {
		if c.Contributed() {
			n++
		}
	}
	return n
}

// TotalContributing returns the total number of sub-scores across all categories.
func (s CategoryScores) TotalContributing() int {
	return s.Technical.Contributing + s.Fundamental.Contributing + s.Sentiment.Contributing
}

// Aggregator combines category scores into one overall score and maps it
// onto a discrete signal type.
//
// ⭐ SSOT: 카테고리 가중치와 임계값은 engineconfig.Config에서만 온다.
type Aggregator struct {
	weights    engineconfig.CategoryWeights
	thresholds engineconfig.Thresholds
	logger     *logger.Logger
}

func NewAggregator(cfg *engineconfig.Config, log *logger.Logger) *Aggregator {
	return &Aggregator{
		weights:    cfg.CategoryWeights,
		thresholds: cfg.Thresholds,
		logger:     log,
	}
}

// Overall computes the weighted mean of the category scores, renormalized
// over the categories that actually contributed. A category whose weight is
// zero, or which produced no sub-scores, is excluded from both numerator and
// denominator so missing data never drags the score toward zero.
func (a *Aggregator) Overall(scores CategoryScores) float64 {
	type pair struct {
		score  contracts.CategoryScore
		weight float64
	}
	pairs := []pair{
		{scores.Technical, a.weights.Technical},
		{scores.Fundamental, a.weights.Fundamental},
		{scores.Sentiment, a.weights.Sentiment},
	}

	var sum, weightSum float64
	for _, p := range pairs {
		if !p.score.Contributed() || p.weight <= 0 {
			continue
		}
		sum += p.score.Value * p.weight
		weightSum += p.weight
	}
	if weightSum == 0 {
		return 0
	}
	return clampScore(sum / weightSum)
}

// Classify maps an overall score onto a signal type by walking the band
// lower bounds from most positive to most negative and returning the first
// band the score meets or exceeds. Every lower bound is inclusive, so a
// score sitting exactly on a boundary lands in the higher band.
func (a *Aggregator) Classify(score float64) contracts.SignalType {
	t := a.thresholds
	switch {
	case score >= t.StrongBuy:
		return contracts.StrongBuy
	case score >= t.Buy:
		return contracts.Buy
	case score >= t.HoldMin:
		return contracts.Hold
	case score >= t.Sell:
		return contracts.Sell
	default:
		return contracts.StrongSell
	}
}

// Rationale renders a deterministic one-line explanation of the scoring
// inputs. Same inputs always produce the same string.
func (a *Aggregator) Rationale(scores CategoryScores, overall float64, signal contracts.SignalType) string {
	type entry struct {
		name  string
		score contracts.CategoryScore
	}
	entries := []entry{
		{"technical", scores.Technical},
		{"fundamental", scores.Fundamental},
		{"sentiment", scores.Sentiment},
	}

	parts := make([]string, 0, len(entries))
	dominant := ""
	dominantAbs := -1.0
	for _, e := range entries {
		if !e.score.Contributed() {
			parts = append(parts, fmt.Sprintf("%s: no data", e.name))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.2f (%d inputs)", e.name, e.score.Value, e.score.Contributing))
		if abs := math.Abs(e.score.Value); abs > dominantAbs {
			dominantAbs = abs
			dominant = e.name
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, ", "))
	if dominant != "" {
		fmt.Fprintf(&b, "; %s dominates", dominant)
	}
	fmt.Fprintf(&b, "; overall %.2f => %s", overall, signal)
	return b.String()
}

func clampScore(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
