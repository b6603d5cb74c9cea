package advisory

import (
	"math"
	"testing"

	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
)

func TestEstimateFullDataFullAgreement(t *testing.T) {
	est := NewConfidenceEstimator(engineconfig.Default(), logger.NewNop())

	// All 12 configured indicators contributed and all categories agree.
	scores := CategoryScores{
		Technical:   cs(0.9, 4),
		Fundamental: cs(0.9, 5),
		Sentiment:   cs(0.9, 3),
	}
	if got := est.Estimate(scores); math.Abs(got-1.0) > scoreEpsilon {
		t.Errorf("Estimate() = %v, want 1.0", got)
	}
}

func TestEstimateDisagreementLowersConfidence(t *testing.T) {
	est := NewConfidenceEstimator(engineconfig.Default(), logger.NewNop())

	agree := est.Estimate(CategoryScores{
		Technical:   cs(0.9, 4),
		Fundamental: cs(0.9, 5),
		Sentiment:   cs(0.9, 3),
	})
	disagree := est.Estimate(CategoryScores{
		Technical:   cs(1.0, 4),
		Fundamental: cs(-1.0, 5),
		Sentiment:   cs(0.0, 3),
	})
	if disagree >= agree {
		t.Errorf("disagreeing categories gave confidence %v >= agreeing %v", disagree, agree)
	}
}

func TestEstimateSingleCategoryUsesNeutralAgreement(t *testing.T) {
	cfg := engineconfig.Default()
	est := NewConfidenceEstimator(cfg, logger.NewNop())

	scores := CategoryScores{Technical: cs(0.5, 2)}

	// quality = 2/12, then scaled by quality/threshold since it is
	// below the 0.6 quality threshold; agreement falls back to neutral.
	quality := (2.0 / 12.0) * ((2.0 / 12.0) / cfg.DataQualityThreshold)
	want := (quality + cfg.NeutralAgreement) / 2
	if got := est.Estimate(scores); math.Abs(got-want) > scoreEpsilon {
		t.Errorf("Estimate() = %v, want %v", got, want)
	}
}

func TestEstimateMinDataPointsPenalty(t *testing.T) {
	base := engineconfig.Default()
	strict := engineconfig.Default()
	strict.MinDataPoints = 8

	scores := CategoryScores{
		Technical: cs(0.5, 2),
		Sentiment: cs(0.5, 2),
	}
	loose := NewConfidenceEstimator(base, logger.NewNop()).Estimate(scores)
	penalized := NewConfidenceEstimator(strict, logger.NewNop()).Estimate(scores)
	if penalized >= loose {
		t.Errorf("min_data_points penalty did not lower confidence: %v >= %v", penalized, loose)
	}
}

func TestEstimateNoConfiguredIndicators(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.TechnicalWeights = nil
	cfg.FundamentalWeights = nil
	cfg.SentimentWeights = nil
	est := NewConfidenceEstimator(cfg, logger.NewNop())

	// quality is 0; agreement over {0.5, 0.5} is 1; confidence = 0.5
	got := est.Estimate(CategoryScores{Technical: cs(0.5, 2), Sentiment: cs(0.5, 1)})
	if math.Abs(got-0.5) > scoreEpsilon {
		t.Errorf("Estimate() = %v, want 0.5", got)
	}
}

func TestEstimateAlwaysInRange(t *testing.T) {
	est := NewConfidenceEstimator(engineconfig.Default(), logger.NewNop())

	cases := []CategoryScores{
		{},
		{Technical: cs(-1, 4), Fundamental: cs(1, 5), Sentiment: cs(-1, 3)},
		{Technical: cs(1, 4)},
		{Fundamental: cs(-1, 1)},
		{Technical: cs(0, 4), Fundamental: cs(0, 5), Sentiment: cs(0, 3)},
	}
	for i, scores := range cases {
		got := est.Estimate(scores)
		if got < 0 || got > 1 {
			t.Errorf("case %d: Estimate() = %v, out of [0,1]", i, got)
		}
	}
}
