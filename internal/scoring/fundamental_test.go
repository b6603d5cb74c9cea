package scoring

import (
	"math"
	"testing"

	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
)

func newFundamental(t *testing.T) *FundamentalCalculator {
	t.Helper()
	return NewFundamentalCalculator(engineconfig.Default(), logger.NewNop())
}

func TestBandScoreLinearInterpolation(t *testing.T) {
	// Lower-is-better band: PE 10..30
	band := engineconfig.Band{Lower: 10, Upper: 30, HigherIsBetter: false}

	tests := []struct {
		value float64
		want  float64
	}{
		{10, 1},    // favorable edge
		{20, 0},    // midpoint
		{30, -1},   // unfavorable edge
		{5, 1},     // clamps below
		{40, -1},   // clamps above
		{15, 0.5},  // linear inside
		{25, -0.5},
	}

	for _, tt := range tests {
		if got := bandScore(tt.value, band); math.Abs(got-tt.want) > epsilon {
			t.Errorf("bandScore(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestBandScoreHigherIsBetter(t *testing.T) {
	band := engineconfig.Band{Lower: 0.05, Upper: 0.25, HigherIsBetter: true}

	if got := bandScore(0.25, band); math.Abs(got-1) > epsilon {
		t.Errorf("upper edge = %v, want 1", got)
	}
	if got := bandScore(0.05, band); math.Abs(got+1) > epsilon {
		t.Errorf("lower edge = %v, want -1", got)
	}
	if got := bandScore(0.15, band); math.Abs(got) > epsilon {
		t.Errorf("midpoint = %v, want 0", got)
	}
}

func TestFundamentalSkipsMissingRatios(t *testing.T) {
	calc := newFundamental(t)

	// Only PE present, at the favorable edge
	record := &contracts.FundamentalRecord{
		Symbol:  "TEST",
		PERatio: contracts.Float64Ptr(10),
	}

	score := calc.Calculate("TEST", record)
	if score.Contributing != 1 {
		t.Fatalf("contributing = %d, want 1", score.Contributing)
	}
	// Renormalized over the single contributor: full +1, not diluted
	if math.Abs(score.Value-1) > epsilon {
		t.Errorf("score = %v, want 1", score.Value)
	}
}

func TestFundamentalNilRecord(t *testing.T) {
	calc := newFundamental(t)

	score := calc.Calculate("TEST", nil)
	if score.Value != 0 || score.Contributing != 0 {
		t.Errorf("nil record: score = %+v, want neutral zero", score)
	}
}

func TestFundamentalWeightedCombination(t *testing.T) {
	calc := newFundamental(t)

	// PE at favorable edge (+1, weight 0.3), ROE at midpoint (0, weight 0.2):
	// (1*0.3 + 0*0.2) / 0.5 = 0.6
	record := &contracts.FundamentalRecord{
		Symbol:  "TEST",
		PERatio: contracts.Float64Ptr(10),
		ROE:     contracts.Float64Ptr(0.15),
	}

	score := calc.Calculate("TEST", record)
	if score.Contributing != 2 {
		t.Fatalf("contributing = %d, want 2", score.Contributing)
	}
	if math.Abs(score.Value-0.6) > epsilon {
		t.Errorf("score = %v, want 0.6", score.Value)
	}
}

func TestFundamentalRatioWithoutBandSkipped(t *testing.T) {
	cfg := engineconfig.Default()
	delete(cfg.FundamentalBands, engineconfig.RatioPE)
	calc := NewFundamentalCalculator(cfg, logger.NewNop())

	record := &contracts.FundamentalRecord{
		Symbol:  "TEST",
		PERatio: contracts.Float64Ptr(10),
	}

	score := calc.Calculate("TEST", record)
	if score.Contributing != 0 {
		t.Errorf("ratio without a configured band must be skipped, contributing = %d", score.Contributing)
	}
}
