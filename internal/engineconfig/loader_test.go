package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sage/pkg/logger"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidDocument(t *testing.T) {
	path := writeTempConfig(t, `
technical_weights:
  rsi: 0.4
  macd: 0.6
category_weights:
  technical: 0.6
  fundamental: 0.2
  sentiment: 0.2
thresholds:
  strong_buy: 0.75
  buy: 0.5
  hold_max: 0.15
  hold_min: -0.15
  sell: -0.5
  strong_sell: -0.75
min_data_points: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.TechnicalWeights[IndicatorRSI])
	assert.Equal(t, 0.75, cfg.Thresholds.StrongBuy)
	assert.Equal(t, 3, cfg.MinDataPoints)

	// Omitted sections fall back to built-in values
	assert.NotEmpty(t, cfg.FundamentalWeights)
	assert.Equal(t, Default().DataQualityThreshold, cfg.DataQualityThreshold)
	assert.Equal(t, "medium-term", cfg.TimeHorizon)
}

func TestParseTreatsExplicitScalarZeroAsOmitted(t *testing.T) {
	cfg, err := Parse([]byte(`
data_quality_threshold: 0
neutral_agreement: 0
price_target:
  multiplier: 0
  stop_loss_fraction: 0
`))
	require.NoError(t, err)

	// 스칼라 0은 생략과 구분되지 않고 기본값으로 대체된다
	def := Default()
	assert.Equal(t, def.DataQualityThreshold, cfg.DataQualityThreshold)
	assert.Equal(t, def.NeutralAgreement, cfg.NeutralAgreement)
	assert.Equal(t, def.PriceTarget.Multiplier, cfg.PriceTarget.Multiplier)
	assert.Equal(t, def.PriceTarget.StopLossFraction, cfg.PriceTarget.StopLossFraction)
}

func TestLoadJSONDocument(t *testing.T) {
	// JSON is a YAML subset, so the same loader handles both formats.
	path := writeTempConfig(t, `{"min_data_points": 5, "time_horizon": "short-term"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MinDataPoints)
	assert.Equal(t, "short-term", cfg.TimeHorizon)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("min_data_points: 2\nunknown_knob: true\n"))
	assert.Error(t, err)
}

func TestLoadOrDefaultFallsBackOnParseFailure(t *testing.T) {
	path := writeTempConfig(t, "thresholds: [not, a, mapping]")

	cfg := LoadOrDefault(path, logger.NewNop())
	require.NotNil(t, cfg)
	assert.Equal(t, Default().Thresholds, cfg.Thresholds)
}

func TestLoadOrDefaultFallsBackOnValidationFailure(t *testing.T) {
	// strong_sell above sell violates the ordering invariant
	path := writeTempConfig(t, `
thresholds:
  strong_buy: 0.8
  buy: 0.6
  hold_max: 0.2
  hold_min: -0.2
  sell: -0.6
  strong_sell: -0.1
`)

	cfg := LoadOrDefault(path, logger.NewNop())
	assert.Equal(t, Default().Thresholds, cfg.Thresholds)
}

func TestLoadOrDefaultFallsBackOnMissingFile(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"), logger.NewNop())
	assert.Equal(t, Default().MinDataPoints, cfg.MinDataPoints)
}
