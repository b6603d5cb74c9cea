package engineconfig

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/sage/pkg/logger"
)

// Load reads a YAML (or JSON) document and validates it.
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a configuration document.
// JSON documents parse too since YAML is a superset.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode engine config: %w", err)
	}

	applyFallbacks(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads the document at path, substituting the built-in
// default configuration on any parse or validation failure. Failures are
// logged as warnings, never surfaced as batch errors.
func LoadOrDefault(path string, log *logger.Logger) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		}).Warn("Invalid engine config, falling back to built-in defaults")
		return Default()
	}
	return cfg
}

// applyFallbacks fills optional fields a document may omit.
// Weight maps and thresholds are intentionally NOT defaulted piecemeal:
// an explicit document owns them entirely.
//
// 스칼라 필드는 0을 "생략"으로 취급한다: data_quality_threshold,
// neutral_agreement, price_target.* 에 명시적으로 0을 쓰면 기본값으로
// 대체된다. 해당 게이트를 끄려면 0이 아닌 최솟값을 명시할 것.
func applyFallbacks(cfg *Config) {
	def := Default()

	if cfg.TechnicalWeights == nil {
		cfg.TechnicalWeights = def.TechnicalWeights
	}
	if cfg.FundamentalWeights == nil {
		cfg.FundamentalWeights = def.FundamentalWeights
	}
	if cfg.SentimentWeights == nil {
		cfg.SentimentWeights = def.SentimentWeights
	}
	if cfg.CategoryWeights.Sum() == 0 {
		cfg.CategoryWeights = def.CategoryWeights
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = def.Thresholds
	}
	if cfg.FundamentalBands == nil {
		cfg.FundamentalBands = def.FundamentalBands
	}
	if cfg.MinDataPoints == 0 {
		cfg.MinDataPoints = def.MinDataPoints
	}
	if cfg.DataQualityThreshold == 0 {
		cfg.DataQualityThreshold = def.DataQualityThreshold
	}
	if cfg.NeutralAgreement == 0 {
		cfg.NeutralAgreement = def.NeutralAgreement
	}
	if cfg.PriceTarget.Multiplier == 0 {
		cfg.PriceTarget.Multiplier = def.PriceTarget.Multiplier
	}
	if cfg.PriceTarget.StopLossFraction == 0 {
		cfg.PriceTarget.StopLossFraction = def.PriceTarget.StopLossFraction
	}
	if cfg.TimeHorizon == "" {
		cfg.TimeHorizon = def.TimeHorizon
	}
}
