package engineconfig

import (
	"fmt"
	"math"
)

// ValidationError 검증 실패 (기본 설정으로 폴백)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
// 실패 시 호출자는 Default()로 폴백한다.
func Validate(cfg *Config) error {
	// === Thresholds ===
	// Boundaries must be monotonically non-increasing in walk order.
	ordered := cfg.Thresholds.ordered()
	names := []string{"strong_buy", "buy", "hold_max", "hold_min", "sell", "strong_sell"}
	for i := 1; i < len(ordered); i++ {
		if ordered[i] > ordered[i-1] {
			return ValidationError{
				Field:   fmt.Sprintf("thresholds.%s", names[i]),
				Message: fmt.Sprintf("must be <= %s (%.4f > %.4f)", names[i-1], ordered[i], ordered[i-1]),
			}
		}
	}
	if cfg.Thresholds.StrongBuy > 1 || cfg.Thresholds.StrongSell < -1 {
		return ValidationError{"thresholds", "boundaries must lie within [-1, 1]"}
	}

	// === Weights ===
	// Weight groups are normalized by their sum at use time, so the only
	// hard requirement is non-negativity. All-zero groups score neutral 0.
	groups := map[string]map[string]float64{
		"technical_weights":   cfg.TechnicalWeights,
		"fundamental_weights": cfg.FundamentalWeights,
		"sentiment_weights":   cfg.SentimentWeights,
	}
	for name, group := range groups {
		for indicator, w := range group {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return ValidationError{
					Field:   fmt.Sprintf("%s.%s", name, indicator),
					Message: "must be a non-negative finite number",
				}
			}
		}
	}

	cw := cfg.CategoryWeights
	if cw.Technical < 0 || cw.Fundamental < 0 || cw.Sentiment < 0 {
		return ValidationError{"category_weights", "must be non-negative"}
	}
	if cw.Sum() <= 0 {
		return ValidationError{"category_weights", "must not all be zero"}
	}

	// === Bands ===
	for ratio, band := range cfg.FundamentalBands {
		if band.Lower >= band.Upper {
			return ValidationError{
				Field:   fmt.Sprintf("fundamental_bands.%s", ratio),
				Message: "lower must be < upper",
			}
		}
	}

	// === Engine parameters ===
	if cfg.MinDataPoints < 1 {
		return ValidationError{"min_data_points", "must be >= 1"}
	}
	if cfg.DataQualityThreshold < 0 || cfg.DataQualityThreshold > 1 {
		return ValidationError{"data_quality_threshold", "must be in range [0, 1]"}
	}
	if cfg.NeutralAgreement < 0 || cfg.NeutralAgreement > 1 {
		return ValidationError{"neutral_agreement", "must be in range [0, 1]"}
	}
	if cfg.PriceTarget.Multiplier < 0 {
		return ValidationError{"price_target.multiplier", "must be >= 0"}
	}
	if cfg.PriceTarget.StopLossFraction < 0 || cfg.PriceTarget.StopLossFraction >= 1 {
		return ValidationError{"price_target.stop_loss_fraction", "must be in range [0, 1)"}
	}
	if cfg.Workers < 0 {
		return ValidationError{"workers", "must be >= 0"}
	}

	return nil
}
