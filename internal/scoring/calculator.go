package scoring

import (
	"math"

	"github.com/wonny/sage/internal/contracts"
)

// ⭐ SSOT: 카테고리 점수 집계 규칙은 여기서만

// subScore is one indicator's contribution to a category score.
type subScore struct {
	indicator string
	value     float64
	weight    float64
}

// weightedMean reduces contributing sub-scores to a CategoryScore.
// Weights are renormalized over contributors only, so a skipped indicator
// never biases the score toward zero. It is excluded, not zero-filled.
// Zero contributors (or an all-zero weight group) yield a neutral score.
func weightedMean(subs []subScore) contracts.CategoryScore {
	var sum, totalWeight float64
	contributing := 0

	for _, s := range subs {
		if s.weight <= 0 {
			continue
		}
		sum += s.value * s.weight
		totalWeight += s.weight
		contributing++
	}

	if contributing == 0 || totalWeight == 0 {
		return contracts.CategoryScore{Value: 0, Contributing: 0}
	}

	return contracts.CategoryScore{
		Value:        clamp(sum/totalWeight, -1, 1),
		Contributing: contributing,
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// usable reports whether an optional field is present and numeric.
func usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
