package advisory

import (
	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
)

// PriceTargetCalculator derives an indicative price target and stop-loss
// from the latest observed price. Both values are advisory outputs, not
// order parameters.
type PriceTargetCalculator struct {
	params engineconfig.PriceTarget
}

func NewPriceTargetCalculator(cfg *engineconfig.Config) *PriceTargetCalculator {
	return &PriceTargetCalculator{params: cfg.PriceTarget}
}

// Calculate returns (target, stopLoss). Both are nil when no market
// observation exists for the symbol or the latest price is not positive.
//
// The target moves with the overall score: price * (1 + multiplier * score).
// The stop-loss sits on the opposite side of the current price from the
// target, at a distance proportional to confidence. A low-confidence signal
// gets a tighter stop.
func (c *PriceTargetCalculator) Calculate(latest *contracts.MarketObservation, overall, confidence float64) (*float64, *float64) {
	if latest == nil || latest.Price <= 0 {
		return nil, nil
	}
	price := latest.Price

	target := price * (1 + c.params.Multiplier*overall)

	distance := c.params.StopLossFraction * confidence
	var stop float64
	if overall >= 0 {
		stop = price * (1 - distance)
	} else {
		stop = price * (1 + distance)
	}
	return contracts.Float64Ptr(target), contracts.Float64Ptr(stop)
}
