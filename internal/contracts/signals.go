package contracts

import (
	"fmt"
	"time"
)

// ⭐ SSOT: 어드바이저리 시그널 타입 정의는 여기서만

// SignalType is one of the five discrete recommendation bands.
type SignalType string

const (
	StrongBuy  SignalType = "STRONG_BUY"
	Buy        SignalType = "BUY"
	Hold       SignalType = "HOLD"
	Sell       SignalType = "SELL"
	StrongSell SignalType = "STRONG_SELL"
)

// Valid reports whether t is one of the five bands.
func (t SignalType) Valid() bool {
	switch t {
	case StrongBuy, Buy, Hold, Sell, StrongSell:
		return true
	}
	return false
}

// Rank orders bands from most-sell (0) to most-buy (4).
// Used by monotonicity checks; higher rank = more bullish.
func (t SignalType) Rank() int {
	switch t {
	case StrongSell:
		return 0
	case Sell:
		return 1
	case Hold:
		return 2
	case Buy:
		return 3
	case StrongBuy:
		return 4
	}
	return -1
}

// CategoryScore is the per-category reduction of a symbol's observations.
// Value lies in [-1, 1]; Contributing counts the indicators that actually
// produced a sub-score (skipped indicators are excluded, not zero-filled).
type CategoryScore struct {
	Value        float64 `json:"value"`
	Contributing int     `json:"contributing"`
}

// Contributed reports whether at least one indicator produced a sub-score.
func (s CategoryScore) Contributed() bool {
	return s.Contributing > 0
}

// AdvisorySignal is the engine's sole output entity.
// Immutable after creation; ownership passes to the caller.
type AdvisorySignal struct {
	Symbol          string     `json:"symbol"`
	Type            SignalType `json:"signal_type"`
	OverallScore    float64    `json:"overall_score"`
	ConfidenceScore float64    `json:"confidence_score"`
	GeneratedAt     time.Time  `json:"generated_at"`
	Rationale       string     `json:"rationale"`
	PriceTarget     *float64   `json:"price_target,omitempty"`
	StopLoss        *float64   `json:"stop_loss,omitempty"`
	TimeHorizon     string     `json:"time_horizon"`
}

// SymbolState tracks a symbol's progress through the generator.
type SymbolState string

const (
	StatePending     SymbolState = "PENDING"
	StateDataChecked SymbolState = "DATA_CHECKED"
	StateScored      SymbolState = "SCORED"
	StateClassified  SymbolState = "CLASSIFIED"
	StateEmitted     SymbolState = "EMITTED"
	StateSkipped     SymbolState = "SKIPPED"
	StateFailed      SymbolState = "FAILED"
)

// SymbolOutcome records where a symbol ended up and why.
type SymbolOutcome struct {
	Symbol string      `json:"symbol"`
	State  SymbolState `json:"state"`
	Reason string      `json:"reason,omitempty"`
}

// SignalBatch is the result of one generation run.
type SignalBatch struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Signals     []AdvisorySignal `json:"signals"`
	Outcomes    []SymbolOutcome  `json:"outcomes"`
}

// Get returns the signal for a symbol, if one was emitted.
func (b *SignalBatch) Get(symbol string) (AdvisorySignal, bool) {
	for _, sig := range b.Signals {
		if sig.Symbol == symbol {
			return sig, true
		}
	}
	return AdvisorySignal{}, false
}

// Counts returns emitted/skipped/failed totals for logging.
func (b *SignalBatch) Counts() (emitted, skipped, failed int) {
	for _, o := range b.Outcomes {
		switch o.State {
		case StateEmitted:
			emitted++
		case StateSkipped:
			skipped++
		case StateFailed:
			failed++
		}
	}
	return emitted, skipped, failed
}

// String implements fmt.Stringer for log output.
func (b *SignalBatch) String() string {
	emitted, skipped, failed := b.Counts()
	return fmt.Sprintf("SignalBatch{emitted=%d skipped=%d failed=%d}", emitted, skipped, failed)
}
