package advisory

import "fmt"

// InsufficientDataError marks a symbol that was skipped because its
// datasets did not meet the minimum requirements for scoring.
type InsufficientDataError struct {
	Symbol string
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %s", e.Symbol, e.Reason)
}

// ScoringError wraps an unexpected failure while scoring a single symbol.
// 한 종목의 실패가 배치 전체를 중단시키지 않는다.
type ScoringError struct {
	Symbol string
	Err    error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring %s: %v", e.Symbol, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }
