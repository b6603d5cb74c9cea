package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// MarketDataRepository manages market observations
type MarketDataRepository interface {
	GetBySymbolAndDateRange(ctx context.Context, symbol string, from, to time.Time) ([]MarketObservation, error)
	GetAll(ctx context.Context, from, to time.Time) ([]MarketObservation, error)
	SaveBatch(ctx context.Context, observations []MarketObservation) error
}

// FundamentalRepository manages fundamental ratio records
type FundamentalRepository interface {
	GetBySymbol(ctx context.Context, symbol string) (*FundamentalRecord, error)
	GetAll(ctx context.Context) ([]FundamentalRecord, error)
	SaveBatch(ctx context.Context, records []FundamentalRecord) error
}

// SentimentRepository manages sentiment records
type SentimentRepository interface {
	GetBySymbolAndDateRange(ctx context.Context, symbol string, from, to time.Time) ([]SentimentRecord, error)
	GetAll(ctx context.Context, from, to time.Time) ([]SentimentRecord, error)
	SaveBatch(ctx context.Context, records []SentimentRecord) error
}

// SignalRepository persists generated advisory signals
type SignalRepository interface {
	SaveBatch(ctx context.Context, batch *SignalBatch) error
	GetLatest(ctx context.Context) ([]AdvisorySignal, error)
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]AdvisorySignal, error)
}
