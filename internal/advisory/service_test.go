package advisory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/pkg/logger"
)

type fakeMarketRepo struct{ rows []contracts.MarketObservation }

func (r *fakeMarketRepo) GetBySymbolAndDateRange(ctx context.Context, symbol string, from, to time.Time) ([]contracts.MarketObservation, error) {
	var out []contracts.MarketObservation
	for _, row := range r.rows {
		if row.Symbol == symbol {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeMarketRepo) GetAll(ctx context.Context, from, to time.Time) ([]contracts.MarketObservation, error) {
	return r.rows, nil
}

func (r *fakeMarketRepo) SaveBatch(ctx context.Context, observations []contracts.MarketObservation) error {
	r.rows = append(r.rows, observations...)
	return nil
}

type fakeFundamentalRepo struct{ rows []contracts.FundamentalRecord }

func (r *fakeFundamentalRepo) GetBySymbol(ctx context.Context, symbol string) (*contracts.FundamentalRecord, error) {
	for _, row := range r.rows {
		if row.Symbol == symbol {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *fakeFundamentalRepo) GetAll(ctx context.Context) ([]contracts.FundamentalRecord, error) {
	return r.rows, nil
}

func (r *fakeFundamentalRepo) SaveBatch(ctx context.Context, records []contracts.FundamentalRecord) error {
	r.rows = append(r.rows, records...)
	return nil
}

type fakeSentimentRepo struct{ rows []contracts.SentimentRecord }

func (r *fakeSentimentRepo) GetBySymbolAndDateRange(ctx context.Context, symbol string, from, to time.Time) ([]contracts.SentimentRecord, error) {
	var out []contracts.SentimentRecord
	for _, row := range r.rows {
		if row.Symbol == symbol {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeSentimentRepo) GetAll(ctx context.Context, from, to time.Time) ([]contracts.SentimentRecord, error) {
	return r.rows, nil
}

func (r *fakeSentimentRepo) SaveBatch(ctx context.Context, records []contracts.SentimentRecord) error {
	r.rows = append(r.rows, records...)
	return nil
}

type fakeSignalRepo struct {
	saved      []*contracts.SignalBatch
	saveCtxErr error
	saveErr    error
}

func (r *fakeSignalRepo) SaveBatch(ctx context.Context, batch *contracts.SignalBatch) error {
	r.saveCtxErr = ctx.Err()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, batch)
	return nil
}

func (r *fakeSignalRepo) GetLatest(ctx context.Context) ([]contracts.AdvisorySignal, error) {
	if len(r.saved) == 0 {
		return nil, nil
	}
	return r.saved[len(r.saved)-1].Signals, nil
}

func (r *fakeSignalRepo) GetBySymbol(ctx context.Context, symbol string, limit int) ([]contracts.AdvisorySignal, error) {
	var out []contracts.AdvisorySignal
	for _, batch := range r.saved {
		for _, sig := range batch.Signals {
			if sig.Symbol == symbol {
				out = append(out, sig)
			}
		}
	}
	return out, nil
}

func newTestService(datasets contracts.Datasets, signals *fakeSignalRepo) *Service {
	gen := NewFromConfig(engineconfig.Default(), logger.NewNop())
	return NewService(
		&fakeMarketRepo{rows: datasets.Market},
		&fakeFundamentalRepo{rows: datasets.Fundamental},
		&fakeSentimentRepo{rows: datasets.Sentiment},
		signals,
		gen,
		300,
		logger.NewNop(),
	)
}

func TestServiceRunPersistsBatch(t *testing.T) {
	signals := &fakeSignalRepo{}
	svc := newTestService(bullishDatasets("005930"), signals)

	batch, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Signals, 1)

	require.Len(t, signals.saved, 1)
	assert.Equal(t, batch, signals.saved[0])
}

func TestServiceRunCancelledContextStillPersists(t *testing.T) {
	signals := &fakeSignalRepo{}
	svc := newTestService(bullishDatasets("005930"), signals)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, batch)

	// 저장은 배치 컨텍스트와 분리된 컨텍스트로 수행된다
	require.Len(t, signals.saved, 1)
	assert.NoError(t, signals.saveCtxErr)
	assert.Equal(t, batch, signals.saved[0])
}

func TestServiceRunSaveFailure(t *testing.T) {
	signals := &fakeSignalRepo{saveErr: errors.New("connection reset")}
	svc := newTestService(bullishDatasets("005930"), signals)

	batch, err := svc.Run(context.Background())
	require.Error(t, err)
	// 저장 실패여도 생성된 배치는 돌려준다
	require.NotNil(t, batch)
	assert.Len(t, batch.Signals, 1)
}
