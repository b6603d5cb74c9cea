package advisory

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/pkg/logger"
)

// Service loads the input datasets, runs one generation batch, and persists
// the result. The engine core stays pure; all I/O lives here.
type Service struct {
	markets      contracts.MarketDataRepository
	fundamentals contracts.FundamentalRepository
	sentiments   contracts.SentimentRepository
	signals      contracts.SignalRepository
	generator    *SignalGenerator
	lookback     time.Duration
	logger       *logger.Logger
}

// NewService creates a new advisory service
func NewService(
	markets contracts.MarketDataRepository,
	fundamentals contracts.FundamentalRepository,
	sentiments contracts.SentimentRepository,
	signals contracts.SignalRepository,
	generator *SignalGenerator,
	lookbackDays int,
	log *logger.Logger,
) *Service {
	if lookbackDays <= 0 {
		lookbackDays = 300
	}
	return &Service{
		markets:      markets,
		fundamentals: fundamentals,
		sentiments:   sentiments,
		signals:      signals,
		generator:    generator,
		lookback:     time.Duration(lookbackDays) * 24 * time.Hour,
		logger:       log,
	}
}

// saveTimeout bounds the persistence step after a batch finishes.
const saveTimeout = 30 * time.Second

// Run executes one full batch: load, generate, save.
// A cancelled context still persists the signals produced so far.
func (s *Service) Run(ctx context.Context) (*contracts.SignalBatch, error) {
	to := time.Now().UTC()
	from := to.Add(-s.lookback)

	datasets, err := s.loadDatasets(ctx, from, to)
	if err != nil {
		return nil, err
	}

	batch, genErr := s.generator.Generate(ctx, datasets)
	if batch == nil {
		return nil, genErr
	}

	// 배치 컨텍스트가 이미 죽었어도 부분 결과는 저장해야 한다
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := s.signals.SaveBatch(saveCtx, batch); err != nil {
		return batch, fmt.Errorf("failed to save signal batch: %w", err)
	}

	return batch, genErr
}

func (s *Service) loadDatasets(ctx context.Context, from, to time.Time) (contracts.Datasets, error) {
	var datasets contracts.Datasets
	var err error

	datasets.Market, err = s.markets.GetAll(ctx, from, to)
	if err != nil {
		return datasets, fmt.Errorf("failed to load market observations: %w", err)
	}
	datasets.Fundamental, err = s.fundamentals.GetAll(ctx)
	if err != nil {
		return datasets, fmt.Errorf("failed to load fundamentals: %w", err)
	}
	datasets.Sentiment, err = s.sentiments.GetAll(ctx, from, to)
	if err != nil {
		return datasets, fmt.Errorf("failed to load sentiment: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"market":      len(datasets.Market),
		"fundamental": len(datasets.Fundamental),
		"sentiment":   len(datasets.Sentiment),
		"from":        from.Format("2006-01-02"),
		"to":          to.Format("2006-01-02"),
	}).Info("Datasets loaded")

	return datasets, nil
}
