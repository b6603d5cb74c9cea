package jobs

import (
	"context"
	"time"

	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/external/quotes"
	"github.com/wonny/sage/pkg/logger"
)

// CollectFundamentalsJob refreshes fundamental ratios for the symbols that
// already have market data, scraping the quote pages.
type CollectFundamentalsJob struct {
	quotes       *quotes.Client
	markets      contracts.MarketDataRepository
	fundamentals contracts.FundamentalRepository
	schedule     string
	lookback     time.Duration
	logger       *logger.Logger
}

// NewCollectFundamentalsJob creates a new fundamentals collection job
func NewCollectFundamentalsJob(
	quotesClient *quotes.Client,
	markets contracts.MarketDataRepository,
	fundamentals contracts.FundamentalRepository,
	schedule string,
	log *logger.Logger,
) *CollectFundamentalsJob {
	return &CollectFundamentalsJob{
		quotes:       quotesClient,
		markets:      markets,
		fundamentals: fundamentals,
		schedule:     schedule,
		lookback:     30 * 24 * time.Hour,
		logger:       log,
	}
}

// Name returns the job name
func (j *CollectFundamentalsJob) Name() string {
	return "collect_fundamentals"
}

// Schedule returns the cron expression
func (j *CollectFundamentalsJob) Schedule() string {
	return j.schedule
}

// Run scrapes and upserts fundamentals for every active symbol
func (j *CollectFundamentalsJob) Run(ctx context.Context) error {
	to := time.Now().UTC()
	observations, err := j.markets.GetAll(ctx, to.Add(-j.lookback), to)
	if err != nil {
		return err
	}

	datasets := contracts.Datasets{Market: observations}
	symbols := datasets.Group().Symbols()
	if len(symbols) == 0 {
		j.logger.Warn("No symbols with recent market data, skipping collection")
		return nil
	}

	records, err := j.quotes.FetchFundamentalsBatch(ctx, symbols)
	if err != nil {
		return err
	}

	if err := j.fundamentals.SaveBatch(ctx, records); err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"saved":   len(records),
	}).Info("Fundamentals collection completed")

	return nil
}
