package advisory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/internal/scoring"
	"github.com/wonny/sage/pkg/logger"
)

// SignalGenerator runs one advisory batch: it walks every symbol present in
// the input datasets, scores the ones with enough data, and collects the
// emitted signals plus a per-symbol outcome trail.
//
// One symbol's failure never aborts the batch. 실패한 종목은 기록하고 계속 진행.
type SignalGenerator struct {
	cfg         *engineconfig.Config
	technical   *scoring.TechnicalCalculator
	fundamental *scoring.FundamentalCalculator
	sentiment   *scoring.SentimentCalculator
	aggregator  *Aggregator
	confidence  *ConfidenceEstimator
	priceTarget *PriceTargetCalculator
	logger      *logger.Logger
}

// NewSignalGenerator wires a generator from explicitly constructed parts.
func NewSignalGenerator(
	cfg *engineconfig.Config,
	technical *scoring.TechnicalCalculator,
	fundamental *scoring.FundamentalCalculator,
	sentiment *scoring.SentimentCalculator,
	aggregator *Aggregator,
	confidence *ConfidenceEstimator,
	priceTarget *PriceTargetCalculator,
	log *logger.Logger,
) *SignalGenerator {
	return &SignalGenerator{
		cfg:         cfg,
		technical:   technical,
		fundamental: fundamental,
		sentiment:   sentiment,
		aggregator:  aggregator,
		confidence:  confidence,
		priceTarget: priceTarget,
		logger:      log,
	}
}

// NewFromConfig builds the full component graph from one engine config.
// Convenience for callers that don't need to swap parts out.
func NewFromConfig(cfg *engineconfig.Config, log *logger.Logger) *SignalGenerator {
	return NewSignalGenerator(
		cfg,
		scoring.NewTechnicalCalculator(cfg, log),
		scoring.NewFundamentalCalculator(cfg, log),
		scoring.NewSentimentCalculator(cfg, log),
		NewAggregator(cfg, log),
		NewConfidenceEstimator(cfg, log),
		NewPriceTargetCalculator(cfg),
		log,
	)
}

type symbolResult struct {
	signal  *contracts.AdvisorySignal
	outcome contracts.SymbolOutcome
}

// Generate runs one batch over the given datasets.
//
// Symbols are processed in sorted order so output is reproducible. When the
// context is cancelled mid-batch the signals produced so far are returned
// together with the context error, so callers can keep partial results.
func (g *SignalGenerator) Generate(ctx context.Context, datasets contracts.Datasets) (*contracts.SignalBatch, error) {
	started := time.Now()
	grouped := datasets.Group()
	symbols := grouped.Symbols()
	generatedAt := time.Now().UTC()

	g.logger.WithFields(map[string]interface{}{
		"symbols":     len(symbols),
		"market":      len(datasets.Market),
		"fundamental": len(datasets.Fundamental),
		"sentiment":   len(datasets.Sentiment),
	}).Info("Signal generation started")

	var results []symbolResult
	var err error
	if g.cfg.Workers > 1 {
		results, err = g.runParallel(ctx, grouped, symbols, generatedAt)
	} else {
		results, err = g.runSequential(ctx, grouped, symbols, generatedAt)
	}

	batch := &contracts.SignalBatch{GeneratedAt: generatedAt}
	for _, r := range results {
		if r.signal != nil {
			batch.Signals = append(batch.Signals, *r.signal)
		}
		batch.Outcomes = append(batch.Outcomes, r.outcome)
	}

	emitted, skipped, failed := batch.Counts()
	g.logger.WithFields(map[string]interface{}{
		"emitted":  emitted,
		"skipped":  skipped,
		"failed":   failed,
		"duration": time.Since(started).String(),
	}).Info("Signal generation finished")

	return batch, err
}

func (g *SignalGenerator) runSequential(ctx context.Context, grouped contracts.GroupedDatasets, symbols []string, generatedAt time.Time) ([]symbolResult, error) {
	results := make([]symbolResult, 0, len(symbols))
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			g.logger.WithFields(map[string]interface{}{
				"processed": len(results),
				"total":     len(symbols),
			}).Warn("Batch cancelled, returning partial results")
			return results, ctx.Err()
		}
		results = append(results, g.processSymbol(grouped, symbol, generatedAt))
	}
	return results, nil
}

func (g *SignalGenerator) runParallel(ctx context.Context, grouped contracts.GroupedDatasets, symbols []string, generatedAt time.Time) ([]symbolResult, error) {
	results := make([]symbolResult, len(symbols))
	done := make([]bool, len(symbols))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < g.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = g.processSymbol(grouped, symbols[i], generatedAt)
				done[i] = true
			}
		}()
	}

	var ctxErr error
dispatch:
	for i := range symbols {
		select {
		case jobs <- i:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	// Keep sorted-symbol order; drop slots never dispatched.
	out := make([]symbolResult, 0, len(symbols))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}
	if ctxErr != nil {
		g.logger.WithFields(map[string]interface{}{
			"processed": len(out),
			"total":     len(symbols),
		}).Warn("Batch cancelled, returning partial results")
	}
	return out, ctxErr
}

// processSymbol walks one symbol through the pipeline states. Panics are
// converted into a FAILED outcome so the batch keeps going.
func (g *SignalGenerator) processSymbol(grouped contracts.GroupedDatasets, symbol string, generatedAt time.Time) (result symbolResult) {
	state := contracts.StatePending

	defer func() {
		if r := recover(); r != nil {
			err := &ScoringError{Symbol: symbol, Err: fmt.Errorf("panic: %v", r)}
			g.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"state":  string(state),
			}).WithError(err).Error("Symbol scoring panicked")
			result = symbolResult{outcome: contracts.SymbolOutcome{
				Symbol: symbol,
				State:  contracts.StateFailed,
				Reason: err.Error(),
			}}
		}
	}()

	// 데이터 충분성 체크
	market := grouped.Market[symbol]
	if len(market) < g.cfg.MinDataPoints {
		reason := fmt.Sprintf("market observations %d < minimum %d", len(market), g.cfg.MinDataPoints)
		return g.skip(symbol, reason)
	}
	fundamental, hasFundamental := grouped.Fundamental[symbol]
	sentiments := grouped.Sentiment[symbol]
	if !hasFundamental && len(sentiments) == 0 {
		return g.skip(symbol, "no fundamental or sentiment records")
	}
	state = contracts.StateDataChecked

	scores := CategoryScores{
		Technical: g.technical.Calculate(symbol, market),
		Sentiment: g.sentiment.Calculate(symbol, sentiments),
	}
	if hasFundamental {
		scores.Fundamental = g.fundamental.Calculate(symbol, &fundamental)
	}
	state = contracts.StateScored

	overall := g.aggregator.Overall(scores)
	signalType := g.aggregator.Classify(overall)
	state = contracts.StateClassified

	confidence := g.confidence.Estimate(scores)

	var target, stop *float64
	if latest, ok := grouped.Latest(symbol); ok {
		target, stop = g.priceTarget.Calculate(&latest, overall, confidence)
	}

	signal := contracts.AdvisorySignal{
		Symbol:          symbol,
		Type:            signalType,
		OverallScore:    overall,
		ConfidenceScore: confidence,
		GeneratedAt:     generatedAt,
		Rationale:       g.aggregator.Rationale(scores, overall, signalType),
		PriceTarget:     target,
		StopLoss:        stop,
		TimeHorizon:     g.cfg.TimeHorizon,
	}
	state = contracts.StateEmitted

	g.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"signal":     string(signalType),
		"overall":    overall,
		"confidence": confidence,
	}).Debug("Signal emitted")

	return symbolResult{
		signal:  &signal,
		outcome: contracts.SymbolOutcome{Symbol: symbol, State: state},
	}
}

func (g *SignalGenerator) skip(symbol, reason string) symbolResult {
	err := &InsufficientDataError{Symbol: symbol, Reason: reason}
	g.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
	}).WithError(err).Warn("Symbol skipped")
	return symbolResult{outcome: contracts.SymbolOutcome{
		Symbol: symbol,
		State:  contracts.StateSkipped,
		Reason: reason,
	}}
}
