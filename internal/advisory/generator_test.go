package advisory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/sage/internal/contracts"
	"github.com/wonny/sage/internal/engineconfig"
	"github.com/wonny/sage/internal/scoring"
	"github.com/wonny/sage/pkg/logger"
)

var testTime = time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

// oversoldDatasets builds one symbol with RSI=30, bullish MACD, no
// Bollinger/MA data, and neutral fundamentals and sentiment.
func oversoldDatasets(symbol string) contracts.Datasets {
	return contracts.Datasets{
		Market: []contracts.MarketObservation{{
			Symbol:     symbol,
			Timestamp:  testTime,
			Price:      100,
			Volume:     1_000_000,
			RSI:        contracts.Float64Ptr(30),
			MACD:       contracts.Float64Ptr(1.2),
			MACDSignal: contracts.Float64Ptr(0.5),
		}},
		Fundamental: []contracts.FundamentalRecord{{
			// 모든 비율을 밴드 중앙값에 두면 서브 점수는 전부 0
			Symbol:       symbol,
			PERatio:      contracts.Float64Ptr(20),
			PBRatio:      contracts.Float64Ptr(3),
			DebtToEquity: contracts.Float64Ptr(1.25),
			ROE:          contracts.Float64Ptr(0.15),
			ProfitMargin: contracts.Float64Ptr(0.11),
		}},
		Sentiment: []contracts.SentimentRecord{{
			Symbol:       symbol,
			Timestamp:    testTime,
			NewsScore:    contracts.Float64Ptr(0),
			SocialScore:  contracts.Float64Ptr(0),
			AnalystScore: contracts.Float64Ptr(0),
		}},
	}
}

// bullishDatasets builds one symbol where all three categories score at or
// near +1.
func bullishDatasets(symbol string) contracts.Datasets {
	return contracts.Datasets{
		Market: []contracts.MarketObservation{{
			Symbol:         symbol,
			Timestamp:      testTime,
			Price:          110,
			Volume:         2_000_000,
			RSI:            contracts.Float64Ptr(0),
			MACD:           contracts.Float64Ptr(2.0),
			MACDSignal:     contracts.Float64Ptr(0.5),
			BollingerUpper: contracts.Float64Ptr(110),
			BollingerLower: contracts.Float64Ptr(90),
			MA50:           contracts.Float64Ptr(105),
			MA200:          contracts.Float64Ptr(95),
		}},
		Fundamental: []contracts.FundamentalRecord{{
			Symbol:       symbol,
			PERatio:      contracts.Float64Ptr(10),
			PBRatio:      contracts.Float64Ptr(1),
			DebtToEquity: contracts.Float64Ptr(0.5),
			ROE:          contracts.Float64Ptr(0.25),
			ProfitMargin: contracts.Float64Ptr(0.20),
		}},
		Sentiment: []contracts.SentimentRecord{{
			Symbol:       symbol,
			Timestamp:    testTime,
			NewsScore:    contracts.Float64Ptr(1),
			SocialScore:  contracts.Float64Ptr(1),
			AnalystScore: contracts.Float64Ptr(1),
		}},
	}
}

func mergeDatasets(sets ...contracts.Datasets) contracts.Datasets {
	var merged contracts.Datasets
	for _, d := range sets {
		merged.Market = append(merged.Market, d.Market...)
		merged.Fundamental = append(merged.Fundamental, d.Fundamental...)
		merged.Sentiment = append(merged.Sentiment, d.Sentiment...)
	}
	return merged
}

func TestGenerateOversoldSymbol(t *testing.T) {
	gen := NewFromConfig(engineconfig.Default(), logger.NewNop())

	batch, err := gen.Generate(context.Background(), oversoldDatasets("005930"))
	require.NoError(t, err)
	require.Len(t, batch.Signals, 1)

	sig := batch.Signals[0]
	assert.Equal(t, "005930", sig.Symbol)

	// technical = (0.4*0.3 + 1*0.3) / 0.6 = 0.7; fundamentals and
	// sentiment contribute zeros, so overall = 0.7 * 0.5 = 0.35
	assert.InDelta(t, 0.35, sig.OverallScore, 1e-9)
	assert.Equal(t, contracts.Hold, sig.Type)
	assert.Greater(t, sig.OverallScore, 0.0)
	assert.Less(t, sig.OverallScore, 0.7)

	// 2 of 4 technical indicators missing, so confidence must be dented
	assert.Greater(t, sig.ConfidenceScore, 0.0)
	assert.Less(t, sig.ConfidenceScore, 1.0)

	require.NotNil(t, sig.PriceTarget)
	assert.InDelta(t, 100*(1+0.15*0.35), *sig.PriceTarget, 1e-9)
	require.NotNil(t, sig.StopLoss)
	assert.Less(t, *sig.StopLoss, 100.0)

	require.Len(t, batch.Outcomes, 1)
	assert.Equal(t, contracts.StateEmitted, batch.Outcomes[0].State)
}

func TestGenerateSkipsBelowMinimumObservations(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.MinDataPoints = 3
	gen := NewFromConfig(cfg, logger.NewNop())

	datasets := contracts.Datasets{
		Market: []contracts.MarketObservation{
			{Symbol: "035720", Timestamp: testTime, Price: 50},
			{Symbol: "035720", Timestamp: testTime.Add(24 * time.Hour), Price: 51},
		},
	}
	batch, err := gen.Generate(context.Background(), datasets)
	require.NoError(t, err)
	assert.Empty(t, batch.Signals)

	require.Len(t, batch.Outcomes, 1)
	assert.Equal(t, contracts.StateSkipped, batch.Outcomes[0].State)
	assert.Contains(t, batch.Outcomes[0].Reason, "market observations")
}

func TestGenerateSkipsWithoutFundamentalOrSentiment(t *testing.T) {
	gen := NewFromConfig(engineconfig.Default(), logger.NewNop())

	datasets := contracts.Datasets{
		Market: []contracts.MarketObservation{
			{Symbol: "000660", Timestamp: testTime, Price: 200, RSI: contracts.Float64Ptr(40)},
		},
	}
	batch, err := gen.Generate(context.Background(), datasets)
	require.NoError(t, err)
	assert.Empty(t, batch.Signals)
	require.Len(t, batch.Outcomes, 1)
	assert.Equal(t, contracts.StateSkipped, batch.Outcomes[0].State)
}

func TestGenerateStrongAgreement(t *testing.T) {
	gen := NewFromConfig(engineconfig.Default(), logger.NewNop())

	batch, err := gen.Generate(context.Background(), bullishDatasets("000660"))
	require.NoError(t, err)
	require.Len(t, batch.Signals, 1)

	sig := batch.Signals[0]
	assert.Equal(t, contracts.StrongBuy, sig.Type)
	assert.InDelta(t, 1.0, sig.OverallScore, 1e-9)
	assert.Greater(t, sig.ConfidenceScore, 0.95)
}

func TestGenerateMixedBatchIsolation(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.MinDataPoints = 3
	gen := NewFromConfig(cfg, logger.NewNop())

	thin := contracts.Datasets{
		Market: []contracts.MarketObservation{
			{Symbol: "THIN", Timestamp: testTime, Price: 10},
		},
	}
	healthy := bullishDatasets("GOOD")
	healthy.Market = append(healthy.Market,
		contracts.MarketObservation{Symbol: "GOOD", Timestamp: testTime.Add(-48 * time.Hour), Price: 100},
		contracts.MarketObservation{Symbol: "GOOD", Timestamp: testTime.Add(-24 * time.Hour), Price: 105},
	)

	batch, err := gen.Generate(context.Background(), mergeDatasets(thin, healthy))
	require.NoError(t, err)

	// 한 종목이 스킵되어도 나머지는 정상 처리
	require.Len(t, batch.Signals, 1)
	assert.Equal(t, "GOOD", batch.Signals[0].Symbol)

	emitted, skipped, failed := batch.Counts()
	assert.Equal(t, 1, emitted)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, failed)
}

func TestGenerateRecoversFromPanicPerSymbol(t *testing.T) {
	cfg := engineconfig.Default()
	// nil aggregator panics on first use; the generator must convert that
	// into a FAILED outcome instead of crashing the batch.
	gen := NewSignalGenerator(
		cfg,
		scoring.NewTechnicalCalculator(cfg, logger.NewNop()),
		scoring.NewFundamentalCalculator(cfg, logger.NewNop()),
		scoring.NewSentimentCalculator(cfg, logger.NewNop()),
		nil,
		NewConfidenceEstimator(cfg, logger.NewNop()),
		NewPriceTargetCalculator(cfg),
		logger.NewNop(),
	)

	batch, err := gen.Generate(context.Background(), bullishDatasets("005930"))
	require.NoError(t, err)
	assert.Empty(t, batch.Signals)
	require.Len(t, batch.Outcomes, 1)
	assert.Equal(t, contracts.StateFailed, batch.Outcomes[0].State)
	assert.Contains(t, batch.Outcomes[0].Reason, "005930")
}

func TestGenerateDeterministicOrder(t *testing.T) {
	gen := NewFromConfig(engineconfig.Default(), logger.NewNop())

	datasets := mergeDatasets(
		bullishDatasets("C"),
		oversoldDatasets("A"),
		bullishDatasets("B"),
	)

	first, err := gen.Generate(context.Background(), datasets)
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), datasets)
	require.NoError(t, err)

	require.Len(t, first.Signals, 3)
	assert.Equal(t, "A", first.Signals[0].Symbol)
	assert.Equal(t, "B", first.Signals[1].Symbol)
	assert.Equal(t, "C", first.Signals[2].Symbol)

	// 배치 타임스탬프만 다르고 점수/순서는 동일해야 한다
	require.Len(t, second.Signals, 3)
	for i := range first.Signals {
		a, b := first.Signals[i], second.Signals[i]
		a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
		assert.Equal(t, a, b)
	}
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	var sets []contracts.Datasets
	for i := 0; i < 20; i++ {
		sets = append(sets, bullishDatasets(fmt.Sprintf("SYM%02d", i)))
	}
	datasets := mergeDatasets(sets...)

	seqCfg := engineconfig.Default()
	parCfg := engineconfig.Default()
	parCfg.Workers = 4

	seq, err := NewFromConfig(seqCfg, logger.NewNop()).Generate(context.Background(), datasets)
	require.NoError(t, err)
	par, err := NewFromConfig(parCfg, logger.NewNop()).Generate(context.Background(), datasets)
	require.NoError(t, err)

	require.Len(t, par.Signals, len(seq.Signals))
	for i := range seq.Signals {
		a, b := seq.Signals[i], par.Signals[i]
		a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
		assert.Equal(t, a, b)
	}
}

func TestGenerateCancelledContextReturnsPartial(t *testing.T) {
	gen := NewFromConfig(engineconfig.Default(), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := gen.Generate(ctx, bullishDatasets("005930"))
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, batch)
	assert.Empty(t, batch.Signals)
}

func TestGenerateEmptyDatasets(t *testing.T) {
	gen := NewFromConfig(engineconfig.Default(), logger.NewNop())

	batch, err := gen.Generate(context.Background(), contracts.Datasets{})
	require.NoError(t, err)
	assert.Empty(t, batch.Signals)
	assert.Empty(t, batch.Outcomes)
}
