package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/sage/internal/contracts"
)

// MarketDataRepository implements contracts.MarketDataRepository
// ⭐ SSOT: 시장 관측 데이터 저장/조회는 여기서만
type MarketDataRepository struct {
	pool *pgxpool.Pool
}

// NewMarketDataRepository creates a new market data repository
func NewMarketDataRepository(pool *pgxpool.Pool) *MarketDataRepository {
	return &MarketDataRepository{pool: pool}
}

const marketColumns = `
	symbol, observed_at, price, volume,
	rsi, macd, macd_signal,
	bollinger_upper, bollinger_lower,
	ma_50, ma_200
`

// GetBySymbolAndDateRange retrieves observations for one symbol, oldest first
func (r *MarketDataRepository) GetBySymbolAndDateRange(ctx context.Context, symbol string, from, to time.Time) ([]contracts.MarketObservation, error) {
	query := `
		SELECT ` + marketColumns + `
		FROM advisory.market_observations
		WHERE symbol = $1 AND observed_at >= $2 AND observed_at <= $3
		ORDER BY observed_at
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query market observations: %w", err)
	}
	defer rows.Close()

	return scanMarketRows(rows)
}

// GetAll retrieves all observations within the date range, grouped-friendly order
func (r *MarketDataRepository) GetAll(ctx context.Context, from, to time.Time) ([]contracts.MarketObservation, error) {
	query := `
		SELECT ` + marketColumns + `
		FROM advisory.market_observations
		WHERE observed_at >= $1 AND observed_at <= $2
		ORDER BY symbol, observed_at
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query market observations: %w", err)
	}
	defer rows.Close()

	return scanMarketRows(rows)
}

// SaveBatch upserts observations in a single transaction
func (r *MarketDataRepository) SaveBatch(ctx context.Context, observations []contracts.MarketObservation) error {
	if len(observations) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO advisory.market_observations (` + marketColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol, observed_at) DO UPDATE SET
			price = EXCLUDED.price,
			volume = EXCLUDED.volume,
			rsi = EXCLUDED.rsi,
			macd = EXCLUDED.macd,
			macd_signal = EXCLUDED.macd_signal,
			bollinger_upper = EXCLUDED.bollinger_upper,
			bollinger_lower = EXCLUDED.bollinger_lower,
			ma_50 = EXCLUDED.ma_50,
			ma_200 = EXCLUDED.ma_200,
			updated_at = NOW()
	`

	for _, obs := range observations {
		_, err := tx.Exec(ctx, query,
			obs.Symbol, obs.Timestamp, obs.Price, obs.Volume,
			obs.RSI, obs.MACD, obs.MACDSignal,
			obs.BollingerUpper, obs.BollingerLower,
			obs.MA50, obs.MA200,
		)
		if err != nil {
			return fmt.Errorf("failed to save observation for %s: %w", obs.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanMarketRows(rows pgx.Rows) ([]contracts.MarketObservation, error) {
	var observations []contracts.MarketObservation
	for rows.Next() {
		var obs contracts.MarketObservation
		err := rows.Scan(
			&obs.Symbol, &obs.Timestamp, &obs.Price, &obs.Volume,
			&obs.RSI, &obs.MACD, &obs.MACDSignal,
			&obs.BollingerUpper, &obs.BollingerLower,
			&obs.MA50, &obs.MA200,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		observations = append(observations, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return observations, nil
}
