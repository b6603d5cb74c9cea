package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/sage/internal/contracts"
)

// SentimentRepository implements contracts.SentimentRepository
// ⭐ SSOT: 센티먼트 데이터 저장/조회는 여기서만
type SentimentRepository struct {
	pool *pgxpool.Pool
}

// NewSentimentRepository creates a new sentiment repository
func NewSentimentRepository(pool *pgxpool.Pool) *SentimentRepository {
	return &SentimentRepository{pool: pool}
}

// GetBySymbolAndDateRange retrieves sentiment records for one symbol, oldest first
func (r *SentimentRepository) GetBySymbolAndDateRange(ctx context.Context, symbol string, from, to time.Time) ([]contracts.SentimentRecord, error) {
	query := `
		SELECT symbol, observed_at, news_score, social_score, analyst_score
		FROM advisory.sentiment
		WHERE symbol = $1 AND observed_at >= $2 AND observed_at <= $3
		ORDER BY observed_at
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment: %w", err)
	}
	defer rows.Close()

	return scanSentimentRows(rows)
}

// GetAll retrieves all sentiment records within the date range
func (r *SentimentRepository) GetAll(ctx context.Context, from, to time.Time) ([]contracts.SentimentRecord, error) {
	query := `
		SELECT symbol, observed_at, news_score, social_score, analyst_score
		FROM advisory.sentiment
		WHERE observed_at >= $1 AND observed_at <= $2
		ORDER BY symbol, observed_at
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment: %w", err)
	}
	defer rows.Close()

	return scanSentimentRows(rows)
}

// SaveBatch upserts sentiment records in a single transaction
func (r *SentimentRepository) SaveBatch(ctx context.Context, records []contracts.SentimentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO advisory.sentiment (
			symbol, observed_at, news_score, social_score, analyst_score
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol, observed_at) DO UPDATE SET
			news_score = EXCLUDED.news_score,
			social_score = EXCLUDED.social_score,
			analyst_score = EXCLUDED.analyst_score,
			updated_at = NOW()
	`

	for _, rec := range records {
		_, err := tx.Exec(ctx, query,
			rec.Symbol, rec.Timestamp,
			rec.NewsScore, rec.SocialScore, rec.AnalystScore,
		)
		if err != nil {
			return fmt.Errorf("failed to save sentiment for %s: %w", rec.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanSentimentRows(rows pgx.Rows) ([]contracts.SentimentRecord, error) {
	var records []contracts.SentimentRecord
	for rows.Next() {
		var rec contracts.SentimentRecord
		err := rows.Scan(
			&rec.Symbol, &rec.Timestamp,
			&rec.NewsScore, &rec.SocialScore, &rec.AnalystScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}
