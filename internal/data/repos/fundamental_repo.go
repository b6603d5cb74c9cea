package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/sage/internal/contracts"
)

// FundamentalRepository implements contracts.FundamentalRepository
// ⭐ SSOT: 펀더멘털 비율 데이터 저장/조회는 여기서만
type FundamentalRepository struct {
	pool *pgxpool.Pool
}

// NewFundamentalRepository creates a new fundamental repository
func NewFundamentalRepository(pool *pgxpool.Pool) *FundamentalRepository {
	return &FundamentalRepository{pool: pool}
}

// GetBySymbol retrieves the latest ratios for one symbol.
// Returns (nil, nil) when the symbol has no record.
func (r *FundamentalRepository) GetBySymbol(ctx context.Context, symbol string) (*contracts.FundamentalRecord, error) {
	query := `
		SELECT symbol, pe_ratio, pb_ratio, debt_to_equity, roe, profit_margin
		FROM advisory.fundamentals
		WHERE symbol = $1
	`

	var rec contracts.FundamentalRecord
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&rec.Symbol,
		&rec.PERatio, &rec.PBRatio, &rec.DebtToEquity,
		&rec.ROE, &rec.ProfitMargin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fundamentals: %w", err)
	}

	return &rec, nil
}

// GetAll retrieves fundamentals for every symbol
func (r *FundamentalRepository) GetAll(ctx context.Context) ([]contracts.FundamentalRecord, error) {
	query := `
		SELECT symbol, pe_ratio, pb_ratio, debt_to_equity, roe, profit_margin
		FROM advisory.fundamentals
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fundamentals: %w", err)
	}
	defer rows.Close()

	var records []contracts.FundamentalRecord
	for rows.Next() {
		var rec contracts.FundamentalRecord
		err := rows.Scan(
			&rec.Symbol,
			&rec.PERatio, &rec.PBRatio, &rec.DebtToEquity,
			&rec.ROE, &rec.ProfitMargin,
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

// SaveBatch upserts ratio records in a single transaction
func (r *FundamentalRepository) SaveBatch(ctx context.Context, records []contracts.FundamentalRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO advisory.fundamentals (
			symbol, pe_ratio, pb_ratio, debt_to_equity, roe, profit_margin
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol) DO UPDATE SET
			pe_ratio = EXCLUDED.pe_ratio,
			pb_ratio = EXCLUDED.pb_ratio,
			debt_to_equity = EXCLUDED.debt_to_equity,
			roe = EXCLUDED.roe,
			profit_margin = EXCLUDED.profit_margin,
			updated_at = NOW()
	`

	for _, rec := range records {
		_, err := tx.Exec(ctx, query,
			rec.Symbol,
			rec.PERatio, rec.PBRatio, rec.DebtToEquity,
			rec.ROE, rec.ProfitMargin,
		)
		if err != nil {
			return fmt.Errorf("failed to save fundamentals for %s: %w", rec.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
