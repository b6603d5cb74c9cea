package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/sage/internal/contracts"
)

// SignalRepository implements contracts.SignalRepository
// ⭐ SSOT: 어드바이저리 시그널 저장/조회는 여기서만
type SignalRepository struct {
	pool *pgxpool.Pool
}

// NewSignalRepository creates a new signal repository
func NewSignalRepository(pool *pgxpool.Pool) *SignalRepository {
	return &SignalRepository{pool: pool}
}

// SaveBatch saves every signal and outcome of one batch in a transaction.
// 배치 단위로 전부 저장되거나 전부 저장되지 않는다.
func (r *SignalRepository) SaveBatch(ctx context.Context, batch *contracts.SignalBatch) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	signalQuery := `
		INSERT INTO advisory.signals (
			symbol, signal_type, overall_score, confidence_score,
			generated_at, rationale, price_target, stop_loss, time_horizon
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol, generated_at) DO UPDATE SET
			signal_type = EXCLUDED.signal_type,
			overall_score = EXCLUDED.overall_score,
			confidence_score = EXCLUDED.confidence_score,
			rationale = EXCLUDED.rationale,
			price_target = EXCLUDED.price_target,
			stop_loss = EXCLUDED.stop_loss,
			time_horizon = EXCLUDED.time_horizon
	`
	for _, sig := range batch.Signals {
		_, err := tx.Exec(ctx, signalQuery,
			sig.Symbol, string(sig.Type), sig.OverallScore, sig.ConfidenceScore,
			sig.GeneratedAt, sig.Rationale, sig.PriceTarget, sig.StopLoss, sig.TimeHorizon,
		)
		if err != nil {
			return fmt.Errorf("failed to save signal for %s: %w", sig.Symbol, err)
		}
	}

	outcomeQuery := `
		INSERT INTO advisory.batch_outcomes (
			symbol, generated_at, state, reason
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol, generated_at) DO UPDATE SET
			state = EXCLUDED.state,
			reason = EXCLUDED.reason
	`
	for _, out := range batch.Outcomes {
		_, err := tx.Exec(ctx, outcomeQuery,
			out.Symbol, batch.GeneratedAt, string(out.State), out.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to save outcome for %s: %w", out.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLatest retrieves every signal from the most recent batch
func (r *SignalRepository) GetLatest(ctx context.Context) ([]contracts.AdvisorySignal, error) {
	query := `
		SELECT symbol, signal_type, overall_score, confidence_score,
		       generated_at, rationale, price_target, stop_loss, time_horizon
		FROM advisory.signals
		WHERE generated_at = (SELECT MAX(generated_at) FROM advisory.signals)
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest signals: %w", err)
	}
	defer rows.Close()

	return scanSignalRows(rows)
}

// GetBySymbol retrieves a symbol's signal history, newest first
func (r *SignalRepository) GetBySymbol(ctx context.Context, symbol string, limit int) ([]contracts.AdvisorySignal, error) {
	query := `
		SELECT symbol, signal_type, overall_score, confidence_score,
		       generated_at, rationale, price_target, stop_loss, time_horizon
		FROM advisory.signals
		WHERE symbol = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals for %s: %w", symbol, err)
	}
	defer rows.Close()

	return scanSignalRows(rows)
}

func scanSignalRows(rows pgx.Rows) ([]contracts.AdvisorySignal, error) {
	var signals []contracts.AdvisorySignal
	for rows.Next() {
		var sig contracts.AdvisorySignal
		var signalType string
		err := rows.Scan(
			&sig.Symbol, &signalType, &sig.OverallScore, &sig.ConfidenceScore,
			&sig.GeneratedAt, &sig.Rationale, &sig.PriceTarget, &sig.StopLoss, &sig.TimeHorizon,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		sig.Type = contracts.SignalType(signalType)
		signals = append(signals, sig)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return signals, nil
}
