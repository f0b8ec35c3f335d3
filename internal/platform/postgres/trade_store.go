package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/platform/logger"
	"github.com/bulatsharif/trading-api/internal/store"
)

// PostgresTradeStore implements the store.TradeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTradeStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTradeStore creates a new PostgreSQL implementation of the
// TradeStore interface. It requires a *sql.DB rather than a DBTX because
// CreateBatch manages its own transaction.
func NewPostgresTradeStore(db *sql.DB, logger *slog.Logger) *PostgresTradeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTradeStore{
		db:     db,
		logger: logger.With(slog.String("component", "trade_store")),
	}
}

// Ensure PostgresTradeStore implements store.TradeStore interface
var _ store.TradeStore = (*PostgresTradeStore)(nil)

// CreateBatch implements store.TradeStore.CreateBatch
// All trades are validated and inserted inside a single transaction; any
// failure rolls back the whole batch so no side effect is observed.
func (s *PostgresTradeStore) CreateBatch(ctx context.Context, trades []domain.Trade) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(trades) == 0 {
		return nil
	}

	for i := range trades {
		if err := trades[i].Validate(); err != nil {
			return fmt.Errorf("%w: trade %d: %v", store.ErrInvalidEntity, i, err)
		}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO trades (user_id, currency, side, price, amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		for i := range trades {
			t := &trades[i]
			if err := tx.QueryRowContext(ctx, query,
				t.UserID, t.Currency, t.Side, t.Price, t.Amount,
			).Scan(&t.ID); err != nil {
				return MapError(err)
			}
		}
		return nil
	})

	if err != nil {
		log.Error("failed to store trade batch",
			slog.String("error", err.Error()),
			slog.Int("count", len(trades)))
		return err
	}

	log.Info("trade batch stored", slog.Int("count", len(trades)))
	return nil
}

// List implements store.TradeStore.List
func (s *PostgresTradeStore) List(ctx context.Context) ([]domain.Trade, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, currency, side, price, amount
		FROM trades
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query trades", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	trades := make([]domain.Trade, 0)

	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(&t.ID, &t.UserID, &t.Currency, &t.Side, &t.Price, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return trades, nil
}

// CountByUser implements store.TradeStore.CountByUser
func (s *PostgresTradeStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trades WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}
