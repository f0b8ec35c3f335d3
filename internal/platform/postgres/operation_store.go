package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/platform/logger"
	"github.com/bulatsharif/trading-api/internal/store"
)

// PostgresOperationStore implements the store.OperationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresOperationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOperationStore creates a new PostgreSQL implementation of the
// OperationStore interface.
func NewPostgresOperationStore(db store.DBTX, logger *slog.Logger) *PostgresOperationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOperationStore{
		db:     db,
		logger: logger.With(slog.String("component", "operation_store")),
	}
}

// Ensure PostgresOperationStore implements store.OperationStore interface
var _ store.OperationStore = (*PostgresOperationStore)(nil)

// ListByType implements store.OperationStore.ListByType
// A type with no matching rows yields an empty slice, not an error.
func (s *PostgresOperationStore) ListByType(ctx context.Context, operationType string) ([]domain.Operation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, quantity, figi, instrument_type, date, type
		FROM operations
		WHERE type = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, operationType)
	if err != nil {
		log.Error("failed to query operations",
			slog.String("error", err.Error()),
			slog.String("operation_type", operationType))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	operations := make([]domain.Operation, 0)

	for rows.Next() {
		var op domain.Operation
		if err := rows.Scan(&op.ID, &op.Quantity, &op.Figi, &op.InstrumentType, &op.Date, &op.Type); err != nil {
			return nil, fmt.Errorf("failed to scan operation row: %w", err)
		}
		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return operations, nil
}

// Create implements store.OperationStore.Create
func (s *PostgresOperationStore) Create(ctx context.Context, op *domain.Operation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO operations (quantity, figi, instrument_type, date, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		op.Quantity,
		op.Figi,
		op.InstrumentType,
		op.Date,
		op.Type,
	).Scan(&op.ID)

	if err != nil {
		log.Error("failed to create operation",
			slog.String("error", err.Error()),
			slog.String("operation_type", op.Type))
		return MapError(err)
	}

	return nil
}
