package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/platform/logger"
	"github.com/bulatsharif/trading-api/internal/store"
)

// PostgresRoleStore implements the store.RoleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRoleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRoleStore creates a new PostgreSQL implementation of the
// RoleStore interface.
func NewPostgresRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRoleStore{
		db:     db,
		logger: logger.With(slog.String("component", "role_store")),
	}
}

// Ensure PostgresRoleStore implements store.RoleStore interface
var _ store.RoleStore = (*PostgresRoleStore)(nil)

// Create implements store.RoleStore.Create
func (s *PostgresRoleStore) Create(ctx context.Context, role *domain.Role) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := role.Validate(); err != nil {
		log.Warn("role validation failed during create", slog.String("error", err.Error()))
		return err
	}

	var permissions []byte
	if role.Permissions != nil {
		var err error
		permissions, err = json.Marshal(role.Permissions)
		if err != nil {
			return fmt.Errorf("failed to marshal role permissions: %w", err)
		}
	}

	query := `
		INSERT INTO roles (name, permissions)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := s.db.QueryRowContext(ctx, query, role.Name, permissions).Scan(&role.ID); err != nil {
		log.Error("failed to create role",
			slog.String("error", err.Error()),
			slog.String("name", role.Name))
		return MapError(err)
	}

	log.Info("role created successfully",
		slog.Int64("role_id", role.ID),
		slog.String("name", role.Name))
	return nil
}

// GetByID implements store.RoleStore.GetByID
// Returns store.ErrRoleNotFound if the role does not exist.
func (s *PostgresRoleStore) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, permissions
		FROM roles
		WHERE id = $1
	`

	var role domain.Role
	var permissions []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.Name, &permissions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("role not found", slog.Int64("role_id", id))
			return nil, store.ErrRoleNotFound
		}
		log.Error("failed to get role by ID",
			slog.String("error", err.Error()),
			slog.Int64("role_id", id))
		return nil, MapError(err)
	}

	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &role.Permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal role permissions: %w", err)
		}
	}

	return &role, nil
}

// Delete implements store.RoleStore.Delete
// Deletion is restricted while any user references the role; in that case
// store.ErrRoleInUse is returned and the role is left untouched.
func (s *PostgresRoleStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			log.Debug("role deletion restricted, still referenced",
				slog.Int64("role_id", id))
			return store.ErrRoleInUse
		}
		log.Error("failed to delete role",
			slog.String("error", err.Error()),
			slog.Int64("role_id", id))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrRoleNotFound
	}

	log.Info("role deleted", slog.Int64("role_id", id))
	return nil
}
