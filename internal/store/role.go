package store

import (
	"context"

	"github.com/bulatsharif/trading-api/internal/domain"
)

// RoleStore defines the interface for role data persistence.
type RoleStore interface {
	// Create saves a new role and populates its generated ID.
	Create(ctx context.Context, role *domain.Role) error

	// GetByID retrieves a role by its ID.
	// Returns ErrRoleNotFound if the role does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Role, error)

	// Delete removes a role. Deletion is restricted: ErrRoleInUse is
	// returned while any user still references the role.
	Delete(ctx context.Context, id int64) error
}
