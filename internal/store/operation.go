package store

import (
	"context"

	"github.com/bulatsharif/trading-api/internal/domain"
)

// OperationStore defines the interface for operation record persistence.
type OperationStore interface {
	// ListByType returns all operations with the given type attribute.
	// A type with no matching rows yields an empty slice, not an error.
	ListByType(ctx context.Context, operationType string) ([]domain.Operation, error)

	// Create inserts a new operation record and populates its generated ID.
	Create(ctx context.Context, op *domain.Operation) error
}
