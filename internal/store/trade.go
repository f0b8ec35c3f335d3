package store

import (
	"context"

	"github.com/bulatsharif/trading-api/internal/domain"
)

// TradeStore defines the interface for trade persistence.
type TradeStore interface {
	// CreateBatch inserts the given trades in a single transaction and
	// populates their generated IDs. Either all trades are stored or none.
	CreateBatch(ctx context.Context, trades []domain.Trade) error

	// List returns all stored trades in insertion order.
	List(ctx context.Context) ([]domain.Trade, error)

	// CountByUser returns the number of trades attributed to the given user.
	CountByUser(ctx context.Context, userID string) (int64, error)
}
