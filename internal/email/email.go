// Package email provides outbound email delivery for background workers.
package email

import (
	"context"
	"time"
)

// DashboardReport holds the data rendered into a dashboard report email.
type DashboardReport struct {
	Username    string
	TradeCount  int64
	GeneratedAt time.Time
}

// Sender defines the interface for delivering dashboard report emails.
// Implementations are invoked only by background workers, never from the
// request path.
type Sender interface {
	SendDashboardReport(ctx context.Context, to string, report DashboardReport) error
}
