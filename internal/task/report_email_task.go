package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bulatsharif/trading-api/internal/email"
	"github.com/bulatsharif/trading-api/internal/store"
)

// reportEmailPayload is the persisted task data. It carries everything
// needed to re-render the report after a restart.
type reportEmailPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// ReportEmailTask renders a dashboard report for a user and delivers it by
// email. Delivery success or failure is invisible to the request that
// enqueued the task.
type ReportEmailTask struct {
	id         uuid.UUID
	payload    []byte
	data       reportEmailPayload
	status     TaskStatus
	sender     email.Sender
	tradeStore store.TradeStore
	logger     *slog.Logger
}

// Ensure ReportEmailTask implements Task
var _ Task = (*ReportEmailTask)(nil)

// NewReportEmailTask creates a new task addressed to the given user.
func NewReportEmailTask(
	userID uuid.UUID,
	username string,
	emailAddr string,
	sender email.Sender,
	tradeStore store.TradeStore,
	logger *slog.Logger,
) (*ReportEmailTask, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender cannot be nil")
	}
	if emailAddr == "" {
		return nil, fmt.Errorf("recipient email cannot be empty")
	}

	data := reportEmailPayload{
		UserID:   userID,
		Username: username,
		Email:    emailAddr,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	return &ReportEmailTask{
		id:         uuid.New(),
		payload:    payload,
		data:       data,
		status:     TaskStatusPending,
		sender:     sender,
		tradeStore: tradeStore,
		logger:     logger.With(slog.String("component", "report_email_task")),
	}, nil
}

// ID returns the task's unique identifier
func (t *ReportEmailTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ReportEmailTask) Type() string {
	return TaskTypeReportEmail
}

// Payload returns the task data as a byte slice
func (t *ReportEmailTask) Payload() []byte {
	return t.payload
}

// Status returns the current task status
func (t *ReportEmailTask) Status() TaskStatus {
	return t.status
}

// Execute renders the dashboard report and sends it. A failed delivery
// marks the task failed; the runner records the error message.
func (t *ReportEmailTask) Execute(ctx context.Context) error {
	report := email.DashboardReport{
		Username:    t.data.Username,
		GeneratedAt: time.Now().UTC(),
	}

	if t.tradeStore != nil {
		count, err := t.tradeStore.CountByUser(ctx, t.data.UserID.String())
		if err != nil {
			// The report is still worth sending without the trade count.
			t.logger.Warn("failed to count trades for report",
				slog.String("user_id", t.data.UserID.String()),
				slog.String("error", err.Error()))
		} else {
			report.TradeCount = count
		}
	}

	if err := t.sender.SendDashboardReport(ctx, t.data.Email, report); err != nil {
		return fmt.Errorf("failed to deliver dashboard report: %w", err)
	}

	return nil
}
