package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bulatsharif/trading-api/internal/email"
	"github.com/bulatsharif/trading-api/internal/store"
)

// ReportEmailTaskFactory creates ReportEmailTask instances
type ReportEmailTaskFactory struct {
	sender     email.Sender
	tradeStore store.TradeStore
	logger     *slog.Logger
}

// NewReportEmailTaskFactory creates a new factory for ReportEmailTasks
func NewReportEmailTaskFactory(
	sender email.Sender,
	tradeStore store.TradeStore,
	logger *slog.Logger,
) *ReportEmailTaskFactory {
	return &ReportEmailTaskFactory{
		sender:     sender,
		tradeStore: tradeStore,
		logger:     logger.With("component", "report_email_task_factory"),
	}
}

// CreateTask creates a new ReportEmailTask addressed to the given user
func (f *ReportEmailTaskFactory) CreateTask(userID uuid.UUID, username, emailAddr string) (Task, error) {
	t, err := NewReportEmailTask(
		userID,
		username,
		emailAddr,
		f.sender,
		f.tradeStore,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Rehydrate reconstructs the execution logic for a report email task loaded
// from the database, so tasks interrupted by a restart still run to
// completion. Unknown task types are rejected.
func (f *ReportEmailTaskFactory) Rehydrate(taskType string, payload []byte) (func(ctx context.Context) error, error) {
	if taskType != TaskTypeReportEmail {
		return nil, fmt.Errorf("unknown task type %q", taskType)
	}

	var data reportEmailPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report email payload: %w", err)
	}

	t := &ReportEmailTask{
		id:         uuid.New(),
		payload:    payload,
		data:       data,
		status:     TaskStatusPending,
		sender:     f.sender,
		tradeStore: f.tradeStore,
		logger:     f.logger,
	}

	return t.Execute, nil
}
