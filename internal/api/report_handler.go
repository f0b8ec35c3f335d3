package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bulatsharif/trading-api/internal/api/middleware"
	"github.com/bulatsharif/trading-api/internal/api/shared"
	"github.com/bulatsharif/trading-api/internal/task"
)

// TaskSubmitter enqueues a task for background execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

const reportAckMessage = "The email with the dashboard report has been sent"

// ReportHandler enqueues dashboard report emails for the authenticated caller.
type ReportHandler struct {
	factory   *task.ReportEmailTaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// NewReportHandler creates a ReportHandler with the given dependencies.
func NewReportHandler(factory *task.ReportEmailTaskFactory, submitter TaskSubmitter, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "report_handler")),
	}
}

// Dashboard enqueues a report email for the authenticated user and
// acknowledges immediately. Delivery happens in the background; the handler
// never waits for it.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	user, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	reportTask, err := h.factory.CreateTask(user.ID, user.Username, user.Email)
	if err != nil {
		log.Error("failed to create report task",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		shared.RespondWithEnvelope(w, r, http.StatusInternalServerError, shared.Envelope{
			Status:  http.StatusInternalServerError,
			Data:    nil,
			Details: "Failed to prepare report dispatch",
		})
		return
	}

	// Enqueue failures surface as 503; an ack is only sent once the task
	// is durably queued.
	if err := h.submitter.Submit(r.Context(), reportTask); err != nil {
		status := MapErrorToStatusCode(err)
		log.Error("failed to enqueue report task",
			slog.String("user_id", user.ID.String()),
			slog.String("task_id", reportTask.ID().String()),
			slog.Int("status_code", status),
			slog.String("error", err.Error()))
		shared.RespondWithEnvelope(w, r, status, shared.Envelope{
			Status:  status,
			Data:    nil,
			Details: GetSafeErrorMessage(err),
		})
		return
	}

	log.Info("report task enqueued",
		slog.String("user_id", user.ID.String()),
		slog.String("task_id", reportTask.ID().String()))

	shared.RespondWithEnvelope(w, r, http.StatusOK, shared.Envelope{
		Status:  http.StatusOK,
		Data:    reportAckMessage,
		Details: nil,
	})
}
