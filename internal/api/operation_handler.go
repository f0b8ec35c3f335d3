package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/bulatsharif/trading-api/internal/api/shared"
	"github.com/bulatsharif/trading-api/internal/cache"
	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/store"
)

// lookupBackoff bounds retries of idempotent reads on transient upstream
// failures. Three attempts total, constant spacing.
func lookupBackoff() retry.Backoff {
	return retry.WithMaxRetries(2, retry.NewConstant(100*time.Millisecond))
}

// OperationHandler serves the operation lookup and long-operation endpoints.
type OperationHandler struct {
	operationStore store.OperationStore
	longOperation  *cache.Wrapper
	compute        cache.ComputeFunc
	logger         *slog.Logger
}

// NewOperationHandler creates an OperationHandler. The compute func produces
// the long-operation payload and is only invoked on cache misses.
func NewOperationHandler(
	operationStore store.OperationStore,
	longOperation *cache.Wrapper,
	compute cache.ComputeFunc,
	logger *slog.Logger,
) *OperationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationHandler{
		operationStore: operationStore,
		longOperation:  longOperation,
		compute:        compute,
		logger:         logger.With(slog.String("component", "operation_handler")),
	}
}

// List handles operation lookup by type. The operation_type query parameter
// is required; zero matches produce a success envelope with an empty list.
func (h *OperationHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	operationType := r.URL.Query().Get("operation_type")
	if operationType == "" {
		shared.RespondWithEnvelope(w, r, http.StatusBadRequest, shared.Envelope{
			Status:  "error",
			Data:    nil,
			Details: "operation_type query parameter is required",
		})
		return
	}

	operations, err := h.listWithRetry(r.Context(), operationType)
	if err != nil {
		status := MapErrorToStatusCode(err)
		log.Error("operation lookup failed",
			slog.String("operation_type", operationType),
			slog.Int("status_code", status),
			slog.String("error", err.Error()))
		shared.RespondWithEnvelope(w, r, status, shared.Envelope{
			Status:  "error",
			Data:    nil,
			Details: GetSafeErrorMessage(err),
		})
		return
	}

	shared.RespondWithEnvelope(w, r, http.StatusOK, shared.Envelope{
		Status:  "success",
		Data:    operations,
		Details: nil,
	})
}

// listWithRetry retries the lookup on transient upstream failures. The read
// is idempotent so a bounded retry is safe.
func (h *OperationHandler) listWithRetry(ctx context.Context, operationType string) ([]domain.Operation, error) {
	var operations []domain.Operation

	err := retry.Do(ctx, lookupBackoff(), func(ctx context.Context) error {
		var lookupErr error
		operations, lookupErr = h.operationStore.ListByType(ctx, operationType)
		if lookupErr != nil {
			if errors.Is(lookupErr, store.ErrUnavailable) {
				return retry.RetryableError(lookupErr)
			}
			return lookupErr
		}
		return nil
	})

	return operations, err
}

// LongOperation serves the slow computed payload through the TTL cache.
// Repeated calls within the TTL window return the cached result.
func (h *OperationHandler) LongOperation(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	payload, err := h.longOperation.Do(r.Context(), h.compute)
	if err != nil {
		log.Error("long operation failed", slog.String("error", err.Error()))
		shared.RespondWithEnvelope(w, r, MapErrorToStatusCode(err), shared.Envelope{
			Status:  "error",
			Data:    nil,
			Details: GetSafeErrorMessage(err),
		})
		return
	}

	shared.RespondWithEnvelope(w, r, http.StatusOK, shared.Envelope{
		Status:  "success",
		Data:    string(payload),
		Details: nil,
	})
}
