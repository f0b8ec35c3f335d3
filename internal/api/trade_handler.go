package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bulatsharif/trading-api/internal/api/shared"
	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/store"
)

// TradeHandler serves trade ingestion requests.
type TradeHandler struct {
	tradeStore store.TradeStore
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewTradeHandler creates a TradeHandler with the given dependencies.
func NewTradeHandler(tradeStore store.TradeStore, logger *slog.Logger) *TradeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradeHandler{
		tradeStore: tradeStore,
		validate:   validator.New(),
		logger:     logger.With(slog.String("component", "trade_handler")),
	}
}

// Create validates and persists a batch of trades, then responds with the
// full accumulated trade list. Validation failures reject the whole batch
// before any row is written.
func (h *TradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var reqs []TradeRequest
	if err := DecodeJSON(r, &reqs); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	trades := make([]domain.Trade, 0, len(reqs))
	for _, req := range reqs {
		if err := h.validate.Struct(req); err != nil {
			shared.RespondWithDetails(w, r, http.StatusUnprocessableEntity, "Validation failed", ValidationDetails(err))
			return
		}

		trade := req.ToDomain()
		if err := trade.Validate(); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		trades = append(trades, trade)
	}

	if err := h.tradeStore.CreateBatch(r.Context(), trades); err != nil {
		log.Error("failed to persist trades",
			slog.Int("count", len(trades)),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	all, err := h.tradeStore.List(r.Context())
	if err != nil {
		log.Error("failed to list trades", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	log.Info("trades persisted", slog.Int("count", len(trades)))
	shared.RespondWithEnvelope(w, r, http.StatusOK, shared.Envelope{
		Status:  http.StatusOK,
		Data:    all,
		Details: nil,
	})
}
