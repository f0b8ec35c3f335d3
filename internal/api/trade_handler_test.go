package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulatsharif/trading-api/internal/store"
)

func postTrades(t *testing.T, handler *TradeHandler, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/trades", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Create(w, req)
	return w
}

func validTradePayload() map[string]any {
	return map[string]any{
		"user_id":  uuid.New().String(),
		"currency": "USD",
		"side":     "buy",
		"price":    100.5,
		"amount":   3,
	}
}

func TestCreateTrades(t *testing.T) {
	t.Parallel()

	trades := &fakeTradeStore{}
	handler := NewTradeHandler(trades, nil)

	w := postTrades(t, handler, []map[string]any{validTradePayload(), validTradePayload()})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, float64(http.StatusOK), envelope["status"])

	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2, "the response echoes the accumulated trade list")
}

func TestCreateTradesAccumulates(t *testing.T) {
	t.Parallel()

	trades := &fakeTradeStore{}
	handler := NewTradeHandler(trades, nil)

	first := postTrades(t, handler, []map[string]any{validTradePayload()})
	require.Equal(t, http.StatusOK, first.Code)

	second := postTrades(t, handler, []map[string]any{validTradePayload()})
	require.Equal(t, http.StatusOK, second.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &envelope))
	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestCreateTradesValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{
			name:   "currency too long",
			mutate: func(p map[string]any) { p["currency"] = "DOLLAR" },
		},
		{
			name:   "negative price",
			mutate: func(p map[string]any) { p["price"] = -1.0 },
		},
		{
			name:   "unknown side",
			mutate: func(p map[string]any) { p["side"] = "hold" },
		},
		{
			name:   "zero amount",
			mutate: func(p map[string]any) { p["amount"] = 0 },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			trades := &fakeTradeStore{}
			handler := NewTradeHandler(trades, nil)

			payload := validTradePayload()
			tt.mutate(payload)

			w := postTrades(t, handler, []map[string]any{payload})
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Empty(t, trades.trades, "rejected batches must not be persisted")
		})
	}
}

func TestCreateTradesRejectsWholeBatch(t *testing.T) {
	t.Parallel()

	trades := &fakeTradeStore{}
	handler := NewTradeHandler(trades, nil)

	bad := validTradePayload()
	bad["currency"] = "DOLLAR"

	w := postTrades(t, handler, []map[string]any{validTradePayload(), bad})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, trades.trades, "one invalid trade rejects the whole batch")
}

func TestCreateTradesStoreFailure(t *testing.T) {
	t.Parallel()

	trades := &fakeTradeStore{createErr: store.ErrUnavailable}
	handler := NewTradeHandler(trades, nil)

	w := postTrades(t, handler, []map[string]any{validTradePayload()})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateTradesMalformedBody(t *testing.T) {
	t.Parallel()

	handler := NewTradeHandler(&fakeTradeStore{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/trades", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
