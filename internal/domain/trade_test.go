package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTradeValidate(t *testing.T) {
	t.Parallel()

	valid := Trade{
		UserID:   uuid.New(),
		Currency: "USD",
		Side:     TradeSideBuy,
		Price:    100.5,
		Amount:   3,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Trade)
		wantErr error
	}{
		{
			name:    "currency too long",
			mutate:  func(tr *Trade) { tr.Currency = "DOLLAR" },
			wantErr: ErrCurrencyTooLong,
		},
		{
			name:    "negative price",
			mutate:  func(tr *Trade) { tr.Price = -0.01 },
			wantErr: ErrNegativePrice,
		},
		{
			name:    "unknown side",
			mutate:  func(tr *Trade) { tr.Side = "hold" },
			wantErr: ErrInvalidTradeSide,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			trade := valid
			tt.mutate(&trade)
			assert.ErrorIs(t, trade.Validate(), tt.wantErr)
		})
	}
}

func TestTradeValidateZeroPrice(t *testing.T) {
	t.Parallel()

	trade := Trade{
		UserID:   uuid.New(),
		Currency: "EUR",
		Side:     TradeSideSell,
		Price:    0,
		Amount:   1,
	}
	assert.NoError(t, trade.Validate(), "zero price is allowed")
}
