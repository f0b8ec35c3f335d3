package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Trade validation errors
var (
	ErrCurrencyTooLong  = errors.New("currency code must be at most 5 characters")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrInvalidTradeSide = errors.New("trade side must be buy or sell")
)

// Valid trade sides
const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

const maxCurrencyLength = 5

// Trade is a single executed trade submitted by a client. The ID is assigned
// by the store on insert.
type Trade struct {
	ID       int64     `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Currency string    `json:"currency"`
	Side     string    `json:"side"`
	Price    float64   `json:"price"`
	Amount   float64   `json:"amount"`
}

// Validate checks if the Trade has valid data.
func (t *Trade) Validate() error {
	if len(t.Currency) > maxCurrencyLength {
		return ErrCurrencyTooLong
	}

	if t.Price < 0 {
		return ErrNegativePrice
	}

	if t.Side != TradeSideBuy && t.Side != TradeSideSell {
		return ErrInvalidTradeSide
	}

	return nil
}
