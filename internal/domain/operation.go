package domain

import "time"

// Operation is a single exchange operation record. The type attribute is the
// only field the lookup endpoint filters on; the rest mirror the broker's
// export format.
type Operation struct {
	ID             int64     `json:"id"`
	Quantity       string    `json:"quantity"`
	Figi           string    `json:"figi"`
	InstrumentType string    `json:"instrument_type"`
	Date           time.Time `json:"date"`
	Type           string    `json:"type"`
}
