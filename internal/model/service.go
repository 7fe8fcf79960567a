package model

import "github.com/google/uuid"

// Service is one billable line item. Amount is derived once at creation time
// from hours and price per hour and never recomputed afterwards.
type Service struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Hours     float64   `json:"hours"`
	PriceUnit float64   `json:"price_unit"`
	FileID    uuid.UUID `json:"file_id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	UserID    uuid.UUID `json:"user_id"`
}
