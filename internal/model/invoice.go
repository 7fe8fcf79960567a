package model

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID         uuid.UUID `json:"id"`
	Number     int       `json:"number"`
	Reason     string    `json:"reason"`
	Tax1       *float64  `json:"tax_1"`
	Tax2       *float64  `json:"tax_2"`
	WithTaxes  bool      `json:"with_taxes"`
	WithTables bool      `json:"with_tables"`
	CustomerID uuid.UUID `json:"customer_id"`
	UserID     uuid.UUID `json:"user_id"`
	CreatedAt  time.Time `json:"created"`
	UpdatedAt  time.Time `json:"updated"`
}

// Tax1Rate returns the first tax rate or 0 when the invoice has none.
func (i Invoice) Tax1Rate() float64 {
	if i.Tax1 == nil {
		return 0
	}
	return *i.Tax1
}

func (i Invoice) Tax2Rate() float64 {
	if i.Tax2 == nil {
		return 0
	}
	return *i.Tax2
}
