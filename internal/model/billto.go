package model

import "github.com/google/uuid"

type BillTo struct {
	ID        uuid.UUID  `json:"id"`
	To        string     `json:"to"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	InvoiceID *uuid.UUID `json:"invoice_id"`
	FileID    *uuid.UUID `json:"file_id"`
	UserID    *uuid.UUID `json:"user_id"`
}
