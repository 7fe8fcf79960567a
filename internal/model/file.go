package model

import (
	"time"

	"github.com/google/uuid"
)

// File is the artifact bundle of one invoice generation: the uploaded source
// spreadsheet (if any) and the rendered invoice document. DocumentKey stays
// nil until the finalize stage patches it.
type File struct {
	ID             uuid.UUID  `json:"id"`
	SpreadsheetKey *string    `json:"spreadsheet_key"`
	DocumentKey    *string    `json:"document_key"`
	SheetNames     []string   `json:"sheet_names" gorm:"-"`
	SheetNamesRaw  *string    `json:"-"`
	InvoiceID      *uuid.UUID `json:"invoice_id"`
	BillToID       uuid.UUID  `json:"bill_to_id"`
	UserID         uuid.UUID  `json:"user_id"`
	CreatedAt      time.Time  `json:"created"`
}
