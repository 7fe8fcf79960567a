package pipeline

import "github.com/google/uuid"

// Event type names dispatched over the bus.
const (
	EventExtractionRequested    = "pipeline.extraction_requested"
	EventDocumentBuildRequested = "pipeline.document_build_requested"
	EventFinalizeRequested      = "pipeline.finalize_requested"
)

// ExtractionRequested asks the extraction stage to recover contract blocks
// from an uploaded spreadsheet and persist the derived services. Payloads
// are immutable; every stage constructs a fresh event for the next.
type ExtractionRequested struct {
	RequestID      uuid.UUID
	UserID         uuid.UUID
	InvoiceID      uuid.UUID
	FileID         uuid.UUID
	SpreadsheetKey string
	SheetNames     []string
	HourColumn     string
	Currency       string
}

func (ExtractionRequested) EventType() string { return EventExtractionRequested }

// DocumentBuildRequested asks the build stage to render the invoice document
// from the persisted records.
type DocumentBuildRequested struct {
	RequestID uuid.UUID
	UserID    uuid.UUID
	InvoiceID uuid.UUID
	FileID    uuid.UUID
}

func (DocumentBuildRequested) EventType() string { return EventDocumentBuildRequested }

// FinalizeRequested carries the assembled document to the finalize stage,
// which uploads it and patches the file record.
type FinalizeRequested struct {
	RequestID uuid.UUID
	UserID    uuid.UUID
	InvoiceID uuid.UUID
	FileID    uuid.UUID
	Document  []byte
}

func (FinalizeRequested) EventType() string { return EventFinalizeRequested }
