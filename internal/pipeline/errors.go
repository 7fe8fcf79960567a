package pipeline

import "errors"

var (
	// ErrInvoiceConflict means an invoice with the same number already
	// exists for the customer and the caller did not opt into reusing it.
	ErrInvoiceConflict = errors.New("an invoice with this number already exists for the customer")
	// ErrInvoiceNotFound means the caller asked to reuse an invoice that
	// does not exist.
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrInvalidInput    = errors.New("invalid input")
	// ErrGeneration is the only error surfaced for internal pipeline
	// failures; detail stays in the logs.
	ErrGeneration = errors.New("could not generate invoice")
	ErrNoServices = errors.New("no services to render")
)
