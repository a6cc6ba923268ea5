package models

// DateWindow is an inclusive range of invoice creation times, in Unix seconds.
type DateWindow struct {
	Start int64
	End   int64
}

// ShapeWarning records a node field that was missing or malformed and was
// replaced by a default. Warnings never abort a run.
type ShapeWarning struct {
	// Record is the kind of record, "invoice" or "channel".
	Record string

	// Index is the position of the record in the node reply.
	Index int

	// Field is the node field name, e.g. "amt_paid_sat".
	Field string

	// Reason says what was wrong with the field.
	Reason string
}

// Report is the complete result of one reconciliation run.
// A report is only assembled when every step of the run succeeded.
type Report struct {
	// RunID identifies the run in logs (UUID format).
	RunID string

	// GeneratedAt is the Unix timestamp when the report was assembled.
	GeneratedAt int64

	// Window is the creation date range the invoices were listed for.
	Window DateWindow

	// Invoices are all invoices in the window, in node order, settled or not.
	Invoices []InvoiceRecord

	// Plan is the payout plan for the settled invoices.
	Plan PayoutPlan

	// Channels are the channels able to carry one payout, best first.
	Channels []RankedChannel

	// Warnings lists node fields that were defaulted while decoding.
	Warnings []ShapeWarning
}
