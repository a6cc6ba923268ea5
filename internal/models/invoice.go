package models

// InvoiceState is the lifecycle state the node reports for an invoice.
// Liquifier only reads it, it never transitions an invoice.
type InvoiceState string

const (
	InvoiceOpen     InvoiceState = "OPEN"
	InvoiceSettled  InvoiceState = "SETTLED"
	InvoiceCanceled InvoiceState = "CANCELED"
	InvoiceAccepted InvoiceState = "ACCEPTED"

	// InvoiceUnknown marks a record whose state was missing from the node reply.
	InvoiceUnknown InvoiceState = "UNKNOWN"
)

// UnknownRHash is used when the node reply carries no payment hash.
const UnknownRHash = "N/A"

// InvoiceRecord represents an incoming payment request as listed by the node.
type InvoiceRecord struct {
	// CreationDate is the Unix timestamp when the invoice was created.
	CreationDate int64

	// AmountPaid is the amount received, in satoshis.
	// Only meaningful for settled invoices.
	AmountPaid int64

	// RHash is the payment hash identifying the invoice.
	RHash string

	// State is the invoice state at the time of the query.
	State InvoiceState
}

// Settled reports whether the invoice funds are final and spendable.
func (r InvoiceRecord) Settled() bool {
	return r.State == InvoiceSettled
}
