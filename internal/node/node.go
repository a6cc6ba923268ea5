// Package node defines how Liquifier queries a Lightning node.
package node

import (
	"context"
	"fmt"

	"github.com/mmynk/liquifier/internal/models"
)

// Operation names used in errors, logs and metrics.
const (
	OpListInvoices = "listinvoices"
	OpListChannels = "listchannels"
)

// InvoiceBatch is the result of one invoice listing.
type InvoiceBatch struct {
	Invoices []models.InvoiceRecord
	Warnings []models.ShapeWarning
}

// ChannelBatch is the result of one channel listing.
type ChannelBatch struct {
	Channels []models.ChannelRecord
	Warnings []models.ShapeWarning
}

// Querier defines the two node queries a reconciliation run needs.
// Implementations may shell out to lncli, read a snapshot database, or call
// the node over RPC; callers must not depend on which.
type Querier interface {
	// ListInvoices returns invoices created between start and end (Unix
	// seconds, inclusive). Records are fully materialized.
	ListInvoices(ctx context.Context, start, end int64) (InvoiceBatch, error)

	// ListChannels returns all open channels.
	ListChannels(ctx context.Context) (ChannelBatch, error)
}

// QueryError reports a failed node query. Queries are never retried.
type QueryError struct {
	Operation string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("node query %s failed: %v", e.Operation, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *QueryError for operation, or nil if err is nil.
func Wrap(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Operation: operation, Err: err}
}
