// Package storage provides abstractions for node snapshot storage.
package storage

import (
	"context"

	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
)

// SnapshotStore is an offline copy of node data that can stand in for a live
// node. It answers the same queries as the node and can be loaded from lncli
// JSON dumps. Reconciliation results are never written to it.
type SnapshotStore interface {
	node.Querier

	// ImportInvoices upserts invoices keyed by payment hash.
	// Invoices without a payment hash are skipped.
	// Returns the number of invoices written.
	ImportInvoices(ctx context.Context, invoices []models.InvoiceRecord) (int, error)

	// ImportChannels replaces the stored channel set.
	// Returns the number of channels written.
	ImportChannels(ctx context.Context, channels []models.ChannelRecord) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
