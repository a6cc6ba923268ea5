package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
)

// ListInvoices returns invoices created in [start, end], oldest first.
func (s *SQLiteStore) ListInvoices(ctx context.Context, start, end int64) (node.InvoiceBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT creation_date, amt_paid_sat, r_hash, state
		 FROM invoices WHERE creation_date BETWEEN ? AND ?
		 ORDER BY creation_date, rowid`,
		start, end,
	)
	if err != nil {
		return node.InvoiceBatch{}, node.Wrap(node.OpListInvoices, fmt.Errorf("failed to list invoices: %w", err))
	}
	defer rows.Close()

	batch := node.InvoiceBatch{Invoices: []models.InvoiceRecord{}}
	for rows.Next() {
		var inv models.InvoiceRecord
		var state string
		if err := rows.Scan(&inv.CreationDate, &inv.AmountPaid, &inv.RHash, &state); err != nil {
			return node.InvoiceBatch{}, node.Wrap(node.OpListInvoices, fmt.Errorf("failed to scan invoice: %w", err))
		}
		inv.State = models.InvoiceState(state)
		batch.Invoices = append(batch.Invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return node.InvoiceBatch{}, node.Wrap(node.OpListInvoices, fmt.Errorf("failed to iterate invoices: %w", err))
	}

	return batch, nil
}

// ImportInvoices upserts invoices keyed by payment hash.
func (s *SQLiteStore) ImportInvoices(ctx context.Context, invoices []models.InvoiceRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	written := 0
	for _, inv := range invoices {
		if inv.RHash == "" || inv.RHash == models.UnknownRHash {
			slog.Warn("Skipping invoice without payment hash", "creation_date", inv.CreationDate, "state", inv.State)
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO invoices (r_hash, creation_date, amt_paid_sat, state) VALUES (?, ?, ?, ?)
			 ON CONFLICT(r_hash) DO UPDATE SET
			     creation_date = excluded.creation_date,
			     amt_paid_sat = excluded.amt_paid_sat,
			     state = excluded.state`,
			inv.RHash, inv.CreationDate, inv.AmountPaid, string(inv.State),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert invoice %s: %w", inv.RHash, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return written, nil
}
