package sqlite

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
)

// ListChannels returns the stored channels in import order.
func (s *SQLiteStore) ListChannels(ctx context.Context) (node.ChannelBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT chan_id, capacity, local_balance, active FROM channels ORDER BY rowid",
	)
	if err != nil {
		return node.ChannelBatch{}, node.Wrap(node.OpListChannels, fmt.Errorf("failed to list channels: %w", err))
	}
	defer rows.Close()

	batch := node.ChannelBatch{Channels: []models.ChannelRecord{}}
	for rows.Next() {
		var ch models.ChannelRecord
		var chanID string
		var active int64
		if err := rows.Scan(&chanID, &ch.Capacity, &ch.LocalBalance, &active); err != nil {
			return node.ChannelBatch{}, node.Wrap(node.OpListChannels, fmt.Errorf("failed to scan channel: %w", err))
		}
		ch.ChanID, err = strconv.ParseUint(chanID, 10, 64)
		if err != nil {
			return node.ChannelBatch{}, node.Wrap(node.OpListChannels, fmt.Errorf("invalid chan_id %q: %w", chanID, err))
		}
		ch.Active = active != 0
		batch.Channels = append(batch.Channels, ch)
	}
	if err := rows.Err(); err != nil {
		return node.ChannelBatch{}, node.Wrap(node.OpListChannels, fmt.Errorf("failed to iterate channels: %w", err))
	}

	return batch, nil
}

// ImportChannels replaces the stored channel set with channels.
func (s *SQLiteStore) ImportChannels(ctx context.Context, channels []models.ChannelRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM channels"); err != nil {
		return 0, fmt.Errorf("failed to clear channels: %w", err)
	}

	for _, ch := range channels {
		active := 0
		if ch.Active {
			active = 1
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO channels (chan_id, capacity, local_balance, active) VALUES (?, ?, ?, ?)",
			strconv.FormatUint(ch.ChanID, 10), ch.Capacity, ch.LocalBalance, active,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert channel %d: %w", ch.ChanID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(channels), nil
}
