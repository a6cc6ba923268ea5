// Package source opens the node.Querier selected by configuration.
package source

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/liquifier/internal/config"
	"github.com/mmynk/liquifier/internal/node"
	"github.com/mmynk/liquifier/internal/node/lncli"
	"github.com/mmynk/liquifier/internal/storage/sqlite"
)

// Open returns the configured Querier and a function releasing it.
func Open(cfg *config.Config) (node.Querier, func() error, error) {
	switch cfg.NodeSource {
	case config.SourceLncli:
		slog.Debug("Using lncli node source", "path", cfg.LncliPath, "rpcserver", cfg.RPCServer, "network", cfg.Network)
		client := lncli.New(lncli.Options{
			Path:         cfg.LncliPath,
			RPCServer:    cfg.RPCServer,
			Network:      cfg.Network,
			MacaroonPath: cfg.MacaroonPath,
			TLSCertPath:  cfg.TLSCertPath,
			MaxInvoices:  cfg.MaxInvoices,
		})
		return client, func() error { return nil }, nil
	case config.SourceSQLite:
		store, err := sqlite.OpenReadOnly(cfg.SnapshotDBPath)
		if errors.Is(err, sqlite.ErrSnapshotNotFound) {
			return nil, nil, fmt.Errorf("%w: SNAPSHOT_DB_PATH: %w (run liquifier import first)", config.ErrInvalidConfig, err)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		slog.Debug("Using snapshot node source", "database", cfg.SnapshotDBPath)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown node source %q", config.ErrInvalidConfig, cfg.NodeSource)
	}
}
