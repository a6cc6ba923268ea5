// Package lncli implements node.Querier by running the lncli command line tool
// and parsing its JSON output.
package lncli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/liquifier/internal/node"
)

// Ensure Client implements node.Querier
var _ node.Querier = (*Client)(nil)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Options configures how lncli is invoked. Empty fields are not passed, so
// lncli falls back to its own defaults.
type Options struct {
	// Path is the lncli binary. Defaults to "lncli" on PATH.
	Path string

	RPCServer    string
	Network      string
	MacaroonPath string
	TLSCertPath  string

	// MaxInvoices is passed as --max_invoices when positive. lncli returns
	// at most 100 invoices per call otherwise.
	MaxInvoices int

	// Runner overrides process execution, mainly for tests.
	Runner Runner
}

// Client queries a node through lncli.
type Client struct {
	opts Options
	run  Runner
}

// New creates a Client with the given options.
func New(opts Options) *Client {
	if opts.Path == "" {
		opts.Path = "lncli"
	}
	run := opts.Runner
	if run == nil {
		run = execRunner
	}
	return &Client{opts: opts, run: run}
}

// ListInvoices runs `lncli listinvoices` for the creation date window.
func (c *Client) ListInvoices(ctx context.Context, start, end int64) (node.InvoiceBatch, error) {
	args := []string{
		"--creation_date_start=" + strconv.FormatInt(start, 10),
		"--creation_date_end=" + strconv.FormatInt(end, 10),
	}
	if c.opts.MaxInvoices > 0 {
		args = append(args, "--max_invoices="+strconv.Itoa(c.opts.MaxInvoices))
	}

	out, err := c.command(ctx, node.OpListInvoices, args...)
	if err != nil {
		return node.InvoiceBatch{}, node.Wrap(node.OpListInvoices, err)
	}
	batch, err := DecodeInvoices(out)
	if err != nil {
		return node.InvoiceBatch{}, node.Wrap(node.OpListInvoices, err)
	}
	return batch, nil
}

// ListChannels runs `lncli listchannels`.
func (c *Client) ListChannels(ctx context.Context) (node.ChannelBatch, error) {
	out, err := c.command(ctx, node.OpListChannels)
	if err != nil {
		return node.ChannelBatch{}, node.Wrap(node.OpListChannels, err)
	}
	batch, err := DecodeChannels(out)
	if err != nil {
		return node.ChannelBatch{}, node.Wrap(node.OpListChannels, err)
	}
	return batch, nil
}

// Args returns the full argument vector for an lncli command.
func (c *Client) Args(command string, commandArgs ...string) []string {
	var args []string
	if c.opts.RPCServer != "" {
		args = append(args, "--rpcserver", c.opts.RPCServer)
	}
	if c.opts.Network != "" {
		args = append(args, "--network", c.opts.Network)
	}
	if c.opts.MacaroonPath != "" {
		args = append(args, "--macaroonpath", c.opts.MacaroonPath)
	}
	if c.opts.TLSCertPath != "" {
		args = append(args, "--tlscertpath", c.opts.TLSCertPath)
	}
	args = append(args, command)
	return append(args, commandArgs...)
}

func (c *Client) command(ctx context.Context, command string, commandArgs ...string) ([]byte, error) {
	args := c.Args(command, commandArgs...)
	start := time.Now()

	out, err := c.run(ctx, c.opts.Path, args...)
	if err != nil {
		slog.Debug("lncli failed", "command", command, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	slog.Debug("lncli completed", "command", command, "bytes", len(out), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// execRunner runs the command and folds its stderr into the error.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%s exited with code %d: %s", name, exitErr.ExitCode(), msg)
			}
		}
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return out, nil
}
