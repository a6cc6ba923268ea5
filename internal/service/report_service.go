package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/liquifier/internal/calculator"
	"github.com/mmynk/liquifier/internal/metrics"
	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
)

// ReportConfig holds the run-wide settings of a ReportService.
type ReportConfig struct {
	// MaximumPayment caps the size of any single payout, in satoshis.
	MaximumPayment int64

	// Location turns request dates into Unix seconds. Defaults to time.Local.
	Location *time.Location
}

// ReportService runs reconciliations against a node.
type ReportService struct {
	node    node.Querier
	cfg     ReportConfig
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewReportService creates a ReportService querying q.
// A nil m gets a private metrics registry.
func NewReportService(q node.Querier, cfg ReportConfig, m *metrics.Metrics) *ReportService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if m == nil {
		m = metrics.New()
	}
	return &ReportService{node: q, cfg: cfg, metrics: m, now: time.Now}
}

// Build runs one reconciliation over the window.
//
// Steps:
// - reject a non-positive maximum payment before touching the node
// - list invoices, plan the payout from the settled ones
// - list channels, rank them for one payout
//
// Any failure aborts the run and no report is returned.
func (s *ReportService) Build(ctx context.Context, w models.DateWindow) (*models.Report, error) {
	if err := calculator.ValidateMaximumPayment(s.cfg.MaximumPayment); err != nil {
		s.metrics.RunFailed(metrics.OutcomeConfigError)
		slog.Error("Report aborted, invalid configuration", "error", err)
		return nil, err
	}

	runID := uuid.NewString()
	logger := slog.With("run_id", runID)
	logger.Debug("Report started", "creation_date_start", w.Start, "creation_date_end", w.End)

	invoices, err := s.listInvoices(ctx, w)
	if err != nil {
		s.metrics.RunFailed(metrics.OutcomeQueryError)
		logger.Error("Report aborted, invoice query failed", "error", err)
		return nil, err
	}

	plan, err := calculator.PlanPayout(invoices.Invoices, s.cfg.MaximumPayment)
	if err != nil {
		s.metrics.RunFailed(metrics.OutcomeConfigError)
		return nil, fmt.Errorf("failed to plan payout: %w", err)
	}

	channels, err := s.listChannels(ctx)
	if err != nil {
		s.metrics.RunFailed(metrics.OutcomeQueryError)
		logger.Error("Report aborted, channel query failed", "error", err)
		return nil, err
	}

	ranked := calculator.RankChannels(channels.Channels, plan.AmountPerPayment)

	warnings := slices.Concat(invoices.Warnings, channels.Warnings)
	for _, sw := range warnings {
		logger.Warn("Node field replaced by default",
			"record", sw.Record,
			"index", sw.Index,
			"field", sw.Field,
			"reason", sw.Reason,
		)
	}

	report := &models.Report{
		RunID:       runID,
		GeneratedAt: s.now().Unix(),
		Window:      w,
		Invoices:    invoices.Invoices,
		Plan:        plan,
		Channels:    ranked,
		Warnings:    warnings,
	}
	s.metrics.RunSucceeded(report)

	logger.Info("Report built",
		"invoices", len(report.Invoices),
		"total_settled_sat", plan.TotalSettled,
		"payment_count", plan.PaymentCount,
		"amount_per_payment_sat", plan.AmountPerPayment,
		"eligible_channels", len(ranked),
		"warnings", len(warnings),
	)
	return report, nil
}

func (s *ReportService) listInvoices(ctx context.Context, w models.DateWindow) (node.InvoiceBatch, error) {
	start := time.Now()
	batch, err := s.node.ListInvoices(ctx, w.Start, w.End)
	s.metrics.ObserveQuery(node.OpListInvoices, time.Since(start))
	return batch, asQueryError(node.OpListInvoices, err)
}

func (s *ReportService) listChannels(ctx context.Context) (node.ChannelBatch, error) {
	start := time.Now()
	batch, err := s.node.ListChannels(ctx)
	s.metrics.ObserveQuery(node.OpListChannels, time.Since(start))
	return batch, asQueryError(node.OpListChannels, err)
}

// asQueryError makes sure every query failure names its operation, whatever
// the Querier implementation returned.
func asQueryError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var qe *node.QueryError
	if errors.As(err, &qe) {
		return err
	}
	return node.Wrap(operation, err)
}
