package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/liquifier/internal/calculator"
	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
)

type fakeQuerier struct {
	invoices   node.InvoiceBatch
	channels   node.ChannelBatch
	invoiceErr error
	channelErr error

	invoiceCalls int
	channelCalls int
	gotStart     int64
	gotEnd       int64
}

func (f *fakeQuerier) ListInvoices(ctx context.Context, start, end int64) (node.InvoiceBatch, error) {
	f.invoiceCalls++
	f.gotStart, f.gotEnd = start, end
	return f.invoices, f.invoiceErr
}

func (f *fakeQuerier) ListChannels(ctx context.Context) (node.ChannelBatch, error) {
	f.channelCalls++
	return f.channels, f.channelErr
}

func scenarioQuerier() *fakeQuerier {
	return &fakeQuerier{
		invoices: node.InvoiceBatch{
			Invoices: []models.InvoiceRecord{
				{CreationDate: 1709251200, AmountPaid: 1_500_000, RHash: "aa", State: models.InvoiceSettled},
				{CreationDate: 1709254800, AmountPaid: 300, RHash: "bb", State: models.InvoiceOpen},
				{CreationDate: 1709258400, AmountPaid: 1_000_000, RHash: "cc", State: models.InvoiceSettled},
			},
			Warnings: []models.ShapeWarning{{Record: "invoice", Index: 1, Field: "memo", Reason: "missing"}},
		},
		channels: node.ChannelBatch{
			Channels: []models.ChannelRecord{
				{ChanID: 1, Capacity: 1_000_000, LocalBalance: 500_000, Active: true},
				{ChanID: 2, Capacity: 1_000_000, LocalBalance: 950_000, Active: false},
				{ChanID: 3, Capacity: 2_000_000, LocalBalance: 900_000, Active: true},
				{ChanID: 4, Capacity: 1_000_000, LocalBalance: 850_000, Active: true},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	q := scenarioQuerier()
	svc := NewReportService(q, ReportConfig{MaximumPayment: 1_000_000}, nil)
	svc.now = func() time.Time { return time.Unix(1709337600, 0) }

	w := models.DateWindow{Start: 1709251200, End: 1709337600}
	report, err := svc.Build(context.Background(), w)
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err, "RunID should be a UUID")
	assert.Equal(t, int64(1709337600), report.GeneratedAt)
	assert.Equal(t, w, report.Window)
	assert.Equal(t, w.Start, q.gotStart)
	assert.Equal(t, w.End, q.gotEnd)

	assert.Len(t, report.Invoices, 3)
	assert.Equal(t, models.PayoutPlan{
		TotalSettled:     2_500_000,
		PaymentCount:     3,
		AmountPerPayment: 833_333,
		MaximumPayment:   1_000_000,
	}, report.Plan)

	// 1 is short of 833,333 and 2 is inactive
	require.Len(t, report.Channels, 2)
	assert.Equal(t, uint64(4), report.Channels[0].ChanID)
	assert.Equal(t, uint64(3), report.Channels[1].ChanID)
	assert.InDelta(t, 0.85, report.Channels[0].BalanceRatio, 1e-9)
	assert.InDelta(t, 0.45, report.Channels[1].BalanceRatio, 1e-9)

	assert.Len(t, report.Warnings, 1)
}

func TestBuildRejectsInvalidMaximumBeforeQuerying(t *testing.T) {
	for _, maxPayment := range []int64{0, -1} {
		q := scenarioQuerier()
		svc := NewReportService(q, ReportConfig{MaximumPayment: maxPayment}, nil)

		report, err := svc.Build(context.Background(), models.DateWindow{})
		assert.Nil(t, report)
		assert.ErrorIs(t, err, calculator.ErrInvalidMaximumPayment)
		assert.Zero(t, q.invoiceCalls, "no query may run with max %d", maxPayment)
		assert.Zero(t, q.channelCalls, "no query may run with max %d", maxPayment)
	}
}

func TestBuildAbortsOnQueryFailure(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("invoices", func(t *testing.T) {
		q := scenarioQuerier()
		q.invoiceErr = boom
		svc := NewReportService(q, ReportConfig{MaximumPayment: 1000}, nil)

		report, err := svc.Build(context.Background(), models.DateWindow{})
		assert.Nil(t, report)
		assert.ErrorIs(t, err, boom)

		var qe *node.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, node.OpListInvoices, qe.Operation)
		assert.Zero(t, q.channelCalls)
	})

	t.Run("channels", func(t *testing.T) {
		q := scenarioQuerier()
		q.channelErr = node.Wrap(node.OpListChannels, boom)
		svc := NewReportService(q, ReportConfig{MaximumPayment: 1000}, nil)

		report, err := svc.Build(context.Background(), models.DateWindow{})
		assert.Nil(t, report)
		assert.EqualError(t, err, "node query listchannels failed: connection refused")
	})
}

func TestBuildEmptyNode(t *testing.T) {
	svc := NewReportService(&fakeQuerier{}, ReportConfig{MaximumPayment: 1000}, nil)

	report, err := svc.Build(context.Background(), models.DateWindow{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Plan.TotalSettled)
	assert.Equal(t, int64(1), report.Plan.PaymentCount)
	assert.Equal(t, int64(0), report.Plan.AmountPerPayment)
	assert.Empty(t, report.Channels)
	assert.Empty(t, report.Warnings)
}
