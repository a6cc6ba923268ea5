// Package render formats a reconciliation report for the operator.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mmynk/liquifier/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// Text writes the invoice table, payout plan and eligible channels.
// Timestamps are shown in loc (time.Local when nil).
func Text(w io.Writer, report *models.Report, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	ew := &errWriter{w: w}

	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Creation Date\tAmount Paid (Sat)\tR Hash\tState\t")
	fmt.Fprintln(tw, "-------------\t-----------------\t------\t-----\t")
	for _, inv := range report.Invoices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			time.Unix(inv.CreationDate, 0).In(loc).Format(timestampLayout),
			humanize.Comma(inv.AmountPaid),
			inv.RHash,
			inv.State,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	plan := report.Plan
	fmt.Fprintf(ew, "\nTotal Amount Paid (Sat) for 'SETTLED' invoices: %s\n", humanize.Comma(plan.TotalSettled))
	fmt.Fprintf(ew, "\nNumber of Payments Needed: %d\n", plan.PaymentCount)
	fmt.Fprintf(ew, "Each Payout Amount: %s Sat\n", humanize.Comma(plan.AmountPerPayment))
	if plan.Split() {
		fmt.Fprintf(ew, "Total exceeds the maximum payment of %s Sat and is split into %d payments.\n",
			humanize.Comma(plan.MaximumPayment), plan.PaymentCount)
	}

	if len(report.Channels) == 0 {
		fmt.Fprintf(ew, "\nNo eligible channels with at least %s Sat of local balance.\n", humanize.Comma(plan.AmountPerPayment))
	}
	for _, ch := range report.Channels {
		fmt.Fprintf(ew, "\nEligible Channel ID: %d\nCapacity: %s\nLocal Balance: %s\nActive Status: %t\nLocal Balance Ratio: %s\n%s\n",
			ch.ChanID,
			humanize.Comma(ch.Capacity),
			humanize.Comma(ch.LocalBalance),
			ch.Active,
			strconv.FormatFloat(ch.BalanceRatio, 'f', -1, 64),
			strings.Repeat("-", 50),
		)
	}

	if n := len(report.Warnings); n > 0 {
		fmt.Fprintf(ew, "\n%d node field(s) were missing or malformed and replaced by defaults, see log.\n", n)
	}
	return ew.err
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toDocument(report))
}

// document is the JSON shape of a report. Field names follow the node's
// snake_case so dumps line up with lncli output.
type document struct {
	RunID       string            `json:"run_id"`
	GeneratedAt int64             `json:"generated_at"`
	Window      windowDocument    `json:"window"`
	Invoices    []invoiceDocument `json:"invoices"`
	Plan        planDocument      `json:"plan"`
	Channels    []channelDocument `json:"channels"`
	Warnings    []warningDocument `json:"warnings,omitempty"`
}

type windowDocument struct {
	Start int64 `json:"creation_date_start"`
	End   int64 `json:"creation_date_end"`
}

type invoiceDocument struct {
	CreationDate int64  `json:"creation_date"`
	AmountPaid   int64  `json:"amt_paid_sat"`
	RHash        string `json:"r_hash"`
	State        string `json:"state"`
}

type planDocument struct {
	TotalSettled     int64 `json:"total_settled_sat"`
	PaymentCount     int64 `json:"payment_count"`
	AmountPerPayment int64 `json:"amount_per_payment_sat"`
	MaximumPayment   int64 `json:"maximum_payment_sat"`
}

type channelDocument struct {
	ChanID       string  `json:"chan_id"`
	Capacity     int64   `json:"capacity"`
	LocalBalance int64   `json:"local_balance"`
	Active       bool    `json:"active"`
	BalanceRatio float64 `json:"local_balance_ratio"`
}

type warningDocument struct {
	Record string `json:"record"`
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func toDocument(r *models.Report) document {
	doc := document{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Window:      windowDocument{Start: r.Window.Start, End: r.Window.End},
		Invoices:    make([]invoiceDocument, 0, len(r.Invoices)),
		Plan: planDocument{
			TotalSettled:     r.Plan.TotalSettled,
			PaymentCount:     r.Plan.PaymentCount,
			AmountPerPayment: r.Plan.AmountPerPayment,
			MaximumPayment:   r.Plan.MaximumPayment,
		},
		Channels: make([]channelDocument, 0, len(r.Channels)),
	}
	for _, inv := range r.Invoices {
		doc.Invoices = append(doc.Invoices, invoiceDocument{
			CreationDate: inv.CreationDate,
			AmountPaid:   inv.AmountPaid,
			RHash:        inv.RHash,
			State:        string(inv.State),
		})
	}
	for _, ch := range r.Channels {
		doc.Channels = append(doc.Channels, channelDocument{
			// chan_id exceeds float64 precision, keep it a string like lncli
			ChanID:       strconv.FormatUint(ch.ChanID, 10),
			Capacity:     ch.Capacity,
			LocalBalance: ch.LocalBalance,
			Active:       ch.Active,
			BalanceRatio: ch.BalanceRatio,
		})
	}
	for _, w := range r.Warnings {
		doc.Warnings = append(doc.Warnings, warningDocument(w))
	}
	return doc
}

// errWriter remembers the first write error so the many Fprintf calls above
// need a single check.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
