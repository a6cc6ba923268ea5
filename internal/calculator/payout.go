package calculator

import (
	"errors"
	"fmt"

	"github.com/mmynk/liquifier/internal/models"
)

// ErrInvalidMaximumPayment is returned when the per-payment cap is not positive.
var ErrInvalidMaximumPayment = errors.New("maximum payment amount must be positive")

// ValidateMaximumPayment checks the per-payment cap before any work is done.
func ValidateMaximumPayment(maxPayment int64) error {
	if maxPayment <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaximumPayment, maxPayment)
	}
	return nil
}

// SettledTotal sums the paid amount of settled invoices.
// Invoices in any other state, including ACCEPTED, are ignored.
func SettledTotal(invoices []models.InvoiceRecord) int64 {
	var total int64
	for _, inv := range invoices {
		if inv.Settled() {
			total += inv.AmountPaid
		}
	}
	return total
}

// PlanPayout computes how the settled invoices are paid out under maxPayment.
func PlanPayout(invoices []models.InvoiceRecord, maxPayment int64) (models.PayoutPlan, error) {
	if err := ValidateMaximumPayment(maxPayment); err != nil {
		return models.PayoutPlan{}, err
	}
	return PlanFromTotal(SettledTotal(invoices), maxPayment)
}

// PlanFromTotal splits total into the fewest payments no larger than maxPayment.
//
// Algorithm:
// - total <= maxPayment: one payment of the full amount (also covers total == 0)
// - otherwise: count = ceil(total / maxPayment), amount = total / count rounded half up
//
// The rounded amount is not corrected, so count*amount may miss total by up to count-1.
func PlanFromTotal(total, maxPayment int64) (models.PayoutPlan, error) {
	if err := ValidateMaximumPayment(maxPayment); err != nil {
		return models.PayoutPlan{}, err
	}
	if total < 0 {
		return models.PayoutPlan{}, fmt.Errorf("settled total cannot be negative: %d", total)
	}

	plan := models.PayoutPlan{
		TotalSettled:     total,
		PaymentCount:     1,
		AmountPerPayment: total,
		MaximumPayment:   maxPayment,
	}
	if total <= maxPayment {
		return plan, nil
	}

	plan.PaymentCount = ceilDiv(total, maxPayment)
	plan.AmountPerPayment = roundDiv(total, plan.PaymentCount)
	return plan, nil
}

// ceilDiv returns ceil(a / b) for a > 0, b > 0.
func ceilDiv(a, b int64) int64 {
	return (a-1)/b + 1
}

// roundDiv returns a / b rounded half up for a >= 0, b > 0.
func roundDiv(a, b int64) int64 {
	q, r := a/b, a%b
	// r >= b-r is 2r >= b without overflow
	if r >= b-r {
		q++
	}
	return q
}
