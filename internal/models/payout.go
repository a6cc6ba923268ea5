package models

// PayoutPlan describes how settled funds are paid out under a per-payment cap.
// This is the output of the payout calculation and is never stored.
type PayoutPlan struct {
	// TotalSettled is the sum of AmountPaid over settled invoices.
	TotalSettled int64

	// PaymentCount is the number of outbound payments. Always >= 1.
	PaymentCount int64

	// AmountPerPayment is the size of each payment, rounded half up.
	// PaymentCount * AmountPerPayment may differ from TotalSettled by at most
	// PaymentCount - 1.
	AmountPerPayment int64

	// MaximumPayment is the cap the plan was computed against.
	MaximumPayment int64
}

// Split reports whether the total had to be divided into several payments.
func (p PayoutPlan) Split() bool {
	return p.PaymentCount > 1
}

// Residual is the difference between what the plan pays out and what was settled.
func (p PayoutPlan) Residual() int64 {
	return p.PaymentCount*p.AmountPerPayment - p.TotalSettled
}
