// Package billing computes consultation billing summaries.
//
// The calculator is pure: it never touches storage, never returns an error,
// and tolerates partial input (missing or non-finite numbers are treated as
// zero) so that a live draft can be recomputed on every edit. Every rendering
// context — the editable form preview, the persisted consultation detail, and
// the printable invoice — must derive its numbers through this package.
package billing

import "math"

// Tax rates. The editable form historically applied 5% while the read-only
// detail and print views applied 18% to the same apply-tax flag. The
// effective rate is configuration (billing.taxRate); DefaultTaxRate is the
// fallback and LegacyDetailTaxRate exists only so the old detail-view figure
// stays auditable. See docs in internal/config.
const (
	DefaultTaxRate      = 0.05
	LegacyDetailTaxRate = 0.18
)

// PaymentStatus is derived from totals, never set by the caller.
type PaymentStatus string

const (
	StatusPending       PaymentStatus = "pending"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusPaid          PaymentStatus = "paid"
)

// PaymentMode enumerates accepted payment instruments.
type PaymentMode string

const (
	ModeCash       PaymentMode = "cash"
	ModeCard       PaymentMode = "card"
	ModeUPI        PaymentMode = "upi"
	ModeNetBanking PaymentMode = "net_banking"
	ModeCheque     PaymentMode = "cheque"
	ModeOther      PaymentMode = "other"
)

// ValidPaymentMode reports whether mode is one of the accepted instruments.
func ValidPaymentMode(mode PaymentMode) bool {
	switch mode {
	case ModeCash, ModeCard, ModeUPI, ModeNetBanking, ModeCheque, ModeOther:
		return true
	default:
		return false
	}
}

// ProcedureLine is one billable procedure on a consultation. Discount is a
// flat amount, not a percentage.
type ProcedureLine struct {
	UnitCost float64
	Quantity int64
	Discount float64
}

// Inputs are the raw, user-entered billing fields of a consultation.
type Inputs struct {
	ConsultationFee float64
	OtherAmount     float64
	Discount        float64
	ApplyTax        bool
	// TaxRate is the fraction applied when ApplyTax is set. Callers should
	// pass the configured rate; a non-finite or negative value falls back to
	// DefaultTaxRate.
	TaxRate float64
}

// Payment is a single recorded payment against a consultation.
type Payment struct {
	AmountPaid float64
	Mode       PaymentMode
	Reference  string
}

// Summary is the fully derived billing projection. It is recomputed from raw
// inputs on every read and never edited directly.
type Summary struct {
	ProcedureAmount float64       `json:"procedure_amount"`
	SubTotal        float64       `json:"sub_total"`
	Tax             float64       `json:"tax"`
	TotalAmount     float64       `json:"total_amount"`
	TotalPaid       float64       `json:"total_paid"`
	PendingAmount   float64       `json:"pending_amount"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
}

// amount coerces a raw numeric field to a usable non-negative value.
// NaN, infinities and negatives all become zero; incomplete input must
// never break a live recomputation.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// quantity coerces an absent or negative count to zero, like the other
// numeric fields: a line with no quantity entered contributes nothing.
func quantity(q int64) int64 {
	if q < 0 {
		return 0
	}
	return q
}

// LineSubTotal is the clamped contribution of a single procedure line. A line
// can never contribute a negative amount, even when its discount exceeds
// unitCost x quantity.
func LineSubTotal(line ProcedureLine) float64 {
	total := amount(line.UnitCost)*float64(quantity(line.Quantity)) - amount(line.Discount)
	return math.Max(0, total)
}

// ProcedureAmount sums the per-line clamped subtotals.
func ProcedureAmount(lines []ProcedureLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += LineSubTotal(line)
	}
	return sum
}

// SubTotal adds the consultation fee and miscellaneous charges to the
// procedure amount.
func SubTotal(procedureAmount, consultationFee, otherAmount float64) float64 {
	return amount(procedureAmount) + amount(consultationFee) + amount(otherAmount)
}

// TaxAmount applies rate to subTotal when applyTax is set.
func TaxAmount(subTotal float64, applyTax bool, rate float64) float64 {
	if !applyTax {
		return 0
	}
	return amount(subTotal) * effectiveRate(rate)
}

func effectiveRate(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return DefaultTaxRate
	}
	return rate
}

// Total is the payable amount, floored at zero. The UI clamps the discount
// input to subTotal+tax, but the calculator floors independently.
func Total(subTotal, tax, discount float64) float64 {
	return math.Max(0, amount(subTotal)+amount(tax)-amount(discount))
}

// TotalPaid sums the recorded payments.
func TotalPaid(payments []Payment) float64 {
	var sum float64
	for _, p := range payments {
		sum += amount(p.AmountPaid)
	}
	return sum
}

// PendingAmount is the outstanding balance, floored at zero. Overpayment is
// not modeled as a credit.
func PendingAmount(totalAmount, totalPaid float64) float64 {
	return math.Max(0, amount(totalAmount)-amount(totalPaid))
}

// Status derives the payment status from current totals.
func Status(totalPaid, pendingAmount float64) PaymentStatus {
	switch {
	case amount(totalPaid) == 0:
		return StatusPending
	case amount(pendingAmount) == 0:
		return StatusPaid
	default:
		return StatusPartiallyPaid
	}
}

// Compute derives the full summary from raw inputs. It is idempotent: the
// same inputs always yield the same summary.
func Compute(lines []ProcedureLine, in Inputs, payments []Payment) Summary {
	procedureAmount := ProcedureAmount(lines)
	subTotal := SubTotal(procedureAmount, in.ConsultationFee, in.OtherAmount)
	tax := TaxAmount(subTotal, in.ApplyTax, in.TaxRate)
	total := Total(subTotal, tax, in.Discount)
	paid := TotalPaid(payments)
	pending := PendingAmount(total, paid)

	return Summary{
		ProcedureAmount: procedureAmount,
		SubTotal:        subTotal,
		Tax:             tax,
		TotalAmount:     total,
		TotalPaid:       paid,
		PendingAmount:   pending,
		PaymentStatus:   Status(paid, pending),
	}
}

// UpsertPayment returns payments with p appended, or with the payment at
// *editIndex replaced when editIndex addresses an existing entry. The
// selection is explicit rather than ambient editing state.
func UpsertPayment(payments []Payment, editIndex *int, p Payment) []Payment {
	out := make([]Payment, len(payments))
	copy(out, payments)
	if editIndex != nil && *editIndex >= 0 && *editIndex < len(out) {
		out[*editIndex] = p
		return out
	}
	return append(out, p)
}

// RemovePayment returns payments without the entry at index. An out-of-range
// index returns the list unchanged.
func RemovePayment(payments []Payment, index int) []Payment {
	if index < 0 || index >= len(payments) {
		out := make([]Payment, len(payments))
		copy(out, payments)
		return out
	}
	out := make([]Payment, 0, len(payments)-1)
	out = append(out, payments[:index]...)
	out = append(out, payments[index+1:]...)
	return out
}
