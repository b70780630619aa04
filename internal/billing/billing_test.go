package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSubTotal_ClampsPerLine(t *testing.T) {
	// discount larger than unitCost*quantity must not contribute negative value
	assert.Equal(t, 0.0, LineSubTotal(ProcedureLine{UnitCost: 100, Quantity: 2, Discount: 250}))
	assert.Equal(t, 50.0, LineSubTotal(ProcedureLine{UnitCost: 50, Quantity: 1}))
	assert.Equal(t, 900.0, LineSubTotal(ProcedureLine{UnitCost: 500, Quantity: 2, Discount: 100}))
	// a line with no quantity entered contributes nothing, it is not
	// treated as quantity 1
	assert.Equal(t, 0.0, LineSubTotal(ProcedureLine{UnitCost: 100, Quantity: 0}))
	// negative stored discounts are coerced to zero, never added back
	assert.Equal(t, 200.0, LineSubTotal(ProcedureLine{UnitCost: 100, Quantity: 2, Discount: -50}))
}

func TestProcedureAmount_SumsClampedLines(t *testing.T) {
	lines := []ProcedureLine{
		{UnitCost: 100, Quantity: 2, Discount: 250},
		{UnitCost: 50, Quantity: 1, Discount: 0},
	}
	assert.Equal(t, 50.0, ProcedureAmount(lines))
}

func TestProcedureAmount_CoercesMalformedInput(t *testing.T) {
	lines := []ProcedureLine{
		{UnitCost: math.NaN(), Quantity: 3, Discount: 0},
		{UnitCost: math.Inf(1), Quantity: 1, Discount: 0},
		{UnitCost: -40, Quantity: 2, Discount: 0},
		{UnitCost: 10, Quantity: 0, Discount: 0},
		{UnitCost: 10, Quantity: -2, Discount: 0},
	}
	assert.Equal(t, 0.0, ProcedureAmount(lines))
}

func TestTaxAmount(t *testing.T) {
	assert.Equal(t, 0.0, TaxAmount(1000, false, DefaultTaxRate))
	assert.Equal(t, 50.0, TaxAmount(1000, true, DefaultTaxRate))
	assert.Equal(t, 180.0, TaxAmount(1000, true, LegacyDetailTaxRate))
	// malformed rate falls back to the default
	assert.Equal(t, 50.0, TaxAmount(1000, true, math.NaN()))
	assert.Equal(t, 50.0, TaxAmount(1000, true, -1))
}

func TestTotal_NeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, Total(100, 0, 10000))
	assert.Equal(t, 95.0, Total(100, 5, 10))
}

func TestPendingAmount_FloorsOnOverpayment(t *testing.T) {
	assert.Equal(t, 0.0, PendingAmount(100, 150))
	assert.Equal(t, 40.0, PendingAmount(100, 60))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusPending, Status(0, 100))
	assert.Equal(t, StatusPartiallyPaid, Status(50, 50))
	assert.Equal(t, StatusPaid, Status(100, 0))
	// zero-total consultation with no payments stays pending
	assert.Equal(t, StatusPending, Status(0, 0))
}

func TestCompute_EndToEnd(t *testing.T) {
	lines := []ProcedureLine{{UnitCost: 500, Quantity: 2, Discount: 100}}
	in := Inputs{
		ConsultationFee: 200,
		OtherAmount:     0,
		Discount:        50,
		ApplyTax:        true,
		TaxRate:         DefaultTaxRate,
	}
	payments := []Payment{
		{AmountPaid: 500, Mode: ModeCash},
		{AmountPaid: 605, Mode: ModeUPI, Reference: "UTR-0042"},
	}

	got := Compute(lines, in, payments)

	assert.Equal(t, 900.0, got.ProcedureAmount)
	assert.Equal(t, 1100.0, got.SubTotal)
	assert.InDelta(t, 55.0, got.Tax, 1e-9)
	assert.InDelta(t, 1105.0, got.TotalAmount, 1e-9)
	assert.Equal(t, 1105.0, got.TotalPaid)
	assert.InDelta(t, 0.0, got.PendingAmount, 1e-9)
	assert.Equal(t, StatusPaid, got.PaymentStatus)
}

func TestCompute_Idempotent(t *testing.T) {
	lines := []ProcedureLine{
		{UnitCost: 120, Quantity: 3, Discount: 20},
		{UnitCost: 80, Quantity: 1, Discount: 200},
	}
	in := Inputs{ConsultationFee: 150, OtherAmount: 30, Discount: 25, ApplyTax: true, TaxRate: DefaultTaxRate}
	payments := []Payment{{AmountPaid: 100, Mode: ModeCard}}

	first := Compute(lines, in, payments)
	second := Compute(lines, in, payments)
	assert.Equal(t, first, second)
}

func TestCompute_Monotonicity(t *testing.T) {
	base := Inputs{ConsultationFee: 100, OtherAmount: 50, Discount: 30, ApplyTax: true, TaxRate: DefaultTaxRate}
	lines := []ProcedureLine{{UnitCost: 200, Quantity: 1}}

	ref := Compute(lines, base, nil).TotalAmount

	higherFee := base
	higherFee.ConsultationFee += 10
	assert.GreaterOrEqual(t, Compute(lines, higherFee, nil).TotalAmount, ref)

	higherOther := base
	higherOther.OtherAmount += 10
	assert.GreaterOrEqual(t, Compute(lines, higherOther, nil).TotalAmount, ref)

	moreProcedures := append([]ProcedureLine{}, lines...)
	moreProcedures = append(moreProcedures, ProcedureLine{UnitCost: 25, Quantity: 1})
	assert.GreaterOrEqual(t, Compute(moreProcedures, base, nil).TotalAmount, ref)

	higherDiscount := base
	higherDiscount.Discount += 10
	assert.LessOrEqual(t, Compute(lines, higherDiscount, nil).TotalAmount, ref)
}

func TestCompute_MalformedNumbersNeverPanic(t *testing.T) {
	in := Inputs{
		ConsultationFee: math.NaN(),
		OtherAmount:     math.Inf(-1),
		Discount:        math.Inf(1),
		ApplyTax:        true,
		TaxRate:         math.NaN(),
	}
	payments := []Payment{{AmountPaid: math.NaN()}}

	got := Compute(nil, in, payments)
	assert.Equal(t, 0.0, got.TotalAmount)
	assert.Equal(t, 0.0, got.TotalPaid)
	assert.Equal(t, StatusPending, got.PaymentStatus)
}

func TestUpsertPayment(t *testing.T) {
	initial := []Payment{{AmountPaid: 10, Mode: ModeCash}}

	appended := UpsertPayment(initial, nil, Payment{AmountPaid: 20, Mode: ModeCard})
	require.Len(t, appended, 2)
	assert.Equal(t, 20.0, appended[1].AmountPaid)
	// input slice untouched
	assert.Len(t, initial, 1)

	idx := 0
	replaced := UpsertPayment(initial, &idx, Payment{AmountPaid: 99, Mode: ModeCheque})
	require.Len(t, replaced, 1)
	assert.Equal(t, 99.0, replaced[0].AmountPaid)
	assert.Equal(t, 10.0, initial[0].AmountPaid)

	outOfRange := 5
	fallback := UpsertPayment(initial, &outOfRange, Payment{AmountPaid: 7})
	require.Len(t, fallback, 2)
	assert.Equal(t, 7.0, fallback[1].AmountPaid)
}

func TestRemovePayment(t *testing.T) {
	payments := []Payment{
		{AmountPaid: 1},
		{AmountPaid: 2},
		{AmountPaid: 3},
	}

	got := RemovePayment(payments, 1)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].AmountPaid)
	assert.Equal(t, 3.0, got[1].AmountPaid)

	same := RemovePayment(payments, 9)
	assert.Len(t, same, 3)
	assert.Len(t, payments, 3)
}

func TestValidPaymentMode(t *testing.T) {
	assert.True(t, ValidPaymentMode(ModeUPI))
	assert.False(t, ValidPaymentMode(PaymentMode("crypto")))
}
