package domain

import (
	"time"

	"github.com/SarangTandel5112/care-connects/internal/billing"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Consultation is the clinical visit aggregate. Only raw, user-entered
// billing fields are persisted here; every derived figure (subtotal, tax,
// totals, payment status) is recomputed through the billing package on read,
// so stored data can never drift from its inputs.
type Consultation struct {
	ID            snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ClinicID      snowflake.ID `json:"clinic_id,string" gorm:"index"`
	PatientID     snowflake.ID `json:"patient_id,string" gorm:"index"`
	DoctorID      snowflake.ID `json:"doctor_id,string" gorm:"index"`
	AppointmentID snowflake.ID `json:"appointment_id,string" gorm:"index"`

	Complaints       string            `json:"complaints"`
	ExaminationNotes string            `json:"examination_notes"`
	ToothChart       datatypes.JSONMap `json:"tooth_chart" gorm:"type:jsonb"`

	ConsultationFee float64 `json:"consultation_fee"`
	OtherAmount     float64 `json:"other_amount"`
	Discount        float64 `json:"discount"`
	ApplyTax        bool    `json:"apply_tax"`

	Procedures    []ProcedureItem    `json:"procedures" gorm:"foreignKey:ConsultationID"`
	Prescriptions []PrescriptionItem `json:"prescriptions" gorm:"foreignKey:ConsultationID"`
	Payments      []PaymentRecord    `json:"payments" gorm:"foreignKey:ConsultationID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Consultation) TableName() string {
	return "consultations"
}

type ProcedureItem struct {
	ID             snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ConsultationID snowflake.ID `json:"consultation_id,string" gorm:"index"`
	Name           string       `json:"name"`
	Tooth          string       `json:"tooth"`
	UnitCost       float64      `json:"unit_cost"`
	Quantity       int64        `json:"quantity"`
	Discount       float64      `json:"discount"`
	Position       int          `json:"position"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (ProcedureItem) TableName() string {
	return "consultation_procedures"
}

type PrescriptionItem struct {
	ID             snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ConsultationID snowflake.ID `json:"consultation_id,string" gorm:"index"`
	Medicine       string       `json:"medicine"`
	Dosage         string       `json:"dosage"`
	Frequency      string       `json:"frequency"`
	DurationDays   int          `json:"duration_days"`
	Instructions   string       `json:"instructions"`
	Position       int          `json:"position"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (PrescriptionItem) TableName() string {
	return "consultation_prescriptions"
}

// PaymentRecord is a manual payment entry. RecordStatus is a stored label
// (completed, failed, refunded, cancelled) and is never derived; the derived
// consultation-level payment status comes from the billing summary.
type PaymentRecord struct {
	ID             snowflake.ID        `json:"id,string" gorm:"primaryKey"`
	ConsultationID snowflake.ID        `json:"consultation_id,string" gorm:"index"`
	AmountPaid     float64             `json:"amount_paid"`
	Mode           billing.PaymentMode `json:"mode" gorm:"type:varchar(20)"`
	Reference      string              `json:"reference"`
	RecordStatus   string              `json:"record_status" gorm:"type:varchar(20);default:completed"`
	PaidAt         time.Time           `json:"paid_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (PaymentRecord) TableName() string {
	return "consultation_payments"
}

// BillingLines maps the stored procedure rows to calculator lines.
func (c Consultation) BillingLines() []billing.ProcedureLine {
	lines := make([]billing.ProcedureLine, 0, len(c.Procedures))
	for _, p := range c.Procedures {
		lines = append(lines, billing.ProcedureLine{
			UnitCost: p.UnitCost,
			Quantity: p.Quantity,
			Discount: p.Discount,
		})
	}
	return lines
}

// BillingPayments maps the stored payment rows to calculator payments.
func (c Consultation) BillingPayments() []billing.Payment {
	payments := make([]billing.Payment, 0, len(c.Payments))
	for _, p := range c.Payments {
		payments = append(payments, billing.Payment{
			AmountPaid: p.AmountPaid,
			Mode:       p.Mode,
			Reference:  p.Reference,
		})
	}
	return payments
}
