package domain

import (
	"context"
	"errors"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/billing"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
)

// ProcedureInput is one procedure line as entered. Numeric fields are
// coerced by the calculator; nothing here is rejected for being malformed.
type ProcedureInput struct {
	Name     string  `json:"name"`
	Tooth    string  `json:"tooth"`
	UnitCost float64 `json:"unit_cost"`
	Quantity int64   `json:"quantity"`
	Discount float64 `json:"discount"`
}

type PrescriptionInput struct {
	Medicine     string `json:"medicine"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"duration_days"`
	Instructions string `json:"instructions"`
}

type PaymentInput struct {
	AmountPaid float64             `json:"amount_paid"`
	Mode       billing.PaymentMode `json:"mode"`
	Reference  string              `json:"reference"`
	PaidAt     *time.Time          `json:"paid_at"`
}

type CreateConsultationRequest struct {
	PatientID        string              `json:"patient_id"`
	DoctorID         string              `json:"doctor_id"`
	AppointmentID    string              `json:"appointment_id"`
	Complaints       string              `json:"complaints"`
	ExaminationNotes string              `json:"examination_notes"`
	ToothChart       map[string]any      `json:"tooth_chart"`
	ConsultationFee  float64             `json:"consultation_fee"`
	OtherAmount      float64             `json:"other_amount"`
	Discount         float64             `json:"discount"`
	ApplyTax         bool                `json:"apply_tax"`
	Procedures       []ProcedureInput    `json:"procedures"`
	Prescriptions    []PrescriptionInput `json:"prescriptions"`
	Payments         []PaymentInput      `json:"payments"`
}

type UpdateConsultationRequest struct {
	ID               string              `json:"-"`
	Complaints       *string             `json:"complaints"`
	ExaminationNotes *string             `json:"examination_notes"`
	ToothChart       map[string]any      `json:"tooth_chart"`
	ConsultationFee  *float64            `json:"consultation_fee"`
	OtherAmount      *float64            `json:"other_amount"`
	Discount         *float64            `json:"discount"`
	ApplyTax         *bool               `json:"apply_tax"`
	Procedures       []ProcedureInput    `json:"procedures"`
	Prescriptions    []PrescriptionInput `json:"prescriptions"`
}

type AddPaymentRequest struct {
	ConsultationID string
	Payment        PaymentInput
}

type UpdatePaymentRequest struct {
	ConsultationID string
	PaymentID      string
	Payment        PaymentInput
}

type RemovePaymentRequest struct {
	ConsultationID string
	PaymentID      string
}

// PreviewRequest is an uncommitted billing draft. Derived fields sent by the
// client are absent by design: the preview recomputes everything.
type PreviewRequest struct {
	ConsultationFee float64          `json:"consultation_fee"`
	OtherAmount     float64          `json:"other_amount"`
	Discount        float64          `json:"discount"`
	ApplyTax        bool             `json:"apply_tax"`
	Procedures      []ProcedureInput `json:"procedures"`
	Payments        []PaymentInput   `json:"payments"`
}

type ListConsultationRequest struct {
	PageToken string
	PageSize  int32
	PatientID string
	DoctorID  string
}

// View pairs the stored aggregate with its recomputed billing summary.
type View struct {
	Consultation
	Billing billing.Summary `json:"billing"`
}

type ListConsultationResponse struct {
	pagination.PageInfo
	Consultations []View `json:"consultations"`
}

type Service interface {
	Create(context.Context, CreateConsultationRequest) (View, error)
	Update(context.Context, UpdateConsultationRequest) (View, error)
	GetByID(ctx context.Context, id string) (View, error)
	List(context.Context, ListConsultationRequest) (ListConsultationResponse, error)

	AddPayment(context.Context, AddPaymentRequest) (View, error)
	UpdatePayment(context.Context, UpdatePaymentRequest) (View, error)
	RemovePayment(context.Context, RemovePaymentRequest) (View, error)

	// Preview computes a summary for a draft without persisting anything.
	Preview(context.Context, PreviewRequest) billing.Summary
}

var (
	ErrInvalidClinic  = errors.New("invalid_clinic")
	ErrInvalidPatient = errors.New("invalid_patient")
	ErrInvalidDoctor  = errors.New("invalid_doctor")
	ErrInvalidMode    = errors.New("invalid_payment_mode")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	ErrPaymentMissing = errors.New("payment_not_found")
)
