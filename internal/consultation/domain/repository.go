package domain

import (
	"context"

	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListConsultationFilter struct {
	PatientID snowflake.ID
	DoctorID  snowflake.ID
}

type Repository interface {
	// Insert persists the aggregate with its child rows in one transaction.
	Insert(ctx context.Context, db *gorm.DB, consultation *Consultation) error

	// FindByID loads the aggregate with procedures, prescriptions and
	// payments preloaded.
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Consultation, error)

	// Update saves the consultation row and replaces its procedure and
	// prescription child rows with the given sets.
	Update(ctx context.Context, db *gorm.DB, consultation *Consultation, replaceChildren bool) error

	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListConsultationFilter, page pagination.Pagination) ([]*Consultation, error)

	InsertPayment(ctx context.Context, db *gorm.DB, payment *PaymentRecord) error
	UpdatePayment(ctx context.Context, db *gorm.DB, payment *PaymentRecord) error
	DeletePayment(ctx context.Context, db *gorm.DB, consultationID, paymentID snowflake.ID) error
}
