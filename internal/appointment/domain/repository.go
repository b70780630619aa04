package domain

import (
	"context"
	"time"

	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListAppointmentFilter struct {
	DoctorID  snowflake.ID
	PatientID snowflake.ID
	Status    Status
	// From/To bound scheduled_at; zero values leave the bound open.
	From time.Time
	To   time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, appointment *Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Appointment, error)
	Update(ctx context.Context, db *gorm.DB, appointment *Appointment) error
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListAppointmentFilter, page pagination.Pagination) ([]*Appointment, error)

	// CountOverlapping counts scheduled appointments for the doctor whose
	// slot intersects [start, end), excluding excludeID when non-zero.
	CountOverlapping(ctx context.Context, db *gorm.DB, clinicID, doctorID snowflake.ID, start, end time.Time, excludeID snowflake.ID) (int64, error)
}
