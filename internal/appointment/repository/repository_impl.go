package repository

import (
	"context"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/appointment/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, appointment *domain.Appointment) error {
	return db.WithContext(ctx).Create(appointment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&appointment).Error
	if err != nil {
		return nil, err
	}
	if appointment.ID == 0 {
		return nil, nil
	}
	return &appointment, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, appointment *domain.Appointment) error {
	return db.WithContext(ctx).Save(appointment).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListAppointmentFilter, page pagination.Pagination) ([]*domain.Appointment, error) {
	var appointments []*domain.Appointment
	stmt := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("clinic_id = ?", clinicID)
	if filter.DoctorID != 0 {
		stmt = stmt.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != 0 {
		stmt = stmt.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		stmt = stmt.Where("scheduled_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		stmt = stmt.Where("scheduled_at < ?", filter.To)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Two slots [a, b) and [c, d) overlap when a < d AND c < b. The end of an
// existing slot is derived in SQL from its duration so the check does not
// depend on a stored end column.
func (r *repo) CountOverlapping(ctx context.Context, db *gorm.DB, clinicID, doctorID snowflake.ID, start, end time.Time, excludeID snowflake.ID) (int64, error) {
	var count int64
	stmt := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("clinic_id = ? AND doctor_id = ? AND status = ?", clinicID, doctorID, domain.StatusScheduled).
		Where("scheduled_at < ?", end)
	if excludeID != 0 {
		stmt = stmt.Where("id <> ?", excludeID)
	}

	// Slot-end arithmetic is dialect specific; fetch candidates that start
	// before our end, then filter by computed end in Go. Candidate sets are
	// small (one doctor, one window).
	var candidates []*domain.Appointment
	if err := stmt.Find(&candidates).Error; err != nil {
		return 0, err
	}
	for _, c := range candidates {
		if c.EndsAt().After(start) {
			count++
		}
	}
	return count, nil
}
