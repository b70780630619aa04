package repository

import (
	"context"

	"github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, consultation *domain.Consultation) error {
	// gorm cascades the child slices through the foreignKey associations.
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(consultation).Error
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Consultation, error) {
	var consultation domain.Consultation
	err := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Preload("Procedures", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc, id asc") }).
		Preload("Prescriptions", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc, id asc") }).
		Preload("Payments", func(tx *gorm.DB) *gorm.DB { return tx.Order("paid_at asc, id asc") }).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&consultation).Error
	if err != nil {
		return nil, err
	}
	if consultation.ID == 0 {
		return nil, nil
	}
	return &consultation, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, consultation *domain.Consultation, replaceChildren bool) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceChildren {
			if err := tx.Where("consultation_id = ?", consultation.ID).
				Delete(&domain.ProcedureItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("consultation_id = ?", consultation.ID).
				Delete(&domain.PrescriptionItem{}).Error; err != nil {
				return err
			}
			if len(consultation.Procedures) > 0 {
				if err := tx.Create(&consultation.Procedures).Error; err != nil {
					return err
				}
			}
			if len(consultation.Prescriptions) > 0 {
				if err := tx.Create(&consultation.Prescriptions).Error; err != nil {
					return err
				}
			}
		}
		return tx.Omit("Procedures", "Prescriptions", "Payments").
			Save(consultation).Error
	})
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListConsultationFilter, page pagination.Pagination) ([]*domain.Consultation, error) {
	var consultations []*domain.Consultation
	stmt := db.WithContext(ctx).
		Model(&domain.Consultation{}).
		Preload("Procedures").
		Preload("Prescriptions").
		Preload("Payments").
		Where("clinic_id = ?", clinicID)
	if filter.PatientID != 0 {
		stmt = stmt.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != 0 {
		stmt = stmt.Where("doctor_id = ?", filter.DoctorID)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&consultations).Error
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.PaymentRecord) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) UpdatePayment(ctx context.Context, db *gorm.DB, payment *domain.PaymentRecord) error {
	return db.WithContext(ctx).Save(payment).Error
}

func (r *repo) DeletePayment(ctx context.Context, db *gorm.DB, consultationID, paymentID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("consultation_id = ? AND id = ?", consultationID, paymentID).
		Delete(&domain.PaymentRecord{}).Error
}
