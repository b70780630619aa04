package repository

import (
	"context"

	"github.com/SarangTandel5112/care-connects/internal/document/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, document *domain.Document) error {
	return db.WithContext(ctx).Create(document).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Document, error) {
	var document domain.Document
	err := db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&document).Error
	if err != nil {
		return nil, err
	}
	if document.ID == 0 {
		return nil, nil
	}
	return &document, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, document *domain.Document) error {
	return db.WithContext(ctx).Save(document).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Delete(&domain.Document{}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListDocumentFilter) ([]*domain.Document, error) {
	var documents []*domain.Document
	stmt := db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("clinic_id = ?", clinicID)
	if filter.PatientID != 0 {
		stmt = stmt.Where("patient_id = ?", filter.PatientID)
	}
	if filter.ConsultationID != 0 {
		stmt = stmt.Where("consultation_id = ?", filter.ConsultationID)
	}
	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}
