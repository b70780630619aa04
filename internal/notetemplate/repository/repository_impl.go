package repository

import (
	"context"

	"github.com/SarangTandel5112/care-connects/internal/notetemplate/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, template *domain.NoteTemplate) error {
	return db.WithContext(ctx).Create(template).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.NoteTemplate, error) {
	var template domain.NoteTemplate
	err := db.WithContext(ctx).
		Model(&domain.NoteTemplate{}).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&template).Error
	if err != nil {
		return nil, err
	}
	if template.ID == 0 {
		return nil, nil
	}
	return &template, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, template *domain.NoteTemplate) error {
	return db.WithContext(ctx).Save(template).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Delete(&domain.NoteTemplate{}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) ([]*domain.NoteTemplate, error) {
	var templates []*domain.NoteTemplate
	err := db.WithContext(ctx).
		Model(&domain.NoteTemplate{}).
		Where("clinic_id = ?", clinicID).
		Order("name asc").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}
