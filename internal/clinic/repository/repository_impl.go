package repository

import (
	"context"

	"github.com/SarangTandel5112/care-connects/internal/clinic/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, clinic *domain.Clinic) error {
	return db.WithContext(ctx).Create(clinic).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Clinic, error) {
	var clinic domain.Clinic
	err := db.WithContext(ctx).
		Model(&domain.Clinic{}).
		Where("id = ?", id).
		Limit(1).
		Find(&clinic).Error
	if err != nil {
		return nil, err
	}
	if clinic.ID == 0 {
		return nil, nil
	}
	return &clinic, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Clinic, error) {
	var clinic domain.Clinic
	err := db.WithContext(ctx).
		Model(&domain.Clinic{}).
		Where("slug = ?", slug).
		Limit(1).
		Find(&clinic).Error
	if err != nil {
		return nil, err
	}
	if clinic.ID == 0 {
		return nil, nil
	}
	return &clinic, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, clinic *domain.Clinic) error {
	return db.WithContext(ctx).Save(clinic).Error
}
