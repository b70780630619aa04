package repository

import (
	"context"

	"github.com/SarangTandel5112/care-connects/internal/doctor/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doctor *domain.Doctor) error {
	return db.WithContext(ctx).Create(doctor).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := db.WithContext(ctx).
		Model(&domain.Doctor{}).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		Limit(1).
		Find(&doctor).Error
	if err != nil {
		return nil, err
	}
	if doctor.ID == 0 {
		return nil, nil
	}
	return &doctor, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, doctor *domain.Doctor) error {
	return db.WithContext(ctx).Save(doctor).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter domain.ListDoctorFilter, page pagination.Pagination) ([]*domain.Doctor, error) {
	var doctors []*domain.Doctor
	stmt := db.WithContext(ctx).
		Model(&domain.Doctor{}).
		Where("clinic_id = ?", clinicID)
	if filter.Specialization != "" {
		stmt = stmt.Where("specialization = ?", filter.Specialization)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("active = ?", true)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}
