package domain

import (
	"context"

	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListPatientFilter struct {
	// Search matches name or phone, prefix-insensitive.
	Search string
	Phone  string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, patient *Patient) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Patient, error)
	Update(ctx context.Context, db *gorm.DB, patient *Patient) error
	Delete(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListPatientFilter, page pagination.Pagination) ([]*Patient, error)
}
