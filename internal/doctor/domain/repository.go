package domain

import (
	"context"

	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListDoctorFilter struct {
	Specialization string
	// ActiveOnly excludes doctors marked inactive.
	ActiveOnly bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doctor *Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Doctor, error)
	Update(ctx context.Context, db *gorm.DB, doctor *Doctor) error
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListDoctorFilter, page pagination.Pagination) ([]*Doctor, error)
}
