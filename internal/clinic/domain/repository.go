package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, clinic *Clinic) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Clinic, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Clinic, error)
	Update(ctx context.Context, db *gorm.DB, clinic *Clinic) error
}
