package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, template *NoteTemplate) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*NoteTemplate, error)
	Update(ctx context.Context, db *gorm.DB, template *NoteTemplate) error
	Delete(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) ([]*NoteTemplate, error)
}
