package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListDocumentFilter struct {
	PatientID      snowflake.ID
	ConsultationID snowflake.ID
	Kind           Kind
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, document *Document) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Document, error)
	Update(ctx context.Context, db *gorm.DB, document *Document) error
	Delete(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, filter ListDocumentFilter) ([]*Document, error)
}
