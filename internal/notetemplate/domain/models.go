package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// NoteTemplate is a reusable snippet for consultation notes. Body sections
// are free-form JSON so the editor can evolve without schema changes.
type NoteTemplate struct {
	ID        snowflake.ID      `json:"id,string" gorm:"primaryKey"`
	ClinicID  snowflake.ID      `json:"clinic_id,string" gorm:"index"`
	Name      string            `json:"name"`
	Body      datatypes.JSONMap `json:"body" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (NoteTemplate) TableName() string {
	return "note_templates"
}
