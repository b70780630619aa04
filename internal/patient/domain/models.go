// Package domain contains persistence models for patient records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Gender labels are stored as entered; no validation beyond trimming.
type Patient struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	ClinicID  snowflake.ID      `gorm:"not null;index" json:"clinic_id,string"`
	Name      string            `gorm:"not null" json:"name"`
	Phone     string            `gorm:"not null;index" json:"phone"`
	Email     string            `gorm:"type:text" json:"email,omitempty"`
	Gender    string            `gorm:"type:text" json:"gender,omitempty"`
	BirthDate *time.Time        `json:"birth_date,omitempty"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	// MedicalHistory holds free-form flags entered at registration
	// (allergies, chronic conditions, current medication).
	MedicalHistory datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"medical_history,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Patient) TableName() string { return "patients" }
