// Package domain contains persistence models for clinic tenants.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Clinic is a tenant: one dental/medical practice.
type Clinic struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	Name      string            `gorm:"not null" json:"name"`
	Slug      string            `gorm:"not null;uniqueIndex" json:"slug"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	Phone     string            `gorm:"type:text" json:"phone,omitempty"`
	Email     string            `gorm:"type:text" json:"email,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Clinic) TableName() string { return "clinics" }
