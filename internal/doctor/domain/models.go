package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Doctor struct {
	ID                 snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ClinicID           snowflake.ID `json:"clinic_id,string" gorm:"index"`
	Name               string       `json:"name"`
	Specialization     string       `json:"specialization"`
	RegistrationNumber string       `json:"registration_number"`
	Phone              string       `json:"phone"`
	Email              string       `json:"email"`
	Active             bool         `json:"active" gorm:"default:true"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}
