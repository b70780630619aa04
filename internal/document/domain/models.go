package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	// StatusPending means an upload intent exists but no bytes arrived yet.
	StatusPending  Status = "pending"
	StatusUploaded Status = "uploaded"
)

type Kind string

const (
	KindXRay   Kind = "xray"
	KindReport Kind = "report"
	KindPhoto  Kind = "photo"
	KindOther  Kind = "other"
)

func ValidKind(k Kind) bool {
	switch k {
	case KindXRay, KindReport, KindPhoto, KindOther:
		return true
	}
	return false
}

type Document struct {
	ID             snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ClinicID       snowflake.ID `json:"clinic_id,string" gorm:"index"`
	PatientID      snowflake.ID `json:"patient_id,string" gorm:"index"`
	ConsultationID snowflake.ID `json:"consultation_id,string" gorm:"index"`
	Kind           Kind         `json:"kind" gorm:"type:varchar(20)"`
	FileName       string       `json:"file_name"`
	ContentType    string       `json:"content_type"`
	SizeBytes      int64        `json:"size_bytes"`
	StorageKey     string       `json:"storage_key" gorm:"uniqueIndex"`
	Status         Status       `json:"status" gorm:"type:varchar(20);default:pending"`
	UploadedAt     *time.Time   `json:"uploaded_at"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
