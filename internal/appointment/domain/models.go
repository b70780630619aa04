package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Terminal reports whether the appointment can no longer change state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID              snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ClinicID        snowflake.ID `json:"clinic_id,string" gorm:"index"`
	PatientID       snowflake.ID `json:"patient_id,string" gorm:"index"`
	DoctorID        snowflake.ID `json:"doctor_id,string" gorm:"index:idx_appointments_doctor_slot"`
	ScheduledAt     time.Time    `json:"scheduled_at" gorm:"index:idx_appointments_doctor_slot"`
	DurationMinutes int          `json:"duration_minutes"`
	Status          Status       `json:"status" gorm:"type:varchar(20);default:scheduled"`
	Reason          string       `json:"reason"`
	Notes           string       `json:"notes"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// EndsAt derives the slot end from the scheduled start and duration.
func (a Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
