package domain

import (
	"context"
	"errors"
	"time"

	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
)

type CreateAppointmentRequest struct {
	PatientID       string
	DoctorID        string
	ScheduledAt     time.Time
	DurationMinutes int
	Reason          string
	Notes           string
}

type RescheduleAppointmentRequest struct {
	ID              string
	ScheduledAt     time.Time
	DurationMinutes int
}

type UpdateStatusRequest struct {
	ID     string
	Status Status
	Notes  *string
}

type ListAppointmentRequest struct {
	PageToken string
	PageSize  int32
	DoctorID  string
	PatientID string
	Status    Status
	From      time.Time
	To        time.Time
}

type ListAppointmentResponse struct {
	pagination.PageInfo
	Appointments []Appointment `json:"appointments"`
}

type Service interface {
	Create(context.Context, CreateAppointmentRequest) (Appointment, error)
	Reschedule(context.Context, RescheduleAppointmentRequest) (Appointment, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Appointment, error)
	List(context.Context, ListAppointmentRequest) (ListAppointmentResponse, error)
	GetByID(ctx context.Context, id string) (Appointment, error)
}

var (
	ErrInvalidClinic     = errors.New("invalid_clinic")
	ErrInvalidPatient    = errors.New("invalid_patient")
	ErrInvalidDoctor     = errors.New("invalid_doctor")
	ErrInvalidSchedule   = errors.New("invalid_schedule")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrSlotConflict      = errors.New("slot_conflict")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
