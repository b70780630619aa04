package domain

import (
	"context"
	"errors"
	"time"

	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
)

type CreatePatientRequest struct {
	Name           string
	Phone          string
	Email          string
	Gender         string
	BirthDate      *time.Time
	Address        string
	MedicalHistory map[string]any
}

type UpdatePatientRequest struct {
	ID             string
	Name           *string
	Phone          *string
	Email          *string
	Gender         *string
	BirthDate      *time.Time
	Address        *string
	MedicalHistory map[string]any
}

type ListPatientRequest struct {
	PageToken string
	PageSize  int32
	Search    string
	Phone     string
}

type ListPatientResponse struct {
	pagination.PageInfo
	Patients []Patient `json:"patients"`
}

type GetPatientRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreatePatientRequest) (Patient, error)
	Update(context.Context, UpdatePatientRequest) (Patient, error)
	Delete(ctx context.Context, id string) error
	List(context.Context, ListPatientRequest) (ListPatientResponse, error)
	GetByID(context.Context, GetPatientRequest) (Patient, error)
}

var (
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPhone  = errors.New("invalid_phone")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
