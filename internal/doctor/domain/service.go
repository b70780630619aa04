package domain

import (
	"context"
	"errors"

	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
)

type CreateDoctorRequest struct {
	Name               string
	Specialization     string
	RegistrationNumber string
	Phone              string
	Email              string
}

type UpdateDoctorRequest struct {
	ID                 string
	Name               *string
	Specialization     *string
	RegistrationNumber *string
	Phone              *string
	Email              *string
	Active             *bool
}

type ListDoctorRequest struct {
	PageToken      string
	PageSize       int32
	Specialization string
	ActiveOnly     bool
}

type ListDoctorResponse struct {
	pagination.PageInfo
	Doctors []Doctor `json:"doctors"`
}

type Service interface {
	Create(context.Context, CreateDoctorRequest) (Doctor, error)
	Update(context.Context, UpdateDoctorRequest) (Doctor, error)
	List(context.Context, ListDoctorRequest) (ListDoctorResponse, error)
	GetByID(ctx context.Context, id string) (Doctor, error)
}

var (
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
