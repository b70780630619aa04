package domain

import (
	"context"
	"errors"
)

type CreateClinicRequest struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type UpdateClinicRequest struct {
	Name    *string
	Address *string
	Phone   *string
	Email   *string
}

type Service interface {
	Create(context.Context, CreateClinicRequest) (Clinic, error)
	Current(context.Context) (Clinic, error)
	Update(context.Context, UpdateClinicRequest) (Clinic, error)
}

var (
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidName   = errors.New("invalid_name")
	ErrNotFound      = errors.New("not_found")
)
