package domain

import (
	"context"
	"errors"
)

type CreateTemplateRequest struct {
	Name string
	Body map[string]any
}

type UpdateTemplateRequest struct {
	ID   string
	Name *string
	Body map[string]any
}

type Service interface {
	Create(context.Context, CreateTemplateRequest) (NoteTemplate, error)
	Update(context.Context, UpdateTemplateRequest) (NoteTemplate, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]NoteTemplate, error)
	GetByID(ctx context.Context, id string) (NoteTemplate, error)
}

var (
	ErrInvalidClinic = errors.New("invalid_clinic")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
