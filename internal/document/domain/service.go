package domain

import (
	"context"
	"errors"
	"io"
)

type CreateIntentRequest struct {
	PatientID      string `json:"patient_id"`
	ConsultationID string `json:"consultation_id"`
	Kind           Kind   `json:"kind"`
	FileName       string `json:"file_name"`
	ContentType    string `json:"content_type"`
}

// Intent is the two-phase handshake: the client receives the storage key and
// the URL to PUT the bytes to, then the upload itself confirms the record.
type Intent struct {
	Document  Document `json:"document"`
	UploadURL string   `json:"upload_url"`
}

type ListDocumentRequest struct {
	PatientID      string
	ConsultationID string
	Kind           Kind
}

type Service interface {
	CreateIntent(context.Context, CreateIntentRequest) (Intent, error)
	// Upload streams the blob into storage and marks the document uploaded.
	Upload(ctx context.Context, id string, body io.Reader) (Document, error)
	// Download opens the stored blob for an uploaded document.
	Download(ctx context.Context, id string) (Document, io.ReadCloser, error)
	GetByID(ctx context.Context, id string) (Document, error)
	List(context.Context, ListDocumentRequest) ([]Document, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidClinic   = errors.New("invalid_clinic")
	ErrInvalidPatient  = errors.New("invalid_patient")
	ErrInvalidKind     = errors.New("invalid_kind")
	ErrInvalidFileName = errors.New("invalid_file_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrNotUploaded     = errors.New("not_uploaded")
	ErrRateLimited     = errors.New("rate_limited")
)
