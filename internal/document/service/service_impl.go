package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/SarangTandel5112/care-connects/internal/document/domain"
	"github.com/SarangTandel5112/care-connects/internal/observability/metrics"
	"github.com/SarangTandel5112/care-connects/internal/providers/storage"
	"github.com/SarangTandel5112/care-connects/internal/ratelimit"
	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Storage storage.Provider
	Limiter *ratelimit.UploadLimiter `optional:"true"`
	Metrics *metrics.Metrics         `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	storage storage.Provider
	limiter *ratelimit.UploadLimiter
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("document.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		storage: p.Storage,
		limiter: p.Limiter,
		metrics: p.Metrics,
	}
}

func (s *Service) CreateIntent(ctx context.Context, req domain.CreateIntentRequest) (domain.Intent, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Intent{}, domain.ErrInvalidClinic
	}

	result, err := s.limiter.AllowUpload(ctx, clinicID.String())
	if err != nil {
		s.log.Warn("upload rate limiter unavailable", zap.Error(err))
	} else if !result.Allowed {
		if s.metrics != nil {
			s.metrics.RecordRateLimitDenied(ctx, clinicID.String(), "document.upload", "bucket_empty")
		}
		return domain.Intent{}, domain.ErrRateLimited
	} else if s.metrics != nil {
		s.metrics.RecordRateLimitAllowed(ctx, clinicID.String(), "document.upload")
	}

	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return domain.Intent{}, domain.ErrInvalidPatient
	}

	var consultationID snowflake.ID
	if raw := strings.TrimSpace(req.ConsultationID); raw != "" {
		consultationID, err = snowflake.ParseString(raw)
		if err != nil {
			return domain.Intent{}, domain.ErrInvalidID
		}
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.KindOther
	}
	if !domain.ValidKind(kind) {
		return domain.Intent{}, domain.ErrInvalidKind
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return domain.Intent{}, domain.ErrInvalidFileName
	}

	now := s.clock.Now()
	key := ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()

	document := domain.Document{
		ID:             s.genID.Generate(),
		ClinicID:       clinicID,
		PatientID:      patientID,
		ConsultationID: consultationID,
		Kind:           kind,
		FileName:       fileName,
		ContentType:    strings.TrimSpace(req.ContentType),
		StorageKey:     key,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &document); err != nil {
		return domain.Intent{}, err
	}

	return domain.Intent{
		Document:  document,
		UploadURL: fmt.Sprintf("/api/documents/%s/content", document.ID),
	}, nil
}

func (s *Service) Upload(ctx context.Context, rawID string, body io.Reader) (domain.Document, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Document{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Document{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Document{}, err
	}
	if item == nil {
		return domain.Document{}, domain.ErrNotFound
	}

	size, err := s.storage.Save(ctx, item.StorageKey, body)
	if err != nil {
		return domain.Document{}, err
	}

	now := s.clock.Now()
	item.SizeBytes = size
	item.Status = domain.StatusUploaded
	item.UploadedAt = &now
	item.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Document{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordDocumentUploaded(ctx, string(item.Kind))
	}

	s.log.Info("document uploaded",
		zap.String("document_id", item.ID.String()),
		zap.String("kind", string(item.Kind)),
		zap.Int64("size_bytes", size),
	)

	return *item, nil
}

func (s *Service) Download(ctx context.Context, rawID string) (domain.Document, io.ReadCloser, error) {
	item, err := s.GetByID(ctx, rawID)
	if err != nil {
		return domain.Document{}, nil, err
	}
	if item.Status != domain.StatusUploaded {
		return domain.Document{}, nil, domain.ErrNotUploaded
	}

	rc, err := s.storage.Open(ctx, item.StorageKey)
	if err != nil {
		return domain.Document{}, nil, err
	}
	return item, rc, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Document, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Document{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Document{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Document{}, err
	}
	if item == nil {
		return domain.Document{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDocumentRequest) ([]domain.Document, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	filter := domain.ListDocumentFilter{Kind: req.Kind}
	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidPatient
		}
		filter.PatientID = patientID
	}
	if raw := strings.TrimSpace(req.ConsultationID); raw != "" {
		consultationID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.ConsultationID = consultationID
	}

	items, err := s.repo.List(ctx, s.db, clinicID, filter)
	if err != nil {
		return nil, err
	}

	documents := make([]domain.Document, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		documents = append(documents, *item)
	}
	return documents, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	item, err := s.GetByID(ctx, rawID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, item.StorageKey); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, item.ClinicID, item.ID)
}
