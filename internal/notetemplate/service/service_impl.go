package service

import (
	"context"
	"strings"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/notetemplate/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("notetemplate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTemplateRequest) (domain.NoteTemplate, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.NoteTemplate{}, domain.ErrInvalidClinic
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.NoteTemplate{}, domain.ErrInvalidName
	}

	body := datatypes.JSONMap{}
	for k, v := range req.Body {
		body[k] = v
	}

	now := time.Now().UTC()
	template := domain.NoteTemplate{
		ID:        s.genID.Generate(),
		ClinicID:  clinicID,
		Name:      name,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &template); err != nil {
		return domain.NoteTemplate{}, err
	}
	return template, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTemplateRequest) (domain.NoteTemplate, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.NoteTemplate{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.NoteTemplate{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.NoteTemplate{}, err
	}
	if item == nil {
		return domain.NoteTemplate{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.NoteTemplate{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Body != nil {
		body := datatypes.JSONMap{}
		for k, v := range req.Body {
			body[k] = v
		}
		item.Body = body
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.NoteTemplate{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, clinicID, id)
}

func (s *Service) List(ctx context.Context) ([]domain.NoteTemplate, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return nil, domain.ErrInvalidClinic
	}

	items, err := s.repo.List(ctx, s.db, clinicID)
	if err != nil {
		return nil, err
	}

	templates := make([]domain.NoteTemplate, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		templates = append(templates, *item)
	}
	return templates, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.NoteTemplate, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.NoteTemplate{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.NoteTemplate{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.NoteTemplate{}, err
	}
	if item == nil {
		return domain.NoteTemplate{}, domain.ErrNotFound
	}

	return *item, nil
}
