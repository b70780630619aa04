package service

import (
	"context"
	"strings"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/clinic/domain"
	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
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
		log:   p.Log.Named("clinic.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClinicRequest) (domain.Clinic, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Clinic{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	clinic := domain.Clinic{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &clinic); err != nil {
		return domain.Clinic{}, err
	}

	return clinic, nil
}

func (s *Service) Current(ctx context.Context) (domain.Clinic, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Clinic{}, domain.ErrInvalidClinic
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID)
	if err != nil {
		return domain.Clinic{}, err
	}
	if item == nil {
		return domain.Clinic{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClinicRequest) (domain.Clinic, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return domain.Clinic{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Clinic{}, domain.ErrInvalidName
		}
		current.Name = name
		current.Slug = slug.Make(name)
	}
	if req.Address != nil {
		current.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		current.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		current.Email = strings.TrimSpace(*req.Email)
	}
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &current); err != nil {
		return domain.Clinic{}, err
	}
	return current, nil
}
