package service

import (
	"context"
	"strings"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/doctor/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("doctor.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDoctorRequest) (domain.Doctor, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Doctor{}, domain.ErrInvalidClinic
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Doctor{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	doctor := domain.Doctor{
		ID:                 s.genID.Generate(),
		ClinicID:           clinicID,
		Name:               name,
		Specialization:     strings.TrimSpace(req.Specialization),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Phone:              strings.TrimSpace(req.Phone),
		Email:              strings.TrimSpace(req.Email),
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, &doctor); err != nil {
		return domain.Doctor{}, err
	}

	return doctor, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateDoctorRequest) (domain.Doctor, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Doctor{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Doctor{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Doctor{}, err
	}
	if item == nil {
		return domain.Doctor{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Doctor{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Specialization != nil {
		item.Specialization = strings.TrimSpace(*req.Specialization)
	}
	if req.RegistrationNumber != nil {
		item.RegistrationNumber = strings.TrimSpace(*req.RegistrationNumber)
	}
	if req.Phone != nil {
		item.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		item.Email = strings.TrimSpace(*req.Email)
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Doctor{}, err
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDoctorRequest) (domain.ListDoctorResponse, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ListDoctorResponse{}, domain.ErrInvalidClinic
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, clinicID, domain.ListDoctorFilter{
		Specialization: strings.TrimSpace(req.Specialization),
		ActiveOnly:     req.ActiveOnly,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListDoctorResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(doctor *domain.Doctor) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        doctor.ID.String(),
			CreatedAt: doctor.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	doctors := make([]domain.Doctor, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		doctors = append(doctors, *item)
	}

	resp := domain.ListDoctorResponse{Doctors: doctors}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Doctor, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Doctor{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Doctor{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Doctor{}, err
	}
	if item == nil {
		return domain.Doctor{}, domain.ErrNotFound
	}

	return *item, nil
}
