package service

import (
	"context"
	"strings"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/appointment/domain"
	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultDurationMinutes = 30

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("appointment.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAppointmentRequest) (domain.Appointment, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Appointment{}, domain.ErrInvalidClinic
	}

	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return domain.Appointment{}, domain.ErrInvalidPatient
	}
	doctorID, err := snowflake.ParseString(strings.TrimSpace(req.DoctorID))
	if err != nil || doctorID == 0 {
		return domain.Appointment{}, domain.ErrInvalidDoctor
	}
	if req.ScheduledAt.IsZero() {
		return domain.Appointment{}, domain.ErrInvalidSchedule
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	start := req.ScheduledAt.UTC()
	end := start.Add(time.Duration(duration) * time.Minute)

	overlapping, err := s.repo.CountOverlapping(ctx, s.db, clinicID, doctorID, start, end, 0)
	if err != nil {
		return domain.Appointment{}, err
	}
	if overlapping > 0 {
		return domain.Appointment{}, domain.ErrSlotConflict
	}

	now := s.clock.Now()
	appointment := domain.Appointment{
		ID:              s.genID.Generate(),
		ClinicID:        clinicID,
		PatientID:       patientID,
		DoctorID:        doctorID,
		ScheduledAt:     start,
		DurationMinutes: duration,
		Status:          domain.StatusScheduled,
		Reason:          strings.TrimSpace(req.Reason),
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &appointment); err != nil {
		return domain.Appointment{}, err
	}

	s.log.Info("appointment scheduled",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("doctor_id", doctorID.String()),
		zap.Time("scheduled_at", start),
	)

	return appointment, nil
}

func (s *Service) Reschedule(ctx context.Context, req domain.RescheduleAppointmentRequest) (domain.Appointment, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Appointment{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Appointment{}, domain.ErrInvalidID
	}
	if req.ScheduledAt.IsZero() {
		return domain.Appointment{}, domain.ErrInvalidSchedule
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if item == nil {
		return domain.Appointment{}, domain.ErrNotFound
	}
	if item.Status.Terminal() {
		return domain.Appointment{}, domain.ErrInvalidTransition
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = item.DurationMinutes
	}

	start := req.ScheduledAt.UTC()
	end := start.Add(time.Duration(duration) * time.Minute)

	overlapping, err := s.repo.CountOverlapping(ctx, s.db, clinicID, item.DoctorID, start, end, item.ID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if overlapping > 0 {
		return domain.Appointment{}, domain.ErrSlotConflict
	}

	item.ScheduledAt = start
	item.DurationMinutes = duration
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Appointment{}, err
	}
	return *item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Appointment, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Appointment{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Appointment{}, domain.ErrInvalidID
	}
	if !domain.ValidStatus(req.Status) {
		return domain.Appointment{}, domain.ErrInvalidStatus
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if item == nil {
		return domain.Appointment{}, domain.ErrNotFound
	}

	// Only scheduled appointments may move; terminal states are final.
	if item.Status != domain.StatusScheduled || req.Status == domain.StatusScheduled {
		return domain.Appointment{}, domain.ErrInvalidTransition
	}

	item.Status = req.Status
	if req.Notes != nil {
		item.Notes = strings.TrimSpace(*req.Notes)
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Appointment{}, err
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListAppointmentRequest) (domain.ListAppointmentResponse, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ListAppointmentResponse{}, domain.ErrInvalidClinic
	}

	filter := domain.ListAppointmentFilter{
		Status: req.Status,
		From:   req.From,
		To:     req.To,
	}
	if raw := strings.TrimSpace(req.DoctorID); raw != "" {
		doctorID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListAppointmentResponse{}, domain.ErrInvalidDoctor
		}
		filter.DoctorID = doctorID
	}
	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListAppointmentResponse{}, domain.ErrInvalidPatient
		}
		filter.PatientID = patientID
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, clinicID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListAppointmentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(appointment *domain.Appointment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        appointment.ID.String(),
			CreatedAt: appointment.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	appointments := make([]domain.Appointment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		appointments = append(appointments, *item)
	}

	resp := domain.ListAppointmentResponse{Appointments: appointments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Appointment, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.Appointment{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Appointment{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if item == nil {
		return domain.Appointment{}, domain.ErrNotFound
	}

	return *item, nil
}
