package service

import (
	"context"
	"strings"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/billing"
	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/SarangTandel5112/care-connects/internal/config"
	"github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	"github.com/SarangTandel5112/care-connects/internal/observability/metrics"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Billing *config.BillingConfigHolder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	billing *config.BillingConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("consultation.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		billing: p.Billing,
		metrics: p.Metrics,
	}
}

// taxRate reads the clinic's configured rate; the holder hot-reloads it.
func (s *Service) taxRate() float64 {
	return s.billing.Get().TaxRate
}

// view recomputes the billing summary from the stored raw inputs. Nothing
// derived is ever read back from storage.
func (s *Service) view(c domain.Consultation) domain.View {
	summary := billing.Compute(c.BillingLines(), billing.Inputs{
		ConsultationFee: c.ConsultationFee,
		OtherAmount:     c.OtherAmount,
		Discount:        c.Discount,
		ApplyTax:        c.ApplyTax,
		TaxRate:         s.taxRate(),
	}, c.BillingPayments())
	return domain.View{Consultation: c, Billing: summary}
}

func (s *Service) Create(ctx context.Context, req domain.CreateConsultationRequest) (domain.View, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.View{}, domain.ErrInvalidClinic
	}

	patientID, err := snowflake.ParseString(strings.TrimSpace(req.PatientID))
	if err != nil || patientID == 0 {
		return domain.View{}, domain.ErrInvalidPatient
	}
	doctorID, err := snowflake.ParseString(strings.TrimSpace(req.DoctorID))
	if err != nil || doctorID == 0 {
		return domain.View{}, domain.ErrInvalidDoctor
	}

	var appointmentID snowflake.ID
	if raw := strings.TrimSpace(req.AppointmentID); raw != "" {
		appointmentID, err = snowflake.ParseString(raw)
		if err != nil {
			return domain.View{}, domain.ErrInvalidID
		}
	}

	now := s.clock.Now()
	consultation := domain.Consultation{
		ID:               s.genID.Generate(),
		ClinicID:         clinicID,
		PatientID:        patientID,
		DoctorID:         doctorID,
		AppointmentID:    appointmentID,
		Complaints:       strings.TrimSpace(req.Complaints),
		ExaminationNotes: strings.TrimSpace(req.ExaminationNotes),
		ToothChart:       toJSONMap(req.ToothChart),
		ConsultationFee:  req.ConsultationFee,
		OtherAmount:      req.OtherAmount,
		Discount:         req.Discount,
		ApplyTax:         req.ApplyTax,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	consultation.Procedures = s.buildProcedures(consultation.ID, req.Procedures, now)
	consultation.Prescriptions = s.buildPrescriptions(consultation.ID, req.Prescriptions, now)

	payments := make([]domain.PaymentRecord, 0, len(req.Payments))
	for _, in := range req.Payments {
		record, err := s.buildPayment(consultation.ID, in, now)
		if err != nil {
			return domain.View{}, err
		}
		payments = append(payments, record)
	}
	consultation.Payments = payments

	if err := s.repo.Insert(ctx, s.db, &consultation); err != nil {
		return domain.View{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordConsultationSaved(ctx, "create")
		for _, p := range consultation.Payments {
			s.metrics.RecordPaymentRecorded(ctx, string(p.Mode))
		}
	}

	s.log.Info("consultation created",
		zap.String("consultation_id", consultation.ID.String()),
		zap.String("patient_id", patientID.String()),
	)

	return s.view(consultation), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateConsultationRequest) (domain.View, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.View{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.View{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.View{}, err
	}
	if item == nil {
		return domain.View{}, domain.ErrNotFound
	}

	if req.Complaints != nil {
		item.Complaints = strings.TrimSpace(*req.Complaints)
	}
	if req.ExaminationNotes != nil {
		item.ExaminationNotes = strings.TrimSpace(*req.ExaminationNotes)
	}
	if req.ToothChart != nil {
		item.ToothChart = toJSONMap(req.ToothChart)
	}
	if req.ConsultationFee != nil {
		item.ConsultationFee = *req.ConsultationFee
	}
	if req.OtherAmount != nil {
		item.OtherAmount = *req.OtherAmount
	}
	if req.Discount != nil {
		item.Discount = *req.Discount
	}
	if req.ApplyTax != nil {
		item.ApplyTax = *req.ApplyTax
	}

	now := s.clock.Now()
	replaceChildren := req.Procedures != nil || req.Prescriptions != nil
	if req.Procedures != nil {
		item.Procedures = s.buildProcedures(item.ID, req.Procedures, now)
	}
	if req.Prescriptions != nil {
		item.Prescriptions = s.buildPrescriptions(item.ID, req.Prescriptions, now)
	}
	item.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, item, replaceChildren); err != nil {
		return domain.View{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordConsultationSaved(ctx, "update")
	}

	return s.view(*item), nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.View, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.View{}, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.View{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.View{}, err
	}
	if item == nil {
		return domain.View{}, domain.ErrNotFound
	}

	return s.view(*item), nil
}

func (s *Service) List(ctx context.Context, req domain.ListConsultationRequest) (domain.ListConsultationResponse, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return domain.ListConsultationResponse{}, domain.ErrInvalidClinic
	}

	filter := domain.ListConsultationFilter{}
	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		patientID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListConsultationResponse{}, domain.ErrInvalidPatient
		}
		filter.PatientID = patientID
	}
	if raw := strings.TrimSpace(req.DoctorID); raw != "" {
		doctorID, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListConsultationResponse{}, domain.ErrInvalidDoctor
		}
		filter.DoctorID = doctorID
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	items, err := s.repo.List(ctx, s.db, clinicID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListConsultationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(c *domain.Consultation) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	views := make([]domain.View, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		views = append(views, s.view(*item))
	}

	resp := domain.ListConsultationResponse{Consultations: views}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) AddPayment(ctx context.Context, req domain.AddPaymentRequest) (domain.View, error) {
	clinicID, item, err := s.loadForPayment(ctx, req.ConsultationID)
	if err != nil {
		return domain.View{}, err
	}

	record, err := s.buildPayment(item.ID, req.Payment, s.clock.Now())
	if err != nil {
		return domain.View{}, err
	}

	if err := s.repo.InsertPayment(ctx, s.db, &record); err != nil {
		return domain.View{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentRecorded(ctx, string(record.Mode))
	}

	return s.reload(ctx, clinicID, item.ID)
}

func (s *Service) UpdatePayment(ctx context.Context, req domain.UpdatePaymentRequest) (domain.View, error) {
	clinicID, item, err := s.loadForPayment(ctx, req.ConsultationID)
	if err != nil {
		return domain.View{}, err
	}

	paymentID, err := snowflake.ParseString(strings.TrimSpace(req.PaymentID))
	if err != nil || paymentID == 0 {
		return domain.View{}, domain.ErrInvalidID
	}

	var existing *domain.PaymentRecord
	for i := range item.Payments {
		if item.Payments[i].ID == paymentID {
			existing = &item.Payments[i]
			break
		}
	}
	if existing == nil {
		return domain.View{}, domain.ErrPaymentMissing
	}

	mode, err := paymentMode(req.Payment.Mode)
	if err != nil {
		return domain.View{}, err
	}

	existing.AmountPaid = req.Payment.AmountPaid
	existing.Mode = mode
	existing.Reference = strings.TrimSpace(req.Payment.Reference)
	if req.Payment.PaidAt != nil {
		existing.PaidAt = req.Payment.PaidAt.UTC()
	}

	if err := s.repo.UpdatePayment(ctx, s.db, existing); err != nil {
		return domain.View{}, err
	}

	return s.reload(ctx, clinicID, item.ID)
}

func (s *Service) RemovePayment(ctx context.Context, req domain.RemovePaymentRequest) (domain.View, error) {
	clinicID, item, err := s.loadForPayment(ctx, req.ConsultationID)
	if err != nil {
		return domain.View{}, err
	}

	paymentID, err := snowflake.ParseString(strings.TrimSpace(req.PaymentID))
	if err != nil || paymentID == 0 {
		return domain.View{}, domain.ErrInvalidID
	}

	found := false
	for _, p := range item.Payments {
		if p.ID == paymentID {
			found = true
			break
		}
	}
	if !found {
		return domain.View{}, domain.ErrPaymentMissing
	}

	if err := s.repo.DeletePayment(ctx, s.db, item.ID, paymentID); err != nil {
		return domain.View{}, err
	}

	return s.reload(ctx, clinicID, item.ID)
}

func (s *Service) Preview(ctx context.Context, req domain.PreviewRequest) billing.Summary {
	lines := make([]billing.ProcedureLine, 0, len(req.Procedures))
	for _, p := range req.Procedures {
		lines = append(lines, billing.ProcedureLine{
			UnitCost: p.UnitCost,
			Quantity: p.Quantity,
			Discount: p.Discount,
		})
	}
	payments := make([]billing.Payment, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, billing.Payment{
			AmountPaid: p.AmountPaid,
			Mode:       p.Mode,
			Reference:  p.Reference,
		})
	}
	return billing.Compute(lines, billing.Inputs{
		ConsultationFee: req.ConsultationFee,
		OtherAmount:     req.OtherAmount,
		Discount:        req.Discount,
		ApplyTax:        req.ApplyTax,
		TaxRate:         s.taxRate(),
	}, payments)
}

func (s *Service) loadForPayment(ctx context.Context, rawID string) (snowflake.ID, *domain.Consultation, error) {
	clinicID, ok := clinicctx.ClinicIDFromContext(ctx)
	if !ok || clinicID == 0 {
		return 0, nil, domain.ErrInvalidClinic
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return 0, nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return 0, nil, err
	}
	if item == nil {
		return 0, nil, domain.ErrNotFound
	}
	return clinicID, item, nil
}

func (s *Service) reload(ctx context.Context, clinicID, id snowflake.ID) (domain.View, error) {
	item, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return domain.View{}, err
	}
	if item == nil {
		return domain.View{}, domain.ErrNotFound
	}
	return s.view(*item), nil
}

func (s *Service) buildProcedures(consultationID snowflake.ID, inputs []domain.ProcedureInput, now time.Time) []domain.ProcedureItem {
	items := make([]domain.ProcedureItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, domain.ProcedureItem{
			ID:             s.genID.Generate(),
			ConsultationID: consultationID,
			Name:           strings.TrimSpace(in.Name),
			Tooth:          strings.TrimSpace(in.Tooth),
			UnitCost:       in.UnitCost,
			Quantity:       in.Quantity,
			Discount:       in.Discount,
			Position:       i,
			CreatedAt:      now,
		})
	}
	return items
}

func (s *Service) buildPrescriptions(consultationID snowflake.ID, inputs []domain.PrescriptionInput, now time.Time) []domain.PrescriptionItem {
	items := make([]domain.PrescriptionItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, domain.PrescriptionItem{
			ID:             s.genID.Generate(),
			ConsultationID: consultationID,
			Medicine:       strings.TrimSpace(in.Medicine),
			Dosage:         strings.TrimSpace(in.Dosage),
			Frequency:      strings.TrimSpace(in.Frequency),
			DurationDays:   in.DurationDays,
			Instructions:   strings.TrimSpace(in.Instructions),
			Position:       i,
			CreatedAt:      now,
		})
	}
	return items
}

func (s *Service) buildPayment(consultationID snowflake.ID, in domain.PaymentInput, now time.Time) (domain.PaymentRecord, error) {
	mode, err := paymentMode(in.Mode)
	if err != nil {
		return domain.PaymentRecord{}, err
	}

	paidAt := now
	if in.PaidAt != nil && !in.PaidAt.IsZero() {
		paidAt = in.PaidAt.UTC()
	}

	return domain.PaymentRecord{
		ID:             s.genID.Generate(),
		ConsultationID: consultationID,
		AmountPaid:     in.AmountPaid,
		Mode:           mode,
		Reference:      strings.TrimSpace(in.Reference),
		RecordStatus:   "completed",
		PaidAt:         paidAt,
		CreatedAt:      now,
	}, nil
}

// paymentMode defaults an empty mode to cash, matching the entry form.
func paymentMode(mode billing.PaymentMode) (billing.PaymentMode, error) {
	if mode == "" {
		return billing.ModeCash, nil
	}
	if !billing.ValidPaymentMode(mode) {
		return "", domain.ErrInvalidMode
	}
	return mode, nil
}

func toJSONMap(m map[string]any) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range m {
		out[k] = v
	}
	return out
}
