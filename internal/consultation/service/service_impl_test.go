package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/billing"
	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/SarangTandel5112/care-connects/internal/config"
	"github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	"github.com/SarangTandel5112/care-connects/internal/consultation/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestCreateConsultationDerivesBilling(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.05)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	view, err := svc.Create(ctx, domain.CreateConsultationRequest{
		PatientID:       node.Generate().String(),
		DoctorID:        node.Generate().String(),
		ConsultationFee: 500,
		OtherAmount:     100,
		Discount:        50,
		ApplyTax:        true,
		Procedures: []domain.ProcedureInput{
			{Name: "Root canal", Tooth: "16", UnitCost: 3000, Quantity: 1, Discount: 200},
			{Name: "Cleaning", UnitCost: 400, Quantity: 2},
		},
		Payments: []domain.PaymentInput{
			{AmountPaid: 1000, Mode: billing.ModeUPI, Reference: "txn-1"},
		},
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}

	// procedures: (3000-200) + 800 = 3600; subtotal 4200; tax 210; total 4360
	if got := view.Billing.ProcedureAmount; got != 3600 {
		t.Fatalf("procedure amount = %v, want 3600", got)
	}
	if got := view.Billing.SubTotal; got != 4200 {
		t.Fatalf("sub total = %v, want 4200", got)
	}
	if got := view.Billing.Tax; got != 210 {
		t.Fatalf("tax = %v, want 210", got)
	}
	if got := view.Billing.TotalAmount; got != 4360 {
		t.Fatalf("total = %v, want 4360", got)
	}
	if got := view.Billing.TotalPaid; got != 1000 {
		t.Fatalf("total paid = %v, want 1000", got)
	}
	if got := view.Billing.PaymentStatus; got != billing.StatusPartiallyPaid {
		t.Fatalf("payment status = %v, want partially_paid", got)
	}

	// Re-reading must recompute the same figures from stored raw fields.
	reread, err := svc.GetByID(ctx, view.ID.String())
	if err != nil {
		t.Fatalf("get consultation: %v", err)
	}
	if reread.Billing != view.Billing {
		t.Fatalf("recomputed summary %+v != created summary %+v", reread.Billing, view.Billing)
	}
	if len(reread.Procedures) != 2 || reread.Procedures[0].Name != "Root canal" {
		t.Fatalf("procedures not persisted in order: %+v", reread.Procedures)
	}
}

func TestCreateConsultationClampsOverdiscountedLine(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.05)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	view, err := svc.Create(ctx, domain.CreateConsultationRequest{
		PatientID: node.Generate().String(),
		DoctorID:  node.Generate().String(),
		Procedures: []domain.ProcedureInput{
			// discount exceeds the line value; the line contributes zero,
			// it never subtracts from the other lines
			{Name: "Filling", UnitCost: 100, Quantity: 1, Discount: 500},
			{Name: "X-ray", UnitCost: 250, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}
	if got := view.Billing.ProcedureAmount; got != 250 {
		t.Fatalf("procedure amount = %v, want 250", got)
	}
	if got := view.Billing.PaymentStatus; got != billing.StatusPending {
		t.Fatalf("payment status = %v, want pending", got)
	}
}

func TestConsultationTaxRateComesFromConfig(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.18)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	view, err := svc.Create(ctx, domain.CreateConsultationRequest{
		PatientID:       node.Generate().String(),
		DoctorID:        node.Generate().String(),
		ConsultationFee: 1000,
		ApplyTax:        true,
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}
	if got := view.Billing.Tax; got != 180 {
		t.Fatalf("tax = %v, want 180 at configured 18%%", got)
	}
}

func TestUpdateConsultationReplacesProcedures(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.05)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	view, err := svc.Create(ctx, domain.CreateConsultationRequest{
		PatientID: node.Generate().String(),
		DoctorID:  node.Generate().String(),
		Procedures: []domain.ProcedureInput{
			{Name: "Scaling", UnitCost: 800, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}

	fee := 300.0
	updated, err := svc.Update(ctx, domain.UpdateConsultationRequest{
		ID:              view.ID.String(),
		ConsultationFee: &fee,
		Procedures: []domain.ProcedureInput{
			{Name: "Extraction", Tooth: "38", UnitCost: 1500, Quantity: 1},
			{Name: "Suture", UnitCost: 200, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("update consultation: %v", err)
	}
	if len(updated.Procedures) != 2 {
		t.Fatalf("expected 2 procedures after replace, got %d", len(updated.Procedures))
	}
	if got := updated.Billing.SubTotal; got != 2000 {
		t.Fatalf("sub total = %v, want 2000", got)
	}

	// A nil procedures slice leaves the stored lines untouched.
	notes := "healing well"
	unchanged, err := svc.Update(ctx, domain.UpdateConsultationRequest{
		ID:               view.ID.String(),
		ExaminationNotes: &notes,
	})
	if err != nil {
		t.Fatalf("update consultation: %v", err)
	}
	if len(unchanged.Procedures) != 2 {
		t.Fatalf("expected procedures untouched, got %d", len(unchanged.Procedures))
	}
	if unchanged.ExaminationNotes != "healing well" {
		t.Fatalf("examination notes = %q", unchanged.ExaminationNotes)
	}
}

func TestPaymentLifecycleRederivesStatus(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.05)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	view, err := svc.Create(ctx, domain.CreateConsultationRequest{
		PatientID:       node.Generate().String(),
		DoctorID:        node.Generate().String(),
		ConsultationFee: 1000,
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}
	if view.Billing.PaymentStatus != billing.StatusPending {
		t.Fatalf("payment status = %v, want pending", view.Billing.PaymentStatus)
	}

	view, err = svc.AddPayment(ctx, domain.AddPaymentRequest{
		ConsultationID: view.ID.String(),
		Payment:        domain.PaymentInput{AmountPaid: 400, Mode: billing.ModeCash},
	})
	if err != nil {
		t.Fatalf("add payment: %v", err)
	}
	if view.Billing.PaymentStatus != billing.StatusPartiallyPaid {
		t.Fatalf("payment status = %v, want partially_paid", view.Billing.PaymentStatus)
	}
	if len(view.Payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(view.Payments))
	}

	paymentID := view.Payments[0].ID.String()
	view, err = svc.UpdatePayment(ctx, domain.UpdatePaymentRequest{
		ConsultationID: view.ID.String(),
		PaymentID:      paymentID,
		Payment:        domain.PaymentInput{AmountPaid: 1000, Mode: billing.ModeCard, Reference: "pos-7"},
	})
	if err != nil {
		t.Fatalf("update payment: %v", err)
	}
	if view.Billing.PaymentStatus != billing.StatusPaid {
		t.Fatalf("payment status = %v, want paid", view.Billing.PaymentStatus)
	}
	if view.Billing.PendingAmount != 0 {
		t.Fatalf("pending = %v, want 0", view.Billing.PendingAmount)
	}
	if view.Payments[0].Mode != billing.ModeCard {
		t.Fatalf("payment mode = %v, want card", view.Payments[0].Mode)
	}

	view, err = svc.RemovePayment(ctx, domain.RemovePaymentRequest{
		ConsultationID: view.ID.String(),
		PaymentID:      paymentID,
	})
	if err != nil {
		t.Fatalf("remove payment: %v", err)
	}
	if view.Billing.PaymentStatus != billing.StatusPending {
		t.Fatalf("payment status = %v, want pending after removal", view.Billing.PaymentStatus)
	}
	if len(view.Payments) != 0 {
		t.Fatalf("expected no payments, got %d", len(view.Payments))
	}
}

func TestPaymentValidation(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.05)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	view, err := svc.Create(ctx, domain.CreateConsultationRequest{
		PatientID: node.Generate().String(),
		DoctorID:  node.Generate().String(),
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}

	// Empty mode defaults to cash.
	view, err = svc.AddPayment(ctx, domain.AddPaymentRequest{
		ConsultationID: view.ID.String(),
		Payment:        domain.PaymentInput{AmountPaid: 50},
	})
	if err != nil {
		t.Fatalf("add payment: %v", err)
	}
	if view.Payments[0].Mode != billing.ModeCash {
		t.Fatalf("payment mode = %v, want cash default", view.Payments[0].Mode)
	}

	_, err = svc.AddPayment(ctx, domain.AddPaymentRequest{
		ConsultationID: view.ID.String(),
		Payment:        domain.PaymentInput{AmountPaid: 50, Mode: "crypto"},
	})
	if err != domain.ErrInvalidMode {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}

	_, err = svc.UpdatePayment(ctx, domain.UpdatePaymentRequest{
		ConsultationID: view.ID.String(),
		PaymentID:      node.Generate().String(),
		Payment:        domain.PaymentInput{AmountPaid: 10},
	})
	if err != domain.ErrPaymentMissing {
		t.Fatalf("expected ErrPaymentMissing, got %v", err)
	}
}

func TestPreviewComputesWithoutPersisting(t *testing.T) {
	node := mustNode(t)
	svc, db := setupConsultationService(t, node, 0.05)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	summary := svc.Preview(ctx, domain.PreviewRequest{
		ConsultationFee: 200,
		ApplyTax:        true,
		Procedures: []domain.ProcedureInput{
			{Name: "Cleaning", UnitCost: 600, Quantity: 1, Discount: 100},
		},
		Payments: []domain.PaymentInput{
			{AmountPaid: 735, Mode: billing.ModeCash},
		},
	})
	if summary.SubTotal != 700 {
		t.Fatalf("sub total = %v, want 700", summary.SubTotal)
	}
	if summary.Tax != 35 {
		t.Fatalf("tax = %v, want 35", summary.Tax)
	}
	if summary.PaymentStatus != billing.StatusPaid {
		t.Fatalf("payment status = %v, want paid", summary.PaymentStatus)
	}

	var count int64
	if err := db.Model(&domain.Consultation{}).Count(&count).Error; err != nil {
		t.Fatalf("count consultations: %v", err)
	}
	if count != 0 {
		t.Fatalf("preview persisted %d consultations", count)
	}
}

func TestConsultationTenantIsolation(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.05)
	ctxA := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))
	ctxB := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	view, err := svc.Create(ctxA, domain.CreateConsultationRequest{
		PatientID: node.Generate().String(),
		DoctorID:  node.Generate().String(),
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}

	if _, err := svc.GetByID(ctxB, view.ID.String()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound across clinics, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), view.ID.String()); err != domain.ErrInvalidClinic {
		t.Fatalf("expected ErrInvalidClinic without tenant, got %v", err)
	}
}

func TestListConsultationsFiltersAndPaginates(t *testing.T) {
	node := mustNode(t)
	svc, _ := setupConsultationService(t, node, 0.05)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	patientID := node.Generate().String()
	otherPatient := node.Generate().String()
	doctorID := node.Generate().String()

	for i := 0; i < 3; i++ {
		pid := patientID
		if i == 2 {
			pid = otherPatient
		}
		if _, err := svc.Create(ctx, domain.CreateConsultationRequest{
			PatientID:       pid,
			DoctorID:        doctorID,
			ConsultationFee: float64(100 * (i + 1)),
		}); err != nil {
			t.Fatalf("create consultation %d: %v", i, err)
		}
	}

	resp, err := svc.List(ctx, domain.ListConsultationRequest{PatientID: patientID})
	if err != nil {
		t.Fatalf("list consultations: %v", err)
	}
	if len(resp.Consultations) != 2 {
		t.Fatalf("expected 2 consultations for patient, got %d", len(resp.Consultations))
	}

	paged, err := svc.List(ctx, domain.ListConsultationRequest{PageSize: 2})
	if err != nil {
		t.Fatalf("list consultations: %v", err)
	}
	if len(paged.Consultations) != 2 {
		t.Fatalf("expected page of 2, got %d", len(paged.Consultations))
	}
	if !paged.HasMore || paged.NextPageToken == "" {
		t.Fatalf("expected more pages, page info: %+v", paged.PageInfo)
	}
}

func setupConsultationService(t *testing.T, node *snowflake.Node, taxRate float64) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(
		&domain.Consultation{},
		&domain.ProcedureItem{},
		&domain.PrescriptionItem{},
		&domain.PaymentRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
		Billing: config.NewStaticBillingConfigHolder(config.BillingConfig{
			TaxRate:  taxRate,
			Currency: "INR",
		}),
	})
	return svc, db
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}
