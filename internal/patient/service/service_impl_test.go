package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/patient/domain"
	"github.com/SarangTandel5112/care-connects/internal/patient/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestCreatePatientValidation(t *testing.T) {
	node := mustNode(t)
	svc := setupPatientService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	_, err := svc.Create(context.Background(), domain.CreatePatientRequest{Name: "Asha", Phone: "98"})
	if err != domain.ErrInvalidClinic {
		t.Fatalf("expected ErrInvalidClinic, got %v", err)
	}

	_, err = svc.Create(ctx, domain.CreatePatientRequest{Name: "   ", Phone: "98"})
	if err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	_, err = svc.Create(ctx, domain.CreatePatientRequest{Name: "Asha"})
	if err != domain.ErrInvalidPhone {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}

	patient, err := svc.Create(ctx, domain.CreatePatientRequest{
		Name:  "  Asha Verma ",
		Phone: "9876500001",
		MedicalHistory: map[string]any{
			"allergies": "penicillin",
		},
	})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	if patient.Name != "Asha Verma" {
		t.Fatalf("name = %q, want trimmed", patient.Name)
	}
	if patient.MedicalHistory["allergies"] != "penicillin" {
		t.Fatalf("medical history = %+v", patient.MedicalHistory)
	}
}

func TestUpdatePatientPartialFields(t *testing.T) {
	node := mustNode(t)
	svc := setupPatientService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	patient, err := svc.Create(ctx, domain.CreatePatientRequest{
		Name:  "Ravi",
		Phone: "9876500002",
		Email: "ravi@example.com",
	})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	phone := "9876500003"
	updated, err := svc.Update(ctx, domain.UpdatePatientRequest{
		ID:    patient.ID.String(),
		Phone: &phone,
	})
	if err != nil {
		t.Fatalf("update patient: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone = %q, want %q", updated.Phone, phone)
	}
	if updated.Name != "Ravi" || updated.Email != "ravi@example.com" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	empty := " "
	_, err = svc.Update(ctx, domain.UpdatePatientRequest{
		ID:   patient.ID.String(),
		Name: &empty,
	})
	if err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestDeletePatient(t *testing.T) {
	node := mustNode(t)
	svc := setupPatientService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	patient, err := svc.Create(ctx, domain.CreatePatientRequest{Name: "Meera", Phone: "9876500004"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	if err := svc.Delete(ctx, patient.ID.String()); err != nil {
		t.Fatalf("delete patient: %v", err)
	}
	if _, err := svc.GetByID(ctx, domain.GetPatientRequest{ID: patient.ID.String()}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, patient.ID.String()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListPatientsSearch(t *testing.T) {
	node := mustNode(t)
	svc := setupPatientService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	seed := []struct{ name, phone string }{
		{"Asha Verma", "9876500010"},
		{"Ashok Kumar", "9876500011"},
		{"Meera Nair", "9000000012"},
	}
	for _, p := range seed {
		if _, err := svc.Create(ctx, domain.CreatePatientRequest{Name: p.name, Phone: p.phone}); err != nil {
			t.Fatalf("create %s: %v", p.name, err)
		}
	}

	resp, err := svc.List(ctx, domain.ListPatientRequest{Search: "ash"})
	if err != nil {
		t.Fatalf("list patients: %v", err)
	}
	if len(resp.Patients) != 2 {
		t.Fatalf("expected 2 matches for 'ash', got %d", len(resp.Patients))
	}

	byPhone, err := svc.List(ctx, domain.ListPatientRequest{Search: "9000000012"})
	if err != nil {
		t.Fatalf("list by phone: %v", err)
	}
	if len(byPhone.Patients) != 1 || byPhone.Patients[0].Name != "Meera Nair" {
		t.Fatalf("phone search matched %+v", byPhone.Patients)
	}

	all, err := svc.List(ctx, domain.ListPatientRequest{PageSize: 2})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if len(all.Patients) != 2 || !all.HasMore {
		t.Fatalf("expected first page of 2 with more, got %d hasMore=%v", len(all.Patients), all.HasMore)
	}
}

func setupPatientService(t *testing.T, node *snowflake.Node) domain.Service {
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

	if err := db.AutoMigrate(&domain.Patient{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}
