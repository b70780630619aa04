package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/SarangTandel5112/care-connects/internal/config"
	"github.com/SarangTandel5112/care-connects/internal/document/domain"
	"github.com/SarangTandel5112/care-connects/internal/document/repository"
	"github.com/SarangTandel5112/care-connects/internal/providers/storage"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestDocumentUploadLifecycle(t *testing.T) {
	node := mustNode(t)
	svc := setupDocumentService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	intent, err := svc.CreateIntent(ctx, domain.CreateIntentRequest{
		PatientID:   node.Generate().String(),
		Kind:        domain.KindXRay,
		FileName:    "opg.png",
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if intent.Document.Status != domain.StatusPending {
		t.Fatalf("status = %v, want pending", intent.Document.Status)
	}
	if intent.Document.StorageKey == "" {
		t.Fatalf("expected storage key")
	}
	if intent.UploadURL != fmt.Sprintf("/api/documents/%s/content", intent.Document.ID) {
		t.Fatalf("upload url = %q", intent.UploadURL)
	}

	// Download before upload is rejected.
	if _, _, err := svc.Download(ctx, intent.Document.ID.String()); err != domain.ErrNotUploaded {
		t.Fatalf("expected ErrNotUploaded, got %v", err)
	}

	content := "fake-png-bytes"
	uploaded, err := svc.Upload(ctx, intent.Document.ID.String(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if uploaded.Status != domain.StatusUploaded {
		t.Fatalf("status = %v, want uploaded", uploaded.Status)
	}
	if uploaded.SizeBytes != int64(len(content)) {
		t.Fatalf("size = %d, want %d", uploaded.SizeBytes, len(content))
	}
	if uploaded.UploadedAt == nil {
		t.Fatalf("expected uploaded_at set")
	}

	doc, rc, err := svc.Download(ctx, intent.Document.ID.String())
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(body) != content {
		t.Fatalf("blob = %q, want %q", body, content)
	}
	if doc.FileName != "opg.png" {
		t.Fatalf("file name = %q", doc.FileName)
	}

	if err := svc.Delete(ctx, intent.Document.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, intent.Document.ID.String()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateIntentValidation(t *testing.T) {
	node := mustNode(t)
	svc := setupDocumentService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	_, err := svc.CreateIntent(ctx, domain.CreateIntentRequest{
		PatientID: node.Generate().String(),
		Kind:      "mri",
		FileName:  "scan.dcm",
	})
	if err != domain.ErrInvalidKind {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}

	_, err = svc.CreateIntent(ctx, domain.CreateIntentRequest{
		PatientID: node.Generate().String(),
		Kind:      domain.KindReport,
	})
	if err != domain.ErrInvalidFileName {
		t.Fatalf("expected ErrInvalidFileName, got %v", err)
	}

	// Omitted kind defaults to other.
	intent, err := svc.CreateIntent(ctx, domain.CreateIntentRequest{
		PatientID: node.Generate().String(),
		FileName:  "consent.pdf",
	})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if intent.Document.Kind != domain.KindOther {
		t.Fatalf("kind = %v, want other", intent.Document.Kind)
	}
}

func TestListDocumentsByPatient(t *testing.T) {
	node := mustNode(t)
	svc := setupDocumentService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	patientA := node.Generate().String()
	patientB := node.Generate().String()

	for i, p := range []string{patientA, patientA, patientB} {
		if _, err := svc.CreateIntent(ctx, domain.CreateIntentRequest{
			PatientID: p,
			Kind:      domain.KindPhoto,
			FileName:  fmt.Sprintf("photo-%d.jpg", i),
		}); err != nil {
			t.Fatalf("create intent %d: %v", i, err)
		}
	}

	docs, err := svc.List(ctx, domain.ListDocumentRequest{PatientID: patientA})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func setupDocumentService(t *testing.T, node *snowflake.Node) domain.Service {
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

	if err := db.AutoMigrate(&domain.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	blobs, err := storage.NewLocal(config.Config{DocumentDir: t.TempDir()})
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	return New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:    repository.Provide(),
		Storage: blobs,
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
