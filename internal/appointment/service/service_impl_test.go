package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SarangTandel5112/care-connects/internal/appointment/domain"
	"github.com/SarangTandel5112/care-connects/internal/appointment/repository"
	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	node := mustNode(t)
	svc := setupAppointmentService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	patientID := node.Generate().String()
	doctorID := node.Generate().String()
	slot := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	first, err := svc.Create(ctx, domain.CreateAppointmentRequest{
		PatientID:       patientID,
		DoctorID:        doctorID,
		ScheduledAt:     slot,
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if first.Status != domain.StatusScheduled {
		t.Fatalf("status = %v, want scheduled", first.Status)
	}

	// A slot starting inside the first one conflicts.
	_, err = svc.Create(ctx, domain.CreateAppointmentRequest{
		PatientID:   node.Generate().String(),
		DoctorID:    doctorID,
		ScheduledAt: slot.Add(15 * time.Minute),
	})
	if err != domain.ErrSlotConflict {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	// A slot ending exactly when the first begins does not.
	if _, err := svc.Create(ctx, domain.CreateAppointmentRequest{
		PatientID:       node.Generate().String(),
		DoctorID:        doctorID,
		ScheduledAt:     slot.Add(-30 * time.Minute),
		DurationMinutes: 30,
	}); err != nil {
		t.Fatalf("back-to-back slot should not conflict: %v", err)
	}

	// Another doctor can share the time.
	if _, err := svc.Create(ctx, domain.CreateAppointmentRequest{
		PatientID:   node.Generate().String(),
		DoctorID:    node.Generate().String(),
		ScheduledAt: slot,
	}); err != nil {
		t.Fatalf("same slot for another doctor: %v", err)
	}
}

func TestRescheduleAppointment(t *testing.T) {
	node := mustNode(t)
	svc := setupAppointmentService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	doctorID := node.Generate().String()
	slot := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	appt, err := svc.Create(ctx, domain.CreateAppointmentRequest{
		PatientID:       node.Generate().String(),
		DoctorID:        doctorID,
		ScheduledAt:     slot,
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	// Moving within its own slot must not conflict with itself.
	moved, err := svc.Reschedule(ctx, domain.RescheduleAppointmentRequest{
		ID:          appt.ID.String(),
		ScheduledAt: slot.Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !moved.ScheduledAt.Equal(slot.Add(10 * time.Minute)) {
		t.Fatalf("scheduled_at = %v", moved.ScheduledAt)
	}
	if moved.DurationMinutes != 30 {
		t.Fatalf("duration = %d, want carried over 30", moved.DurationMinutes)
	}

	other, err := svc.Create(ctx, domain.CreateAppointmentRequest{
		PatientID:   node.Generate().String(),
		DoctorID:    doctorID,
		ScheduledAt: slot.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create second appointment: %v", err)
	}

	// Moving onto the other appointment conflicts.
	_, err = svc.Reschedule(ctx, domain.RescheduleAppointmentRequest{
		ID:          appt.ID.String(),
		ScheduledAt: other.ScheduledAt,
	})
	if err != domain.ErrSlotConflict {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	// Cancelled appointments cannot move.
	if _, err := svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     appt.ID.String(),
		Status: domain.StatusCancelled,
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = svc.Reschedule(ctx, domain.RescheduleAppointmentRequest{
		ID:          appt.ID.String(),
		ScheduledAt: slot.Add(4 * time.Hour),
	})
	if err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateAppointmentStatusTransitions(t *testing.T) {
	node := mustNode(t)
	svc := setupAppointmentService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	appt, err := svc.Create(ctx, domain.CreateAppointmentRequest{
		PatientID:   node.Generate().String(),
		DoctorID:    node.Generate().String(),
		ScheduledAt: time.Date(2025, 7, 2, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     appt.ID.String(),
		Status: "archived",
	})
	if err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	notes := "treatment completed"
	done, err := svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     appt.ID.String(),
		Status: domain.StatusCompleted,
		Notes:  &notes,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != domain.StatusCompleted || done.Notes != notes {
		t.Fatalf("got status %v notes %q", done.Status, done.Notes)
	}

	// Terminal states are final.
	_, err = svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		ID:     appt.ID.String(),
		Status: domain.StatusCancelled,
	})
	if err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestListAppointmentsFilters(t *testing.T) {
	node := mustNode(t)
	svc := setupAppointmentService(t, node)
	ctx := clinicctx.WithClinicID(context.Background(), int64(node.Generate()))

	doctorA := node.Generate().String()
	doctorB := node.Generate().String()
	day := time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC)

	for i, doctorID := range []string{doctorA, doctorA, doctorB} {
		if _, err := svc.Create(ctx, domain.CreateAppointmentRequest{
			PatientID:   node.Generate().String(),
			DoctorID:    doctorID,
			ScheduledAt: day.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("create appointment %d: %v", i, err)
		}
	}

	resp, err := svc.List(ctx, domain.ListAppointmentRequest{DoctorID: doctorA})
	if err != nil {
		t.Fatalf("list appointments: %v", err)
	}
	if len(resp.Appointments) != 2 {
		t.Fatalf("expected 2 appointments for doctor, got %d", len(resp.Appointments))
	}

	windowed, err := svc.List(ctx, domain.ListAppointmentRequest{
		From: day.Add(90 * time.Minute),
		To:   day.Add(3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("list windowed: %v", err)
	}
	if len(windowed.Appointments) != 1 {
		t.Fatalf("expected 1 appointment in window, got %d", len(windowed.Appointments))
	}
}

func setupAppointmentService(t *testing.T, node *snowflake.Node) domain.Service {
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

	if err := db.AutoMigrate(&domain.Appointment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
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
