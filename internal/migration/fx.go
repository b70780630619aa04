package migration

import (
	appointmentdomain "github.com/SarangTandel5112/care-connects/internal/appointment/domain"
	clinicdomain "github.com/SarangTandel5112/care-connects/internal/clinic/domain"
	"github.com/SarangTandel5112/care-connects/internal/config"
	consultationdomain "github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	doctordomain "github.com/SarangTandel5112/care-connects/internal/doctor/domain"
	documentdomain "github.com/SarangTandel5112/care-connects/internal/document/domain"
	notetemplatedomain "github.com/SarangTandel5112/care-connects/internal/notetemplate/domain"
	patientdomain "github.com/SarangTandel5112/care-connects/internal/patient/domain"
	"github.com/SarangTandel5112/care-connects/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite deployments lean on gorm's schema sync; the
			// SQL migrations are postgres-only.
			if err := conn.AutoMigrate(
				&clinicdomain.Clinic{},
				&patientdomain.Patient{},
				&doctordomain.Doctor{},
				&appointmentdomain.Appointment{},
				&consultationdomain.Consultation{},
				&consultationdomain.ProcedureItem{},
				&consultationdomain.PrescriptionItem{},
				&consultationdomain.PaymentRecord{},
				&documentdomain.Document{},
				&notetemplatedomain.NoteTemplate{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultClinicID != 0 {
			return seed.EnsureMainClinicWithID(conn, cfg.DefaultClinicID)
		}
		return seed.EnsureMainClinic(conn)
	}),
)
