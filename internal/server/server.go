package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/SarangTandel5112/care-connects/internal/appointment"
	appointmentdomain "github.com/SarangTandel5112/care-connects/internal/appointment/domain"
	"github.com/SarangTandel5112/care-connects/internal/clinic"
	clinicdomain "github.com/SarangTandel5112/care-connects/internal/clinic/domain"
	"github.com/SarangTandel5112/care-connects/internal/config"
	"github.com/SarangTandel5112/care-connects/internal/consultation"
	consultationdomain "github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	"github.com/SarangTandel5112/care-connects/internal/doctor"
	doctordomain "github.com/SarangTandel5112/care-connects/internal/doctor/domain"
	"github.com/SarangTandel5112/care-connects/internal/document"
	documentdomain "github.com/SarangTandel5112/care-connects/internal/document/domain"
	"github.com/SarangTandel5112/care-connects/internal/notetemplate"
	notetemplatedomain "github.com/SarangTandel5112/care-connects/internal/notetemplate/domain"
	"github.com/SarangTandel5112/care-connects/internal/observability"
	obsmiddleware "github.com/SarangTandel5112/care-connects/internal/observability/logger"
	obsmetrics "github.com/SarangTandel5112/care-connects/internal/observability/metrics"
	obstracing "github.com/SarangTandel5112/care-connects/internal/observability/tracing"
	"github.com/SarangTandel5112/care-connects/internal/patient"
	patientdomain "github.com/SarangTandel5112/care-connects/internal/patient/domain"
	"github.com/SarangTandel5112/care-connects/internal/providers"
	"github.com/SarangTandel5112/care-connects/internal/providers/pdf"
	"github.com/SarangTandel5112/care-connects/internal/ratelimit"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	clinic.Module,
	patient.Module,
	doctor.Module,
	appointment.Module,
	consultation.Module,
	document.Module,
	notetemplate.Module,
	providers.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	clinicSvc       clinicdomain.Service
	patientSvc      patientdomain.Service
	doctorSvc       doctordomain.Service
	appointmentSvc  appointmentdomain.Service
	consultationSvc consultationdomain.Service
	documentSvc     documentdomain.Service
	templateSvc     notetemplatedomain.Service
	pdfProvider     pdf.Provider
	billingCfg      *config.BillingConfigHolder
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	ClinicSvc       clinicdomain.Service
	PatientSvc      patientdomain.Service
	DoctorSvc       doctordomain.Service
	AppointmentSvc  appointmentdomain.Service
	ConsultationSvc consultationdomain.Service
	DocumentSvc     documentdomain.Service
	TemplateSvc     notetemplatedomain.Service
	PDFProvider     pdf.Provider
	BillingCfg      *config.BillingConfigHolder
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		clinicSvc:       p.ClinicSvc,
		patientSvc:      p.PatientSvc,
		doctorSvc:       p.DoctorSvc,
		appointmentSvc:  p.AppointmentSvc,
		consultationSvc: p.ConsultationSvc,
		documentSvc:     p.DocumentSvc,
		templateSvc:     p.TemplateSvc,
		pdfProvider:     p.PDFProvider,
		billingCfg:      p.BillingCfg,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.ClinicContext())

	// -------- Clinic --------
	api.GET("/clinic", s.GetClinic)
	api.PATCH("/clinic", s.UpdateClinic)

	// -------- Patients --------
	api.GET("/patients", s.ListPatients)
	api.POST("/patients", s.CreatePatient)
	api.GET("/patients/:id", s.GetPatientByID)
	api.PATCH("/patients/:id", s.UpdatePatient)
	api.DELETE("/patients/:id", s.DeletePatient)

	// -------- Doctors --------
	api.GET("/doctors", s.ListDoctors)
	api.POST("/doctors", s.CreateDoctor)
	api.GET("/doctors/:id", s.GetDoctorByID)
	api.PATCH("/doctors/:id", s.UpdateDoctor)

	// -------- Appointments --------
	api.GET("/appointments", s.ListAppointments)
	api.POST("/appointments", s.CreateAppointment)
	api.GET("/appointments/:id", s.GetAppointmentByID)
	api.POST("/appointments/:id/reschedule", s.RescheduleAppointment)
	api.POST("/appointments/:id/status", s.UpdateAppointmentStatus)

	// -------- Consultations --------
	api.GET("/consultations", s.ListConsultations)
	api.POST("/consultations", s.CreateConsultation)
	api.GET("/consultations/:id", s.GetConsultationByID)
	api.PATCH("/consultations/:id", s.UpdateConsultation)
	api.POST("/consultations/:id/payments", s.AddConsultationPayment)
	api.PUT("/consultations/:id/payments/:paymentId", s.UpdateConsultationPayment)
	api.DELETE("/consultations/:id/payments/:paymentId", s.RemoveConsultationPayment)
	api.GET("/consultations/:id/invoice.pdf", s.GetConsultationInvoicePDF)
	api.GET("/consultations/:id/receipt.pdf", s.GetConsultationReceiptPDF)

	// -------- Billing preview --------
	api.POST("/billing/preview", s.PreviewBilling)

	// -------- Documents --------
	api.GET("/documents", s.ListDocuments)
	api.POST("/documents", s.CreateDocumentIntent)
	api.GET("/documents/:id", s.GetDocumentByID)
	api.PUT("/documents/:id/content", s.UploadDocumentContent)
	api.GET("/documents/:id/content", s.DownloadDocumentContent)
	api.DELETE("/documents/:id", s.DeleteDocument)

	// -------- Note templates --------
	api.GET("/templates", s.ListNoteTemplates)
	api.POST("/templates", s.CreateNoteTemplate)
	api.GET("/templates/:id", s.GetNoteTemplateByID)
	api.PATCH("/templates/:id", s.UpdateNoteTemplate)
	api.DELETE("/templates/:id", s.DeleteNoteTemplate)
}
