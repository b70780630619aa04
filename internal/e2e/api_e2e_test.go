package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appointmentrepo "github.com/SarangTandel5112/care-connects/internal/appointment/repository"
	appointmentservice "github.com/SarangTandel5112/care-connects/internal/appointment/service"
	clinicrepo "github.com/SarangTandel5112/care-connects/internal/clinic/repository"
	clinicservice "github.com/SarangTandel5112/care-connects/internal/clinic/service"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/SarangTandel5112/care-connects/internal/config"
	consultationdomain "github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	consultationrepo "github.com/SarangTandel5112/care-connects/internal/consultation/repository"
	consultationservice "github.com/SarangTandel5112/care-connects/internal/consultation/service"
	doctorrepo "github.com/SarangTandel5112/care-connects/internal/doctor/repository"
	doctorservice "github.com/SarangTandel5112/care-connects/internal/doctor/service"
	documentdomain "github.com/SarangTandel5112/care-connects/internal/document/domain"
	documentrepo "github.com/SarangTandel5112/care-connects/internal/document/repository"
	documentservice "github.com/SarangTandel5112/care-connects/internal/document/service"
	notetemplaterepo "github.com/SarangTandel5112/care-connects/internal/notetemplate/repository"
	notetemplateservice "github.com/SarangTandel5112/care-connects/internal/notetemplate/service"
	"github.com/SarangTandel5112/care-connects/internal/observability"
	patientdomain "github.com/SarangTandel5112/care-connects/internal/patient/domain"
	patientrepo "github.com/SarangTandel5112/care-connects/internal/patient/repository"
	patientservice "github.com/SarangTandel5112/care-connects/internal/patient/service"
	"github.com/SarangTandel5112/care-connects/internal/providers/pdf"
	"github.com/SarangTandel5112/care-connects/internal/providers/storage"
	"github.com/SarangTandel5112/care-connects/internal/seed"
	"github.com/SarangTandel5112/care-connects/internal/server"
	appointmentmodels "github.com/SarangTandel5112/care-connects/internal/appointment/domain"
	clinicmodels "github.com/SarangTandel5112/care-connects/internal/clinic/domain"
	doctormodels "github.com/SarangTandel5112/care-connects/internal/doctor/domain"
	notetemplatemodels "github.com/SarangTandel5112/care-connects/internal/notetemplate/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	httpSrv  *httptest.Server
	db       *gorm.DB
	clinicID snowflake.ID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&clinicmodels.Clinic{},
		&patientdomain.Patient{},
		&doctormodels.Doctor{},
		&appointmentmodels.Appointment{},
		&consultationdomain.Consultation{},
		&consultationdomain.ProcedureItem{},
		&consultationdomain.PrescriptionItem{},
		&consultationdomain.PaymentRecord{},
		&documentdomain.Document{},
		&notetemplatemodels.NoteTemplate{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clinicID := node.Generate()
	require.NoError(t, seed.EnsureMainClinicWithID(db, int64(clinicID)))

	cfg := config.Config{
		DefaultClinicID: int64(clinicID),
		DocumentDir:     t.TempDir(),
	}
	log := zap.NewNop()
	clk := clock.NewSystem()
	billingCfg := config.NewStaticBillingConfigHolder(config.BillingConfig{
		TaxRate:  0.05,
		Currency: "INR",
	})

	blobs, err := storage.NewLocal(cfg)
	require.NoError(t, err)

	engine := server.NewEngine(observability.Config{}, nil)
	server.NewServer(server.ServerParams{
		Gin:   engine,
		Cfg:   cfg,
		DB:    db,
		GenID: node,
		ClinicSvc: clinicservice.New(clinicservice.Params{
			DB: db, Log: log, GenID: node, Repo: clinicrepo.Provide(),
		}),
		PatientSvc: patientservice.New(patientservice.Params{
			DB: db, Log: log, GenID: node, Repo: patientrepo.Provide(),
		}),
		DoctorSvc: doctorservice.New(doctorservice.Params{
			DB: db, Log: log, GenID: node, Repo: doctorrepo.Provide(),
		}),
		AppointmentSvc: appointmentservice.New(appointmentservice.Params{
			DB: db, Log: log, GenID: node, Clock: clk, Repo: appointmentrepo.Provide(),
		}),
		ConsultationSvc: consultationservice.New(consultationservice.Params{
			DB: db, Log: log, GenID: node, Clock: clk,
			Repo: consultationrepo.Provide(), Billing: billingCfg,
		}),
		DocumentSvc: documentservice.New(documentservice.Params{
			DB: db, Log: log, GenID: node, Clock: clk,
			Repo: documentrepo.Provide(), Storage: blobs,
		}),
		TemplateSvc: notetemplateservice.New(notetemplateservice.Params{
			DB: db, Log: log, GenID: node, Repo: notetemplaterepo.Provide(),
		}),
		PDFProvider: pdf.New(),
		BillingCfg:  billingCfg,
	})

	httpSrv := httptest.NewServer(engine)
	t.Cleanup(httpSrv.Close)

	return &testEnv{httpSrv: httpSrv, db: db, clinicID: clinicID}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.httpSrv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(server.HeaderClinic, e.clinicID.String())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeData(t *testing.T, raw []byte, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestConsultationBillingFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/patients", map[string]any{
		"name":  "Asha Verma",
		"phone": "9876500001",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var patient struct {
		ID string `json:"id"`
	}
	decodeData(t, raw, &patient)

	resp, raw = env.do(t, http.MethodPost, "/api/doctors", map[string]any{
		"name":           "Dr. Rao",
		"specialization": "Endodontics",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var doctor struct {
		ID string `json:"id"`
	}
	decodeData(t, raw, &doctor)

	// Live draft preview: the editable form endpoint.
	resp, raw = env.do(t, http.MethodPost, "/api/billing/preview", map[string]any{
		"consultation_fee": 500,
		"apply_tax":        true,
		"procedures": []map[string]any{
			{"name": "Root canal", "unit_cost": 3000, "quantity": 1, "discount": 200},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var preview struct {
		SubTotal      float64 `json:"sub_total"`
		Tax           float64 `json:"tax"`
		TotalAmount   float64 `json:"total_amount"`
		PaymentStatus string  `json:"payment_status"`
	}
	decodeData(t, raw, &preview)
	require.Equal(t, 3300.0, preview.SubTotal)
	require.Equal(t, 165.0, preview.Tax)
	require.Equal(t, 3465.0, preview.TotalAmount)
	require.Equal(t, "pending", preview.PaymentStatus)

	// Persist the consultation; the stored record carries raw inputs only and
	// the response carries the same recomputed summary.
	resp, raw = env.do(t, http.MethodPost, "/api/consultations", map[string]any{
		"patient_id":       patient.ID,
		"doctor_id":        doctor.ID,
		"complaints":       "pain in lower right molar",
		"consultation_fee": 500,
		"apply_tax":        true,
		"procedures": []map[string]any{
			{"name": "Root canal", "tooth": "46", "unit_cost": 3000, "quantity": 1, "discount": 200},
		},
		"payments": []map[string]any{
			{"amount_paid": 1465, "mode": "upi", "reference": "txn-9"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var created struct {
		ID      string `json:"id"`
		Billing struct {
			TotalAmount   float64 `json:"total_amount"`
			TotalPaid     float64 `json:"total_paid"`
			PendingAmount float64 `json:"pending_amount"`
			PaymentStatus string  `json:"payment_status"`
		} `json:"billing"`
		Payments []struct {
			ID string `json:"id"`
		} `json:"payments"`
	}
	decodeData(t, raw, &created)
	require.Equal(t, 3465.0, created.Billing.TotalAmount)
	require.Equal(t, 1465.0, created.Billing.TotalPaid)
	require.Equal(t, 2000.0, created.Billing.PendingAmount)
	require.Equal(t, "partially_paid", created.Billing.PaymentStatus)
	require.Len(t, created.Payments, 1)

	// Settle the balance through the payments sub-resource.
	resp, raw = env.do(t, http.MethodPost, "/api/consultations/"+created.ID+"/payments", map[string]any{
		"amount_paid": 2000,
		"mode":        "cash",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var settled struct {
		Billing struct {
			PendingAmount float64 `json:"pending_amount"`
			PaymentStatus string  `json:"payment_status"`
		} `json:"billing"`
	}
	decodeData(t, raw, &settled)
	require.Equal(t, 0.0, settled.Billing.PendingAmount)
	require.Equal(t, "paid", settled.Billing.PaymentStatus)

	// The read-only detail recomputes the identical summary.
	resp, raw = env.do(t, http.MethodGet, "/api/consultations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	decodeData(t, raw, &settled)
	require.Equal(t, "paid", settled.Billing.PaymentStatus)

	// Print preview renders from the same summary.
	resp, raw = env.do(t, http.MethodGet, "/api/consultations/"+created.ID+"/invoice.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, raw)

	resp, raw = env.do(t, http.MethodGet,
		"/api/consultations/"+created.ID+"/receipt.pdf?payment_id="+created.Payments[0].ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, raw)
}

func TestErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	// Unknown consultation.
	resp, raw := env.do(t, http.MethodGet, "/api/consultations/123456789", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))
	var errBody struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &errBody))
	require.Equal(t, "not_found", errBody.Error.Type)

	// Malformed clinic header.
	req, err := http.NewRequest(http.MethodGet, env.httpSrv.URL+"/api/patients", nil)
	require.NoError(t, err)
	req.Header.Set(server.HeaderClinic, "not-a-snowflake")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	// Missing patient name.
	resp, raw = env.do(t, http.MethodPost, "/api/patients", map[string]any{"phone": "98"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	// Double-booked doctor slot.
	_, raw = env.do(t, http.MethodPost, "/api/patients", map[string]any{"name": "Ravi", "phone": "98"})
	var patient struct {
		ID string `json:"id"`
	}
	decodeData(t, raw, &patient)
	_, raw = env.do(t, http.MethodPost, "/api/doctors", map[string]any{"name": "Dr. Sen"})
	var doctor struct {
		ID string `json:"id"`
	}
	decodeData(t, raw, &doctor)

	slot := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339)
	resp, raw = env.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patient_id": patient.ID, "doctor_id": doctor.ID, "scheduled_at": slot,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	resp, raw = env.do(t, http.MethodPost, "/api/appointments", map[string]any{
		"patient_id": patient.ID, "doctor_id": doctor.ID, "scheduled_at": slot,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))
}

func TestDocumentUploadFlow(t *testing.T) {
	env := newTestEnv(t)

	_, raw := env.do(t, http.MethodPost, "/api/patients", map[string]any{"name": "Meera", "phone": "90"})
	var patient struct {
		ID string `json:"id"`
	}
	decodeData(t, raw, &patient)

	resp, raw := env.do(t, http.MethodPost, "/api/documents", map[string]any{
		"patient_id":   patient.ID,
		"kind":         "xray",
		"file_name":    "opg.png",
		"content_type": "image/png",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var intent struct {
		Document struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"document"`
		UploadURL string `json:"upload_url"`
	}
	decodeData(t, raw, &intent)
	require.Equal(t, "pending", intent.Document.Status)
	require.Equal(t, "/api/documents/"+intent.Document.ID+"/content", intent.UploadURL)

	content := []byte("fake-png-bytes")
	req, err := http.NewRequest(http.MethodPut, env.httpSrv.URL+intent.UploadURL, bytes.NewReader(content))
	require.NoError(t, err)
	req.Header.Set(server.HeaderClinic, env.clinicID.String())
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, intent.UploadURL, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, content, raw)
}
