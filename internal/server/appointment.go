package server

import (
	"net/http"
	"strings"
	"time"

	appointmentdomain "github.com/SarangTandel5112/care-connects/internal/appointment/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createAppointmentRequest struct {
	PatientID       string    `json:"patient_id"`
	DoctorID        string    `json:"doctor_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason"`
	Notes           string    `json:"notes"`
}

func (s *Server) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appointmentSvc.Create(c.Request.Context(), appointmentdomain.CreateAppointmentRequest{
		PatientID:       strings.TrimSpace(req.PatientID),
		DoctorID:        strings.TrimSpace(req.DoctorID),
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Reason:          strings.TrimSpace(req.Reason),
		Notes:           strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAppointments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		DoctorID  string `form:"doctor_id"`
		PatientID string `form:"patient_id"`
		Status    string `form:"status"`
		From      string `form:"from"`
		To        string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	req := appointmentdomain.ListAppointmentRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		DoctorID:  strings.TrimSpace(query.DoctorID),
		PatientID: strings.TrimSpace(query.PatientID),
		Status:    appointmentdomain.Status(strings.TrimSpace(query.Status)),
	}
	if from != nil {
		req.From = *from
	}
	if to != nil {
		req.To = *to
	}

	resp, err := s.appointmentSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAppointmentByID(c *gin.Context) {
	resp, err := s.appointmentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type rescheduleAppointmentRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (s *Server) RescheduleAppointment(c *gin.Context) {
	var req rescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appointmentSvc.Reschedule(c.Request.Context(), appointmentdomain.RescheduleAppointmentRequest{
		ID:              strings.TrimSpace(c.Param("id")),
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateAppointmentStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (s *Server) UpdateAppointmentStatus(c *gin.Context) {
	var req updateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appointmentSvc.UpdateStatus(c.Request.Context(), appointmentdomain.UpdateStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: appointmentdomain.Status(strings.TrimSpace(req.Status)),
		Notes:  req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isAppointmentValidationError(err error) bool {
	switch err {
	case appointmentdomain.ErrInvalidClinic,
		appointmentdomain.ErrInvalidPatient,
		appointmentdomain.ErrInvalidDoctor,
		appointmentdomain.ErrInvalidSchedule,
		appointmentdomain.ErrInvalidStatus,
		appointmentdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
