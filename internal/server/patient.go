package server

import (
	"net/http"
	"strings"
	"time"

	patientdomain "github.com/SarangTandel5112/care-connects/internal/patient/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createPatientRequest struct {
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	Gender         string         `json:"gender"`
	BirthDate      string         `json:"birth_date"`
	Address        string         `json:"address"`
	MedicalHistory map[string]any `json:"medical_history"`
}

func (s *Server) CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var birthDate *time.Time
	if raw := strings.TrimSpace(req.BirthDate); raw != "" {
		parsed, err := parseOptionalTime(raw, false)
		if err != nil {
			AbortWithError(c, newValidationError("birth_date", "invalid_birth_date", "invalid birth_date"))
			return
		}
		birthDate = parsed
	}

	resp, err := s.patientSvc.Create(c.Request.Context(), patientdomain.CreatePatientRequest{
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		Gender:         strings.TrimSpace(req.Gender),
		BirthDate:      birthDate,
		Address:        strings.TrimSpace(req.Address),
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPatients(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search string `form:"search"`
		Phone  string `form:"phone"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.patientSvc.List(c.Request.Context(), patientdomain.ListPatientRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Search:    strings.TrimSpace(query.Search),
		Phone:     strings.TrimSpace(query.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPatientByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.patientSvc.GetByID(c.Request.Context(), patientdomain.GetPatientRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updatePatientRequest struct {
	Name           *string        `json:"name"`
	Phone          *string        `json:"phone"`
	Email          *string        `json:"email"`
	Gender         *string        `json:"gender"`
	BirthDate      *string        `json:"birth_date"`
	Address        *string        `json:"address"`
	MedicalHistory map[string]any `json:"medical_history"`
}

func (s *Server) UpdatePatient(c *gin.Context) {
	var req updatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var birthDate *time.Time
	if req.BirthDate != nil {
		parsed, err := parseOptionalTime(*req.BirthDate, false)
		if err != nil {
			AbortWithError(c, newValidationError("birth_date", "invalid_birth_date", "invalid birth_date"))
			return
		}
		birthDate = parsed
	}

	resp, err := s.patientSvc.Update(c.Request.Context(), patientdomain.UpdatePatientRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Gender:         req.Gender,
		BirthDate:      birthDate,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePatient(c *gin.Context) {
	if err := s.patientSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isPatientValidationError(err error) bool {
	switch err {
	case patientdomain.ErrInvalidClinic,
		patientdomain.ErrInvalidName,
		patientdomain.ErrInvalidPhone,
		patientdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
