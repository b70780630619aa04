package server

import (
	"net/http"
	"strings"

	doctordomain "github.com/SarangTandel5112/care-connects/internal/doctor/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createDoctorRequest struct {
	Name               string `json:"name"`
	Specialization     string `json:"specialization"`
	RegistrationNumber string `json:"registration_number"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
}

func (s *Server) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.doctorSvc.Create(c.Request.Context(), doctordomain.CreateDoctorRequest{
		Name:               strings.TrimSpace(req.Name),
		Specialization:     strings.TrimSpace(req.Specialization),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Phone:              strings.TrimSpace(req.Phone),
		Email:              strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDoctors(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Specialization string `form:"specialization"`
		ActiveOnly     string `form:"active_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	activeOnly, err := parseOptionalBool(query.ActiveOnly)
	if err != nil {
		AbortWithError(c, newValidationError("active_only", "invalid_active_only", "invalid active_only"))
		return
	}

	resp, err := s.doctorSvc.List(c.Request.Context(), doctordomain.ListDoctorRequest{
		PageToken:      query.PageToken,
		PageSize:       int32(query.PageSize),
		Specialization: strings.TrimSpace(query.Specialization),
		ActiveOnly:     activeOnly != nil && *activeOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDoctorByID(c *gin.Context) {
	resp, err := s.doctorSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateDoctorRequest struct {
	Name               *string `json:"name"`
	Specialization     *string `json:"specialization"`
	RegistrationNumber *string `json:"registration_number"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email"`
	Active             *bool   `json:"active"`
}

func (s *Server) UpdateDoctor(c *gin.Context) {
	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.doctorSvc.Update(c.Request.Context(), doctordomain.UpdateDoctorRequest{
		ID:                 strings.TrimSpace(c.Param("id")),
		Name:               req.Name,
		Specialization:     req.Specialization,
		RegistrationNumber: req.RegistrationNumber,
		Phone:              req.Phone,
		Email:              req.Email,
		Active:             req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isDoctorValidationError(err error) bool {
	switch err {
	case doctordomain.ErrInvalidClinic,
		doctordomain.ErrInvalidName,
		doctordomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
