package server

import (
	"net/http"

	clinicdomain "github.com/SarangTandel5112/care-connects/internal/clinic/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetClinic(c *gin.Context) {
	resp, err := s.clinicSvc.Current(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateClinicRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

func (s *Server) UpdateClinic(c *gin.Context) {
	var req updateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clinicSvc.Update(c.Request.Context(), clinicdomain.UpdateClinicRequest{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isClinicValidationError(err error) bool {
	switch err {
	case clinicdomain.ErrInvalidClinic,
		clinicdomain.ErrInvalidName:
		return true
	default:
		return false
	}
}
