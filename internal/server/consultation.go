package server

import (
	"net/http"
	"strings"

	consultationdomain "github.com/SarangTandel5112/care-connects/internal/consultation/domain"
	"github.com/SarangTandel5112/care-connects/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateConsultation(c *gin.Context) {
	var req consultationdomain.CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.consultationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListConsultations(c *gin.Context) {
	var query struct {
		pagination.Pagination
		PatientID string `form:"patient_id"`
		DoctorID  string `form:"doctor_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.consultationSvc.List(c.Request.Context(), consultationdomain.ListConsultationRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		PatientID: strings.TrimSpace(query.PatientID),
		DoctorID:  strings.TrimSpace(query.DoctorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetConsultationByID(c *gin.Context) {
	resp, err := s.consultationSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateConsultation(c *gin.Context) {
	var req consultationdomain.UpdateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.consultationSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddConsultationPayment(c *gin.Context) {
	var req consultationdomain.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.consultationSvc.AddPayment(c.Request.Context(), consultationdomain.AddPaymentRequest{
		ConsultationID: strings.TrimSpace(c.Param("id")),
		Payment:        req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateConsultationPayment(c *gin.Context) {
	var req consultationdomain.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.consultationSvc.UpdatePayment(c.Request.Context(), consultationdomain.UpdatePaymentRequest{
		ConsultationID: strings.TrimSpace(c.Param("id")),
		PaymentID:      strings.TrimSpace(c.Param("paymentId")),
		Payment:        req,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveConsultationPayment(c *gin.Context) {
	resp, err := s.consultationSvc.RemovePayment(c.Request.Context(), consultationdomain.RemovePaymentRequest{
		ConsultationID: strings.TrimSpace(c.Param("id")),
		PaymentID:      strings.TrimSpace(c.Param("paymentId")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PreviewBilling recomputes the billing summary for an uncommitted draft.
// The editable form calls this on every change, so it never persists.
func (s *Server) PreviewBilling(c *gin.Context) {
	var req consultationdomain.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	summary := s.consultationSvc.Preview(c.Request.Context(), req)

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func isConsultationValidationError(err error) bool {
	switch err {
	case consultationdomain.ErrInvalidClinic,
		consultationdomain.ErrInvalidPatient,
		consultationdomain.ErrInvalidDoctor,
		consultationdomain.ErrInvalidMode,
		consultationdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
