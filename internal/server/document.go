package server

import (
	"net/http"
	"strings"

	documentdomain "github.com/SarangTandel5112/care-connects/internal/document/domain"
	"github.com/gin-gonic/gin"
)

type createDocumentIntentRequest struct {
	PatientID      string `json:"patient_id"`
	ConsultationID string `json:"consultation_id"`
	Kind           string `json:"kind"`
	FileName       string `json:"file_name"`
	ContentType    string `json:"content_type"`
}

func (s *Server) CreateDocumentIntent(c *gin.Context) {
	var req createDocumentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.CreateIntent(c.Request.Context(), documentdomain.CreateIntentRequest{
		PatientID:      strings.TrimSpace(req.PatientID),
		ConsultationID: strings.TrimSpace(req.ConsultationID),
		Kind:           documentdomain.Kind(strings.TrimSpace(req.Kind)),
		FileName:       strings.TrimSpace(req.FileName),
		ContentType:    strings.TrimSpace(req.ContentType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UploadDocumentContent(c *gin.Context) {
	resp, err := s.documentSvc.Upload(c.Request.Context(), strings.TrimSpace(c.Param("id")), c.Request.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadDocumentContent(c *gin.Context) {
	document, rc, err := s.documentSvc.Download(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer rc.Close()

	contentType := document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, document.SizeBytes, contentType, rc, map[string]string{
		"Content-Disposition": `attachment; filename="` + document.FileName + `"`,
	})
}

func (s *Server) GetDocumentByID(c *gin.Context) {
	resp, err := s.documentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListDocuments(c *gin.Context) {
	var query struct {
		PatientID      string `form:"patient_id"`
		ConsultationID string `form:"consultation_id"`
		Kind           string `form:"kind"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.List(c.Request.Context(), documentdomain.ListDocumentRequest{
		PatientID:      strings.TrimSpace(query.PatientID),
		ConsultationID: strings.TrimSpace(query.ConsultationID),
		Kind:           documentdomain.Kind(strings.TrimSpace(query.Kind)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteDocument(c *gin.Context) {
	if err := s.documentSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isDocumentValidationError(err error) bool {
	switch err {
	case documentdomain.ErrInvalidClinic,
		documentdomain.ErrInvalidPatient,
		documentdomain.ErrInvalidKind,
		documentdomain.ErrInvalidFileName,
		documentdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
