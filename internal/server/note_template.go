package server

import (
	"net/http"
	"strings"

	notetemplatedomain "github.com/SarangTandel5112/care-connects/internal/notetemplate/domain"
	"github.com/gin-gonic/gin"
)

type createNoteTemplateRequest struct {
	Name string         `json:"name"`
	Body map[string]any `json:"body"`
}

func (s *Server) CreateNoteTemplate(c *gin.Context) {
	var req createNoteTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.templateSvc.Create(c.Request.Context(), notetemplatedomain.CreateTemplateRequest{
		Name: strings.TrimSpace(req.Name),
		Body: req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListNoteTemplates(c *gin.Context) {
	resp, err := s.templateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetNoteTemplateByID(c *gin.Context) {
	resp, err := s.templateSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateNoteTemplateRequest struct {
	Name *string        `json:"name"`
	Body map[string]any `json:"body"`
}

func (s *Server) UpdateNoteTemplate(c *gin.Context) {
	var req updateNoteTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.templateSvc.Update(c.Request.Context(), notetemplatedomain.UpdateTemplateRequest{
		ID:   strings.TrimSpace(c.Param("id")),
		Name: req.Name,
		Body: req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteNoteTemplate(c *gin.Context) {
	if err := s.templateSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isNoteTemplateValidationError(err error) bool {
	switch err {
	case notetemplatedomain.ErrInvalidClinic,
		notetemplatedomain.ErrInvalidName,
		notetemplatedomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
