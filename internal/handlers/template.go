package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pressgen/pressgen-backend/internal/services"
)

type TemplateHandler struct {
	templateService services.TemplateService
}

func NewTemplateHandler(templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// List returns the active templates end users can pick from.
func (th *TemplateHandler) List(c *gin.Context) {
	tpls, err := th.templateService.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": tpls})
}
