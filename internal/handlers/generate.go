package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/services"
)

type GenerateHandler struct {
	log               *logger.Logger
	generationService services.GenerationService
}

func NewGenerateHandler(log *logger.Logger, generationService services.GenerationService) *GenerateHandler {
	return &GenerateHandler{
		log:               log.With("handler", "GenerateHandler"),
		generationService: generationService,
	}
}

// Generate streams the article back as a chunked plain-text body, one
// flush per upstream fragment. Headers are committed before the first
// fragment, so mid-stream failures arrive as inline fragments, not as
// status codes.
func (gh *GenerateHandler) Generate(c *gin.Context) {
	var req struct {
		TemplateType string            `json:"template_type"`
		FormData     map[string]string `json:"form_data"`
		ContextText  string            `json:"context_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.TemplateType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template_type is required"})
		return
	}

	gh.stream(c, func(sink services.FragmentSink) error {
		return gh.generationService.Generate(c.Request.Context(), req.TemplateType, req.FormData, req.ContextText, sink)
	})
}

func (gh *GenerateHandler) Rewrite(c *gin.Context) {
	var req struct {
		Text          string `json:"text"`
		Command       string `json:"command"`
		ContextBefore string `json:"context_before"`
		ContextAfter  string `json:"context_after"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Text == "" || req.Command == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text and command are required"})
		return
	}

	gh.stream(c, func(sink services.FragmentSink) error {
		return gh.generationService.Rewrite(c.Request.Context(), req.Text, req.Command, req.ContextBefore, req.ContextAfter, sink)
	})
}

func (gh *GenerateHandler) stream(c *gin.Context, run func(sink services.FragmentSink) error) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	err := run(func(fragment string) error {
		if _, wErr := c.Writer.WriteString(fragment); wErr != nil {
			return wErr
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// Sink failure or caller disconnect; the response is already
		// committed, nothing more can be sent.
		gh.log.Debug("Stream ended early", "error", err)
	}
}
