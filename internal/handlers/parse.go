package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/services"
)

// Upload size cap, matches what the reverse proxy allows.
const maxUploadBytes = 20 << 20

type ParseHandler struct {
	log *logger.Logger
}

func NewParseHandler(log *logger.Logger) *ParseHandler {
	return &ParseHandler{log: log.With("handler", "ParseHandler")}
}

// Parse extracts plain text from an uploaded document so the client can
// attach it as generation context.
func (ph *ParseHandler) Parse(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	content, err := services.ExtractText(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file format"})
			return
		}
		ph.log.Warn("Text extraction failed", "filename", fileHeader.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract text"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"filename": fileHeader.Filename, "content": content})
}
