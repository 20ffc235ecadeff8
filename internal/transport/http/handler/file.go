package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type fileUsecaser interface {
	Upload(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (*usecase.UploadResult, error)
	Open(ctx context.Context, name string) (*domain.StoredFile, error)
}

type FileHandler struct {
	files    fileUsecaser
	maxBytes int64
	logger   *slog.Logger
}

func NewFileHandler(files fileUsecaser, maxBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: files, maxBytes: maxBytes, logger: logger.With("component", "file_handler")}
}

type uploadResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// POST /upload (multipart, field "file")
func (h *FileHandler) Upload(c *gin.Context) {
	if c.Request.ContentLength > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}
	// Chunked bodies carry no length; the reader cap catches those.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, h.logger, "open upload", err)
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	res, err := h.files.Upload(c.Request.Context(), fh.Filename, f, fh.Size, contentType)
	if err != nil {
		respondError(c, h.logger, "upload file", err)
		return
	}
	c.JSON(http.StatusCreated, uploadResponse{Name: res.Name, URL: res.URL})
}

// GET /file/:name
func (h *FileHandler) Get(c *gin.Context) {
	f, err := h.files.Open(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, "open file", err)
		return
	}
	defer f.Body.Close()

	c.DataFromReader(http.StatusOK, f.Size, f.ContentType, f.Body, map[string]string{
		"Cache-Control": "public, max-age=31536000, immutable",
	})
}
