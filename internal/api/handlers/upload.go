package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"boardsite/internal/models"
	"boardsite/internal/storage"

	"github.com/gin-gonic/gin"
)

// UploadHandler hands out presigned attachment upload URLs
type UploadHandler struct {
	presigner storage.Presigner
	logger    *slog.Logger
}

// NewUploadHandler creates an upload handler. A nil presigner disables uploads.
func NewUploadHandler(presigner storage.Presigner, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{presigner: presigner, logger: logger}
}

// CreateUpload godoc
// @Summary Request an attachment upload URL
// @Description Returns a presigned PUT URL and the URL to store in the post's file_urls
// @Tags upload
// @Accept json
// @Produce json
// @Param request body models.UploadRequest true "File to upload"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse "Invalid input"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Failure 503 {object} models.ErrorResponse "Uploads not configured"
// @Security CookieAuth
// @Router /upload [post]
func (h *UploadHandler) CreateUpload(c *gin.Context) {
	if h.presigner == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "uploads are not configured"})
		return
	}

	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	upload, err := h.presigner.PresignUpload(c.Request.Context(), req.FileName, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFileName) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid file name"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "presign upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to prepare upload"})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		UploadURL: upload.URL,
		FileURL:   upload.ObjectURL,
		Key:       upload.Key,
		ExpiresIn: int(upload.ExpiresIn.Seconds()),
	})
}
