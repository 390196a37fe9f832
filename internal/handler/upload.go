package handler

import (
	"log/slog"
	"net/http"

	"quizdash/internal/config"
	reportSvc "quizdash/internal/domain/services/report"
	"quizdash/internal/httputil"
)

// UploadHandler stores images for use in section content
type UploadHandler struct {
	uploader reportSvc.ImageUploader
	logger   *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader reportSvc.ImageUploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: logger}
}

// UploadImage stores one image and returns its public URL
// POST /api/uploads/images (multipart: file)
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	file, err := readMultipartFile(w, r, "file", config.MaxImageUploadBytes)
	if err != nil {
		handleError(w, err)
		return
	}

	url, err := h.uploader.Upload(r.Context(), file.Data, file.ContentType)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("image uploaded", "user_id", userID, "bytes", len(file.Data))
	httputil.RespondJSON(w, http.StatusCreated, map[string]string{"url": url})
}
