package http

import (
	"log/slog"
	"net/http"

	"github.com/Michael-Parekh/proshop/internal/service"
	"github.com/Michael-Parekh/proshop/pkg/httputil"
)

// UploadHandler handles product image uploads.
type UploadHandler struct {
	service *service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload HTTP handler.
func NewUploadHandler(svc *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{service: svc, logger: logger}
}

// Upload handles POST /api/upload (admin). The image arrives as multipart
// form data under the "image" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: "invalid multipart form: " + err.Error(),
			},
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: "image file is required",
			},
		})
		return
	}
	defer file.Close()

	url, err := h.service.UploadImage(r.Context(), &service.UploadImageInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]string{"image": url},
	})
}
