package transport

import (
	"errors"
	"io"
	"net/http"

	"rhp-backend/internal/apperrors"
	"rhp-backend/internal/metrics"
	"rhp-backend/internal/middleware"
	"rhp-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxUploadBodySize caps the multipart request, file and form overhead included.
const MaxUploadBodySize = 10 << 20

// ImageURLRequest is the body of PUT /upload/product/{productId}/image-url
type ImageURLRequest struct {
	ImageName string `json:"imageName"`
}

// UploadHandler handles image uploads
type UploadHandler struct {
	uploadService service.UploadService
	metrics       *metrics.Metrics
	storeName     string
	logger        *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. m may be nil.
func NewUploadHandler(uploadService service.UploadService, m *metrics.Metrics, storeName string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		metrics:       m,
		storeName:     storeName,
		logger:        logger,
	}
}

// RegisterRoutes registers all upload routes
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Route("/upload", func(r chi.Router) {
		r.Post("/image", h.UploadImage)
		r.Put("/product/{productId}/image-url", h.UpdateProductImageURL)
	})
}

// UploadImage accepts a multipart form with the image in field "file"
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBodySize)
	if err := r.ParseMultipartForm(MaxUploadBodySize); err != nil {
		h.metrics.ObserveUpload(h.storeName, metrics.UploadRejected)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.RespondWithError(w, http.StatusBadRequest, "File size must be less than 5MB")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, err := readImageFile(r)
	if err != nil {
		h.metrics.ObserveUpload(h.storeName, metrics.UploadRejected)
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, err := h.uploadService.UploadImage(r.Context(), file)
	if err != nil {
		outcome := metrics.UploadFailed
		if apperrors.IsBadInput(err) {
			outcome = metrics.UploadRejected
		}
		h.metrics.ObserveUpload(h.storeName, outcome)
		respondWithServiceError(w, r, h.logger, err)
		return
	}

	h.metrics.ObserveUpload(h.storeName, metrics.UploadSuccess)
	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

// readImageFile returns nil when the form has no "file" part.
func readImageFile(r *http.Request) (*service.ImageFile, error) {
	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.ImageFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}, nil
}

// UpdateProductImageURL points a product at an already uploaded image
func (h *UploadHandler) UpdateProductImageURL(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "productId")
	if !ok {
		return
	}

	var req ImageURLRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondWithDecodeError(w, err)
		return
	}

	result, err := h.uploadService.UpdateProductImageURL(r.Context(), productID, req.ImageName)
	if err != nil {
		respondWithServiceError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}
