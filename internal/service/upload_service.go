package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"rhp-backend/internal/apperrors"
	"rhp-backend/internal/domain"
	"rhp-backend/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize is the largest image accepted for upload.
const MaxImageSize int64 = 5 * 1024 * 1024

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// JavaScript-style whitespace, including NBSP and BOM.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// ImageFile is an uploaded file as received from the client.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// UploadResult is returned after an image was stored remotely.
type UploadResult struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}

// ImageURLResult is returned after a product was pointed at an uploaded image.
type ImageURLResult struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product"`
	Message string          `json:"message"`
}

// UploadService defines the interface for image upload operations
type UploadService interface {
	UploadImage(ctx context.Context, file *ImageFile) (*UploadResult, error)
	UpdateProductImageURL(ctx context.Context, productID uuid.UUID, imageName string) (*ImageURLResult, error)
}

type uploadService struct {
	store    storage.ImageStore
	products ProductService
	logger   *zap.Logger
	maxSize  int64
	now      func() time.Time
}

// UploadOption customizes an UploadService.
type UploadOption func(*uploadService)

// WithClock replaces the time source used to name uploaded files.
func WithClock(now func() time.Time) UploadOption {
	return func(s *uploadService) { s.now = now }
}

// WithMaxImageSize overrides MaxImageSize.
func WithMaxImageSize(n int64) UploadOption {
	return func(s *uploadService) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewUploadService creates a new instance of UploadService
func NewUploadService(store storage.ImageStore, products ProductService, logger *zap.Logger, opts ...UploadOption) UploadService {
	s := &uploadService{
		store:    store,
		products: products,
		logger:   logger,
		maxSize:  MaxImageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadImage validates file and commits it to the image store under a
// timestamped name. Nothing is written locally.
func (s *uploadService) UploadImage(ctx context.Context, file *ImageFile) (*UploadResult, error) {
	if err := s.validate(file); err != nil {
		return nil, err
	}

	name := ImageFileName(s.now(), file.Name)
	if err := s.store.Put(ctx, name, file.Content, mediaType(file.ContentType)); err != nil {
		s.logger.Error("Image upload failed",
			zap.String("store", s.store.Name()),
			zap.String("file", name),
			zap.Error(err),
		)
		return nil, apperrors.NewUploadFailedError(err)
	}

	url := s.store.URL(name)
	s.logger.Info("Image uploaded",
		zap.String("store", s.store.Name()),
		zap.String("file", name),
		zap.String("url", url),
	)

	return &UploadResult{
		Success:  true,
		FileName: name,
		ImageURL: url,
		Message:  fmt.Sprintf("Image uploaded successfully to %s", s.store.Name()),
	}, nil
}

func (s *uploadService) validate(file *ImageFile) error {
	if file == nil {
		return apperrors.NewBadInputError("file", "No file uploaded")
	}
	if !isAllowedImageType(mediaType(file.ContentType)) {
		return apperrors.NewBadInputError("file", "Only JPEG, PNG and WebP images are allowed")
	}

	size := file.Size
	if size <= 0 {
		size = int64(len(file.Content))
	}
	if size > s.maxSize {
		return apperrors.NewBadInputError("file",
			fmt.Sprintf("File size must be less than %dMB", s.maxSize/(1024*1024)))
	}

	// the declared type comes from the client; check the bytes too
	detected := mimetype.Detect(file.Content)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return nil
		}
	}
	return apperrors.NewBadInputError("file",
		fmt.Sprintf("File content is %s, not a JPEG, PNG or WebP image", detected.String()))
}

// UpdateProductImageURL points the product at an image previously uploaded
// under imageName.
func (s *uploadService) UpdateProductImageURL(ctx context.Context, productID uuid.UUID, imageName string) (*ImageURLResult, error) {
	imageName = strings.TrimSpace(imageName)
	if imageName == "" {
		return nil, apperrors.NewBadInputError("imageName", "imageName is required")
	}

	url := s.store.URL(imageName)
	product, err := s.products.UpdateProduct(ctx, productID, UpdateProductInput{ImageURL: &url})
	if err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsBadInput(err) {
			return nil, err
		}
		return nil, apperrors.NewBadInputError("imageName",
			fmt.Sprintf("Failed to update product image URL: %v", err))
	}

	return &ImageURLResult{
		Success: true,
		Product: product,
		Message: "Product image URL updated successfully",
	}, nil
}

// ImageFileName builds the stored name for an upload: the current Unix time
// in milliseconds, a dash, and the original name lowercased with whitespace
// runs collapsed to "-".
func ImageFileName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), whitespaceRun.ReplaceAllString(strings.ToLower(original), "-"))
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func isAllowedImageType(mt string) bool {
	for _, allowed := range allowedImageTypes {
		if mt == allowed {
			return true
		}
	}
	return false
}
