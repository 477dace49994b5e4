package service

import (
	"context"

	"rhp-backend/internal/domain"
	"rhp-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CreateProductInput is the payload for creating a product
type CreateProductInput struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url" validate:"omitempty,max=500"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Features    datatypes.JSON   `json:"features"`
	Stock       int              `json:"stock" validate:"gte=0"`
	IsActive    *bool            `json:"is_active"`
}

// UpdateProductInput is a partial update; nil fields are left untouched
type UpdateProductInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,max=500"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Features    *datatypes.JSON  `json:"features"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool            `json:"is_active"`
}

func (in UpdateProductInput) fields() map[string]any {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}
	if in.Features != nil {
		fields["features"] = *in.Features
	}
	if in.Stock != nil {
		fields["stock"] = *in.Stock
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	return fields
}

// ProductService defines the interface for product operations
type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error)
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.ListActive(ctx)
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *productService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	return s.productRepo.ListByCategory(ctx, categoryID)
}

// SearchProducts falls back to the regular listing when term is empty.
// Whitespace is a search term like any other.
func (s *productService) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	if term == "" {
		return s.ListProducts(ctx)
	}
	return s.productRepo.Search(ctx, term)
}

// CreateProduct stores a new product. Products are active unless the input
// says otherwise.
func (s *productService) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
		Features:    in.Features,
		Stock:       in.Stock,
		IsActive:    true,
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	return s.productRepo.Create(ctx, product)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*domain.Product, error) {
	return s.productRepo.Update(ctx, id, in.fields())
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.Delete(ctx, id)
}
