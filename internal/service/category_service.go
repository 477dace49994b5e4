package service

import (
	"context"

	"rhp-backend/internal/domain"
	"rhp-backend/internal/repository"

	"github.com/google/uuid"
)

// CreateCategoryInput is the payload for creating a category
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"required,max=100"`
}

// UpdateCategoryInput is a partial update; nil fields are left untouched
type UpdateCategoryInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug *string `json:"slug" validate:"omitempty,min=1,max=100"`
}

func (in UpdateCategoryInput) fields() map[string]any {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Slug != nil {
		fields["slug"] = *in.Slug
	}
	return fields
}

// CategoryService defines the interface for category operations
type CategoryService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in UpdateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categoryRepo.FindBySlug(ctx, slug)
}

func (s *categoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		Name: in.Name,
		Slug: in.Slug,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, in UpdateCategoryInput) (*domain.Category, error) {
	return s.categoryRepo.Update(ctx, id, in.fields())
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.Delete(ctx, id)
}
