package repository

import (
	"context"
	"errors"
	"fmt"

	"rhp-backend/internal/apperrors"
	"rhp-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const activeProductCount = "(SELECT COUNT(*) FROM products WHERE products.category_id = categories.id AND products.is_active = ?) AS product_count"

// List retrieves all categories ordered by name, each with the number of its
// active products.
func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Select("categories.*, "+activeProductCount, true).
		Order("categories.name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// FindByID retrieves a category with its active products embedded
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return r.findOne(ctx, "id = ?", id, id.String())
}

// FindBySlug retrieves a category by its slug with its active products embedded
func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(ctx, "slug = ?", slug, slug)
}

func (r *categoryRepository) findOne(ctx context.Context, where string, arg any, key string) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.db.WithContext(ctx).
		Preload("Products", "is_active = ?", true).
		Where(where, arg).
		First(category).Error
	if err != nil {
		if err = notFoundOr(err, "category", key); apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// Create inserts a new category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("category", "slug already exists")
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update applies the given column values and returns the stored category
func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Category, error) {
	db := r.db.WithContext(ctx)

	if len(fields) > 0 {
		result := db.Model(&domain.Category{ID: id}).Updates(fields)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return nil, apperrors.NewConflictError("category", "slug already exists")
			}
			return nil, fmt.Errorf("failed to update category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.NewNotFoundError("category", id.String())
		}
	}

	category := &domain.Category{}
	if err := db.First(category, "id = ?", id).Error; err != nil {
		if err = notFoundOr(err, "category", id.String()); apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to reload category: %w", err)
	}
	return category, nil
}

// Delete removes a category and returns the row as it was before deletion.
// Categories still referenced by products are rejected by the foreign key.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	db := r.db.WithContext(ctx)

	category := &domain.Category{}
	if err := db.First(category, "id = ?", id).Error; err != nil {
		if err = notFoundOr(err, "category", id.String()); apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	result := db.Delete(&domain.Category{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return nil, apperrors.NewConflictError("category", "category still has products")
		}
		return nil, fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("category", id.String())
	}

	return category, nil
}
