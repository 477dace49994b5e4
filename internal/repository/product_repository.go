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

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error)
	Search(ctx context.Context, term string) ([]domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Where("products.is_active = ?", true)
}

// ListActive retrieves active products, newest first
func (r *productRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := r.active(ctx).Order("products.created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListByCategory retrieves the active products of a category
func (r *productRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	products := []domain.Product{}
	err := r.active(ctx).
		Where("products.category_id = ?", categoryID).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}

// Search finds active products whose name or description contains term,
// ignoring case. SQLite's LIKE only folds ASCII letters, so non-ASCII terms
// there must match case exactly.
func (r *productRepository) Search(ctx context.Context, term string) ([]domain.Product, error) {
	pattern := containsPattern(term)
	nameCond, descCond := `products.name LIKE ? ESCAPE '\'`, `products.description LIKE ? ESCAPE '\'`
	if r.db.Dialector.Name() == "postgres" {
		nameCond, descCond = `products.name ILIKE ? ESCAPE '\'`, `products.description ILIKE ? ESCAPE '\'`
	}

	products := []domain.Product{}
	err := r.active(ctx).
		Where(r.db.Where(nameCond, pattern).Or(descCond, pattern)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by ID regardless of its active flag
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.db.WithContext(ctx).Preload("Category").First(product, "products.id = ?", id).Error
	if err != nil {
		if err = notFoundOr(err, "product", id.String()); apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// Create inserts a new product and returns it with its category
func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return nil, translateWriteError(err, "failed to create product")
	}
	return r.FindByID(ctx, product.ID)
}

// Update applies the given column values and returns the product with its
// category
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Product, error) {
	if len(fields) > 0 {
		result := r.db.WithContext(ctx).Model(&domain.Product{ID: id}).Updates(fields)
		if result.Error != nil {
			return nil, translateWriteError(result.Error, "failed to update product")
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.NewNotFoundError("product", id.String())
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a product and returns the row as it was before deletion
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product := &domain.Product{}
	db := r.db.WithContext(ctx)

	if err := db.First(product, "id = ?", id).Error; err != nil {
		if err = notFoundOr(err, "product", id.String()); apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	result := db.Delete(&domain.Product{}, "id = ?", id)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("product", id.String())
	}

	return product, nil
}

func translateWriteError(err error, msg string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperrors.NewBadInputError("category_id", "category does not exist")
	}
	return fmt.Errorf("%s: %w", msg, err)
}
