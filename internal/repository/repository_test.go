package repository

import (
	"context"
	"testing"
	"time"

	"rhp-backend/internal/apperrors"
	"rhp-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.Product{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createCategory(t testing.TB, repo CategoryRepository, name, slug string) *domain.Category {
	t.Helper()
	category := &domain.Category{Name: name, Slug: slug}
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func createProduct(t testing.TB, repo ProductRepository, p domain.Product) *domain.Product {
	t.Helper()
	if p.Price.IsZero() {
		p.Price = decimal.RequireFromString("9.99")
	}
	created, err := repo.Create(context.Background(), &p)
	require.NoError(t, err)
	return created
}

func productIDs(products []domain.Product) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestCategoryListCountsActiveProductsOrderedByName(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	tools := createCategory(t, categories, "Tools", "tools")
	garden := createCategory(t, categories, "Garden", "garden")
	createCategory(t, categories, "Paint", "paint")

	createProduct(t, products, domain.Product{Name: "Hammer", CategoryID: &tools.ID, IsActive: true})
	createProduct(t, products, domain.Product{Name: "Saw", CategoryID: &tools.ID, IsActive: true})
	createProduct(t, products, domain.Product{Name: "Old drill", CategoryID: &tools.ID, IsActive: false})
	createProduct(t, products, domain.Product{Name: "Rake", CategoryID: &garden.ID, IsActive: false})

	list, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	names := []string{list[0].Name, list[1].Name, list[2].Name}
	assert.Equal(t, []string{"Garden", "Paint", "Tools"}, names)

	counts := map[string]int64{}
	for _, c := range list {
		require.NotNil(t, c.ProductCount)
		counts[c.Slug] = *c.ProductCount
	}
	assert.Equal(t, map[string]int64{"garden": 0, "paint": 0, "tools": 2}, counts)
}

func TestCategoryLookupsEmbedSameActiveProducts(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	tools := createCategory(t, categories, "Tools", "tools")
	hammer := createProduct(t, products, domain.Product{Name: "Hammer", CategoryID: &tools.ID, IsActive: true})
	createProduct(t, products, domain.Product{Name: "Hidden", CategoryID: &tools.ID, IsActive: false})

	byID, err := categories.FindByID(ctx, tools.ID)
	require.NoError(t, err)
	bySlug, err := categories.FindBySlug(ctx, "tools")
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{hammer.ID}, productIDs(byID.Products))
	assert.Equal(t, productIDs(byID.Products), productIDs(bySlug.Products))
	assert.Nil(t, byID.ProductCount)
}

func TestCategoryNotFound(t *testing.T) {
	categories := NewCategoryRepository(newTestDB(t))
	ctx := context.Background()

	_, err := categories.FindByID(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))

	_, err = categories.FindBySlug(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = categories.Update(ctx, uuid.New(), map[string]any{"name": "x"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = categories.Delete(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCategoryDuplicateSlugIsConflict(t *testing.T) {
	categories := NewCategoryRepository(newTestDB(t))
	createCategory(t, categories, "Tools", "tools")

	err := categories.Create(context.Background(), &domain.Category{Name: "Other tools", Slug: "tools"})
	assert.True(t, apperrors.IsConflict(err), "got %v", err)
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	categories := NewCategoryRepository(newTestDB(t))
	ctx := context.Background()
	tools := createCategory(t, categories, "Tools", "tools")

	updated, err := categories.Update(ctx, tools.ID, map[string]any{"name": "Hand tools"})
	require.NoError(t, err)
	assert.Equal(t, "Hand tools", updated.Name)
	assert.Equal(t, "tools", updated.Slug)

	deleted, err := categories.Delete(ctx, tools.ID)
	require.NoError(t, err)
	assert.Equal(t, tools.ID, deleted.ID)

	_, err = categories.FindByID(ctx, tools.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCategoryDeleteWithProductsIsConflict(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	tools := createCategory(t, categories, "Tools", "tools")
	createProduct(t, NewProductRepository(db), domain.Product{Name: "Hammer", CategoryID: &tools.ID, IsActive: true})

	_, err := categories.Delete(context.Background(), tools.ID)
	assert.True(t, apperrors.IsConflict(err), "got %v", err)
}

func TestProductListActiveNewestFirst(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := createProduct(t, products, domain.Product{Name: "Oldest", IsActive: true, CreatedAt: base})
	newest := createProduct(t, products, domain.Product{Name: "Newest", IsActive: true, CreatedAt: base.Add(2 * time.Hour)})
	createProduct(t, products, domain.Product{Name: "Inactive", IsActive: false, CreatedAt: base.Add(3 * time.Hour)})
	middle := createProduct(t, products, domain.Product{Name: "Middle", IsActive: true, CreatedAt: base.Add(time.Hour)})

	list, err := products.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, productIDs(list))
}

func TestProductCreateEmbedsCategory(t *testing.T) {
	db := newTestDB(t)
	tools := createCategory(t, NewCategoryRepository(db), "Tools", "tools")
	products := NewProductRepository(db)

	created := createProduct(t, products, domain.Product{
		Name:       "Hammer",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: &tools.ID,
		Features:   []byte(`{"weight":"500g"}`),
		Stock:      3,
		IsActive:   true,
	})

	require.NotNil(t, created.Category)
	assert.Equal(t, "Tools", created.Category.Name)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("12.5")))
	assert.JSONEq(t, `{"weight":"500g"}`, string(created.Features))
	assert.Equal(t, 3, created.Stock)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestProductCreateWithUnknownCategoryIsBadInput(t *testing.T) {
	products := NewProductRepository(newTestDB(t))
	missing := uuid.New()

	_, err := products.Create(context.Background(), &domain.Product{
		Name:       "Orphan",
		Price:      decimal.NewFromInt(1),
		CategoryID: &missing,
	})
	assert.True(t, apperrors.IsBadInput(err), "got %v", err)
}

func TestProductSearch(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	ctx := context.Background()

	byName := createProduct(t, products, domain.Product{Name: "Claw HAMMER", IsActive: true})
	byDescription := createProduct(t, products, domain.Product{Name: "Mallet", Description: "rubber hammer head", IsActive: true})
	createProduct(t, products, domain.Product{Name: "Hammer drill", IsActive: false})
	createProduct(t, products, domain.Product{Name: "Saw", Description: "cuts wood", IsActive: true})
	percent := createProduct(t, products, domain.Product{Name: "100% cotton gloves", IsActive: true})

	found, err := products.Search(ctx, "hammer")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{byName.ID, byDescription.ID}, productIDs(found))

	found, err = products.Search(ctx, "0%")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{percent.ID}, productIDs(found))

	found, err = products.Search(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestProductToolsScenario(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategoryRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	tools := createCategory(t, categories, "Tools", "tools")
	hammer := createProduct(t, products, domain.Product{Name: "Hammer", CategoryID: &tools.ID, IsActive: true})

	list, err := products.ListByCategory(ctx, tools.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{hammer.ID}, productIDs(list))

	_, err = products.Update(ctx, hammer.ID, map[string]any{"is_active": false})
	require.NoError(t, err)

	list, err = products.ListByCategory(ctx, tools.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	fetched, err := products.FindByID(ctx, hammer.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
	require.NotNil(t, fetched.Category)
	assert.Equal(t, tools.ID, fetched.Category.ID)
}

func TestProductDeleteThenFind(t *testing.T) {
	products := NewProductRepository(newTestDB(t))
	ctx := context.Background()
	hammer := createProduct(t, products, domain.Product{Name: "Hammer", IsActive: true})

	deleted, err := products.Delete(ctx, hammer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", deleted.Name)

	_, err = products.FindByID(ctx, hammer.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = products.Delete(ctx, hammer.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProductUpdateMissingIsNotFound(t *testing.T) {
	products := NewProductRepository(newTestDB(t))

	_, err := products.Update(context.Background(), uuid.New(), map[string]any{"name": "x"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = products.Update(context.Background(), uuid.New(), nil)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProductSearchSqliteCaseFolding(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	ctx := context.Background()

	eclair := createProduct(t, products, domain.Product{Name: "ÉCLAIR", IsActive: true})
	createProduct(t, products, domain.Product{Name: "Tart", Description: "100% butter_crust", IsActive: true})

	found, err := products.Search(ctx, "ÉCL")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{eclair.ID}, productIDs(found))

	found, err = products.Search(ctx, "Éclair")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{eclair.ID}, productIDs(found), "ASCII letters fold")

	// SQLite does not fold non-ASCII letters
	found, err = products.Search(ctx, "éclair")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = products.Search(ctx, "0% b")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = products.Search(ctx, "r_c")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = products.Search(ctx, "r%c")
	require.NoError(t, err)
	assert.Empty(t, found, "wildcards match literally")
}
