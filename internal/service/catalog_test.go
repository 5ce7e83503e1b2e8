package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/storefront-api/internal/dto"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *mockProductRepo, *mockCategoryRepo) {
	t.Helper()
	categories := newMockCategoryRepo()
	products := newMockProductRepo(categories)
	return NewCatalogService(products, categories, nil, nil), products, categories
}

func TestCreateProductDerivesSlug(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:  "Red Shoe",
		Price: decimal.RequireFromString("49.90"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "red-shoe", first.Slug)

	second, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:  "Red Shoe",
		Price: decimal.RequireFromString("59.90"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "red-shoe-1", second.Slug)
}

func TestUpdateProductKeepsSlugOnSameName(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:  "Red Shoe",
		Price: decimal.RequireFromString("49.90"),
	}, nil)
	require.NoError(t, err)

	// Re-saving without renaming must not grow a suffix.
	price := decimal.RequireFromString("44.90")
	updated, err := svc.UpdateProduct(ctx, created.ID, dto.UpdateProductRequest{Price: &price}, nil)
	require.NoError(t, err)
	assert.Equal(t, "red-shoe", updated.Slug)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	_, err := svc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:  "Red Shoe",
		Price: decimal.RequireFromString("-1.00"),
	}, nil)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	categoryID := uuid.New()

	_, err := svc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:       "Red Shoe",
		Price:      decimal.RequireFromString("49.90"),
		CategoryID: &categoryID,
	}, nil)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteProductInCartConflicts(t *testing.T) {
	svc, products, _ := newCatalogFixture(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:  "Red Shoe",
		Price: decimal.RequireFromString("49.90"),
	}, nil)
	require.NoError(t, err)

	products.referenced[created.ID] = true
	err = svc.DeleteProduct(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProductInUse)

	products.referenced[created.ID] = false
	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	assert.Empty(t, products.products)
}

func TestDeleteUnknownProduct(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	err := svc.DeleteProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCategorySlugDisambiguation(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Summer Sale"})
	require.NoError(t, err)
	assert.Equal(t, "summer-sale", first.Slug)

	second, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Summer Sale"})
	require.NoError(t, err)
	assert.Equal(t, "summer-sale-1", second.Slug)
}

func TestDeleteCategoryWithProductsConflicts(t *testing.T) {
	svc, _, categories := newCatalogFixture(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Shoes"})
	require.NoError(t, err)

	categories.hasProducts[created.ID] = true
	err = svc.DeleteCategory(ctx, created.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)

	categories.hasProducts[created.ID] = false
	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
}

func TestGetUnknownCategory(t *testing.T) {
	svc, _, _ := newCatalogFixture(t)

	_, err := svc.GetCategory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
