package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/storefront-api/internal/model"
)

func seedUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Password: "hash", Name: "Test User", Role: "user"}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), user))
	return user
}

func seedCatalogProduct(t *testing.T, slug, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:  slug,
		Slug:  slug,
		Price: decimal.RequireFromString(price),
	}
	require.NoError(t, NewProductRepository(testPool).Create(context.Background(), product))
	return product
}

func TestCartRepositoryLineLifecycle(t *testing.T) {
	requireDB(t)
	cleanupTables(t, "cart_lines", "products", "users")
	ctx := context.Background()
	repo := NewCartRepository(testPool)

	user := seedUser(t, "cart@example.com")
	product := seedCatalogProduct(t, "cart-widget", "10.00")

	line := &model.CartLine{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, repo.Insert(ctx, line))
	require.NotZero(t, line.ID)

	found, err := repo.GetByUserAndProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, line.ID, found.ID)

	require.NoError(t, repo.UpdateQuantity(ctx, line.ID, 5))
	loaded, err := repo.GetLine(ctx, line.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 5, loaded.Quantity)
	assert.Equal(t, product.ID, loaded.Product.ID)

	// Deleting twice is harmless.
	require.NoError(t, repo.DeleteLine(ctx, line.ID))
	require.NoError(t, repo.DeleteLine(ctx, line.ID))

	gone, err := repo.GetLine(ctx, line.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCartRepositorySummary(t *testing.T) {
	requireDB(t)
	cleanupTables(t, "cart_lines", "products", "users")
	ctx := context.Background()
	repo := NewCartRepository(testPool)

	user := seedUser(t, "summary@example.com")
	widget := seedCatalogProduct(t, "summary-widget", "10.00")
	gadget := seedCatalogProduct(t, "summary-gadget", "5.00")

	require.NoError(t, repo.Insert(ctx, &model.CartLine{UserID: user.ID, ProductID: widget.ID, Quantity: 2}))
	require.NoError(t, repo.Insert(ctx, &model.CartLine{UserID: user.ID, ProductID: gadget.ID, Quantity: 1}))

	summary, err := repo.Summary(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.ItemsCount)
	assert.True(t, summary.TotalPrice.Equal(decimal.RequireFromString("25.00")))

	deleted, err := repo.DeleteByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	empty, err := repo.Summary(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalItems)
	assert.True(t, empty.TotalPrice.IsZero())
}
