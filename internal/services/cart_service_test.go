package services_test

import (
	"testing"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartService(t *testing.T, dbName string) (*services.CartService, *gorm.DB, *models.Book) {
	t.Helper()
	db := openTestDB(t, dbName)

	category := models.BookCategory{Name: "Fiction " + dbName}
	require.NoError(t, repositories.NewGORMCategoryRepository(db).Create(&category))

	bookRepo := repositories.NewGORMBookRepository(db)
	book := models.Book{
		Title:         "The Go Programming Language",
		ISBN:          "9780134190440",
		PriceCents:    1000,
		StockQuantity: 5,
		CategoryID:    category.ID,
	}
	require.NoError(t, bookRepo.Create(&book))

	cartService := services.NewCartService(
		repositories.NewGORMCartRepository(db),
		bookRepo,
		repositories.NewGormTxManager(db),
	)
	return cartService, db, &book
}

func TestCartService_AddItem(t *testing.T) {
	cartService, _, book := setupCartService(t, "cartsvc_add")

	cart, err := cartService.AddItem("user-1", book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.CartStatusActive, cart.Status)
	assert.Equal(t, 1, cart.TotalItems)
	assert.Equal(t, int64(2000), cart.TotalPriceCents)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(1000), cart.Items[0].PriceAtAdditionCents)

	// Adding the same book again merges into the existing line.
	cart, err = cartService.AddItem("user-1", book.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItems)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(3000), cart.TotalPriceCents)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	cartService, _, book := setupCartService(t, "cartsvc_invalidqty")

	_, err := cartService.AddItem("user-1", book.ID, 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	_, err = cartService.AddItem("user-1", book.ID, -3)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

func TestCartService_AddItem_CumulativeStockCheck(t *testing.T) {
	cartService, _, book := setupCartService(t, "cartsvc_stock")

	// Stock is 5. 3 now, 3 more would make 6.
	_, err := cartService.AddItem("user-1", book.ID, 3)
	require.NoError(t, err)

	_, err = cartService.AddItem("user-1", book.ID, 3)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	// The failed add must not have touched the cart.
	cart, err := cartService.GetActiveCart("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), cart.TotalPriceCents)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartService_AddItem_UnknownBook(t *testing.T) {
	cartService, _, _ := setupCartService(t, "cartsvc_nobook")

	_, err := cartService.AddItem("user-1", "00000000-0000-0000-0000-000000000000", 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCartService_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	cartService, db, book := setupCartService(t, "cartsvc_snapshot")

	_, err := cartService.AddItem("user-1", book.ID, 1)
	require.NoError(t, err)

	// The catalog price doubles after the item is in the cart.
	bookRepo := repositories.NewGORMBookRepository(db)
	book.PriceCents = 2000
	require.NoError(t, bookRepo.Update(book))

	cart, err := cartService.AddItem("user-1", book.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1000), cart.Items[0].PriceAtAdditionCents)
	assert.Equal(t, int64(2000), cart.TotalPriceCents)
}

func TestCartService_UpdateItem(t *testing.T) {
	cartService, _, book := setupCartService(t, "cartsvc_update")

	_, err := cartService.AddItem("user-1", book.ID, 2)
	require.NoError(t, err)

	// Absolute quantity, not an increment.
	cart, err := cartService.UpdateItem("user-1", book.ID, 4)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, int64(4000), cart.TotalPriceCents)

	// Beyond stock.
	_, err = cartService.UpdateItem("user-1", book.ID, 6)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	// Zero removes the line and resets totals.
	cart, err = cartService.UpdateItem("user-1", book.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.Equal(t, int64(0), cart.TotalPriceCents)
	assert.Equal(t, models.CartStatusActive, cart.Status)

	// Negative quantity is rejected.
	_, err = cartService.UpdateItem("user-1", book.ID, -1)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, _, book := setupCartService(t, "cartsvc_remove")

	_, err := cartService.AddItem("user-1", book.ID, 2)
	require.NoError(t, err)

	cart, removed, err := cartService.RemoveItem("user-1", book.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(1000), cart.TotalPriceCents)

	cart, removed, err = cartService.RemoveItem("user-1", book.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, cart.Items)

	_, _, err = cartService.RemoveItem("user-1", book.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, _, book := setupCartService(t, "cartsvc_clear")

	_, err := cartService.AddItem("user-1", book.ID, 3)
	require.NoError(t, err)

	cart, err := cartService.ClearCart("user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.Equal(t, int64(0), cart.TotalPriceCents)
	// The cart row itself survives and stays active.
	assert.Equal(t, models.CartStatusActive, cart.Status)

	again, err := cartService.GetActiveCart("user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_GetActiveCart_NoneYet(t *testing.T) {
	cartService, _, _ := setupCartService(t, "cartsvc_nocart")

	_, err := cartService.GetActiveCart("user-without-cart")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
