package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite/seed"
	"github.com/sandevgo/shopdesk/pkg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(context.Background(), sqlite.DriverPure, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newSeededRepo(t *testing.T) *CatalogRepo {
	t.Helper()

	db := newTestDB(t)
	require.NoError(t, seed.Seed(context.Background(), db, false))
	return NewCatalogRepo(db)
}

func TestCatalogRepo_SearchOrders(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter core.OrderFilter
		want   []string
	}{
		{name: "no filter", filter: core.OrderFilter{}, want: []string{"ORD-1001", "ORD-1002", "ORD-1003"}},
		{name: "exact number", filter: core.OrderFilter{OrderNumber: "ORD-1002"}, want: []string{"ORD-1002"}},
		{name: "number is not a substring match", filter: core.OrderFilter{OrderNumber: "ORD-100"}, want: nil},
		{name: "customer substring", filter: core.OrderFilter{CustomerName: "john"}, want: []string{"ORD-1001", "ORD-1003"}},
		{name: "status exact", filter: core.OrderFilter{Status: "Delivered"}, want: []string{"ORD-1003"}},
		{name: "filters are ANDed", filter: core.OrderFilter{CustomerName: "Jane", Status: "Shipped"}, want: nil},
		{name: "wildcards are literal", filter: core.OrderFilter{CustomerName: "%"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := repo.SearchOrders(ctx, tt.filter)
			require.NoError(t, err)

			var got []string
			for _, o := range orders {
				got = append(got, o.OrderNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogRepo_SearchProducts(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter core.ProductFilter
		want   []string
	}{
		{name: "zero max price is ignored", filter: core.ProductFilter{MaxPrice: 0}, want: []string{"Laptop Pro 15", "Wireless Mouse", "USB-C Hub", "Gaming Keyboard", "4K Monitor"}},
		{name: "max price inclusive", filter: core.ProductFilter{MaxPrice: 49.99}, want: []string{"Wireless Mouse", "USB-C Hub"}},
		{name: "category exact", filter: core.ProductFilter{Category: "Electronics"}, want: []string{"Laptop Pro 15", "4K Monitor"}},
		{name: "name substring", filter: core.ProductFilter{Name: "usb"}, want: []string{"USB-C Hub"}},
		{name: "combined", filter: core.ProductFilter{Category: "Accessories", MaxPrice: 30}, want: []string{"Wireless Mouse"}},
		{name: "no match", filter: core.ProductFilter{Category: "Garden"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.SearchProducts(ctx, tt.filter)
			require.NoError(t, err)

			var got []string
			for _, p := range products {
				got = append(got, p.ProductName)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogRepo_GetNotFound(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	_, err := repo.GetOrder(ctx, "ORD-9999")
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, "Order ORD-9999 not found.", err.Error())

	_, err = repo.GetProduct(ctx, "Toaster")
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, "Product 'Toaster' not found.", err.Error())
}

func TestCatalogRepo_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("generates next number and decrements stock", func(t *testing.T) {
		repo := newSeededRepo(t)

		order, err := repo.CreateOrder(ctx, core.NewOrder{CustomerName: "Alice", ProductName: "Wireless Mouse", Quantity: 3})
		require.NoError(t, err)

		assert.Equal(t, "ORD-1004", order.OrderNumber)
		assert.Equal(t, core.StatusProcessing, order.Status)
		assert.Equal(t, 29.99, order.Price)
		assert.False(t, order.CreatedAt.IsZero())

		product, err := repo.GetProduct(ctx, "Wireless Mouse")
		require.NoError(t, err)
		assert.Equal(t, 147, product.Stock)
	})

	t.Run("first number on an empty table", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewCatalogRepo(db)
		_, err := repo.AddProduct(ctx, core.NewProduct{ProductName: "Pen", Price: 1, Stock: 10})
		require.NoError(t, err)

		order, err := repo.CreateOrder(ctx, core.NewOrder{CustomerName: "Alice", ProductName: "Pen", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "ORD-1001", order.OrderNumber)
	})

	t.Run("non numeric numbers are skipped", func(t *testing.T) {
		repo := newSeededRepo(t)
		_, err := repo.CreateOrder(ctx, core.NewOrder{OrderNumber: "ORD-ABC", CustomerName: "A", ProductName: "USB-C Hub", Quantity: 1})
		require.NoError(t, err)
		_, err = repo.CreateOrder(ctx, core.NewOrder{OrderNumber: "ORD-2000", CustomerName: "A", ProductName: "USB-C Hub", Quantity: 1})
		require.NoError(t, err)

		order, err := repo.CreateOrder(ctx, core.NewOrder{CustomerName: "B", ProductName: "USB-C Hub", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "ORD-2001", order.OrderNumber)
	})

	t.Run("stock boundary", func(t *testing.T) {
		repo := newSeededRepo(t)

		_, err := repo.CreateOrder(ctx, core.NewOrder{CustomerName: "A", ProductName: "Laptop Pro 15", Quantity: 26})
		var stockErr *core.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 25, stockErr.Available)
		assert.Equal(t, "Insufficient stock. Only 25 units available.", err.Error())

		_, err = repo.CreateOrder(ctx, core.NewOrder{CustomerName: "A", ProductName: "Laptop Pro 15", Quantity: 25})
		require.NoError(t, err)

		product, err := repo.GetProduct(ctx, "Laptop Pro 15")
		require.NoError(t, err)
		assert.Equal(t, 0, product.Stock)

		_, err = repo.CreateOrder(ctx, core.NewOrder{CustomerName: "A", ProductName: "Laptop Pro 15", Quantity: 1})
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 0, stockErr.Available)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := newSeededRepo(t)
		_, err := repo.CreateOrder(ctx, core.NewOrder{CustomerName: "A", ProductName: "Toaster", Quantity: 1})
		require.ErrorIs(t, err, core.ErrNotFound)
		assert.Equal(t, "Product 'Toaster' not found in catalog.", err.Error())
	})

	t.Run("duplicate custom number leaves stock alone", func(t *testing.T) {
		repo := newSeededRepo(t)
		_, err := repo.CreateOrder(ctx, core.NewOrder{OrderNumber: "ORD-1001", CustomerName: "A", ProductName: "USB-C Hub", Quantity: 1})
		require.Error(t, err)
		assert.True(t, core.IsConflict(err))
		assert.Equal(t, "Order ORD-1001 already exists.", err.Error())

		product, err := repo.GetProduct(ctx, "USB-C Hub")
		require.NoError(t, err)
		assert.Equal(t, 80, product.Stock)
	})
}

func TestCatalogRepo_AddProduct(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	p, err := repo.AddProduct(ctx, core.NewProduct{ProductName: "Tablet Mini", Price: 249.5, Stock: 12})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultCategory, p.Category)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, 12, p.Stock)

	_, err = repo.AddProduct(ctx, core.NewProduct{ProductName: "Tablet Mini", Price: 1, Stock: 1})
	require.Error(t, err)
	assert.True(t, core.IsConflict(err))
	assert.Equal(t, "Product 'Tablet Mini' already exists in the catalog.", err.Error())
}

func TestCatalogRepo_Updates(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	order, err := repo.UpdateOrderStatus(ctx, "ORD-1002", "On Hold")
	require.NoError(t, err)
	assert.Equal(t, "On Hold", order.Status)
	assert.False(t, order.UpdatedAt.Before(order.CreatedAt))

	_, err = repo.UpdateOrderStatus(ctx, "ORD-4242", "Shipped")
	require.ErrorIs(t, err, core.ErrNotFound)

	product, err := repo.UpdateProductPrice(ctx, "Gaming Keyboard", 79.5)
	require.NoError(t, err)
	assert.Equal(t, 79.5, product.Price)

	product, err = repo.UpdateProductStock(ctx, "Gaming Keyboard", -2)
	require.NoError(t, err)
	assert.Equal(t, -2, product.Stock)

	_, err = repo.UpdateProductPrice(ctx, "Toaster", 1)
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = repo.UpdateProductStock(ctx, "Toaster", 1)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCatalogRepo_CancelOrder(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	order, err := repo.CancelOrder(ctx, "ORD-1002")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCancelled, order.Status)

	product, err := repo.GetProduct(ctx, "Wireless Mouse")
	require.NoError(t, err)
	assert.Equal(t, 152, product.Stock)

	// the row is kept
	kept, err := repo.GetOrder(ctx, "ORD-1002")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCancelled, kept.Status)

	_, err = repo.CancelOrder(ctx, "ORD-1002")
	require.Error(t, err)
	assert.True(t, core.IsConflict(err))

	product, err = repo.GetProduct(ctx, "Wireless Mouse")
	require.NoError(t, err)
	assert.Equal(t, 152, product.Stock)

	_, err = repo.CancelOrder(ctx, "ORD-0000")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCatalogRepo_DeleteProduct(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	err := repo.DeleteProduct(ctx, "Wireless Mouse")
	var active *core.ActiveOrdersError
	require.ErrorAs(t, err, &active)
	assert.Equal(t, 1, active.Count)
	assert.Equal(t, "Cannot delete 'Wireless Mouse'. There are 1 active orders for this product.", err.Error())

	// ORD-1003 is Delivered, so it does not block
	require.NoError(t, repo.DeleteProduct(ctx, "USB-C Hub"))
	_, err = repo.GetProduct(ctx, "USB-C Hub")
	require.ErrorIs(t, err, core.ErrNotFound)

	err = repo.DeleteProduct(ctx, "USB-C Hub")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.CancelOrder(ctx, "ORD-1002")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteProduct(ctx, "Wireless Mouse"))
}
