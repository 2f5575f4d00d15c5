package catalog

import (
	"context"
	"fmt"

	"github.com/sandevgo/shopdesk/internal/core"
)

// READ

type searchOrders struct {
	OrderNumber  string `mapstructure:"order_number"`
	CustomerName string `mapstructure:"customer_name"`
	Status       string `mapstructure:"status"`
}

func (a *searchOrders) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	orders, err := repo.SearchOrders(ctx, core.OrderFilter{
		OrderNumber:  a.OrderNumber,
		CustomerName: a.CustomerName,
		Status:       a.Status,
	})
	if err != nil {
		return core.ActionResult{}, err
	}
	if len(orders) == 0 {
		return core.Failure("No orders found matching the criteria."), nil
	}
	return core.ActionResult{Success: true, Orders: orders}, nil
}

type searchProducts struct {
	ProductName string  `mapstructure:"product_name"`
	Category    string  `mapstructure:"category"`
	MaxPrice    float64 `mapstructure:"max_price"`
}

func (a *searchProducts) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	products, err := repo.SearchProducts(ctx, core.ProductFilter{
		Name:     a.ProductName,
		Category: a.Category,
		MaxPrice: a.MaxPrice,
	})
	if err != nil {
		return core.ActionResult{}, err
	}
	if len(products) == 0 {
		return core.Failure("No products found matching the criteria."), nil
	}
	return core.ActionResult{Success: true, Products: products}, nil
}

type getOrderDetails struct {
	OrderNumber string `mapstructure:"order_number"`
}

func (a *getOrderDetails) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	order, err := repo.GetOrder(ctx, a.OrderNumber)
	if err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{Success: true, Order: &order}, nil
}

// CREATE

type createOrder struct {
	CustomerName string `mapstructure:"customer_name"`
	ProductName  string `mapstructure:"product_name"`
	Quantity     int    `mapstructure:"quantity"`
	OrderNumber  string `mapstructure:"order_number"`
}

func (a *createOrder) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	order, err := repo.CreateOrder(ctx, core.NewOrder{
		OrderNumber:  a.OrderNumber,
		CustomerName: a.CustomerName,
		ProductName:  a.ProductName,
		Quantity:     a.Quantity,
	})
	if err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Order %s created successfully!", order.OrderNumber),
		Order:   &order,
	}, nil
}

type addProduct struct {
	ProductName string  `mapstructure:"product_name"`
	Price       float64 `mapstructure:"price"`
	Stock       int     `mapstructure:"stock"`
	Description string  `mapstructure:"description"`
	Category    string  `mapstructure:"category"`
}

func (a *addProduct) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	product, err := repo.AddProduct(ctx, core.NewProduct{
		ProductName: a.ProductName,
		Description: a.Description,
		Price:       a.Price,
		Stock:       a.Stock,
		Category:    a.Category,
	})
	if err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Product '%s' added successfully!", product.ProductName),
		Product: &product,
	}, nil
}

// UPDATE

type updateOrderStatus struct {
	OrderNumber string `mapstructure:"order_number"`
	NewStatus   string `mapstructure:"new_status"`
}

func (a *updateOrderStatus) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	order, err := repo.UpdateOrderStatus(ctx, a.OrderNumber, a.NewStatus)
	if err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Order %s status updated to '%s'.", a.OrderNumber, a.NewStatus),
		Order:   &order,
	}, nil
}

type updateProductPrice struct {
	ProductName string  `mapstructure:"product_name"`
	NewPrice    float64 `mapstructure:"new_price"`
}

func (a *updateProductPrice) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	product, err := repo.UpdateProductPrice(ctx, a.ProductName, a.NewPrice)
	if err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Product '%s' price updated to $%.2f.", a.ProductName, a.NewPrice),
		Product: &product,
	}, nil
}

type updateProductStock struct {
	ProductName string `mapstructure:"product_name"`
	NewStock    int    `mapstructure:"new_stock"`
}

func (a *updateProductStock) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	product, err := repo.UpdateProductStock(ctx, a.ProductName, a.NewStock)
	if err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Product '%s' stock updated to %d units.", a.ProductName, a.NewStock),
		Product: &product,
	}, nil
}

// DELETE

type cancelOrder struct {
	OrderNumber string `mapstructure:"order_number"`
}

func (a *cancelOrder) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	if _, err := repo.CancelOrder(ctx, a.OrderNumber); err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Order %s has been cancelled. Stock restored.", a.OrderNumber),
	}, nil
}

type deleteProduct struct {
	ProductName string `mapstructure:"product_name"`
}

func (a *deleteProduct) run(ctx context.Context, repo core.CatalogRepository) (core.ActionResult, error) {
	if err := repo.DeleteProduct(ctx, a.ProductName); err != nil {
		return core.ActionResult{}, err
	}
	return core.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Product '%s' has been removed from the catalog.", a.ProductName),
	}, nil
}
