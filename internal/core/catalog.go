package core

import (
	"context"
	"time"
)

const (
	StatusProcessing = "Processing"
	StatusCancelled  = "Cancelled"
	StatusDelivered  = "Delivered"

	DefaultCategory = "General"
)

type Order struct {
	ID           int64     `json:"id"`
	OrderNumber  string    `json:"order_number"`
	CustomerName string    `json:"customer_name"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderFilter fields are ANDed; empty fields are ignored.
type OrderFilter struct {
	OrderNumber  string // exact
	CustomerName string // substring
	Status       string // exact
}

// ProductFilter fields are ANDed; empty fields and a non-positive MaxPrice are ignored.
type ProductFilter struct {
	Name     string  // substring
	Category string  // exact
	MaxPrice float64 // inclusive ceiling
}

type NewOrder struct {
	OrderNumber  string // generated when empty
	CustomerName string
	ProductName  string
	Quantity     int
}

type NewProduct struct {
	ProductName string
	Description string
	Price       float64
	Stock       int
	Category    string
}

// CatalogRepository is the record store. Lookups of absent records return an error
// matching ErrNotFound; precondition failures return one of the conflict errors.
// Every mutation is atomic.
type CatalogRepository interface {
	SearchOrders(ctx context.Context, filter OrderFilter) ([]Order, error)
	GetOrder(ctx context.Context, number string) (Order, error)
	SearchProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, name string) (Product, error)

	CreateOrder(ctx context.Context, in NewOrder) (Order, error)
	AddProduct(ctx context.Context, in NewProduct) (Product, error)
	UpdateOrderStatus(ctx context.Context, number, status string) (Order, error)
	UpdateProductPrice(ctx context.Context, name string, price float64) (Product, error)
	UpdateProductStock(ctx context.Context, name string, stock int) (Product, error)
	CancelOrder(ctx context.Context, number string) (Order, error)
	DeleteProduct(ctx context.Context, name string) error
}

// ActionResult is what every catalog action returns. At most one payload field is set.
type ActionResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Orders   []Order   `json:"orders,omitempty"`
	Products []Product `json:"products,omitempty"`
	Order    *Order    `json:"order,omitempty"`
	Product  *Product  `json:"product,omitempty"`
}

func Failure(message string) ActionResult {
	return ActionResult{Success: false, Message: message}
}
