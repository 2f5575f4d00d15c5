package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/pkg/log"
	"github.com/sandevgo/shopdesk/pkg/retry"
	"github.com/sandevgo/shopdesk/pkg/sqlite"
)

const (
	orderColumns   = `id, order_number, customer_name, product_name, quantity, price, status, created_at, updated_at`
	productColumns = `id, product_name, description, price, stock, category, created_at`

	orderNumberPrefix = "ORD-"
	firstOrderNumber  = 1001

	TimeLayout = time.RFC3339Nano
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// CatalogRepo implements core.CatalogRepository. Every mutation is one transaction,
// retried as a whole when SQLite reports lock contention.
type CatalogRepo struct {
	db      *sql.DB
	retrier *retry.Retrier
	now     func() time.Time
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{
		db:      db,
		retrier: retry.NewRetrier(retry.NewStorageConfig(sqlite.IsBusyError)),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *CatalogRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return r.retrier.Do(ctx, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("catalog commit failed")
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

func (r *CatalogRepo) timestamp() string {
	return r.now().Format(TimeLayout)
}

// READ

func (r *CatalogRepo) SearchOrders(ctx context.Context, filter core.OrderFilter) ([]core.Order, error) {
	var (
		where []string
		args  []any
	)

	if filter.OrderNumber != "" {
		where = append(where, "order_number = ?")
		args = append(args, filter.OrderNumber)
	}
	if filter.CustomerName != "" {
		where = append(where, `customer_name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.CustomerName))
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + whereClause(where) + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []core.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(orders)).Msg("searched orders")
	return orders, nil
}

func (r *CatalogRepo) GetOrder(ctx context.Context, number string) (core.Order, error) {
	return getOrder(ctx, r.db, number)
}

func (r *CatalogRepo) SearchProducts(ctx context.Context, filter core.ProductFilter) ([]core.Product, error) {
	var (
		where []string
		args  []any
	)

	if filter.Name != "" {
		where = append(where, `product_name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Name))
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, filter.MaxPrice)
	}

	query := `SELECT ` + productColumns + ` FROM products` + whereClause(where) + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []core.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(products)).Msg("searched products")
	return products, nil
}

func (r *CatalogRepo) GetProduct(ctx context.Context, name string) (core.Product, error) {
	return getProduct(ctx, r.db, name)
}

// CREATE

func (r *CatalogRepo) CreateOrder(ctx context.Context, in core.NewOrder) (core.Order, error) {
	var created core.Order

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		product, err := getProduct(ctx, tx, in.ProductName)
		if errors.Is(err, core.ErrNotFound) {
			return core.ProductNotInCatalog(in.ProductName)
		}
		if err != nil {
			return err
		}

		if product.Stock < in.Quantity {
			return &core.InsufficientStockError{Available: product.Stock}
		}

		number := in.OrderNumber
		if number == "" {
			if number, err = nextOrderNumber(ctx, tx); err != nil {
				return err
			}
		} else if _, err := getOrder(ctx, tx, number); err == nil {
			return &core.ConflictError{Reason: fmt.Sprintf("Order %s already exists.", number)}
		} else if !errors.Is(err, core.ErrNotFound) {
			return err
		}

		// 1. Insert the order at the current catalog price
		now := r.timestamp()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders (order_number, customer_name, product_name, quantity, price, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			number, in.CustomerName, product.ProductName, in.Quantity, product.Price, core.StatusProcessing, now, now)
		if sqlite.IsUniqueViolation(err) {
			return &core.ConflictError{Reason: fmt.Sprintf("Order %s already exists.", number)}
		}
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		// 2. Take the quantity out of stock
		_, err = tx.ExecContext(ctx, `UPDATE products SET stock = stock - ? WHERE id = ?`, in.Quantity, product.ID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		created, err = getOrder(ctx, tx, number)
		return err
	})
	if err != nil {
		return core.Order{}, err
	}

	log.FromCtx(ctx).Info().Str("order", created.OrderNumber).Str("product", created.ProductName).Int("quantity", created.Quantity).Msg("order created")
	return created, nil
}

func (r *CatalogRepo) AddProduct(ctx context.Context, in core.NewProduct) (core.Product, error) {
	category := in.Category
	if category == "" {
		category = core.DefaultCategory
	}

	var created core.Product

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		exists := &core.ConflictError{Reason: fmt.Sprintf("Product '%s' already exists in the catalog.", in.ProductName)}

		if _, err := getProduct(ctx, tx, in.ProductName); err == nil {
			return exists
		} else if !errors.Is(err, core.ErrNotFound) {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (product_name, description, price, stock, category, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			in.ProductName, in.Description, in.Price, in.Stock, category, r.timestamp())
		if sqlite.IsUniqueViolation(err) {
			return exists
		}
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}

		created, err = getProduct(ctx, tx, in.ProductName)
		return err
	})
	if err != nil {
		return core.Product{}, err
	}

	log.FromCtx(ctx).Info().Str("product", created.ProductName).Msg("product added")
	return created, nil
}

// UPDATE

func (r *CatalogRepo) UpdateOrderStatus(ctx context.Context, number, status string) (core.Order, error) {
	var updated core.Order

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE order_number = ?`, status, r.timestamp(), number)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if err := expectRow(res, core.OrderNotFound(number)); err != nil {
			return err
		}

		updated, err = getOrder(ctx, tx, number)
		return err
	})
	if err != nil {
		return core.Order{}, err
	}
	return updated, nil
}

func (r *CatalogRepo) UpdateProductPrice(ctx context.Context, name string, price float64) (core.Product, error) {
	return r.updateProduct(ctx, name, `UPDATE products SET price = ? WHERE product_name = ?`, price)
}

func (r *CatalogRepo) UpdateProductStock(ctx context.Context, name string, stock int) (core.Product, error) {
	return r.updateProduct(ctx, name, `UPDATE products SET stock = ? WHERE product_name = ?`, stock)
}

func (r *CatalogRepo) updateProduct(ctx context.Context, name, query string, value any) (core.Product, error) {
	var updated core.Product

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, value, name)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		if err := expectRow(res, core.ProductNotFound(name)); err != nil {
			return err
		}

		updated, err = getProduct(ctx, tx, name)
		return err
	})
	if err != nil {
		return core.Product{}, err
	}
	return updated, nil
}

// DELETE

func (r *CatalogRepo) CancelOrder(ctx context.Context, number string) (core.Order, error) {
	var cancelled core.Order

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		order, err := getOrder(ctx, tx, number)
		if err != nil {
			return err
		}

		if order.Status == core.StatusCancelled {
			return &core.ConflictError{Reason: fmt.Sprintf("Order %s is already cancelled.", number)}
		}

		// 1. Put the quantity back; the product may have been removed since
		_, err = tx.ExecContext(ctx, `UPDATE products SET stock = stock + ? WHERE product_name = ?`, order.Quantity, order.ProductName)
		if err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}

		// 2. Keep the row, flip the status
		_, err = tx.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, core.StatusCancelled, r.timestamp(), order.ID)
		if err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		cancelled, err = getOrder(ctx, tx, number)
		return err
	})
	if err != nil {
		return core.Order{}, err
	}

	log.FromCtx(ctx).Info().Str("order", number).Int("restored", cancelled.Quantity).Msg("order cancelled")
	return cancelled, nil
}

func (r *CatalogRepo) DeleteProduct(ctx context.Context, name string) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		product, err := getProduct(ctx, tx, name)
		if err != nil {
			return err
		}

		var active int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM orders WHERE product_name = ? AND status NOT IN (?, ?)`,
			name, core.StatusCancelled, core.StatusDelivered).Scan(&active)
		if err != nil {
			return fmt.Errorf("failed to count active orders: %w", err)
		}
		if active > 0 {
			return &core.ActiveOrdersError{Product: name, Count: active}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, product.ID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.FromCtx(ctx).Info().Str("product", name).Msg("product deleted")
	return nil
}

// Helpers

func getOrder(ctx context.Context, q querier, number string) (core.Order, error) {
	row := q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = ?`, number)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Order{}, core.OrderNotFound(number)
	}
	return o, err
}

func getProduct(ctx context.Context, q querier, name string) (core.Product, error) {
	row := q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE product_name = ?`, name)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Product{}, core.ProductNotFound(name)
	}
	return p, err
}

// nextOrderNumber returns ORD-{max+1} over the numeric suffixes in use, ORD-1001 when there are none.
func nextOrderNumber(ctx context.Context, q querier) (string, error) {
	rows, err := q.QueryContext(ctx, `SELECT order_number FROM orders WHERE order_number LIKE 'ORD-%'`)
	if err != nil {
		return "", fmt.Errorf("failed to query order numbers: %w", err)
	}
	defer rows.Close()

	highest := firstOrderNumber - 1
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimPrefix(number, orderNumberPrefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	if err := rows.Err(); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d", orderNumberPrefix, highest+1), nil
}

func scanOrder(s scanner) (core.Order, error) {
	var o core.Order
	var created, updated string
	if err := s.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.ProductName, &o.Quantity, &o.Price, &o.Status, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, err
		}
		return o, fmt.Errorf("failed to scan order: %w", err)
	}
	o.CreatedAt = parseTime(created)
	o.UpdatedAt = parseTime(updated)
	return o, nil
}

func scanProduct(s scanner) (core.Product, error) {
	var (
		p                     core.Product
		description, category sql.NullString
		created               string
	)
	if err := s.Scan(&p.ID, &p.ProductName, &description, &p.Price, &p.Stock, &category, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan product: %w", err)
	}
	p.Description = description.String
	p.Category = category.String
	p.CreatedAt = parseTime(created)
	return p, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
