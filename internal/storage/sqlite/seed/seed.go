// Package seed loads the sample catalog shipped with the binary.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/sandevgo/shopdesk/pkg/log"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type productRow struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Stock       int     `yaml:"stock"`
	Category    string  `yaml:"category"`
}

type orderRow struct {
	Number   string  `yaml:"number"`
	Customer string  `yaml:"customer"`
	Product  string  `yaml:"product"`
	Quantity int     `yaml:"quantity"`
	Price    float64 `yaml:"price"`
	Status   string  `yaml:"status"`
}

type dataset struct {
	Products []productRow `yaml:"products"`
	Orders   []orderRow   `yaml:"orders"`
}

type datasets struct {
	Basic    dataset `yaml:"basic"`
	Extended dataset `yaml:"extended"`
}

func load() (*datasets, error) {
	var d datasets
	if err := yaml.Unmarshal(catalogYAML, &d); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	return &d, nil
}

// Seed inserts the basic dataset, plus the extended one when asked.
// Rows that already exist are left alone, so seeding twice is harmless.
func Seed(ctx context.Context, db *sql.DB, extended bool) error {
	d, err := load()
	if err != nil {
		return err
	}

	sets := []dataset{d.Basic}
	if extended {
		sets = append(sets, d.Extended)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	var products, orders int64

	for _, set := range sets {
		for _, p := range set.Products {
			res, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO products (product_name, description, price, stock, category, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
				p.Name, p.Description, p.Price, p.Stock, p.Category, now)
			if err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
			}
			n, _ := res.RowsAffected()
			products += n
		}

		for _, o := range set.Orders {
			res, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO orders (order_number, customer_name, product_name, quantity, price, status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				o.Number, o.Customer, o.Product, o.Quantity, o.Price, o.Status, now, now)
			if err != nil {
				return fmt.Errorf("failed to seed order %s: %w", o.Number, err)
			}
			n, _ := res.RowsAffected()
			orders += n
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.FromCtx(ctx).Info().Int64("products", products).Int64("orders", orders).Bool("extended", extended).Msg("catalog seeded")
	return nil
}

// SeedIfEmpty seeds the basic dataset into a fresh database only.
func SeedIfEmpty(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	return true, Seed(ctx, db, false)
}

type CategoryCount struct {
	Category   string
	Products   int
	TotalStock int
}

type StatusCount struct {
	Status string
	Orders int
}

type Summary struct {
	Products   int
	Orders     int
	Categories []CategoryCount
	Statuses   []StatusCount
}

func Summarize(ctx context.Context, db *sql.DB) (*Summary, error) {
	s := &Summary{}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&s.Products); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&s.Orders); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT category, COUNT(*), COALESCE(SUM(stock), 0) FROM products GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize categories: %w", err)
	}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Products, &c.TotalStock); err != nil {
			rows.Close()
			return nil, err
		}
		s.Categories = append(s.Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st StatusCount
		if err := rows.Scan(&st.Status, &st.Orders); err != nil {
			return nil, err
		}
		s.Statuses = append(s.Statuses, st)
	}

	return s, rows.Err()
}
