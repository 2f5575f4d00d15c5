package command

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/sandevgo/shopdesk/internal/storage/sqlite/seed"
)

type SummaryCommand struct {
	db        *sql.DB
	formatter *ResponseFormatter
}

func NewSummaryCommand(db *sql.DB) *SummaryCommand {
	return &SummaryCommand{
		db:        db,
		formatter: NewResponseFormatter(),
	}
}

func (c *SummaryCommand) Name() string {
	return "summary"
}

func (c *SummaryCommand) Description() string {
	return "Show catalog totals by category and order status"
}

func (c *SummaryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	s, err := seed.Summarize(ctx, c.db)
	if err != nil {
		return "", err
	}

	categories := make([]string, 0, len(s.Categories))
	for _, cat := range s.Categories {
		categories = append(categories, fmt.Sprintf("%s: %d products, %d units", cat.Category, cat.Products, cat.TotalStock))
	}
	statuses := make([]string, 0, len(s.Statuses))
	for _, st := range s.Statuses {
		statuses = append(statuses, fmt.Sprintf("%s: %d", st.Status, st.Orders))
	}

	return c.formatter.Combine(
		c.formatter.Info("Catalog Summary"),
		c.formatter.Label("Products", strconv.Itoa(s.Products)),
		c.formatter.Label("Orders", strconv.Itoa(s.Orders)),
		"",
		c.formatter.Section("Categories", categories),
		"",
		c.formatter.Section("Order status", statuses),
	), nil
}
