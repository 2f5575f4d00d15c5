package seed_test

import (
	"context"
	"testing"

	"github.com/sandevgo/shopdesk/internal/storage/sqlite"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite/seed"
	driver "github.com/sandevgo/shopdesk/pkg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.NewDB(ctx, driver.DriverPure, driver.MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	seeded, err := seed.SeedIfEmpty(ctx, db)
	require.NoError(t, err)
	assert.True(t, seeded)

	summary, err := seed.Summarize(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Products)
	assert.Equal(t, 3, summary.Orders)
	assert.Equal(t, []seed.CategoryCount{
		{Category: "Accessories", Products: 3, TotalStock: 290},
		{Category: "Electronics", Products: 2, TotalStock: 65},
	}, summary.Categories)

	seeded, err = seed.SeedIfEmpty(ctx, db)
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, seed.Seed(ctx, db, true))
	require.NoError(t, seed.Seed(ctx, db, true))

	summary, err = seed.Summarize(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 15, summary.Products)
	assert.Equal(t, 13, summary.Orders)
	assert.Equal(t, []seed.StatusCount{
		{Status: "Delivered", Orders: 4},
		{Status: "Processing", Orders: 5},
		{Status: "Shipped", Orders: 4},
	}, summary.Statuses)
}
