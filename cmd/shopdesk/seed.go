package main

import (
	"fmt"

	"github.com/sandevgo/shopdesk/internal/config"
	"github.com/sandevgo/shopdesk/internal/service/ui"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite/seed"
	"github.com/sandevgo/shopdesk/pkg/log"
	"github.com/spf13/cobra"
)

var extended bool

var seedCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Load the sample catalog into the database",
	Long:         `Inserts the sample products and orders. Existing rows are kept, so running it twice is harmless.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx); err != nil {
			return err
		}
		appCfg := config.NewAppConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.DBDriver, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := seed.Seed(ctx, db, extended); err != nil {
			return err
		}

		summary, err := seed.Summarize(ctx, db)
		if err != nil {
			return err
		}
		logger.Info().Str("path", appCfg.GetDatabasePath()).Msg("database ready")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.TitleStyle.Render("CATALOG"))
		fmt.Fprintf(out, "  %s %d\n", ui.UsageStyle.Render("products"), summary.Products)
		fmt.Fprintf(out, "  %s %d\n", ui.UsageStyle.Render("orders  "), summary.Orders)
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.TitleStyle.Render("CATEGORIES"))
		for _, c := range summary.Categories {
			fmt.Fprintf(out, "  %-14s %s\n", c.Category, ui.DescStyle.Render(fmt.Sprintf("%d products, %d in stock", c.Products, c.TotalStock)))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.TitleStyle.Render("ORDER STATUSES"))
		for _, s := range summary.Statuses {
			fmt.Fprintf(out, "  %-14s %s\n", s.Status, ui.DescStyle.Render(fmt.Sprintf("%d orders", s.Orders)))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&extended, "extended", false, "also load the extended sample dataset")
	rootCmd.AddCommand(seedCmd)
}
