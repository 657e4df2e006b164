package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/besteats/internal/app"
	"github.com/chrisdamba/besteats/internal/catalog"
	"github.com/chrisdamba/besteats/internal/cloudwriter"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/repositories/postgres"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"menu"},
	Short:   "Browse and manage the menu",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List menu items, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: withSession(func(cmd *cobra.Command, _ []string, s *app.Session) error {
		q := catalog.Query{
			Text:       viper.GetString(flagKey("catalog_list", "search")),
			Categories: viper.GetStringSlice(flagKey("catalog_list", "category")),
			Sort:       catalog.SortOrder(viper.GetString(flagKey("catalog_list", "sort"))),
		}
		if price := viper.GetString(flagKey("catalog_list", "price")); price != "" {
			if err := q.ApplyPriceRange(price); err != nil {
				return err
			}
		}
		printItems(cmd.OutOrStdout(), s.Catalog.Search(q))
		return nil
	}),
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the menu stored in Postgres",
	Long: `seed writes the menu into the menu_items table used by the postgres catalog source.
Items come from --file when given, otherwise from the faker generator.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Catalog.PostgresDSN == "" {
			return fmt.Errorf("catalog.postgres_dsn is required to seed the menu")
		}
		items, err := sourceItems(viper.GetString(flagKey("catalog_seed", "file")), cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := postgres.Connect(ctx, cfg.Catalog.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := postgres.NewMenuItemRepository(pool)
		if err := catalog.Seed(ctx, repo, items, os.Stderr); err != nil {
			return err
		}
		stored, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d menu items\n", stored)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the menu as a parquet file, locally or to S3",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := viper.GetString(flagKey("catalog_export", "out"))
		bucket := viper.GetString(flagKey("catalog_export", "bucket"))
		if out == "" {
			return fmt.Errorf("--out is required")
		}

		ctx := cmd.Context()
		menu, err := app.LoadCatalog(ctx, cfg.Catalog)
		if err != nil {
			return err
		}

		target := catalog.ExportTarget{Path: out, Bucket: bucket}
		if bucket != "" {
			factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.Storage.S3Region)
			if err != nil {
				return err
			}
			target.Factory = factory
		}
		if err := catalog.ExportParquet(ctx, menu.All(), target, os.Stderr); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d menu items to %s\n", menu.Len(), exportLocation(target))
		return nil
	},
}

func sourceItems(path string, cfg *models.Config) ([]models.CatalogItem, error) {
	if path != "" {
		menu, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return menu.All(), nil
	}
	return catalog.NewFactory(cfg.Catalog.Seed).Generate(cfg.Catalog.Size), nil
}

func exportLocation(t catalog.ExportTarget) string {
	if t.Bucket != "" {
		return "s3://" + t.Bucket + "/" + strings.TrimPrefix(t.Path, "/")
	}
	return t.Path
}

func printItems(w io.Writer, items []models.CatalogItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found")
		return
	}
	for _, it := range items {
		line := fmt.Sprintf("%4d  %-32s %8s  %s", it.ID, it.Name, models.FormatPrice(it.Price), it.Category)
		if flags := it.Flags(); len(flags) > 0 {
			line += "  [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	catalogListCmd.Flags().StringP("search", "s", "", "match item name or category")
	catalogListCmd.Flags().StringSlice("category", nil, "only these categories")
	catalogListCmd.Flags().String("price", "", "price range: $, $$, $$$ or $$$$")
	catalogListCmd.Flags().String("sort", string(catalog.SortRelevance), "relevance, price-low or price-high")

	catalogSeedCmd.Flags().String("file", "", "JSON or YAML menu to seed instead of generated items")

	catalogExportCmd.Flags().String("out", "", "output path, or object key when --bucket is set")
	catalogExportCmd.Flags().String("bucket", "", "S3 bucket to upload the export to")

	bindFlags("catalog_list", catalogListCmd)
	bindFlags("catalog_seed", catalogSeedCmd)
	bindFlags("catalog_export", catalogExportCmd)

	catalogCmd.AddCommand(catalogListCmd, catalogSeedCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
