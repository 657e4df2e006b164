package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/repositories"
)

const seedBatchSize = 100

// LoadRepository reads the whole menu from repo.
func LoadRepository(ctx context.Context, repo repositories.MenuItemRepository) (*Catalog, error) {
	rows, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	items := make([]models.CatalogItem, 0, len(rows))
	for _, it := range rows {
		items = append(items, *it)
	}
	return New(items)
}

// Seed replaces the menu stored in repo with items, reporting progress to progress
// when it is non-nil.
func Seed(ctx context.Context, repo repositories.MenuItemRepository, items []models.CatalogItem, progress io.Writer) error {
	if err := repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear menu items: %w", err)
	}

	bar := newBar(len(items), "Seeding menu items", progress)
	for start := 0; start < len(items); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := make([]*models.CatalogItem, 0, end-start)
		for i := start; i < end; i++ {
			batch = append(batch, &items[i])
		}
		if err := repo.BulkCreate(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert menu items %d-%d: %w", start+1, end, err)
		}
		_ = bar.Add(len(batch))
	}
	return bar.Finish()
}

func newBar(n int, description string, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
