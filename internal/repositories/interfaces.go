package repositories

import (
	"context"
	"errors"

	"github.com/chrisdamba/besteats/internal/models"
)

// ErrSlotNotFound is returned by SlotStore.Load when nothing was saved under the key.
var ErrSlotNotFound = errors.New("slot not found")

// SlotStore is the durable string-keyed storage that cart and favorites serialize into.
type SlotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, menuItems []*models.CatalogItem) error
	GetAll(ctx context.Context) ([]*models.CatalogItem, error)
	GetByCategory(ctx context.Context, category string) ([]*models.CatalogItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
