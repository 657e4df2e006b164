package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/besteats/internal/models"
)

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

const menuItemColumns = `id, name, description, price, category, popular, is_new, image`

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.CatalogItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{"id", "name", "description", "price", "category", "popular", "is_new", "image"},
		pgx.CopyFromSlice(len(menuItems), func(i int) ([]interface{}, error) {
			return []interface{}{
				menuItems[i].ID,
				menuItems[i].Name,
				menuItems[i].Description,
				menuItems[i].Price,
				menuItems[i].Category,
				menuItems[i].Popular,
				menuItems[i].New,
				menuItems[i].Image,
			}, nil
		}),
	)
	return err
}

func (r *MenuItemRepository) GetAll(ctx context.Context) ([]*models.CatalogItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

func (r *MenuItemRepository) GetByCategory(ctx context.Context, category string) ([]*models.CatalogItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE category = $1 ORDER BY id`, category)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

func collectMenuItems(rows pgx.Rows) ([]*models.CatalogItem, error) {
	defer rows.Close()

	var menuItems []*models.CatalogItem
	for rows.Next() {
		menuItem := &models.CatalogItem{}
		err := rows.Scan(
			&menuItem.ID,
			&menuItem.Name,
			&menuItem.Description,
			&menuItem.Price,
			&menuItem.Category,
			&menuItem.Popular,
			&menuItem.New,
			&menuItem.Image,
		)
		if err != nil {
			return nil, err
		}
		menuItems = append(menuItems, menuItem)
	}
	return menuItems, rows.Err()
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items")
	return err
}
