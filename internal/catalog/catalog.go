// Package catalog serves the read-only menu.
//
// A Catalog is built once from a source (file, generated demo data or the
// menu_items table) and never changes afterwards.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chrisdamba/besteats/internal/models"
)

var ErrItemNotFound = errors.New("catalog item not found")

// Accessor is what the rest of the service reads the menu through.
type Accessor interface {
	All() []models.CatalogItem
	Get(id int64) (models.CatalogItem, error)
}

type Catalog struct {
	items []models.CatalogItem
	byID  map[int64]int
}

// New validates items and freezes them. IDs must be unique and names non-empty.
func New(items []models.CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]models.CatalogItem, 0, len(items)),
		byID:  make(map[int64]int, len(items)),
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("catalog item %d has no name", it.ID)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("catalog item %d has a negative price", it.ID)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog item id %d", it.ID)
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

func (c *Catalog) All() []models.CatalogItem {
	out := make([]models.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) Get(id int64) (models.CatalogItem, error) {
	idx, ok := c.byID[id]
	if !ok {
		return models.CatalogItem{}, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	return c.items[idx], nil
}

// Categories lists the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, it := range c.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
)

// Query narrows the menu. Zero values match everything.
type Query struct {
	Text       string
	Categories []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       SortOrder
}

// Search matches Text case-insensitively against name and category, then applies
// the category and price filters and the sort order.
func (c *Catalog) Search(q Query) []models.CatalogItem {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	cats := make(map[string]bool, len(q.Categories))
	for _, cat := range q.Categories {
		if cat = strings.TrimSpace(cat); cat != "" && !strings.EqualFold(cat, "all") {
			cats[strings.ToLower(cat)] = true
		}
	}

	var out []models.CatalogItem
	for _, it := range c.items {
		if text != "" &&
			!strings.Contains(strings.ToLower(it.Name), text) &&
			!strings.Contains(strings.ToLower(it.Category), text) {
			continue
		}
		if len(cats) > 0 && !cats[strings.ToLower(it.Category)] {
			continue
		}
		if q.MinPrice != nil && it.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && !it.Price.LessThan(*q.MaxPrice) {
			continue
		}
		out = append(out, it)
	}

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	}
	return out
}

// PriceRange is a named [Min, Max) band; Max nil means unbounded.
type PriceRange struct {
	ID    string
	Label string
	Min   decimal.Decimal
	Max   *decimal.Decimal
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var PriceRanges = []PriceRange{
	{ID: "$", Label: "Under $10", Min: decimal.Zero, Max: bound(10)},
	{ID: "$$", Label: "$10 - $20", Min: decimal.NewFromInt(10), Max: bound(20)},
	{ID: "$$$", Label: "$20 - $30", Min: decimal.NewFromInt(20), Max: bound(30)},
	{ID: "$$$$", Label: "$30+", Min: decimal.NewFromInt(30)},
}

// ApplyPriceRange sets the query bounds from a range id such as "$$".
func (q *Query) ApplyPriceRange(id string) error {
	for _, r := range PriceRanges {
		if r.ID == id {
			lower := r.Min
			q.MinPrice = &lower
			q.MaxPrice = r.Max
			return nil
		}
	}
	return fmt.Errorf("unknown price range %q", id)
}
