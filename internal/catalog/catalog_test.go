package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/models"
)

func menu(t *testing.T) *Catalog {
	t.Helper()
	c, err := New([]models.CatalogItem{
		{ID: 1, Name: "Classic Cheeseburger", Price: decimal.RequireFromString("12.50"), Category: "burger"},
		{ID: 2, Name: "Margherita", Price: decimal.RequireFromString("9"), Category: "pizza"},
		{ID: 3, Name: "Caesar Salad", Price: decimal.RequireFromString("7.25"), Category: "salad"},
		{ID: 4, Name: "Chicken Burger", Price: decimal.RequireFromString("31"), Category: "chicken"},
	})
	require.NoError(t, err)
	return c
}

func ids(items []models.CatalogItem) []int64 {
	var out []int64
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestNewRejectsInvalidItems(t *testing.T) {
	_, err := New([]models.CatalogItem{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New([]models.CatalogItem{{ID: 1, Name: " "}})
	assert.Error(t, err)

	_, err = New([]models.CatalogItem{{ID: 1, Name: "a", Price: decimal.NewFromInt(-1)}})
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	c := menu(t)

	it, err := c.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Margherita", it.Name)

	_, err = c.Get(99)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, []string{"burger", "pizza", "salad", "chicken"}, c.Categories())
}

func TestAllReturnsCopy(t *testing.T) {
	c := menu(t)
	items := c.All()
	items[0].Name = "changed"
	it, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Classic Cheeseburger", it.Name)
}

func TestSearch(t *testing.T) {
	c := menu(t)

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(c.Search(Query{})))
	assert.Equal(t, []int64{1, 4}, ids(c.Search(Query{Text: "BURGER"})), "matches name or category")
	assert.Equal(t, []int64{2}, ids(c.Search(Query{Categories: []string{"pizza"}})))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(c.Search(Query{Categories: []string{"All"}})))
	assert.Equal(t, []int64{4, 1, 2, 3}, ids(c.Search(Query{Sort: SortPriceHigh})))
	assert.Equal(t, []int64{3, 2, 1, 4}, ids(c.Search(Query{Sort: SortPriceLow})))

	var q Query
	require.NoError(t, q.ApplyPriceRange("$$"))
	assert.Equal(t, []int64{1}, ids(c.Search(q)))
	require.NoError(t, q.ApplyPriceRange("$$$$"))
	assert.Equal(t, []int64{4}, ids(c.Search(q)))
	assert.Error(t, q.ApplyPriceRange("$$$$$"))
}
