package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/cart"
	"github.com/chrisdamba/besteats/internal/catalog"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/repositories/memory"
)

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = parseID("twelve")
	assert.EqualError(t, err, `invalid item id "twelve"`)
}

func TestPrintItems(t *testing.T) {
	var buf bytes.Buffer
	printItems(&buf, nil)
	assert.Equal(t, "No items found\n", buf.String())

	buf.Reset()
	printItems(&buf, []models.CatalogItem{
		{ID: 3, Name: "Pancakes", Price: decimal.RequireFromString("6.5"), Category: "breakfast", Popular: true},
	})
	assert.Contains(t, buf.String(), "Pancakes")
	assert.Contains(t, buf.String(), "$6.50")
	assert.Contains(t, buf.String(), "[popular]")
}

func TestPrintCart(t *testing.T) {
	ctx := context.Background()
	store := cart.Open(ctx, memory.NewSlotRepository(), nil)

	var buf bytes.Buffer
	printCart(&buf, store)
	assert.Equal(t, "Your cart is empty\n", buf.String())

	_, err := store.AddToCart(ctx, models.CatalogItem{ID: 1, Name: "Burger", Price: decimal.NewFromInt(5)}, 2)
	require.NoError(t, err)
	buf.Reset()
	printCart(&buf, store)
	assert.Contains(t, buf.String(), "$10.00")
	assert.Contains(t, buf.String(), "Total: $10.00\n")
}

func TestExportLocation(t *testing.T) {
	assert.Equal(t, "menu.parquet", exportLocation(catalog.ExportTarget{Path: "menu.parquet"}))
	assert.Equal(t, "s3://menus/exports/menu.parquet",
		exportLocation(catalog.ExportTarget{Path: "/exports/menu.parquet", Bucket: "menus"}))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"catalog", "list"}, {"catalog", "seed"}, {"catalog", "export"},
		{"cart", "add"}, {"cart", "rm"}, {"fav", "assign"},
		{"order"}, {"contact"}, {"quick-order"}, {"status"}, {"serve"},
	} {
		c, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
	assert.Contains(t, contactCmd.Long, "floating")
}

func TestCommandFlagsReadThroughViper(t *testing.T) {
	assert.Equal(t, "cmd.order.share_location", flagKey("order", "share-location"))

	assert.Equal(t, "delivery", viper.GetString(flagKey("order", "delivery")))
	assert.False(t, viper.GetBool(flagKey("order", "ack")))
	assert.Equal(t, 1, viper.GetInt(flagKey("quick_order", "qty")))
	assert.Equal(t, models.AllFavoritesList, viper.GetString(flagKey("fav_list", "list")))

	flags := orderCmd.Flags()
	require.NoError(t, flags.Set("payment", "online"))
	require.NoError(t, flags.Set("reference", "INV-7"))
	require.NoError(t, flags.Set("share-location", "true"))
	require.NoError(t, catalogListCmd.Flags().Set("category", "burger,pizza"))
	t.Cleanup(func() {
		for name, value := range map[string]string{"payment": "cash", "reference": "", "share-location": "false"} {
			_ = flags.Set(name, value)
			flags.Lookup(name).Changed = false
		}
		_ = catalogListCmd.Flags().Lookup("category").Value.(interface{ Replace([]string) error }).Replace(nil)
		catalogListCmd.Flags().Lookup("category").Changed = false
	})

	assert.Equal(t, "online", viper.GetString(flagKey("order", "payment")))
	assert.Equal(t, "INV-7", viper.GetString(flagKey("order", "reference")))
	assert.True(t, viper.GetBool(flagKey("order", "share-location")))
	assert.Equal(t, []string{"burger", "pizza"}, viper.GetStringSlice(flagKey("catalog_list", "category")))
}
