package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/availability"
	"github.com/chrisdamba/besteats/internal/dispatch"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/order"
)

type openGate struct{}

func (openGate) Status() availability.Status { return availability.Open }
func (openGate) Hours() availability.Hours   { return availability.DefaultHours }

func testConfig(dir string) *models.Config {
	return &models.Config{
		Profile: "test",
		Hours:   models.HoursConfig{OpenHour: 10, CloseHour: 23, PollInterval: time.Minute},
		Storage: models.StorageConfig{Backend: "file", Dir: dir},
		Catalog: models.CatalogConfig{Source: "faker", Seed: 42, Size: 12},
		Dispatch: models.DispatchConfig{
			Channel:       "deeplink",
			Opener:        "log",
			Phone:         "963111111111",
			ContactPhone:  "1234567890",
			FloatingPhone: "49123456789",
		},
		Payment:    models.PaymentConfig{QRValue: "48646216546511658468"},
		Location:   models.LocationConfig{Resolver: "none"},
		PopupDelay: 50 * time.Millisecond,
	}
}

func TestSessionPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var logs bytes.Buffer
	opts := Options{Logger: NewLogger(&logs), Gate: openGate{}}

	s, err := Open(ctx, testConfig(dir), opts)
	require.NoError(t, err)
	item, err := s.Catalog.Get(1)
	require.NoError(t, err)
	_, err = s.Cart.AddToCart(ctx, item, 2)
	require.NoError(t, err)
	_, err = s.Favorites.ToggleFavorite(ctx, item)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(filepath.Join(dir, "test", "cart.json"))
	require.NoError(t, err)

	s, err = Open(ctx, testConfig(dir), opts)
	require.NoError(t, err)
	defer s.Close()
	line, ok := s.Cart.Line(1)
	require.True(t, ok)
	assert.Equal(t, 2, line.Qty)
	assert.True(t, s.Favorites.IsFavorite(1))
	assert.Contains(t, logs.String(), "added to cart")
}

func TestSessionCheckout(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t.TempDir())
	cfg.Storage.Backend = "memory"
	opener := dispatch.NewLogOpener(nil)

	s, err := Open(ctx, cfg, Options{
		Gate:     openGate{},
		Router:   dispatch.NewDeepLink(cfg.Dispatch.Phone, opener),
		Identity: &models.Identity{Name: "Sam"},
	})
	require.NoError(t, err)
	defer s.Close()

	item, err := s.Catalog.Get(3)
	require.NoError(t, err)
	_, err = s.Cart.AddToCart(ctx, item, 1)
	require.NoError(t, err)

	res, err := s.Checkout.Submit(ctx, order.Request{Payment: models.PaymentMethodCash})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "Customer: Sam\n")
	assert.Contains(t, res.Message, "Location: Not shared\n")
	assert.Contains(t, opener.Last(), "https://wa.me/963111111111?text=")
	assert.Equal(t, 0, s.Cart.Len())

	require.NoError(t, s.Contact.Contact(ctx, order.SurfaceFloating))
	assert.Contains(t, opener.Last(), "https://wa.me/49123456789?text=")
}

func TestSessionStartsGate(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Storage.Backend = "memory"
	s, err := Open(context.Background(), cfg, Options{})
	require.NoError(t, err)
	_, ok := s.Gate.(*availability.Gate)
	assert.True(t, ok)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestOpenRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t.TempDir())
	cfg.Storage.Backend = "floppy"
	_, err := Open(ctx, cfg, Options{})
	assert.ErrorContains(t, err, "unsupported storage backend")

	cfg = testConfig(t.TempDir())
	cfg.Catalog.Source = "fax"
	_, err = Open(ctx, cfg, Options{})
	assert.ErrorContains(t, err, "unsupported catalog source")

	cfg = testConfig(t.TempDir())
	cfg.Dispatch.Channel = "pigeon"
	_, err = Open(ctx, cfg, Options{})
	assert.ErrorContains(t, err, "unsupported dispatch channel")

	_, _, err = OpenSlots(ctx, models.StorageConfig{Backend: "s3"}, "p")
	assert.ErrorContains(t, err, "s3_bucket")
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: 5\n  name: Tea\n  price: \"$1.50\"\n  category: drinks\n"), 0o644))

	c, err := LoadCatalog(context.Background(), models.CatalogConfig{Source: "file", Path: path})
	require.NoError(t, err)
	item, err := c.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "$1.50", models.FormatPrice(item.Price))

	_, err = LoadCatalog(context.Background(), models.CatalogConfig{Source: "file"})
	assert.Error(t, err)
}
