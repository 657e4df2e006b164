// Package app wires one profile's services together and tears them down again.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/chrisdamba/besteats/internal/availability"
	"github.com/chrisdamba/besteats/internal/cart"
	"github.com/chrisdamba/besteats/internal/catalog"
	"github.com/chrisdamba/besteats/internal/dispatch"
	"github.com/chrisdamba/besteats/internal/favorites"
	"github.com/chrisdamba/besteats/internal/geo"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/notify"
	"github.com/chrisdamba/besteats/internal/order"
	"github.com/chrisdamba/besteats/internal/repositories"
	"github.com/chrisdamba/besteats/internal/repositories/file"
	"github.com/chrisdamba/besteats/internal/repositories/memory"
	"github.com/chrisdamba/besteats/internal/repositories/postgres"
	"github.com/chrisdamba/besteats/internal/repositories/redis"
	s3slots "github.com/chrisdamba/besteats/internal/repositories/s3"
)

// Options adjust how a session is assembled. Zero values pick the defaults.
type Options struct {
	Logger   *log.Logger
	Notifier notify.Notifier
	Identity *models.Identity
	// Slots overrides the configured storage backend.
	Slots repositories.SlotStore
	// Router overrides the configured dispatch channel.
	Router dispatch.Router
	// Catalog overrides the configured catalog source.
	Catalog *catalog.Catalog
	// Gate overrides the availability gate; it is not started or stopped by the session.
	Gate availability.Checker
}

type Session struct {
	Config    *models.Config
	Logger    *log.Logger
	Notes     *notify.Recorder
	Slots     repositories.SlotStore
	Catalog   *catalog.Catalog
	Gate      availability.Checker
	Cart      *cart.Store
	Favorites *favorites.Store
	Popup     *cart.Popup
	Locator   *geo.Locator
	Router    dispatch.Router
	Checkout  *order.Checkout
	Contact   *order.Contact

	closers []func() error
}

// NewLogger is the process logger every component writes to.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.New(w, "[besteats] ", log.LstdFlags)
}

// Open builds a session for cfg. The availability gate is polled until Close.
func Open(ctx context.Context, cfg *models.Config, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(nil)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}

	s := &Session{
		Config: cfg,
		Logger: logger,
		Notes:  notify.NewRecorder(notifier),
	}

	var err error
	if s.Slots = opts.Slots; s.Slots == nil {
		var closer func() error
		s.Slots, closer, err = OpenSlots(ctx, cfg.Storage, cfg.Profile)
		if err != nil {
			return nil, err
		}
		s.onClose(closer)
	}

	if s.Catalog = opts.Catalog; s.Catalog == nil {
		if s.Catalog, err = LoadCatalog(ctx, cfg.Catalog); err != nil {
			s.Close()
			return nil, err
		}
	}

	if s.Gate = opts.Gate; s.Gate == nil {
		gate := availability.NewGate(
			availability.Hours{Open: cfg.Hours.OpenHour, Close: cfg.Hours.CloseHour},
			availability.WithInterval(cfg.Hours.PollInterval),
			availability.WithLogger(logger),
		)
		unsubscribe := gate.Subscribe(func(st availability.Status) {
			logger.Printf("Orders are now %s", st)
		})
		gate.Start(ctx)
		s.onClose(func() error { gate.Stop(); unsubscribe(); return nil })
		s.Gate = gate
	}

	if s.Router = opts.Router; s.Router == nil {
		router, err := dispatch.New(cfg.Dispatch, cfg.Dispatch.Phone, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		if c, ok := router.(io.Closer); ok {
			s.onClose(c.Close)
		}
		s.Router = router
	}

	resolver, err := geo.NewResolver(cfg.Location)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Locator = geo.NewLocator(resolver, logger)
	s.onClose(func() error { s.Locator.Close(); return nil })

	s.Cart = cart.Open(ctx, s.Slots, logger)
	s.Favorites = favorites.Open(ctx, s.Slots, s.Notes, logger)
	s.Popup = cart.NewPopup(s.Cart, s.Notes, cfg.PopupDelay)
	s.onClose(func() error { s.Popup.Close(); return nil })

	s.Checkout = order.NewCheckout(s.Cart, s.Gate, s.Router,
		order.WithLogger(logger),
		order.WithNotifier(s.Notes),
		order.WithLocation(s.Locator),
		order.WithPaymentTarget(cfg.Payment.QRValue),
		order.WithAcknowledgement(cfg.Dispatch.RequireAck),
	)
	s.Checkout.SetIdentity(opts.Identity)
	s.Contact = order.NewContact(s.Gate, s.Router, s.Notes, cfg.Dispatch.ContactPhone, cfg.Dispatch.FloatingPhone)

	return s, nil
}

func (s *Session) onClose(fn func() error) {
	if fn != nil {
		s.closers = append(s.closers, fn)
	}
}

// Close releases everything Open acquired, most recent first. It is safe to call twice.
func (s *Session) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.Logger.Printf("Error during shutdown: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	s.closers = nil
	return firstErr
}

// OpenSlots connects the configured slot backend. The returned func releases it and may be nil.
func OpenSlots(ctx context.Context, cfg models.StorageConfig, profile string) (repositories.SlotStore, func() error, error) {
	switch cfg.Backend {
	case "memory":
		return memory.NewSlotRepository(), nil, nil
	case "", "file":
		repo, err := file.NewSlotRepository(filepath.Join(cfg.Dir, profile))
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil
	case "redis":
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSlotRepository(client, profile), client.Close, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSlotRepository(pool, profile), func() error { pool.Close(); return nil }, nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, nil, fmt.Errorf("storage.s3_bucket is required for the s3 backend")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		client := awss3.NewFromConfig(awsCfg)
		return s3slots.NewSlotRepository(client, cfg.S3Bucket, cfg.S3Prefix, profile), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

// LoadCatalog builds the menu from the configured source.
func LoadCatalog(ctx context.Context, cfg models.CatalogConfig) (*catalog.Catalog, error) {
	switch cfg.Source {
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("catalog.path is required for the file source")
		}
		return catalog.LoadFile(cfg.Path)
	case "", "faker":
		return catalog.New(catalog.NewFactory(cfg.Seed).Generate(cfg.Size))
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return catalog.LoadRepository(ctx, postgres.NewMenuItemRepository(pool))
	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", cfg.Source)
	}
}
