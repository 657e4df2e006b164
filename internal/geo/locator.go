// Package geo resolves the user's position when they opt in to sharing it.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/chrisdamba/besteats/internal/models"
)

var ErrUnsupported = errors.New("geolocation is not supported")

type Resolver interface {
	Resolve(ctx context.Context) (models.Location, error)
}

// StaticResolver always answers with the configured coordinates.
type StaticResolver struct {
	Location models.Location
}

func (r StaticResolver) Resolve(ctx context.Context) (models.Location, error) {
	if err := ctx.Err(); err != nil {
		return models.Location{}, err
	}
	return r.Location, nil
}

type unsupportedResolver struct{}

func (unsupportedResolver) Resolve(context.Context) (models.Location, error) {
	return models.Location{}, ErrUnsupported
}

func NewResolver(cfg models.LocationConfig) (Resolver, error) {
	switch cfg.Resolver {
	case "", "none":
		return unsupportedResolver{}, nil
	case "static":
		return StaticResolver{Location: models.Location{Lat: cfg.Latitude, Lon: cfg.Longitude}}, nil
	default:
		return nil, fmt.Errorf("unsupported location resolver: %s", cfg.Resolver)
	}
}

// Locator holds the location line used in order messages. Share starts an asynchronous
// lookup; Link never blocks and reports whatever is known at the time it is called.
type Locator struct {
	resolver Resolver
	logger   *log.Logger

	mu      sync.Mutex
	shared  bool
	link    string
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

func NewLocator(resolver Resolver, logger *log.Logger) *Locator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Locator{resolver: resolver, logger: logger}
}

// Share enables location sharing and resolves the position in the background.
// done, if non-nil, is called with the resulting link once the lookup finishes.
func (l *Locator) Share(done func(link string)) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.shared = true
	l.link = ""
	l.pending.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.pending.Done()
		loc, err := l.resolver.Resolve(ctx)
		if ctx.Err() != nil {
			return
		}

		link := models.LocationUnavailable
		if err != nil {
			l.logger.Printf("Location lookup failed: %v", err)
		} else {
			link = loc.MapLink()
		}

		l.mu.Lock()
		if !l.shared || ctx.Err() != nil {
			l.mu.Unlock()
			return
		}
		l.link = link
		l.mu.Unlock()

		if done != nil {
			done(link)
		}
	}()
}

// Disable stops sharing and drops any resolved link.
func (l *Locator) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.shared = false
	l.link = ""
}

func (l *Locator) Shared() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shared
}

// Link is the map link, LocationUnavailable if the lookup failed, or LocationNotShared
// when sharing is off or the lookup has not finished.
func (l *Locator) Link() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.shared || l.link == "" {
		return models.LocationNotShared
	}
	return l.link
}

// Close cancels an in-flight lookup and waits for it to return.
func (l *Locator) Close() {
	l.Disable()
	l.pending.Wait()
}
