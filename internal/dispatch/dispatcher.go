// Package dispatch hands a finished order message to the external channel.
//
// Delivery is fire-and-forget: a nil error means the hand-off happened, not that
// anyone read the message.
package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/chrisdamba/besteats/internal/models"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, msg string) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, msg string) error

func (f DispatcherFunc) Dispatch(ctx context.Context, msg string) error {
	return f(ctx, msg)
}

// Router is a Dispatcher that can be re-addressed to another destination phone.
// Re-addressed copies share the underlying channel.
type Router interface {
	Dispatcher
	To(phone string) Dispatcher
}

// New builds the dispatcher for the configured channel, addressed to phone.
// The Kafka router implements io.Closer and must be closed by its owner.
func New(cfg models.DispatchConfig, phone string, logger *log.Logger) (Router, error) {
	switch cfg.Channel {
	case "", "deeplink":
		opener, err := NewOpener(cfg.Opener, logger)
		if err != nil {
			return nil, err
		}
		return NewDeepLink(phone, opener), nil
	case "kafka":
		return NewKafka(cfg.KafkaBrokerList, cfg.KafkaTopic, phone, logger)
	default:
		return nil, fmt.Errorf("unsupported dispatch channel: %s", cfg.Channel)
	}
}
