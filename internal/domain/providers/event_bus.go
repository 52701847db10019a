package providers

import (
	"context"

	"github.com/chatori/chatori-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// stall change events.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.StallEvent) error

	// Subscribe subscribes to events on a channel; the returned channel
	// closes when ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.StallEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// Event channel constants.
const (
	// EventChannelStallUpdates is the channel carrying all stall updates
	EventChannelStallUpdates = "stall:updates"

	// EventChannelStallPrefix is the prefix for stall-specific channels
	EventChannelStallPrefix = "stall:"
)

// GetStallChannel returns the channel name for a specific stall.
func GetStallChannel(stallID string) string {
	return EventChannelStallPrefix + stallID
}
