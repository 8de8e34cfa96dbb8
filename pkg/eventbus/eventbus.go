package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Name tags a domain event. The known kinds are declared as constants so
// consumers can switch over them exhaustively; producers may still publish
// names the dispatcher does not know, which subscribers must ignore.
type Name string

const (
	FavoriteAdded       Name = "favorite_added"
	ProductPriceChanged Name = "product_price_changed"
	ProductBackInStock  Name = "product_back_in_stock"
)

// Payload carries the attributes of a domain event. Not every field is set
// for every event kind; each producer documents what it fills in.
type Payload struct {
	UserID      int64
	ProductID   int64
	ProductName string
	OldPrice    float64
	NewPrice    float64
}

// Event is a named occurrence with its payload. Events are transient: they
// are handed to subscribers and never persisted.
type Event struct {
	Name    Name
	Payload Payload
}

// Observer receives published events. Implementations are invoked
// synchronously on the publisher's goroutine and should return quickly.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Bus is a synchronous subject in the observer pattern. Subscribers are
// notified in subscription order and publishing blocks until every
// subscriber has handled the event.
type Bus struct {
	logger *slog.Logger

	mu        sync.Mutex
	observers []Observer
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger for the Bus.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an event bus with no subscribers.
func New(opts ...Option) *Bus {
	b := &Bus{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers an observer. Subscribing the same observer twice is a
// no-op, so an observer is notified at most once per event. The bus does not
// own its observers; they are constructed and kept alive elsewhere.
func (b *Bus) Subscribe(o Observer) {
	if o == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, existing := range b.observers {
		if existing == o {
			return
		}
	}
	b.observers = append(b.observers, o)
	b.logger.Debug("observer subscribed", slog.Int("subscribers", len(b.observers)))
}

// Unsubscribe removes an observer. Removing an observer that was never
// subscribed is a no-op.
func (b *Bus) Unsubscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.observers {
		if existing == o {
			b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
			b.logger.Debug("observer unsubscribed", slog.Int("subscribers", len(b.observers)))
			return
		}
	}
}

// Publish delivers the event to every current subscriber, in subscription
// order, on the caller's goroutine. The subscriber list is snapshotted under
// the lock first, so observers may subscribe or unsubscribe from within
// OnEvent without affecting the in-flight delivery.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.Lock()
	snapshot := make([]Observer, len(b.observers))
	copy(snapshot, b.observers)
	b.mu.Unlock()

	b.logger.Debug("publishing event",
		slog.String("event", string(event.Name)),
		slog.Int("subscribers", len(snapshot)),
	)

	for _, o := range snapshot {
		o.OnEvent(ctx, event)
	}
}

// SubscriberCount returns the number of currently subscribed observers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}
