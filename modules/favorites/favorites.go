// Package favorites lets users bookmark products. Adding a favorite is the
// canonical event producer in this codebase: it publishes favorite_added on
// the bus, which the notification dispatcher turns into an email.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopkit-dev/shopkit/pkg/eventbus"
	"github.com/shopkit-dev/shopkit/pkg/jsonstore"
)

var (
	// ErrInvalidFavorite is returned when user or product id is missing.
	ErrInvalidFavorite = errors.New("favorites: invalid favorite")
)

// Favorite links a user to a product.
type Favorite struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
}

// ProductNamer resolves a product id to its display name for event payloads.
// The catalog service satisfies this; tests can stub it.
type ProductNamer interface {
	ProductName(ctx context.Context, productID int64) string
}

// ProductNamerFunc adapts a function to the ProductNamer interface.
type ProductNamerFunc func(ctx context.Context, productID int64) string

func (f ProductNamerFunc) ProductName(ctx context.Context, productID int64) string {
	return f(ctx, productID)
}

// Service encapsulates favorites logic.
type Service struct {
	store  *jsonstore.Store
	bus    *eventbus.Bus
	namer  ProductNamer
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithProductNamer sets the resolver used to enrich favorite_added events
// with the product's display name.
func WithProductNamer(namer ProductNamer) Option {
	return func(s *Service) {
		s.namer = namer
	}
}

// WithLogger sets the logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a favorites service over the given store and bus.
func NewService(store *jsonstore.Store, bus *eventbus.Bus, opts ...Option) *Service {
	s := &Service{store: store, bus: bus, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add persists the favorite and publishes favorite_added. Favoriting the
// same product twice is a no-op that publishes nothing.
func (s *Service) Add(ctx context.Context, userID, productID int64) (Favorite, error) {
	if userID <= 0 || productID <= 0 {
		return Favorite{}, fmt.Errorf("%w: user and product ids are required", ErrInvalidFavorite)
	}

	if existing := s.find(userID, productID); existing != nil {
		return *existing, nil
	}

	fav := Favorite{UserID: userID, ProductID: productID}
	err := s.store.Update("favorites", func(records []jsonstore.Record) []jsonstore.Record {
		var maxID int64
		for _, rec := range records {
			if id := jsonstore.RecordID(rec); id > maxID {
				maxID = id
			}
		}
		fav.ID = maxID + 1
		return append(records, jsonstore.Record{
			"id":         fav.ID,
			"user_id":    fav.UserID,
			"product_id": fav.ProductID,
		})
	})
	if err != nil {
		return Favorite{}, err
	}

	name := ""
	if s.namer != nil {
		name = s.namer.ProductName(ctx, productID)
	}

	s.bus.Publish(ctx, eventbus.Event{
		Name: eventbus.FavoriteAdded,
		Payload: eventbus.Payload{
			UserID:      userID,
			ProductID:   productID,
			ProductName: name,
		},
	})
	return fav, nil
}

// Remove deletes the favorite, reporting whether it existed.
func (s *Service) Remove(_ context.Context, userID, productID int64) (bool, error) {
	existing := s.find(userID, productID)
	if existing == nil {
		return false, nil
	}
	return s.store.RemoveByID("favorites", existing.ID)
}

// ListByUser returns a user's favorites.
func (s *Service) ListByUser(_ context.Context, userID int64) ([]Favorite, error) {
	records := s.store.Query("favorites", func(rec jsonstore.Record) bool {
		return recordInt(rec, "user_id") == userID
	})

	out := make([]Favorite, 0, len(records))
	for _, rec := range records {
		out = append(out, favoriteFromRecord(rec))
	}
	return out, nil
}

// IsFavorite reports whether the user has favorited the product.
func (s *Service) IsFavorite(_ context.Context, userID, productID int64) bool {
	return s.find(userID, productID) != nil
}

func (s *Service) find(userID, productID int64) *Favorite {
	records := s.store.Query("favorites", func(rec jsonstore.Record) bool {
		return recordInt(rec, "user_id") == userID && recordInt(rec, "product_id") == productID
	})
	if len(records) == 0 {
		return nil
	}
	fav := favoriteFromRecord(records[0])
	return &fav
}

func favoriteFromRecord(rec jsonstore.Record) Favorite {
	return Favorite{
		ID:        jsonstore.RecordID(rec),
		UserID:    recordInt(rec, "user_id"),
		ProductID: recordInt(rec, "product_id"),
	}
}

func recordInt(rec jsonstore.Record, key string) int64 {
	switch v := rec[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
