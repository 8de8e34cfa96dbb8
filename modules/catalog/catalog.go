// Package catalog owns products and categories: plain CRUD over the
// document store, plus the two product events the notification subsystem
// cares about (price changes and restocks).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopkit-dev/shopkit/pkg/eventbus"
	"github.com/shopkit-dev/shopkit/pkg/jsonstore"
)

var (
	// ErrInvalidProduct is returned when product fields fail validation.
	ErrInvalidProduct = errors.New("catalog: invalid product")

	// ErrInvalidCategory is returned when category fields fail validation.
	ErrInvalidCategory = errors.New("catalog: invalid category")

	// ErrNotFound is returned when a product or category does not exist.
	ErrNotFound = errors.New("catalog: not found")

	// ErrDuplicateCategory is returned when a category name already exists.
	ErrDuplicateCategory = errors.New("catalog: category already exists")
)

// Product is a catalog entry.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int64   `json:"stock"`
}

// Category groups products by name.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Service encapsulates catalog business logic. Price and stock changes are
// announced on the event bus; the service neither knows nor cares who
// listens.
type Service struct {
	store  *jsonstore.Store
	bus    *eventbus.Bus
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a catalog service over the given store and bus.
func NewService(store *jsonstore.Store, bus *eventbus.Bus, opts ...Option) *Service {
	s := &Service{store: store, bus: bus, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products returns every product.
func (s *Service) Products(context.Context) ([]Product, error) {
	return decodeProducts(s.store.Get("products")), nil
}

// ProductByID returns one product or ErrNotFound.
func (s *Service) ProductByID(_ context.Context, id int64) (*Product, error) {
	for _, rec := range s.store.Get("products") {
		if jsonstore.RecordID(rec) == id {
			p := productFromRecord(rec)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
}

// ProductsByCategory returns the products in one category.
func (s *Service) ProductsByCategory(_ context.Context, category string) ([]Product, error) {
	return decodeProducts(s.store.Query("products", func(rec jsonstore.Record) bool {
		c, _ := rec["category"].(string)
		return c == category
	})), nil
}

// CreateProduct validates and persists a new product, assigning its id.
func (s *Service) CreateProduct(_ context.Context, p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Category == "" {
		return Product{}, fmt.Errorf("%w: category is required", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	err := s.store.Update("products", func(records []jsonstore.Record) []jsonstore.Record {
		var maxID int64
		for _, rec := range records {
			if id := jsonstore.RecordID(rec); id > maxID {
				maxID = id
			}
		}
		p.ID = maxID + 1
		return append(records, productToRecord(p))
	})
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// UpdatePrice changes a product's price and publishes product_price_changed
// for the given user when the price actually moved.
func (s *Service) UpdatePrice(ctx context.Context, productID int64, newPrice float64, notifyUserID int64) (*Product, error) {
	if newPrice < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	p, err := s.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	oldPrice := p.Price
	if oldPrice == newPrice {
		return p, nil
	}

	p.Price = newPrice
	if _, err := s.store.ReplaceByID("products", productID, jsonstore.Record{"price": newPrice}); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, eventbus.Event{
		Name: eventbus.ProductPriceChanged,
		Payload: eventbus.Payload{
			UserID:      notifyUserID,
			ProductID:   p.ID,
			ProductName: p.Name,
			OldPrice:    oldPrice,
			NewPrice:    newPrice,
		},
	})
	return p, nil
}

// Restock raises a product's stock level. Going from zero to a positive
// stock publishes product_back_in_stock for the given user.
func (s *Service) Restock(ctx context.Context, productID int64, quantity int64, notifyUserID int64) (*Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", ErrInvalidProduct)
	}

	p, err := s.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	wasOut := p.Stock == 0
	p.Stock += quantity
	if _, err := s.store.ReplaceByID("products", productID, jsonstore.Record{"stock": p.Stock}); err != nil {
		return nil, err
	}

	if wasOut {
		s.bus.Publish(ctx, eventbus.Event{
			Name: eventbus.ProductBackInStock,
			Payload: eventbus.Payload{
				UserID:      notifyUserID,
				ProductID:   p.ID,
				ProductName: p.Name,
			},
		})
	}
	return p, nil
}

// DeleteProduct removes a product, reporting whether it existed.
func (s *Service) DeleteProduct(_ context.Context, id int64) (bool, error) {
	return s.store.RemoveByID("products", id)
}

// Categories returns every category.
func (s *Service) Categories(context.Context) ([]Category, error) {
	records := s.store.Get("categories")
	out := make([]Category, 0, len(records))
	for _, rec := range records {
		out = append(out, Category{
			ID:   jsonstore.RecordID(rec),
			Name: recordString(rec, "name"),
		})
	}
	return out, nil
}

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	if name == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}

	existing, _ := s.Categories(ctx)
	for _, c := range existing {
		if c.Name == name {
			return Category{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
	}

	var created Category
	err := s.store.Update("categories", func(records []jsonstore.Record) []jsonstore.Record {
		var maxID int64
		for _, rec := range records {
			if id := jsonstore.RecordID(rec); id > maxID {
				maxID = id
			}
		}
		created = Category{ID: maxID + 1, Name: name}
		return append(records, jsonstore.Record{"id": created.ID, "name": created.Name})
	})
	if err != nil {
		return Category{}, err
	}
	return created, nil
}

func productToRecord(p Product) jsonstore.Record {
	return jsonstore.Record{
		"id":       p.ID,
		"name":     p.Name,
		"category": p.Category,
		"price":    p.Price,
		"stock":    p.Stock,
	}
}

func productFromRecord(rec jsonstore.Record) Product {
	return Product{
		ID:       jsonstore.RecordID(rec),
		Name:     recordString(rec, "name"),
		Category: recordString(rec, "category"),
		Price:    recordFloat(rec, "price"),
		Stock:    recordInt(rec, "stock"),
	}
}

func decodeProducts(records []jsonstore.Record) []Product {
	out := make([]Product, 0, len(records))
	for _, rec := range records {
		out = append(out, productFromRecord(rec))
	}
	return out
}

func recordString(rec jsonstore.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

func recordFloat(rec jsonstore.Record, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
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
