package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/shopkit-dev/shopkit/pkg/jsonstore"
)

// collection is the fixed jsonstore collection backing notifications.
const collection = "notifications"

// Repository is the jsonstore-backed Storage implementation. It owns the
// mapping between the domain model and the loosely typed record shape the
// document store keeps on disk.
type Repository struct {
	store *jsonstore.Store
}

// NewRepository creates a repository over the given store.
func NewRepository(store *jsonstore.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Save(_ context.Context, n Notification) (Notification, error) {
	if err := n.Validate(); err != nil {
		return Notification{}, err
	}
	if n.Status == "" {
		n.Status = StatusPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if n.ID != 0 {
		found, err := r.store.ReplaceByID(collection, n.ID, toRecord(n))
		if err != nil {
			return Notification{}, err
		}
		if !found {
			return Notification{}, fmt.Errorf("%w: id %d", ErrNotFound, n.ID)
		}
		return n, nil
	}

	// ID assignment and append happen inside one store update so two
	// concurrent saves cannot pick the same identifier.
	err := r.store.Update(collection, func(records []jsonstore.Record) []jsonstore.Record {
		var maxID int64
		for _, rec := range records {
			if id := jsonstore.RecordID(rec); id > maxID {
				maxID = id
			}
		}
		n.ID = maxID + 1
		return append(records, toRecord(n))
	})
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *Repository) FindByID(_ context.Context, id int64) (*Notification, error) {
	for _, rec := range r.store.Get(collection) {
		if jsonstore.RecordID(rec) == id {
			n, err := fromRecord(rec)
			if err != nil {
				return nil, err
			}
			return &n, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (r *Repository) FindAll(_ context.Context) ([]Notification, error) {
	return decodeRecords(r.store.Get(collection))
}

func (r *Repository) FindByUser(_ context.Context, userID int64) ([]Notification, error) {
	return decodeRecords(r.store.Query(collection, func(rec jsonstore.Record) bool {
		return recordInt(rec, "user_id") == userID
	}))
}

func (r *Repository) FindByStatus(_ context.Context, status Status) ([]Notification, error) {
	return decodeRecords(r.store.Query(collection, func(rec jsonstore.Record) bool {
		s, _ := rec["status"].(string)
		return Status(s) == status
	}))
}

func (r *Repository) MarkSent(ctx context.Context, id int64) (bool, error) {
	return r.transition(ctx, id, (*Notification).MarkSent)
}

func (r *Repository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	return r.transition(ctx, id, (*Notification).MarkFailed)
}

func (r *Repository) transition(ctx context.Context, id int64, apply func(*Notification) error) (bool, error) {
	n, err := r.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if err := apply(n); err != nil {
		return true, err
	}

	found, err := r.store.ReplaceByID(collection, id, toRecord(*n))
	if err != nil {
		return true, err
	}
	return found, nil
}

func toRecord(n Notification) jsonstore.Record {
	rec := jsonstore.Record{
		"id":                n.ID,
		"user_id":           n.UserID,
		"notification_type": string(n.Channel),
		"title":             n.Title,
		"message":           n.Message,
		"status":            string(n.Status),
		"created_at":        n.CreatedAt.Format(time.RFC3339),
		"sent_at":           nil,
	}
	if n.SentAt != nil {
		rec["sent_at"] = n.SentAt.Format(time.RFC3339)
	}
	return rec
}

func fromRecord(rec jsonstore.Record) (Notification, error) {
	n := Notification{
		ID:      jsonstore.RecordID(rec),
		UserID:  recordInt(rec, "user_id"),
		Channel: Channel(recordString(rec, "notification_type")),
		Title:   recordString(rec, "title"),
		Message: recordString(rec, "message"),
		Status:  Status(recordString(rec, "status")),
	}

	if raw := recordString(rec, "created_at"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Notification{}, fmt.Errorf("%w: bad created_at %q", ErrInvalidNotification, raw)
		}
		n.CreatedAt = ts
	}
	if raw := recordString(rec, "sent_at"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Notification{}, fmt.Errorf("%w: bad sent_at %q", ErrInvalidNotification, raw)
		}
		n.SentAt = &ts
	}
	return n, nil
}

func decodeRecords(records []jsonstore.Record) ([]Notification, error) {
	out := make([]Notification, 0, len(records))
	for _, rec := range records {
		n, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
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

func recordString(rec jsonstore.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}
