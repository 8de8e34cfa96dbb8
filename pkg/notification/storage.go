package notification

import "context"

// Storage handles notification persistence and retrieval. The jsonstore
// backed Repository is the only production implementation; the interface
// exists so the Dispatcher can be tested against mocks and so a database
// backed implementation can be swapped in without touching orchestration.
type Storage interface {
	// Save persists the notification. A notification without an ID gets the
	// next free identifier assigned; a notification with an ID has its
	// record replaced in place.
	Save(ctx context.Context, n Notification) (Notification, error)

	// FindByID returns the notification with the given id or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*Notification, error)

	// FindAll returns every stored notification in insertion order.
	FindAll(ctx context.Context) ([]Notification, error)

	// FindByUser returns the notifications addressed to one user.
	FindByUser(ctx context.Context, userID int64) ([]Notification, error)

	// FindByStatus returns the notifications currently in the given status.
	FindByStatus(ctx context.Context, status Status) ([]Notification, error)

	// MarkSent applies the sent transition to the stored record and reports
	// whether the id existed.
	MarkSent(ctx context.Context, id int64) (bool, error)

	// MarkFailed applies the failed transition to the stored record and
	// reports whether the id existed.
	MarkFailed(ctx context.Context, id int64) (bool, error)
}
