package notification

import (
	"fmt"
	"time"
)

// Channel identifies a delivery medium.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// Valid reports whether c is one of the built-in channels. The factory may
// know about more channels than these; Valid only covers what the persisted
// record shape allows in its notification_type field.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush:
		return true
	default:
		return false
	}
}

// Status is the lifecycle state of a notification.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Notification is the core domain model. A notification is created in
// memory with StatusPending and no ID, receives its ID on first save, and
// afterwards changes only through the explicit status transitions below.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Channel   Channel    `json:"notification_type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at"`
}

// New builds a pending notification with the creation timestamp set.
func New(userID int64, channel Channel, title, message string) Notification {
	return Notification{
		UserID:    userID,
		Channel:   channel,
		Title:     title,
		Message:   message,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// Validate checks the fields that must be present before persistence.
func (n Notification) Validate() error {
	if n.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidNotification)
	}
	if !n.Channel.Valid() {
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidNotification, n.Channel)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNotification)
	}
	if n.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidNotification)
	}
	return nil
}

// MarkSent transitions the notification to StatusSent and records the send
// time. Allowed from pending and failed (a successful retry). Calling it on
// an already sent notification is a no-op that keeps the original SentAt, so
// repeated marks are harmless.
func (n *Notification) MarkSent() error {
	if n.Status == StatusSent {
		return nil
	}
	if n.Status != StatusPending && n.Status != StatusFailed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.Status, StatusSent)
	}
	n.Status = StatusSent
	if n.SentAt == nil {
		now := time.Now()
		n.SentAt = &now
	}
	return nil
}

// MarkFailed transitions the notification to StatusFailed. A failed
// notification may be marked failed again (a retry that still failed).
// A sent notification never goes back to failed.
func (n *Notification) MarkFailed() error {
	switch n.Status {
	case StatusPending, StatusFailed:
		n.Status = StatusFailed
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, n.Status, StatusFailed)
	}
}
