package notification

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a notification id does not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrInvalidNotification is returned when required fields are missing
	// or malformed. Validation happens before any persistence attempt.
	ErrInvalidNotification = errors.New("invalid notification")

	// ErrInvalidTransition is returned for status changes the lifecycle
	// does not allow, such as failing an already sent notification.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// IsNotFound reports whether err indicates a missing notification.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UnsupportedChannelError is returned by the factory when asked to create a
// strategy for a channel that was never registered.
type UnsupportedChannelError struct {
	Channel Channel
}

func (e *UnsupportedChannelError) Error() string {
	return fmt.Sprintf("unsupported notification channel %q", e.Channel)
}

// IsUnsupportedChannel reports whether err is an UnsupportedChannelError.
func IsUnsupportedChannel(err error) bool {
	var e *UnsupportedChannelError
	return errors.As(err, &e)
}
