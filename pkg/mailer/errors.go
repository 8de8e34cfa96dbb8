package mailer

import "errors"

var (
	// ErrInvalidConfig is returned when a sender is constructed with an
	// incomplete configuration.
	ErrInvalidConfig = errors.New("mailer: invalid config")

	// ErrInvalidParams is returned when send parameters fail validation.
	ErrInvalidParams = errors.New("mailer: invalid send params")

	// ErrSendFailed wraps transport-level delivery failures.
	ErrSendFailed = errors.New("mailer: failed to send email")
)
