package jsonstore

import "errors"

var (
	// ErrCorrupted is returned when the backing file exists but cannot be parsed.
	ErrCorrupted = errors.New("jsonstore: backing file is corrupted")

	// ErrUnreadable is returned when the backing file cannot be read for a
	// reason other than not existing.
	ErrUnreadable = errors.New("jsonstore: backing file is unreadable")

	// ErrPersist is returned when the document cannot be written back to disk.
	ErrPersist = errors.New("jsonstore: failed to persist document")
)
