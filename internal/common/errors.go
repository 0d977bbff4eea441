// Package common defines sentinel errors shared across the sareebook client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Remote-source errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrRemote       = errors.New("remote error")

	// Validation errors.
	ErrInvalidPayload = errors.New("invalid payload")
)
