package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned by stores when a unique key is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrGatewayUnavailable covers network, auth, rate-limit and timeout
	// failures of the language-model provider.
	ErrGatewayUnavailable = errors.New("language model gateway unavailable")

	// ErrSchemaViolation is returned when a structured completion does not
	// decode as the requested JSON shape.
	ErrSchemaViolation = errors.New("language model response violates schema")

	// ErrInvalidConversation is returned when stored or received turns are malformed.
	ErrInvalidConversation = errors.New("invalid conversation")

	ErrEmptyMessage = errors.New("message is empty")
	ErrLockTimeout  = errors.New("timed out waiting for interaction lock")
)
