package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown MIME type or word type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrTxScope indicates a write outside the scope of the enclosing transaction:
	// either a write in a read-only transaction or a write to an entity kind the
	// transaction was not opened for.
	ErrTxScope = errors.New("operation outside transaction scope")

	// ErrMalformedBackup indicates a backup document that cannot be imported.
	// Nothing is written when this error is returned.
	ErrMalformedBackup = errors.New("malformed backup")

	// ErrAIUnavailable indicates no AI provider is configured.
	// Analysis, translation, speech and pronunciation features are disabled.
	ErrAIUnavailable = errors.New("AI service unavailable")

	// ErrRateLimited indicates the AI provider rejected a request for exceeding its rate limit.
	ErrRateLimited = errors.New("rate limited")
)
