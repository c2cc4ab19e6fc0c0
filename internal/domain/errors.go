package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrIndexOutOfRange is returned by moderation when the given request index
// lies outside the current bounds of a ride's join-request list. It is kept
// distinct from ErrNotFound so clients can tell a stale index apart from a
// vanished ride. Handlers should map this to HTTP 404.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrInvalidState is returned by moderation when the addressed join request
// has already been accepted or rejected. Re-resolving is an error, not a
// silent no-op, so a future seat-accounting change can never double-count.
// Handlers should map this to HTTP 409 Conflict.
var ErrInvalidState = errors.New("invalid state")

// ErrForbidden is returned when a caller presents a creator id that does not
// match the ride's owner. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrStoreUnavailable is returned when a store operation exceeds its
// request-scoped timeout or the database is unreachable. The call is safe
// for the client to retry; the service itself never retries.
// Handlers should map this to HTTP 503.
var ErrStoreUnavailable = errors.New("store unavailable")
