// Package pkg holds shared utilities. This file defines the domain-level errors.
//
// Services return these (usually wrapped with fmt.Errorf("%w: ...")) and callers
// compare with errors.Is, never with strings:
//
//	if errors.Is(err, pkg.ErrForbidden) { ... }
//
// Moderation mapping:
//   - ErrForbidden  → PermissionDenied (not staff, not owner)
//   - ErrBadRequest → ValidationError (role not promotable, empty reason, ...)
//   - ErrNotFound   → ValidationError for lookups (unknown or inactive case id)
//   - anything else → StorageError, bubbles up and fails the request
package pkg

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)

// IsRejection, reports whether err is a permission or validation failure,
// i.e. an error a command reports to the actor instead of failing the request.
func IsRejection(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrNotFound)
}
