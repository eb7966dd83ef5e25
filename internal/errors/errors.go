// Package errors defines the sentinel errors shared by services and
// handlers. Handlers map them onto HTTP statuses: not-found errors to
// 404, state conflicts to 409, input errors to 400, anything else 500.
package errors

import "errors"

// Not found
var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrCurvaNotFound  = errors.New("curva not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrUserNotFound   = errors.New("user not found")
)

// Invalid state
var (
	ErrMatchAlreadyFinished = errors.New("match is already finished")
	ErrMatchNotPending      = errors.New("match is not in pending status")
	ErrMatchFinished        = errors.New("match is finished, no further changes allowed")
	ErrTicketClosed         = errors.New("ticket is already settled and closed")
)

// Invalid input
var (
	ErrInvalidSlotQuantity = errors.New("requested slot quantity must be positive")
	ErrMalformedCurva      = errors.New("curva record is malformed")
	ErrInvalidScore        = errors.New("score values must not be negative")
	ErrInvalidTicketStatus = errors.New("invalid ticket status")
)

// Auth
var (
	ErrUnauthorized = errors.New("user is not authorized")
	ErrForbidden    = errors.New("operation is forbidden for user")
)

// Is reports whether err matches target, re-exported so callers don't
// need a second errors import alongside this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
