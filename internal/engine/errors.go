package engine

import "errors"

var (
	// ErrDuplicateOrderID is returned when a CREATE names an order_id that
	// is already resting in the book. We reject rather than silently
	// overwrite: a client id collision must not be allowed to cancel a
	// resting order's priority out from under it.
	ErrDuplicateOrderID = errors.New("duplicate order id")

	// ErrMalformedCommand is returned for anything structurally wrong with
	// a RawCommand: an unknown op, a missing field a CREATE requires.
	ErrMalformedCommand = errors.New("malformed command")
)
