package pipe

import "errors"

var (
	// ErrCapacity is returned by New when the requested capacity cannot hold
	// a single header or exceeds MaxCapacity.
	ErrCapacity = errors.New("pipe: invalid capacity")

	// ErrClosed is the panic value for any use of a pipe after Close.
	ErrClosed = errors.New("pipe: use of closed pipe")

	// ErrLength is the panic value for a reservation of a non-positive length.
	ErrLength = errors.New("pipe: frame length must be positive")

	// ErrNoReservation is the panic value for Commit without a preceding
	// successful Reserve.
	ErrNoReservation = errors.New("pipe: commit without reservation")

	// ErrOvercommit is the panic value for committing more bytes than were
	// reserved.
	ErrOvercommit = errors.New("pipe: commit exceeds reservation")

	// ErrNoFrame is the panic value for Peek or Consume while no committed
	// frame is available.
	ErrNoFrame = errors.New("pipe: no frame available")
)
