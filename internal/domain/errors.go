package domain

import "errors"

// Error kinds distinguished at the delivery boundary. Services wrap these
// with context via fmt.Errorf and %w; handlers map them to status codes with
// errors.Is. Any error from a mutating operation aborts the whole unit, no
// partial writes.
var (
	// ErrValidation marks missing or malformed required input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a record that does not exist or does not belong to
	// the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrCapacity marks an exit whose quantity exceeds the currently open
	// quantity. Distinct from validation because it depends on ledger state.
	ErrCapacity = errors.New("exit quantity exceeds open quantity")

	// ErrDegenerateInput marks calculator input with no usable price
	// difference, such as entry price equal to stop-loss price.
	ErrDegenerateInput = errors.New("degenerate calculator input")

	// ErrDuplicate marks a uniqueness conflict, e.g. registering an email
	// that already has a user.
	ErrDuplicate = errors.New("record already exists")
)
