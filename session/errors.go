package session

import "errors"

var (
	// ErrIllegalParameter is returned for out-of-range indices, empty
	// inputs, and other malformed arguments.
	ErrIllegalParameter = errors.New("illegal parameter")

	// ErrIllegalState is returned for operations that do not fit the
	// session's current lifecycle state, including mismatched or empty
	// process buffers.
	ErrIllegalState = errors.New("illegal state")

	// ErrEngine wraps failures of the underlying engine's parameter and
	// instance calls.
	ErrEngine = errors.New("engine error")

	// ErrNilBuffer is returned when a process call carries a nil input or
	// output buffer.
	ErrNilBuffer = errors.New("nil buffer")

	// ErrUnsupported is returned when the engine's process call itself
	// fails mid-buffer.
	ErrUnsupported = errors.New("unsupported operation")
)
