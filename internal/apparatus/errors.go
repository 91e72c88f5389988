package apparatus

import "errors"

// Sentinel errors for apparatus construction and validation.
var (
	// ErrEmptyName indicates an apparatus was constructed without a name.
	ErrEmptyName = errors.New("apparatus: name is empty")

	// ErrNoComponents indicates validation ran against an apparatus with
	// no components at all.
	ErrNoComponents = errors.New("apparatus: no components")

	// ErrUnknownComponent indicates a connection references a component
	// that was never added.
	ErrUnknownComponent = errors.New("apparatus: unknown component")

	// ErrNilComponent indicates Add was called with a nil component.
	ErrNilComponent = errors.New("apparatus: nil component")

	// ErrDisconnected indicates the connection graph leaves at least one
	// component unreachable from the rest.
	ErrDisconnected = errors.New("apparatus: component not connected")
)
