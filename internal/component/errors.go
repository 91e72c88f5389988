package component

import "errors"

// Sentinel errors for component validation. Callers match with errors.Is.
var (
	// ErrEmptyName indicates a component was constructed without a name.
	ErrEmptyName = errors.New("component: name is empty")

	// ErrRestStateUnknownAttribute indicates a rest state references an
	// attribute absent from the component's schema.
	ErrRestStateUnknownAttribute = errors.New("component: rest state references unknown attribute")

	// ErrRestStateMissingAttribute indicates a schema attribute has no
	// rest state value.
	ErrRestStateMissingAttribute = errors.New("component: rest state missing attribute")

	// ErrAttributeDimensionality indicates a quantity value does not
	// match the dimensionality its schema attribute declares.
	ErrAttributeDimensionality = errors.New("component: attribute dimensionality mismatch")

	// ErrAttributeType indicates a value does not match the kind its
	// schema attribute declares.
	ErrAttributeType = errors.New("component: attribute type mismatch")

	// ErrMissingAddress indicates a component has no hardware address but
	// execution was requested.
	ErrMissingAddress = errors.New("component: address required for execution")

	// ErrUnknownSetting indicates a symbolic setting name has no mapping
	// on this component.
	ErrUnknownSetting = errors.New("component: unknown setting")
)
