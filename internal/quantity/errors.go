package quantity

import "errors"

// Domain errors for the quantity package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, quantity.ErrUnknownUnit) {
//	    // handle unparseable unit
//	}
var (
	// ErrInvalidExpression is returned when an expression has no parseable
	// numeric magnitude.
	ErrInvalidExpression = errors.New("quantity: invalid expression")

	// ErrUnknownUnit is returned when a unit token is not recognised.
	ErrUnknownUnit = errors.New("quantity: unknown unit")

	// ErrDimensionMismatch is returned when comparing or adding quantities
	// of different dimensionality.
	ErrDimensionMismatch = errors.New("quantity: dimensionality mismatch")
)
