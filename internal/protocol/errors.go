package protocol

import (
	"errors"

	"github.com/benchflow/benchflow-core/internal/component"
)

// Sentinel errors returned by the builder and compiler. Callers match
// with errors.Is. Attribute validation reuses the component package's
// sentinels so a mismatch matches the same sentinel whether it came from
// a rest state or an instruction request.
var (
	// ErrUnknownComponent indicates an instruction targeted a component
	// that does not belong to the apparatus.
	ErrUnknownComponent = errors.New("protocol: component not in apparatus")

	// ErrPassiveComponent indicates an instruction targeted a component
	// with no schema.
	ErrPassiveComponent = errors.New("protocol: component is passive")

	// ErrNoParameters indicates an instruction request carried no
	// parameters at all.
	ErrNoParameters = errors.New("protocol: no parameters specified")

	// ErrUnknownAttribute indicates a parameter names an attribute absent
	// from the target's schema.
	ErrUnknownAttribute = errors.New("protocol: unknown attribute")

	// ErrDimensionality indicates a quantity parameter has the wrong
	// dimensionality for its attribute.
	ErrDimensionality = component.ErrAttributeDimensionality

	// ErrTypeMismatch indicates a parameter value has the wrong type for
	// its attribute.
	ErrTypeMismatch = component.ErrAttributeType

	// ErrUnknownSetting indicates a symbolic setting name could not be
	// resolved on a selector component.
	ErrUnknownSetting = component.ErrUnknownSetting

	// ErrMissingTemperature indicates a thermal component was activated
	// without a temperature setpoint.
	ErrMissingTemperature = errors.New("protocol: active thermal instruction lacks temperature")

	// ErrConflictingTimeSpec indicates both a stop time and a duration
	// were given for one instruction.
	ErrConflictingTimeSpec = errors.New("protocol: both stop and duration specified")

	// ErrInvalidTimeSpec indicates a time value could not be interpreted
	// as a non-negative number of seconds.
	ErrInvalidTimeSpec = errors.New("protocol: invalid time specification")

	// ErrInvertedInterval indicates an instruction's start lies after
	// its stop.
	ErrInvertedInterval = errors.New("protocol: start must precede stop")

	// ErrEmptyProtocol indicates compilation ran with no records at all.
	ErrEmptyProtocol = errors.New("protocol: no procedure records")

	// ErrProtocolSealed indicates a destructive mutation was attempted
	// after a snapshot was taken for persistence.
	ErrProtocolSealed = errors.New("protocol: sealed after snapshot")

	// ErrDuplicateName indicates two distinct components share a name.
	ErrDuplicateName = errors.New("protocol: duplicate component name")

	// ErrInvalidComponent indicates a component failed its own validation
	// for the requested run mode. The underlying component error is
	// wrapped alongside.
	ErrInvalidComponent = errors.New("protocol: invalid component")

	// ErrConflictingWholeDuration indicates more than one record on the
	// same component spans the whole run.
	ErrConflictingWholeDuration = errors.New("protocol: multiple whole-duration records")

	// ErrAmbiguousStart indicates a record after the first starts at
	// time zero, which would shadow its predecessor.
	ErrAmbiguousStart = errors.New("protocol: ambiguous zero start after first record")

	// ErrUnresolvableDuration indicates no record anywhere defines a stop
	// boundary, so open intervals cannot be closed.
	ErrUnresolvableDuration = errors.New("protocol: overall duration cannot be determined")
)
