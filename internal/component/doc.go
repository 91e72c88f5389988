// Package component defines the laboratory component model: the named
// pieces of equipment a procedure addresses, each carrying an attribute
// schema, a set of capabilities, and a rest state.
//
// A component's schema declares which attributes an instruction may set
// and how each is validated: quantity attributes carry an expected
// dimensionality, all others a concrete Go kind. Components with an
// empty schema are passive (vessels, tubing) and cannot be instructed.
//
// The rest state is the parameter set a component returns to when no
// instruction is active. The timeline compiler emits it to fill gaps, so
// every component is validated up front to guarantee its own rest state
// satisfies its own schema.
//
// Standard component constructors (NewPump, NewValve, NewSensor,
// NewTempControl, NewVessel) cover the common bench equipment; custom
// components are built with New.
package component
