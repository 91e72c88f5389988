// Package quantity parses and compares physical quantities.
//
// It is the measurement collaborator for the protocol compiler: attribute
// values such as "15 ml/min" or "80 degC" are parsed into a magnitude plus
// a dimensionality, converted to coherent base units (seconds, metres,
// kilograms, kelvin), and checked against the dimensionality a component's
// schema declares.
//
// The supported grammar is a number followed by an optional unit
// expression. Unit expressions multiply whitespace- or "*"-separated
// terms and divide by "/"-separated (or "per"-separated) terms, each term
// optionally carrying an integer exponent:
//
//	"5 seconds"
//	"15 ml/min"
//	"2.5 l/h"
//	"9.81 m/s^2"
//	"80 degC"
//
// Affine temperature units (degC, degF) convert with their offset only
// when they are the sole term of the expression; inside compound
// expressions they behave as temperature differences.
package quantity
