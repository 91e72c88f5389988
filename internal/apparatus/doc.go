// Package apparatus models the physical bench setup a procedure runs
// against: an ordered collection of components plus the tubing
// connections between them.
//
// Insertion order is preserved and drives every downstream iteration,
// so compiled output is deterministic for a given build sequence.
// Duplicate component names are accepted here and rejected at compile
// time, where the error can name the procedure being compiled.
package apparatus
