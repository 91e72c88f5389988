// Package protocol builds and compiles procedures: timed instructions
// addressed to the components of an apparatus.
//
// The package has two halves. The builder (Add, AddAll) validates each
// instruction request at the moment it is made: the target component
// must belong to the apparatus and be active, every parameter must
// satisfy the component's schema, quantities must carry the declared
// dimensionality, and timing must be coherent. Requests that pass are
// recorded; requests that fail leave the protocol untouched.
//
// The compiler (Compile) turns the accumulated records into per-device
// timelines. It infers missing stop boundaries from successor records,
// rejects genuinely ambiguous or unresolvable schedules, and fills every
// gap with the component's rest state so a device is never left in an
// undefined configuration. Compilation is all-or-nothing: any error
// leaves no partial result. Non-fatal findings (inferred boundaries,
// components that never receive an instruction) are reported as
// advisories alongside the result, never as errors.
//
// Compiled output comes in two forms: the execution form interleaves
// instructions with rest-state instructions at explicit times, and the
// inspection form lists instruction windows without rest entries.
package protocol
