// Package probe runs a named kernel operation against a compiled fixture.
//
// The position type of each fixture kind is only known at runtime, so Exec
// looks up a runner keyed by (kind, elem) that instantiates the generic
// kernel for the matching sequence. Every run builds a fresh sequence with a
// fresh meter; the step count in the Outcome covers the operation alone.
//
// Requests the kernel would reject statically are reported as outcomes, not
// errors: a capability the fixture's positions lack becomes
// OutcomeCapabilityMismatch, and a value of the wrong element type becomes
// OutcomeTypeMismatch.
package probe
