// Package position classifies cursor types by traversal capability and moves
// them with the cheapest strategy their tier allows.
//
// TIERS:
//
// A position's tier is decided by its method set, never declared:
//
//	SinglePassForward  Next()                     (consuming; no Clone)
//	MultiPassForward   Next(), Clone()
//	Bidirectional      Next(), Clone(), Prev()
//	RandomAccess       Next(), Clone(), Prev(), Offset(n), Sub(other)
//
// Every position also supports Equal. Positions are pointer types and are
// mutated in place by Next/Prev/Offset.
//
// STATIC AND DYNAMIC CHECKS:
//
// Operations that need a stronger tier say so in their type constraints, so
// Distance on a single-pass position does not compile. The one check that
// cannot be static is Advance with a negative step on a forward-only
// position: that is a precondition violation and panics with a
// *CapabilityError.
//
// COST:
//
// Advance and Distance are O(1) for RandomAccess and O(n) otherwise. Callers
// relying on cheap seeks must hold RandomAccess positions.
package position
