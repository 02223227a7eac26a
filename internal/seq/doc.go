// Package seq provides concrete sequences, one per traversal tier, whose
// positions satisfy the capability interfaces of package position.
//
//	Slice        random_access
//	List         bidirectional
//	ForwardList  multi_pass
//	Stream       single_pass
//	OrderedSet   associative (btree-backed, ascending unique keys)
//
// Every sequence can carry a *Meter that counts position moves, which makes
// the cost difference between tiers observable.
package seq
