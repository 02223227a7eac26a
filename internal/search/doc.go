// Package search implements membership and bisecting search over positions
// and collections from package seq, choosing the strategy from the
// capability the caller's types provide.
package search
