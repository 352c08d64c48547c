// Package ast defines the expression and statement node types produced by
// the parser and walked by the resolver and interpreter.
//
// Every Expr carries a stable, process-unique ID stamped at construction
// time (see nextID below). The resolver keys its scope-depth map by this
// ID rather than by the node's memory address, so the map stays valid
// even if nodes are ever copied or relocated — a monotonic counter is
// simpler and more portable than address-pinning.
package ast

import "sync/atomic"

var idCounter int64

// nextID returns a fresh, monotonically increasing identifier. It is the
// only place in the package that mints expression identity.
func nextID() int64 {
	return atomic.AddInt64(&idCounter, 1)
}
