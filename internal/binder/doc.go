// Package binder maps chords to editor backends through a fixed-capacity
// trie of key bytes.
//
// The binder owns an arena of node slots. Nodes are bump-allocated, never
// freed, and linked by slot index rather than pointer. A child list is a
// singly linked sibling chain whose end is marked by an index that points at
// or before the owning parent; because allocation is monotonic, every real
// child has a higher index than its parent, so traversal stops at the first
// index that does not.
//
// Bindings are partitioned into named groups, each an independent trie with
// its own root slot. Group directory entries live in the same arena as trie
// nodes, chained from slot 0; slot 1 is the root of the default group.
//
// # Usage
//
//	b := binder.New()
//	group := b.Group("vi")
//	if group < 0 {
//	    group = b.CreateGroup("vi")
//	}
//	b.Bind(group, `\M-x`, backend, cmdExecute)
//
// The binder is populated once at startup and read afterwards through NodeAt
// and BackendAt by the resolver that walks the trie against live input. It is
// not safe for concurrent mutation; rebinding at runtime is simply another
// Bind call made from the same goroutine that reads.
package binder
