// Package resolver walks a binder's trie against live input, one byte at a
// time, to find which binding a chord resolves to.
//
// The resolver reads the arena only through binder accessors and relies on
// the binder's chain invariants: sibling lists end at the first index that
// does not exceed the node it was read from, and stacked bindings for one
// chord share the terminal key byte on the same chain.
package resolver

import "github.com/dshills/keybind/internal/binder"

// Result describes the state of the walk after feeding a byte.
type Result int

const (
	// Pending means the bytes fed so far are a live prefix of at least one
	// binding but complete none.
	Pending Result = iota

	// Matched means the fed bytes complete a binding and no longer binding
	// starts with them.
	Matched

	// MatchedPrefix means the fed bytes complete a binding and are also a
	// prefix of a longer one. The caller chooses whether to take the match
	// or keep feeding.
	MatchedPrefix

	// NoMatch means no binding starts with the fed bytes.
	NoMatch
)

// Binding is a resolved (backend, id) pair plus the number of input bytes
// the chord consumed.
type Binding struct {
	Backend binder.Backend
	ID      uint8
	Depth   int
}

// Resolver tracks a walk through one group's trie.
type Resolver struct {
	binder *binder.Binder
	group  int

	node     int // current position
	consumed int

	match    int // first bound node of the current match, 0 if none
	nextCand int // cursor for NextBinding
}

// New creates a resolver over b, starting in the default group.
func New(b *binder.Binder) *Resolver {
	r := &Resolver{binder: b, group: binder.DefaultGroup}
	r.Reset()
	return r
}

// SetGroup switches the resolver to the trie rooted at root and resets the
// walk. The root comes from Binder.Group or Binder.CreateGroup.
func (r *Resolver) SetGroup(root int) {
	r.group = root
	r.Reset()
}

// Reset abandons the current walk and returns to the group root.
func (r *Resolver) Reset() {
	r.node = r.group
	r.consumed = 0
	r.match = 0
	r.nextCand = 0
}

// Consumed reports how many bytes have been fed since the last reset.
func (r *Resolver) Consumed() int {
	return r.consumed
}

// Feed advances the walk by one input byte.
func (r *Resolver) Feed(key byte) Result {
	child := r.findChild(r.node, key)
	if child == 0 {
		return NoMatch
	}

	r.node = child
	r.consumed++

	node := r.binder.NodeAt(child)
	if !node.Bound {
		return Pending
	}

	r.match = child
	r.nextCand = child
	if int(node.Child) > child {
		return MatchedPrefix
	}
	return Matched
}

func (r *Resolver) findChild(parent int, key byte) int {
	index := int(r.binder.NodeAt(parent).Child)
	for index > parent {
		if r.binder.NodeAt(index).Key == key {
			return index
		}
		index = int(r.binder.NodeAt(index).Next)
	}
	return 0
}

// Binding returns the first binding of the current match, oldest
// registration first. ok is false when nothing has matched yet.
func (r *Resolver) Binding() (Binding, bool) {
	if r.match == 0 {
		return Binding{}, false
	}
	return r.bindingAt(r.match), true
}

// NextBinding steps to the next stacked binding for the matched chord.
// Bindings are consulted in registration order; ok is false once the chain
// is exhausted.
func (r *Resolver) NextBinding() (Binding, bool) {
	if r.match == 0 || r.nextCand == 0 {
		return Binding{}, false
	}

	key := r.binder.NodeAt(r.match).Key
	index := int(r.binder.NodeAt(r.nextCand).Next)
	for index > r.match {
		n := r.binder.NodeAt(index)
		if n.Bound && n.Key == key {
			r.nextCand = index
			return r.bindingAt(index), true
		}
		index = int(n.Next)
	}

	r.nextCand = 0
	return Binding{}, false
}

func (r *Resolver) bindingAt(index int) Binding {
	node := r.binder.NodeAt(index)
	return Binding{
		Backend: r.binder.BackendAt(int(node.Backend)),
		ID:      node.ID,
		Depth:   int(node.Depth),
	}
}
