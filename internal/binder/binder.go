package binder

import (
	"hash/fnv"

	"github.com/dshills/keybind/internal/chord"
)

const (
	// DefaultCapacity is the arena size used by New.
	DefaultCapacity = 128

	// DefaultGroup is the root index of the default group. It always exists.
	DefaultGroup = 1

	// maxBackends bounds the backend registry.
	maxBackends = 64
)

// Backend is an editor backend that bound chords resolve to. The binder never
// calls into a backend; it stores the reference and hands it back by index.
// Registration deduplicates by identity, so the same Backend value always
// maps to the same index.
type Backend interface {
	// Name identifies the backend in keymap files and diagnostics.
	Name() string
}

// Node is one arena slot. The zero Node doubles as the out-of-range sentinel
// returned by NodeAt.
//
// Child and Next are slot indices. An index at or below the node's own index
// means "none": child lists and the group directory chain terminate by
// pointing back at (or before) their owner.
type Node struct {
	// Key is the input byte this node matches. Meaningless on root and
	// group slots.
	Key byte

	// Child indexes the first child slot.
	Child int32

	// Next indexes the next sibling, or the next group entry on a group slot.
	Next int32

	// Bound marks a terminal: a complete chord ends at this node.
	Bound bool

	// IsGroup marks a group directory entry. The slot after it is the
	// group's trie root.
	IsGroup bool

	// Depth is the number of key bytes from the group root to this node.
	// Valid only when Bound.
	Depth uint8

	// Backend indexes the backend registry. Valid only when Bound.
	Backend int32

	// ID is the caller-supplied command identifier. Valid only when Bound.
	ID uint8

	// Hash is the group name hash. Valid only when IsGroup.
	Hash uint32
}

// Binder owns the node arena and the backend registry.
type Binder struct {
	nodes    []Node
	next     int32
	backends []Backend
}

// New creates a binder with the default arena capacity.
func New() *Binder {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a binder whose arena holds capacity slots. The
// capacity is fixed for the binder's lifetime; allocation beyond it makes
// Bind and CreateGroup fail rather than grow.
func NewWithCapacity(capacity int) *Binder {
	if capacity < 2 {
		capacity = 2
	}
	b := &Binder{nodes: make([]Node, capacity)}

	// Slot 0 heads the group directory chain, slot 1 is the default
	// group's root. Both chains start empty: Next/Child of zero point at
	// or before their owners.
	b.nodes[0] = Node{IsGroup: true}
	b.next = 2
	return b
}

// strHash hashes a group name for directory lookup.
func strHash(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

// Group returns the trie root index for a named group, or -1 if no group by
// that name has been created. The empty name always resolves to the default
// group.
func (b *Binder) Group(name string) int {
	if name == "" {
		return DefaultGroup
	}

	hash := strHash(name)

	index := int(b.nodes[0].Next)
	for index > 0 {
		n := b.nodes[index]
		if n.Hash == hash {
			// The root slot follows the directory entry.
			return index + 1
		}
		index = int(n.Next)
	}

	return -1
}

// CreateGroup allocates a new named group and returns its trie root index, or
// -1 if the arena is full. Names are not deduplicated here; callers are
// expected to try Group first and create only on a miss. A duplicate name
// yields a second independent group that shadows the older one on lookup,
// because new entries link at the front of the directory chain.
func (b *Binder) CreateGroup(name string) int {
	index := b.alloc(2)
	if index < 0 {
		return -1
	}

	b.nodes[index] = Node{
		IsGroup: true,
		Hash:    strHash(name),
		Next:    b.nodes[0].Next,
	}
	b.nodes[0].Next = index

	b.nodes[index+1] = Node{}
	return int(index + 1)
}

// Bind registers that, within the group rooted at group, the key sequence
// spelled by spec resolves to (backend, id). It reports false on an invalid
// group index, a non-ASCII or malformed chord, or an exhausted arena or
// backend registry. Translation failures leave the arena untouched.
//
// Binding an already-bound chord with the same backend and id is a no-op
// success. Binding it with a different backend or id stacks a second bound
// node at the same position for the resolver to disambiguate by traversal
// order. A chord that translates to no bytes binds the group's root itself.
func (b *Binder) Bind(group int, spec string, backend Backend, id uint8) bool {
	if group < 0 || group >= len(b.nodes) {
		return false
	}
	if backend == nil {
		return false
	}
	if chord.Valid(spec) != nil {
		return false
	}

	keys, err := chord.Translate(spec)
	if err != nil {
		return false
	}

	backendIndex := b.addBackend(backend)
	if backendIndex < 0 {
		return false
	}

	// Walk the chord into the trie, creating nodes as needed.
	depth := 0
	head := group
	for _, key := range keys {
		if head = b.insertChild(head, key); head == 0 {
			return false
		}
		depth++
	}

	var last byte
	if len(keys) > 0 {
		last = keys[len(keys)-1]
	}

	// If the insert point is already bound, the new binding lands on a
	// duplicate node appended to the sibling chain, unless an identical
	// binding is already there.
	if b.nodes[head].Bound {
		for check := head; ; {
			n := b.nodes[check]
			if n.Bound && n.Key == last && int(n.Backend) == backendIndex && n.ID == id {
				return true
			}
			check = int(n.Next)
			if check <= head {
				break
			}
		}

		if head = b.append(head, last); head == 0 {
			return false
		}
	}

	n := &b.nodes[head]
	n.Backend = int32(backendIndex)
	n.Bound = true
	n.Depth = uint8(depth)
	n.ID = id
	return true
}

// insertChild returns the child of parent matching key, creating it if
// absent. Zero means allocation failed; zero is never a valid child.
func (b *Binder) insertChild(parent int, key byte) int {
	if child := b.findChild(parent, key); child != 0 {
		return child
	}
	return b.addChild(parent, key)
}

func (b *Binder) findChild(parent int, key byte) int {
	index := int(b.nodes[parent].Child)
	for index > parent {
		if b.nodes[index].Key == key {
			return index
		}
		index = int(b.nodes[index].Next)
	}
	return 0
}

func (b *Binder) addChild(parent int, key byte) int {
	child := b.alloc(1)
	if child < 0 {
		return 0
	}

	current := int(b.nodes[parent].Child)
	if current < parent {
		b.nodes[parent].Child = child
	} else {
		tail := b.findTail(current)
		b.nodes[tail].Next = child
	}

	b.nodes[child] = Node{Key: key, Next: int32(parent)}
	return int(child)
}

// findTail follows a sibling chain to its last real node.
func (b *Binder) findTail(head int) int {
	for int(b.nodes[head].Next) > head {
		head = int(b.nodes[head].Next)
	}
	return head
}

// append links a fresh node carrying key onto the tail of head's sibling
// chain. Zero means allocation failed.
func (b *Binder) append(head int, key byte) int {
	index := b.alloc(1)
	if index < 0 {
		return 0
	}

	tail := b.findTail(head)
	b.nodes[index] = Node{Key: key, Next: b.nodes[tail].Next}
	b.nodes[tail].Next = index
	return int(index)
}

// alloc bump-allocates count contiguous slots, returning the first index or
// -1 when the arena cannot hold them. Slots are never freed.
func (b *Binder) alloc(count int32) int32 {
	if b.next+count > int32(len(b.nodes)) {
		return -1
	}
	index := b.next
	b.next += count
	return index
}

func (b *Binder) addBackend(backend Backend) int {
	for i, existing := range b.backends {
		if existing == backend {
			return i
		}
	}
	if len(b.backends) >= maxBackends {
		return -1
	}
	b.backends = append(b.backends, backend)
	return len(b.backends) - 1
}

// NodeAt returns a copy of the arena slot at index. Out-of-range indices
// yield the zero Node rather than an error so the resolver's walk can treat
// any index uniformly.
func (b *Binder) NodeAt(index int) Node {
	if index < 0 || index >= len(b.nodes) {
		return Node{}
	}
	return b.nodes[index]
}

// BackendAt returns the registered backend at index, or nil if the index is
// unset or out of range.
func (b *Binder) BackendAt(index int) Backend {
	if index < 0 || index >= len(b.backends) {
		return nil
	}
	return b.backends[index]
}

// BackendCount reports how many distinct backends have been registered.
func (b *Binder) BackendCount() int {
	return len(b.backends)
}

// Capacity reports the fixed arena size.
func (b *Binder) Capacity() int {
	return len(b.nodes)
}

// Remaining reports how many arena slots are still free.
func (b *Binder) Remaining() int {
	return len(b.nodes) - int(b.next)
}
