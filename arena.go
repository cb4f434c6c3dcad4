// FILE: lixenwraith/libconfig/arena.go
package libconfig

// ref addresses a node slot; gen must match the slot's generation for the ref to be live.
// The zero ref is the nil reference.
type ref struct {
	idx uint32
	gen uint32
}

func (r ref) isNil() bool { return r.idx == 0 }

// node is a setting record. Exactly one of value (scalar kinds) or children (aggregate kinds) is used.
type node struct {
	gen      uint32
	live     bool
	name     string
	kind     Kind
	value    Value
	children []ref
	parent   ref
	format   Format
	line     int
	file     string
}

// arena owns every node of a document. Released slots are recycled with a bumped generation.
type arena struct {
	nodes []node
	free  []uint32
}

func newArena() arena {
	// Slot 0 is reserved so that the zero ref never resolves.
	return arena{nodes: make([]node, 1, 64)}
}

// alloc returns a fresh, unattached node. Pointers into a.nodes are invalid after alloc.
func (a *arena) alloc(name string, kind Kind, val Value) ref {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, node{})
		idx = uint32(len(a.nodes) - 1)
	}
	nd := &a.nodes[idx]
	*nd = node{gen: nd.gen, live: true, name: name, kind: kind, value: val}
	return ref{idx: idx, gen: nd.gen}
}

// get resolves r, distinguishing a nil/unknown ref from a released one.
func (a *arena) get(r ref) (*node, error) {
	if r.isNil() || int(r.idx) >= len(a.nodes) {
		return nil, ErrElementNotExists
	}
	nd := &a.nodes[r.idx]
	if !nd.live || nd.gen != r.gen {
		return nil, ErrStaleReference
	}
	return nd, nil
}

// release frees r and its subtree. Outstanding refs into the subtree become stale.
func (a *arena) release(r ref) {
	nd := &a.nodes[r.idx]
	children := nd.children
	*nd = node{gen: nd.gen + 1}
	a.free = append(a.free, r.idx)
	for _, c := range children {
		a.release(c)
	}
}

// reset releases every live node.
func (a *arena) reset() {
	a.free = a.free[:0]
	for i := len(a.nodes) - 1; i > 0; i-- {
		nd := &a.nodes[i]
		if nd.live {
			*nd = node{gen: nd.gen + 1}
		}
		a.free = append(a.free, uint32(i))
	}
}

// attach allocates a node and appends it to parent's children.
func (a *arena) attach(parent ref, name string, kind Kind, val Value) ref {
	r := a.alloc(name, kind, val)
	a.nodes[r.idx].parent = parent
	pn := &a.nodes[parent.idx]
	pn.children = append(pn.children, r)
	return r
}

// member finds a named child of a group node.
func (a *arena) member(nd *node, name string) (ref, bool) {
	for _, c := range nd.children {
		if a.nodes[c.idx].name == name {
			return c, true
		}
	}
	return ref{}, false
}

// indexOf returns the position of r among nd's children, or -1.
func indexOf(nd *node, r ref) int {
	for i, c := range nd.children {
		if c == r {
			return i
		}
	}
	return -1
}
