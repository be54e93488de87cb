package octrie

import (
	"fmt"
	"iter"
	"net/netip"

	"github.com/arafel/octrie/internal/idx"
)

// Table is a longest-prefix-match routing table over both IPv4 and IPv6
// prefixes, keyed independently in two stride tries. The zero value is
// ready to use.
type Table[V any] struct {
	root4 node[V]
	root6 node[V]
	size4 int
	size6 int
}

// NewTable returns an empty Table. It is equivalent to new(Table[V]); the
// zero value is already usable, this constructor exists for API parity
// with the other persistent constructors.
func NewTable[V any]() *Table[V] {
	return new(Table[V])
}

// rootFor returns the stride trie root for the IPv4 (is4) or IPv6 address
// family.
func (t *Table[V]) rootFor(is4 bool) *node[V] {
	if is4 {
		return &t.root4
	}
	return &t.root6
}

// Insert adds pfx with value val, overwriting any existing value for the
// same prefix. Insert masks pfx to its prefix length before storing it; an
// invalid pfx is ignored.
func (t *Table[V]) Insert(pfx netip.Prefix, val V) {
	if !pfx.IsValid() {
		return
	}
	pfx = pfx.Masked()
	is4 := pfx.Addr().Is4()

	exists := t.rootFor(is4).insert(pfx, val, 0)
	if !exists {
		t.bumpSize(is4, 1)
	}
}

// Delete removes pfx, returning its value and whether it was present.
func (t *Table[V]) Delete(pfx netip.Prefix) (val V, ok bool) {
	if !pfx.IsValid() {
		return val, false
	}
	pfx = pfx.Masked()
	is4 := pfx.Addr().Is4()

	val, ok = t.rootFor(is4).delete(pfx, 0)
	if ok {
		t.bumpSize(is4, -1)
	}
	return val, ok
}

// Get returns the value stored at exactly pfx, without doing longest
// prefix matching.
func (t *Table[V]) Get(pfx netip.Prefix) (val V, ok bool) {
	if !pfx.IsValid() {
		return val, false
	}
	pfx = pfx.Masked()
	return t.rootFor(pfx.Addr().Is4()).get(pfx, 0)
}

func (t *Table[V]) bumpSize(is4 bool, delta int) {
	if is4 {
		t.size4 += delta
	} else {
		t.size6 += delta
	}
}

// Lookup performs a longest-prefix match for addr, returning the value of
// the most specific stored prefix that contains it.
func (t *Table[V]) Lookup(addr netip.Addr) (val V, ok bool) {
	if !addr.IsValid() {
		return val, false
	}
	addr = addr.Unmap()
	octets := addr.AsSlice()
	return t.rootFor(addr.Is4()).lookup(addr, octets, 0)
}

// Contains reports whether any stored prefix covers addr. It can be
// cheaper than Lookup since it never backtracks for the most specific
// match or copies out a value: any covering ancestor prefix seen on the
// way down is good enough.
func (t *Table[V]) Contains(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	return t.rootFor(addr.Is4()).containsAddr(addr, addr.AsSlice())
}

// containsAddr walks down the trie along octets, returning true as soon as
// any node on the path holds a prefix covering octet (via contains) or the
// path ends in a leaf/fringe match. Unlike lookup, it never backtracks.
func (n *node[V]) containsAddr(addr netip.Addr, octets []byte) bool {
	for _, octet := range octets {
		if n.prefixCount() != 0 && n.contains(octet) {
			return true
		}

		kidAny, exists := n.getChild(octet)
		if !exists {
			return false
		}

		switch kid := kidAny.(type) {
		case *node[V]:
			n = kid
		case *fringeNode[V]:
			return true
		case *leafNode[V]:
			return kid.prefix.Contains(addr)
		default:
			panic("logic error, wrong node type")
		}
	}
	return false
}

// LookupPrefix performs a longest-prefix match for pfx itself (rather than
// a single address), returning the most specific stored prefix that
// contains all of pfx plus its value.
func (t *Table[V]) LookupPrefix(pfx netip.Prefix) (lpm netip.Prefix, val V, ok bool) {
	if !pfx.IsValid() {
		return lpm, val, false
	}
	pfx = pfx.Masked()
	is4 := pfx.Addr().Is4()
	octets := pfx.Addr().AsSlice()

	return t.rootFor(is4).lookupPrefix(octets, pfx.Addr(), pfx.Bits(), is4, 0, make([]byte, 0, len(octets)))
}

// lookup walks down the trie along octets, following child nodes, and on
// running out of path (or hitting a leaf/fringe) backtracks to the
// deepest ancestor node holding a covering prefix.
func (n *node[V]) lookup(addr netip.Addr, octets []byte, depth int) (val V, ok bool) {
	octet := octets[depth]

	if kidAny, exists := n.getChild(octet); exists {
		switch kid := kidAny.(type) {
		case *node[V]:
			if depth+1 < len(octets) {
				if val, ok = kid.lookup(addr, octets, depth+1); ok {
					return val, true
				}
			}
		case *leafNode[V]:
			if kid.prefix.Contains(addr) {
				return kid.value, true
			}
		case *fringeNode[V]:
			return kid.value, true
		}
	}

	_, val, ok = n.lookupIdx(octet)
	return val, ok
}

// lookupPrefix mirrors lookup but matches against a prefix rather than a
// single address, so a stored route only counts as a match when it is no
// more specific than queryAddr/queryBits.
func (n *node[V]) lookupPrefix(octets []byte, queryAddr netip.Addr, queryBits int, is4 bool, depth int, path []byte) (lpm netip.Prefix, val V, ok bool) {
	path = append(path, octets[depth])
	maxDepth, lastBits := maxDepthAndLastBits(queryBits)
	octet := octets[depth]

	if depth < maxDepth {
		if kidAny, exists := n.getChild(octet); exists {
			switch kid := kidAny.(type) {
			case *node[V]:
				if lpm, val, ok = kid.lookupPrefix(octets, queryAddr, queryBits, is4, depth+1, path); ok {
					return lpm, val, true
				}
			case *leafNode[V]:
				if kid.prefix.Bits() <= queryBits && kid.prefix.Contains(queryAddr) {
					return kid.prefix, kid.value, true
				}
			case *fringeNode[V]:
				if (depth+1)*8 <= queryBits {
					return cidrForFringe(path, depth, is4, octet), kid.value, true
				}
			}
		}

		top, val, ok := n.lookupIdx(octet)
		if !ok {
			return lpm, val, false
		}
		return cidrFromPath(path, depth, is4, top), val, true
	}

	queryIdx := uint(idx.PfxToIdx(octet, lastBits))
	top, val, ok := n.lookupAncestor(queryIdx)
	if !ok {
		return lpm, val, false
	}
	return cidrFromPath(path, depth, is4, top), val, true
}

// Size returns the number of prefixes stored in the table, both families.
func (t *Table[V]) Size() int { return t.size4 + t.size6 }

// Size4 returns the number of IPv4 prefixes stored in the table.
func (t *Table[V]) Size4() int { return t.size4 }

// Size6 returns the number of IPv6 prefixes stored in the table.
func (t *Table[V]) Size6() int { return t.size6 }

func (t *Table[V]) String() string {
	return fmt.Sprintf("Table{size4: %d, size6: %d}", t.size4, t.size6)
}

// All iterates over every prefix/value pair in the table, IPv4 first.
// Iteration order is unspecified beyond that.
func (t *Table[V]) All() iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		if !t.root4.allRec(true, make([]byte, 0, 4), 0, yield) {
			return
		}
		t.root6.allRec(false, make([]byte, 0, 16), 0, yield)
	}
}

// All4 iterates over every IPv4 prefix/value pair in the table.
func (t *Table[V]) All4() iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		t.root4.allRec(true, make([]byte, 0, 4), 0, yield)
	}
}

// All6 iterates over every IPv6 prefix/value pair in the table.
func (t *Table[V]) All6() iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		t.root6.allRec(false, make([]byte, 0, 16), 0, yield)
	}
}

func (t *Table[V]) allFamily(is4 bool) iter.Seq2[netip.Prefix, V] {
	if is4 {
		return t.All4()
	}
	return t.All6()
}

// allRec walks n and every descendant, yielding every stored prefix/value
// pair. path holds the octets already consumed to reach n. It returns
// false if yield asked to stop early.
func (n *node[V]) allRec(is4 bool, path []byte, depth int, yield func(netip.Prefix, V) bool) bool {
	for _, pfxIdx := range n.prefixes.All() {
		pfx := cidrFromPath(path, depth, is4, uint8(pfxIdx))
		if !yield(pfx, n.prefixes.MustGet(pfxIdx)) {
			return false
		}
	}

	for _, octet := range n.children.All() {
		switch kid := n.mustGetChild(uint8(octet)).(type) {
		case *node[V]:
			childPath := append(append(make([]byte, 0, len(path)+1), path...), uint8(octet))
			if !kid.allRec(is4, childPath, depth+1, yield) {
				return false
			}
		case *leafNode[V]:
			if !yield(kid.prefix, kid.value) {
				return false
			}
		case *fringeNode[V]:
			pfx := cidrForFringe(path, depth, is4, uint8(octet))
			if !yield(pfx, kid.value) {
				return false
			}
		}
	}

	return true
}

// Clone returns a deep copy of t. cloneFn deep-copies each stored value; a
// nil cloneFn leaves values shared between t and the clone.
func (t *Table[V]) Clone(cloneFn cloneFunc[V]) *Table[V] {
	c := &Table[V]{size4: t.size4, size6: t.size6}
	if cloned := t.root4.cloneRec(cloneFn); cloned != nil {
		c.root4 = *cloned
	}
	if cloned := t.root6.cloneRec(cloneFn); cloned != nil {
		c.root6 = *cloned
	}
	return c
}

// cloneRec deep-clones n and every descendant node. Leaves and fringes are
// always duplicated (see cloneFlat); child nodes are duplicated
// recursively so the clone shares no mutable state with n.
func (n *node[V]) cloneRec(cloneFn cloneFunc[V]) *node[V] {
	c := n.cloneFlat(cloneFn)
	for i, kidAny := range c.children.Items {
		if kid, ok := kidAny.(*node[V]); ok {
			c.children.Items[i] = kid.cloneRec(cloneFn)
		}
	}
	return c
}

// Union merges other's entries into t, overwriting t's value for any
// prefix present in both. cloneFn deep-copies incoming values; a nil
// cloneFn shares them with other.
func (t *Table[V]) Union(other *Table[V], cloneFn cloneFunc[V]) {
	for pfx, val := range other.All() {
		if cloneFn != nil {
			val = cloneFn(val)
		}
		t.Insert(pfx, val)
	}
}

// Supernets iterates over every prefix in the table that contains pfx,
// from least to most specific is not guaranteed.
func (t *Table[V]) Supernets(pfx netip.Prefix) iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		if !pfx.IsValid() {
			return
		}
		pfx = pfx.Masked()
		for p, v := range t.allFamily(pfx.Addr().Is4()) {
			if p.Bits() <= pfx.Bits() && p.Contains(pfx.Addr()) {
				if !yield(p, v) {
					return
				}
			}
		}
	}
}

// Subnets iterates over every prefix in the table that pfx contains.
func (t *Table[V]) Subnets(pfx netip.Prefix) iter.Seq2[netip.Prefix, V] {
	return func(yield func(netip.Prefix, V) bool) {
		if !pfx.IsValid() {
			return
		}
		pfx = pfx.Masked()
		for p, v := range t.allFamily(pfx.Addr().Is4()) {
			if p.Bits() >= pfx.Bits() && pfx.Contains(p.Addr()) {
				if !yield(p, v) {
					return
				}
			}
		}
	}
}

// OverlapsPrefix reports whether pfx overlaps any prefix stored in t.
func (t *Table[V]) OverlapsPrefix(pfx netip.Prefix) bool {
	if !pfx.IsValid() {
		return false
	}
	pfx = pfx.Masked()
	octets := pfx.Addr().AsSlice()
	return t.rootFor(pfx.Addr().Is4()).overlapsPrefix(octets, pfx.Bits(), 0)
}

// Overlaps reports whether any prefix in t overlaps any prefix in other.
func (t *Table[V]) Overlaps(other *Table[V]) bool {
	return t.root4.overlapsRec(&other.root4) || t.root6.overlapsRec(&other.root6)
}
