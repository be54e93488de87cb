package octrie

import (
	"net/netip"

	"github.com/arafel/octrie/internal/bitset"
	"github.com/arafel/octrie/internal/idx"
	"github.com/arafel/octrie/internal/lpm"
	"github.com/arafel/octrie/internal/sparse"
)

const (
	strideLen    = 8
	maxTreeDepth = 16 // 16 octets, enough for the longest IPv6 address
)

// node is one stride of the trie: it owns up to 255 inner prefixes, keyed by
// complete-binary-tree index, and up to 256 children, keyed by octet. A
// child slot holds exactly one of *node[V], *leafNode[V] or *fringeNode[V].
type node[V any] struct {
	prefixes sparse.Array256[V]
	children sparse.Array256[any]
}

// leafNode is a path-compressed child: a full prefix, stored verbatim
// because it terminates deeper than this node's stride.
type leafNode[V any] struct {
	prefix netip.Prefix
	value  V
}

func newLeafNode[V any](pfx netip.Prefix, val V) *leafNode[V] {
	return &leafNode[V]{prefix: pfx, value: val}
}

// fringeNode is a path-compressed child whose prefix length falls exactly
// on this octet's stride boundary; the prefix itself is implicit in the
// trie position, so only the value is stored. A fringe is the default
// route for every address under its octet.
type fringeNode[V any] struct {
	value V
}

func newFringeNode[V any](val V) *fringeNode[V] {
	return &fringeNode[V]{value: val}
}

// isFringe reports whether a prefix inserted/looked-up at depth terminates
// exactly on the stride boundary one level below depth.
func isFringe(depth int, bits int) bool {
	maxDepth, lastBits := maxDepthAndLastBits(bits)
	return depth == maxDepth-1 && lastBits == 0
}

func maxDepthAndLastBits(bits int) (maxDepth int, lastBits int) {
	return bits >> 3, bits & 7
}

// reset clears n's prefixes and children but retains their backing
// storage, so a pooled node can be reused without reallocating.
func (n *node[V]) reset() {
	var zero V
	for i := range n.prefixes.Items {
		n.prefixes.Items[i] = zero
	}
	n.prefixes.Items = n.prefixes.Items[:0]
	n.prefixes.Set256 = bitset.Set256{}

	for i := range n.children.Items {
		n.children.Items[i] = nil
	}
	n.children.Items = n.children.Items[:0]
	n.children.Set256 = bitset.Set256{}
}

func (n *node[V]) isEmpty() bool {
	return n.prefixes.Len() == 0 && n.children.Len() == 0
}

func (n *node[V]) prefixCount() int { return n.prefixes.Len() }
func (n *node[V]) childCount() int  { return n.children.Len() }

func (n *node[V]) insertPrefix(pfxIdx uint8, val V) (exists bool) {
	return n.prefixes.InsertAt(uint(pfxIdx), val)
}

func (n *node[V]) getPrefix(pfxIdx uint8) (val V, ok bool) {
	return n.prefixes.Get(uint(pfxIdx))
}

func (n *node[V]) mustGetPrefix(pfxIdx uint8) V {
	return n.prefixes.MustGet(uint(pfxIdx))
}

func (n *node[V]) deletePrefix(pfxIdx uint8) (val V, exists bool) {
	return n.prefixes.DeleteAt(uint(pfxIdx))
}

func (n *node[V]) insertChild(octet uint8, child any) (exists bool) {
	return n.children.InsertAt(uint(octet), child)
}

func (n *node[V]) getChild(octet uint8) (any, bool) {
	return n.children.Get(uint(octet))
}

func (n *node[V]) mustGetChild(octet uint8) any {
	return n.children.MustGet(uint(octet))
}

func (n *node[V]) deleteChild(octet uint8) (exists bool) {
	_, exists = n.children.DeleteAt(uint(octet))
	return exists
}

// contains reports whether any inner prefix at this node covers octet.
func (n *node[V]) contains(octet uint8) bool {
	return n.prefixes.IntersectsAny(&lpm.LookupTbl[idx.HostIdx(octet)])
}

// lookupAncestor performs one stride's worth of longest-prefix-match
// backtrack: intersect this node's prefixes bitset with cbtIdx's
// backtracking bitset (its ancestors in the complete binary tree, cbtIdx
// included) and return the value at the highest surviving bit.
func (n *node[V]) lookupAncestor(cbtIdx uint) (topIdx uint8, val V, ok bool) {
	top, ok := n.prefixes.IntersectionTop(&lpm.LookupTbl[cbtIdx])
	if !ok {
		return 0, val, false
	}
	return uint8(top), n.prefixes.MustGet(top), true
}

// lookupIdx is lookupAncestor seeded from a full octet, used when the
// query extends past this stride (the common case, host lookups and
// prefix lookups whose query is longer than this node's depth).
func (n *node[V]) lookupIdx(octet uint8) (topIdx uint8, val V, ok bool) {
	return n.lookupAncestor(idx.HostIdx(octet))
}

// insert inserts (pfx, val) into the trie rooted at n, starting at depth.
// Returns true if the slot already held a value.
func (n *node[V]) insert(pfx netip.Prefix, val V, depth int) (exists bool) {
	ip := pfx.Addr()
	bits := pfx.Bits()
	octets := ip.AsSlice()
	maxDepth, lastBits := maxDepthAndLastBits(bits)

	for ; depth < len(octets); depth++ {
		octet := octets[depth]

		if depth == maxDepth {
			return n.insertPrefix(idx.PfxToIdx(octet, lastBits), val)
		}

		if !n.children.Test(uint(octet)) {
			if isFringe(depth, bits) {
				return n.insertChild(octet, newFringeNode(val))
			}
			return n.insertChild(octet, newLeafNode(pfx, val))
		}

		kid := n.mustGetChild(octet)

		switch kid := kid.(type) {
		case *node[V]:
			n = kid

		case *leafNode[V]:
			if kid.prefix == pfx {
				kid.value = val
				return true
			}

			newNode := new(node[V])
			newNode.insert(kid.prefix, kid.value, depth+1)
			n.insertChild(octet, newNode)
			n = newNode

		case *fringeNode[V]:
			if isFringe(depth, bits) {
				kid.value = val
				return true
			}

			newNode := new(node[V])
			newNode.insertPrefix(1, kid.value)
			n.insertChild(octet, newNode)
			n = newNode

		default:
			panic("logic error, wrong node type")
		}
	}
	panic("unreachable")
}

// get returns the value stored at exactly pfx, walking from depth.
func (n *node[V]) get(pfx netip.Prefix, depth int) (val V, ok bool) {
	ip := pfx.Addr()
	bits := pfx.Bits()
	octets := ip.AsSlice()
	maxDepth, lastBits := maxDepthAndLastBits(bits)

	for ; depth < len(octets); depth++ {
		octet := octets[depth]

		if depth == maxDepth {
			return n.getPrefix(idx.PfxToIdx(octet, lastBits))
		}

		kidAny, exists := n.getChild(octet)
		if !exists {
			return val, false
		}

		switch kid := kidAny.(type) {
		case *node[V]:
			n = kid
		case *leafNode[V]:
			if kid.prefix == pfx {
				return kid.value, true
			}
			return val, false
		case *fringeNode[V]:
			if isFringe(depth, bits) {
				return kid.value, true
			}
			return val, false
		default:
			panic("logic error, wrong node type")
		}
	}
	panic("unreachable")
}

// delete removes pfx from the trie rooted at n, starting at depth, and
// purges/recompresses along the way. Returns the removed value.
func (n *node[V]) delete(pfx netip.Prefix, depth int) (val V, exists bool) {
	ip := pfx.Addr()
	bits := pfx.Bits()
	octets := ip.AsSlice()
	maxDepth, lastBits := maxDepthAndLastBits(bits)

	stack := make([]*node[V], 0, maxTreeDepth)

	for ; depth < len(octets); depth++ {
		octet := octets[depth]

		if depth == maxDepth {
			val, exists = n.deletePrefix(idx.PfxToIdx(octet, lastBits))
			if !exists {
				return val, false
			}
			n.purgeAndCompress(stack, octets, ip.Is4())
			return val, true
		}

		kidAny, ok := n.getChild(octet)
		if !ok {
			return val, false
		}

		switch kid := kidAny.(type) {
		case *node[V]:
			stack = append(stack, n)
			n = kid

		case *leafNode[V]:
			if kid.prefix != pfx {
				return val, false
			}
			n.deleteChild(octet)
			n.purgeAndCompress(stack, octets, ip.Is4())
			return kid.value, true

		case *fringeNode[V]:
			if !isFringe(depth, bits) {
				return val, false
			}
			n.deleteChild(octet)
			n.purgeAndCompress(stack, octets, ip.Is4())
			return kid.value, true

		default:
			panic("logic error, wrong node type")
		}
	}
	panic("unreachable")
}

// purgeAndCompress unwinds stack (the nodes visited on the way down, not
// including n itself) re-compressing any node that became a single leaf or
// fringe candidate, and removing empty nodes entirely.
func (n *node[V]) purgeAndCompress(stack []*node[V], octets []byte, is4 bool) {
	for depth := len(stack) - 1; depth >= 0; depth-- {
		parent := stack[depth]
		octet := octets[depth]

		pfxCount := n.prefixCount()
		childCount := n.childCount()

		switch {
		case n.isEmpty():
			parent.deleteChild(octet)

		case pfxCount == 0 && childCount == 1:
			addr, _ := n.children.FirstSet()
			switch kid := n.mustGetChild(uint8(addr)).(type) {
			case *node[V]:
				return
			case *leafNode[V]:
				parent.deleteChild(octet)
				parent.insert(kid.prefix, kid.value, depth)
			case *fringeNode[V]:
				parent.deleteChild(octet)
				fringePfx := cidrForFringe(octets, depth+1, is4, uint8(addr))
				parent.insert(fringePfx, kid.value, depth)
			}

		case pfxCount == 1 && childCount == 0:
			parent.deleteChild(octet)
			pfxIdx, _ := n.prefixes.FirstSet()
			val := n.mustGetPrefix(uint8(pfxIdx))
			pfx := cidrFromPath(octets, depth+1, is4, uint8(pfxIdx))
			parent.insert(pfx, val, depth)
		}

		n = parent
	}
}

// cloneFlat returns a shallow copy of n: the prefixes/children sparse-array
// shells are duplicated, but referenced subtrees, leaves and fringes are
// not deep-cloned. Values implementing Cloner[V] are deep-copied via
// cloneFn; pass a nil cloneFn to skip value cloning entirely.
func (n *node[V]) cloneFlat(cloneFn cloneFunc[V]) *node[V] {
	if n == nil {
		return nil
	}

	c := new(node[V])
	c.prefixes = *n.prefixes.Copy()
	c.children = *n.children.Copy()

	if cloneFn != nil {
		for i, val := range c.prefixes.Items {
			c.prefixes.Items[i] = cloneFn(val)
		}
	}

	for i, kidAny := range c.children.Items {
		switch kid := kidAny.(type) {
		case *leafNode[V]:
			val := kid.value
			if cloneFn != nil {
				val = cloneFn(val)
			}
			c.children.Items[i] = newLeafNode(kid.prefix, val)
		case *fringeNode[V]:
			val := kid.value
			if cloneFn != nil {
				val = cloneFn(val)
			}
			c.children.Items[i] = newFringeNode(val)
		}
		// *node[V] children are left shared: insertPersist clones them
		// lazily, only when the mutation path actually descends into them,
		// and cloneRec clones all of them.
	}

	return c
}
