package octrie

import (
	"net/netip"

	"github.com/arafel/octrie/internal/idx"
)

// Cloner lets the *Persist methods and SyncTableFrom deep-copy a stored
// value instead of sharing it between the old and new tree; Table.Clone
// uses only the cloneFn it is given. Implement it on V when V holds
// mutable state (a slice, a map, a pointer to a struct the caller might
// later mutate).
type Cloner[V any] interface {
	Clone() V
}

// cloneValue deep-copies v through Cloner if V implements it, otherwise
// returns v unchanged.
func cloneValue[V any](v V) V {
	if c, ok := any(v).(Cloner[V]); ok {
		return c.Clone()
	}
	return v
}

// InsertPersist returns a new Table with pfx inserted, leaving t and every
// table derived from it untouched. Only the nodes on the path to pfx are
// copied; the rest of the tree is shared with t. An invalid pfx is ignored
// and t itself is returned.
func (t *Table[V]) InsertPersist(pfx netip.Prefix, val V) *Table[V] {
	if !pfx.IsValid() {
		return t
	}
	pfx = pfx.Masked()
	is4 := pfx.Addr().Is4()

	nt := &Table[V]{size4: t.size4, size6: t.size6, root4: t.root4, root6: t.root6}

	newRoot, exists := t.rootFor(is4).insertPersist(pfx, val, 0)
	if is4 {
		nt.root4 = *newRoot
	} else {
		nt.root6 = *newRoot
	}
	if !exists {
		nt.bumpSize(is4, 1)
	}
	return nt
}

// UpdatePersist returns a new Table with cb applied to pfx's current value
// (or the zero value, if absent), leaving t untouched.
func (t *Table[V]) UpdatePersist(pfx netip.Prefix, cb func(V, bool) V) *Table[V] {
	old, existed := t.Get(pfx)
	return t.InsertPersist(pfx, cb(old, existed))
}

// DeletePersist returns a new Table with pfx removed, leaving t untouched.
// Unlike InsertPersist, it clones the whole tree up front rather than
// cloning only the path to pfx and re-threading the result, trading some
// allocation for a much smaller surface to get subtly wrong around
// re-compression on delete.
func (t *Table[V]) DeletePersist(pfx netip.Prefix) (*Table[V], bool) {
	nt := t.Clone(cloneValue[V])
	_, ok := nt.Delete(pfx)
	return nt, ok
}

// insertPersist is insert's copy-on-write counterpart: every node on the
// path to pfx is cloned before being touched, so the original tree rooted
// at n is left exactly as it was.
func (n *node[V]) insertPersist(pfx netip.Prefix, val V, depth int) (clone *node[V], exists bool) {
	c := n.cloneFlat(cloneValue[V])

	ip := pfx.Addr()
	bits := pfx.Bits()
	octets := ip.AsSlice()
	maxDepth, lastBits := maxDepthAndLastBits(bits)

	if depth == maxDepth {
		exists = c.insertPrefix(idx.PfxToIdx(octets[depth], lastBits), val)
		return c, exists
	}

	octet := octets[depth]

	if !c.children.Test(uint(octet)) {
		if isFringe(depth, bits) {
			c.insertChild(octet, newFringeNode(val))
		} else {
			c.insertChild(octet, newLeafNode(pfx, val))
		}
		return c, false
	}

	switch kid := c.mustGetChild(octet).(type) {
	case *node[V]:
		newKid, kidExists := kid.insertPersist(pfx, val, depth+1)
		c.insertChild(octet, newKid)
		return c, kidExists

	case *leafNode[V]:
		if kid.prefix == pfx {
			c.insertChild(octet, newLeafNode(pfx, val))
			return c, true
		}

		split := new(node[V])
		split.insert(kid.prefix, kid.value, depth+1)
		newKid, _ := split.insertPersist(pfx, val, depth+1)
		c.insertChild(octet, newKid)
		return c, false

	case *fringeNode[V]:
		if isFringe(depth, bits) {
			c.insertChild(octet, newFringeNode(val))
			return c, true
		}

		split := new(node[V])
		split.insertPrefix(1, kid.value)
		newKid, _ := split.insertPersist(pfx, val, depth+1)
		c.insertChild(octet, newKid)
		return c, false

	default:
		panic("logic error, wrong node type")
	}
}
