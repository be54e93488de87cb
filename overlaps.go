package octrie

import (
	bbbitset "github.com/bits-and-blooms/bitset"
	"net/netip"

	"github.com/arafel/octrie/internal/allot"
	"github.com/arafel/octrie/internal/idx"
	"github.com/arafel/octrie/internal/lpm"
)

// lpmTest reports whether any prefix stored in n is an ancestor of, or
// equal to, the complete-binary-tree index cbtIdx.
func (n *node[V]) lpmTest(cbtIdx uint) bool {
	_, _, ok := n.lookupAncestor(cbtIdx)
	return ok
}

// overlapsRec reports whether any route stored anywhere under n overlaps
// any route stored anywhere under o, recursing into children that exist
// in both at the same octet.
func (n *node[V]) overlapsRec(o *node[V]) bool {
	nPfxLen, oPfxLen := n.prefixCount(), o.prefixCount()
	nChildLen, oChildLen := n.childCount(), o.childCount()

	if nPfxLen > 0 && oPfxLen > 0 && n.overlapsRoutes(o) {
		return true
	}

	if nPfxLen > 0 && oChildLen > 0 && n.overlapsChildsIn(o) {
		return true
	}

	if oPfxLen > 0 && nChildLen > 0 && o.overlapsChildsIn(n) {
		return true
	}

	if nChildLen == 0 || oChildLen == 0 {
		return false
	}

	if n.children.IntersectionCardinality(&o.children.Set256) == 0 {
		return false
	}

	return n.overlapsSameChilds(o)
}

// overlapsRoutes tests whether n's prefixes overlap o's prefixes, assuming
// both are non-empty.
func (n *node[V]) overlapsRoutes(o *node[V]) bool {
	if n.prefixCount() == 1 {
		return o.overlapsOneRouteIn(n)
	}
	if o.prefixCount() == 1 {
		return n.overlapsOneRouteIn(o)
	}

	if n.prefixes.IntersectionCardinality(&o.prefixes.Set256) > 0 {
		return true
	}

	nOK, oOK := true, true
	var nIdx, oIdx uint

	for nOK || oOK {
		if nOK {
			if nIdx, nOK = n.prefixes.NextSet(nIdx); nOK {
				if o.lpmTest(nIdx) {
					return true
				}
				nIdx++
			}
		}
		if oOK {
			if oIdx, oOK = o.prefixes.NextSet(oIdx); oOK {
				if n.lpmTest(oIdx) {
					return true
				}
				oIdx++
			}
		}
	}

	return false
}

// overlapsOneRouteIn tests the single prefix stored in o against all of
// n's prefixes.
func (n *node[V]) overlapsOneRouteIn(o *node[V]) bool {
	pfxIdx, _ := o.prefixes.FirstSet()

	if n.lpmTest(pfxIdx) {
		return true
	}

	for _, nIdx := range n.prefixes.All() {
		if lpm.LookupTbl[nIdx].Test(pfxIdx) {
			return true
		}
	}
	return false
}

// overlapsChildsIn tests whether n's prefixes overlap any child octet of
// o. Below magicNumber candidates it's cheaper to range directly over o's
// children; above it, union the alloted host-route bitsets for all of n's
// prefixes into one scratch bitset and intersect once.
func (n *node[V]) overlapsChildsIn(o *node[V]) bool {
	const magicNumber = 15
	pfxLen, childLen := n.prefixCount(), o.childCount()

	if childLen < magicNumber || pfxLen > magicNumber {
		var oAddr uint
		ok := true
		for ok {
			if oAddr, ok = o.children.NextSet(oAddr); ok {
				if n.lpmTest(idx.HostIdx(uint8(oAddr))) {
					return true
				}
				oAddr++
			}
		}
		return false
	}

	var prefixBacking [4]uint64
	prefixRoutes := bbbitset.From(prefixBacking[:])

	for _, pfxIdx := range n.prefixes.All() {
		hostRoutes := allot.HostRoutesTbl[pfxIdx]
		prefixRoutes.InPlaceUnion(bbbitset.From(hostRoutes[:]))
	}

	childBits := o.children.Set256
	return prefixRoutes.IntersectionCardinality(bbbitset.From(childBits[:])) > 0
}

// overlapsSameChilds recurses into every child octet common to n and o.
func (n *node[V]) overlapsSameChilds(o *node[V]) bool {
	common := n.children.Intersection(&o.children.Set256)

	for _, addr := range common.All() {
		if kidsOverlap[V](n.mustGetChild(uint8(addr)), o.mustGetChild(uint8(addr))) {
			return true
		}
	}

	return false
}

// kidsOverlap tests whether two child slots sharing the same octet key
// overlap. A fringe shares its parent's octet exactly and is therefore a
// supernet of (or equal to) whatever the other side holds under the same
// key, so any fringe on either side is an automatic match.
func kidsOverlap[V any](nKid, oKid any) bool {
	if _, ok := nKid.(*fringeNode[V]); ok {
		return true
	}
	if _, ok := oKid.(*fringeNode[V]); ok {
		return true
	}

	nNode, nIsNode := nKid.(*node[V])
	oNode, oIsNode := oKid.(*node[V])

	switch {
	case nIsNode && oIsNode:
		return nNode.overlapsRec(oNode)
	case nIsNode:
		oPfx := oKid.(*leafNode[V]).prefix
		return nNode.overlapsPrefix(oPfx.Addr().AsSlice(), oPfx.Bits(), 0)
	case oIsNode:
		nPfx := nKid.(*leafNode[V]).prefix
		return oNode.overlapsPrefix(nPfx.Addr().AsSlice(), nPfx.Bits(), 0)
	default:
		return nKid.(*leafNode[V]).prefix.Overlaps(oKid.(*leafNode[V]).prefix)
	}
}

// overlapsPrefix reports whether the prefix described by octets/pfxBits
// overlaps any route stored under n, which is at depth in that prefix's
// own trie.
func (n *node[V]) overlapsPrefix(octets []byte, pfxBits int, depth int) bool {
	maxDepth, lastBits := maxDepthAndLastBits(pfxBits)
	octet := octets[depth]

	if depth < maxDepth {
		if n.lpmTest(idx.HostIdx(octet)) {
			return true
		}

		kidAny, exists := n.getChild(octet)
		if !exists {
			return false
		}

		switch kid := kidAny.(type) {
		case *node[V]:
			return kid.overlapsPrefix(octets, pfxBits, depth+1)
		case *leafNode[V]:
			query := prefixFromOctets(octets, pfxBits)
			return query.Overlaps(kid.prefix)
		case *fringeNode[V]:
			return true
		}
		return false
	}

	queryIdx := uint(idx.PfxToIdx(octet, lastBits))

	if n.lpmTest(queryIdx) {
		return true
	}

	for _, nIdx := range n.prefixes.All() {
		if lpm.LookupTbl[nIdx].Test(queryIdx) {
			return true
		}
	}

	hostRoutes := allot.HostRoutesTbl[queryIdx]
	return n.children.IntersectsAny(&hostRoutes)
}

func prefixFromOctets(octets []byte, bits int) netip.Prefix {
	if len(octets) == 4 {
		var a4 [4]byte
		copy(a4[:], octets)
		return netip.PrefixFrom(netip.AddrFrom4(a4), bits)
	}
	var a16 [16]byte
	copy(a16[:], octets)
	return netip.PrefixFrom(netip.AddrFrom16(a16), bits)
}
