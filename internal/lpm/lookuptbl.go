// Package lpm precomputes the backtracking bitsets used by longest-prefix
// -match lookups: for each of the 512 complete-binary-tree indices, the set
// of its ancestors up to the root.
package lpm

import "github.com/arafel/octrie/internal/bitset"

// LookupTbl[i] is the backtracking bitset for complete-binary-tree index i:
// the set of all ancestors of i (including i itself), found by repeatedly
// halving i and setting the resulting bit. Intersecting LookupTbl[hostIdx]
// with a node's prefixes bitset and taking the top surviving bit yields the
// longest stored prefix covering that octet.
var LookupTbl [512]bitset.Set256

func init() {
	for i := range LookupTbl {
		LookupTbl[i] = BackTrackingBitset(uint(i))
	}
}

// BackTrackingBitset computes the set of ancestors of idx in the
// complete binary tree, each found by repeatedly halving idx. Only bits in
// [0..255] are representable in the result; halving a host index (256..511)
// quickly brings it into that range.
func BackTrackingBitset(idx uint) (bs bitset.Set256) {
	for ; idx > 0; idx >>= 1 {
		if idx > 255 {
			continue
		}
		bs.MustSet(idx)
	}
	return
}
