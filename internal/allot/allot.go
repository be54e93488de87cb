// Package allot precomputes, for each node-local prefix index, the bitset
// of host octets its prefix range allots. This turns the overlap test
// between a node's stored prefixes and a sibling node's child octets into a
// single bitset intersection instead of a pair of nested range loops.
package allot

import (
	"github.com/arafel/octrie/internal/bitset"
	"github.com/arafel/octrie/internal/idx"
)

// HostRoutesTbl[i], for node-local prefix index i in [1..255], is the
// bitset of host octets covered by the prefix i represents.
var HostRoutesTbl [256]bitset.Set256

func init() {
	for i := 1; i < 256; i++ {
		HostRoutesTbl[i] = allotedHostRoutes(uint8(i))
	}
}

// allotedHostRoutes builds the host-route bitset for prefix index pfxIdx
// directly from its covered octet range.
func allotedHostRoutes(pfxIdx uint8) (bs bitset.Set256) {
	first, last := idx.IdxToRange(pfxIdx)
	for o := int(first); o <= int(last); o++ {
		bs.MustSet(uint(o))
	}
	return
}
