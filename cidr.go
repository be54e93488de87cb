package octrie

import (
	"net/netip"

	"github.com/arafel/octrie/internal/idx"
)

// cloneFunc deep-copies a stored value during a persistent mutation. A nil
// cloneFunc means values are never deep-copied, only the trie shape is.
type cloneFunc[V any] func(V) V

// buildAddr assembles an address whose first nodeDepth octets come from
// octets and whose next octet is lastOctet; every remaining octet is zero.
func buildAddr(octets []byte, nodeDepth int, lastOctet uint8, is4 bool) netip.Addr {
	var buf [16]byte
	copy(buf[:nodeDepth], octets[:nodeDepth])
	buf[nodeDepth] = lastOctet

	if is4 {
		var a4 [4]byte
		copy(a4[:], buf[:4])
		return netip.AddrFrom4(a4)
	}
	return netip.AddrFrom16(buf)
}

// cidrFromPath rebuilds the prefix a node-local prefix index represents,
// given the path of octets leading to the node that owns it. nodeDepth is
// the number of octets already consumed to reach that node.
func cidrFromPath(octets []byte, nodeDepth int, is4 bool, pfxIdx uint8) netip.Prefix {
	lastOctet, pfxLen := idx.IdxToPfx(pfxIdx)
	bits := nodeDepth*8 + pfxLen
	return netip.PrefixFrom(buildAddr(octets, nodeDepth, lastOctet, is4), bits)
}

// cidrForFringe rebuilds the prefix a fringe child represents: a prefix
// landing exactly on the stride boundary one octet below nodeDepth.
func cidrForFringe(octets []byte, nodeDepth int, is4 bool, lastOctet uint8) netip.Prefix {
	bits := (nodeDepth + 1) * 8
	return netip.PrefixFrom(buildAddr(octets, nodeDepth, lastOctet, is4), bits)
}
