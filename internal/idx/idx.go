// Package idx implements the complete-binary-tree index arithmetic that
// maps an (octet, prefix-length) pair onto a single node-local index in
// [1..255], and the inverse mappings needed to reconstruct a prefix from an
// index plus the octet path leading to it.
package idx

import "math/bits"

// PfxToIdxTbl[pfxLen][octet] precomputes PfxToIdx so the insert/lookup hot
// path never branches on pfxLen.
var PfxToIdxTbl [9][256]uint8

func init() {
	for pfxLen := 0; pfxLen <= 8; pfxLen++ {
		for octet := 0; octet < 256; octet++ {
			PfxToIdxTbl[pfxLen][octet] = pfxToIdx(uint8(octet), pfxLen)
		}
	}
}

// pfxToIdx is the reference formula; PfxToIdx below should be preferred on
// any hot path since it's a table lookup.
func pfxToIdx(octet uint8, pfxLen int) uint8 {
	idx := uint(octet)>>(8-pfxLen) + 1<<uint(pfxLen)
	if idx > 255 {
		idx >>= 1
	}
	return uint8(idx)
}

// PfxToIdx maps (octet, pfxLen) to its complete-binary-tree index in
// [1..255], for pfxLen in [0..8].
func PfxToIdx(octet byte, pfxLen int) uint8 {
	return PfxToIdxTbl[pfxLen][octet]
}

// HostIdx maps an octet to its complete-binary-tree leaf index in
// [256..511], used to seed longest-prefix-match backtracking.
func HostIdx(octet uint8) uint {
	return 256 + uint(octet)
}

// IdxToPfx recovers (octet, pfxLen) from a node-local index in [1..255].
//
// This is the exact inverse of PfxToIdx for its real operating domain,
// pfxLen in [0..7]: a prefix whose length lands exactly on a stride
// boundary (pfxLen == 8, i.e. last_bits == 0) is never turned into a
// prefixes-array index by real insert/lookup code — at that depth the walk
// calls PfxToIdx(octet, 0), the node's default-route slot, or installs a
// fringe instead (see isFringe). PfxToIdx(octet, 8) therefore has no
// distinct inverse; by construction of its overflow fold it lands on the
// same index as PfxToIdx(octet, 7), and IdxToPfx recovers that pfxLen-7
// reading.
func IdxToPfx(idx uint8) (octet uint8, pfxLen int) {
	if idx == 0 {
		panic("logic error, idx is 0")
	}
	pfxLen = bits.Len8(idx) - 1
	octet = (idx - 1<<uint(pfxLen)) << uint(8-pfxLen)
	return
}

// PfxLen returns the prefix length represented by idx at trie depth depth.
func PfxLen(depth int, idx uint8) int {
	_, pfxLen := IdxToPfx(idx)
	return depth*8 + pfxLen
}

// IdxToRange returns the first and last octet covered by idx.
func IdxToRange(idx uint8) (first, last uint8) {
	octet, pfxLen := IdxToPfx(idx)
	return octet, last8(octet, pfxLen)
}

// NetMask returns the 8-bit mask with the top bits bits set.
func NetMask(bits int) uint8 {
	return 0b1111_1111 << (8 - bits)
}

func last8(octet uint8, pfxLen int) uint8 {
	return octet | ^NetMask(pfxLen)
}
