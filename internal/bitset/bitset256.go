// Package bitset implements a fixed-size 256-bit set, the building block
// for the trie's popcount-compressed sparse arrays.
package bitset

import (
	"fmt"
	"math/bits"
)

// Set256 is a fixed size bitset spanning [0..255], realized as four
// 64-bit words. Hand-rolled popcount/rank/leading-zero operations on the
// words back the hot paths (insert, lookup); a generic bitset library whose
// API stops at whole-set operations cannot expose the word-level
// intersect-and-find-highest-bit primitive the longest-prefix-match walk
// needs, so the four words are manipulated directly here instead.
type Set256 [4]uint64

func (b *Set256) String() string {
	return fmt.Sprint(b.All())
}

// MustSet sets the bit. Panics if bit > 255.
func (b *Set256) MustSet(bit uint) {
	b[bit>>6] |= 1 << (bit & 63)
}

// MustClear clears the bit. Panics if bit > 255.
func (b *Set256) MustClear(bit uint) {
	b[bit>>6] &^= 1 << (bit & 63)
}

// Test reports whether bit is set.
func (b *Set256) Test(bit uint) bool {
	if x := int(bit >> 6); x < 4 {
		return b[x&3]&(1<<(bit&63)) != 0 // [x&3] is bounds check elimination
	}
	return false
}

// FirstSet returns the lowest set bit, if any.
func (b *Set256) FirstSet() (first uint, ok bool) {
	if x := bits.TrailingZeros64(b[0]); x != 64 {
		return uint(x), true
	} else if x := bits.TrailingZeros64(b[1]); x != 64 {
		return uint(x + 64), true
	} else if x := bits.TrailingZeros64(b[2]); x != 64 {
		return uint(x + 128), true
	} else if x := bits.TrailingZeros64(b[3]); x != 64 {
		return uint(x + 192), true
	}
	return 0, false
}

// NextSet returns the lowest set bit at or above bit.
func (b *Set256) NextSet(bit uint) (uint, bool) {
	wIdx := int(bit >> 6)
	if wIdx >= 4 {
		return 0, false
	}

	first := b[wIdx&3] >> (bit & 63)
	if first != 0 {
		return bit + uint(bits.TrailingZeros64(first)), true
	}

	wIdx++
	for jIdx, word := range b[wIdx:] {
		if word != 0 {
			return uint((wIdx+jIdx)<<6 + bits.TrailingZeros64(word)), true
		}
	}
	return 0, false
}

// AsSlice appends all set bits into buf and returns the result without
// heap allocation, provided cap(buf) >= b.Size(). Panics otherwise.
func (b *Set256) AsSlice(buf []uint) []uint {
	buf = buf[:cap(buf)]

	size := 0
	for wIdx, word := range b {
		for ; word != 0; size++ {
			buf[size] = uint(wIdx<<6 + bits.TrailingZeros64(word))
			word &= word - 1 // clear the rightmost set bit
		}
	}

	return buf[:size]
}

// All returns all set bits. Simpler API than AsSlice but always allocates.
func (b *Set256) All() []uint {
	return b.AsSlice(make([]uint, 0, 256))
}

// IntersectionTop computes b AND c and, if the result is non-empty, returns
// its highest set bit.
func (b *Set256) IntersectionTop(c *Set256) (top uint, ok bool) {
	for wIdx := 3; wIdx >= 0; wIdx-- {
		if word := b[wIdx] & c[wIdx]; word != 0 {
			return uint(wIdx<<6+bits.Len64(word)) - 1, true
		}
	}
	return 0, false
}

// Rank0 returns the number of set bits in [0..idx], minus one; used directly
// as a slice index into the paired dense array. Deliberately does not bound
// -check idx > 255: callers only ever pass valid sparse-array keys, and the
// bounds check here would be on the hottest path in the package.
func (b *Set256) Rank0(idx uint) (rnk int) {
	rnk += bits.OnesCount64(b[0] & rankMask[uint8(idx)][0])
	rnk += bits.OnesCount64(b[1] & rankMask[uint8(idx)][1])
	rnk += bits.OnesCount64(b[2] & rankMask[uint8(idx)][2])
	rnk += bits.OnesCount64(b[3] & rankMask[uint8(idx)][3])
	rnk--
	return
}

// IsEmpty reports whether no bit is set.
func (b *Set256) IsEmpty() bool {
	return b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 0
}

// IntersectsAny reports whether b AND c is non-empty.
func (b *Set256) IntersectsAny(c *Set256) bool {
	return b[0]&c[0] != 0 || b[1]&c[1] != 0 || b[2]&c[2] != 0 || b[3]&c[3] != 0
}

// Intersection returns b AND c.
func (b *Set256) Intersection(c *Set256) (bs Set256) {
	bs[0] = b[0] & c[0]
	bs[1] = b[1] & c[1]
	bs[2] = b[2] & c[2]
	bs[3] = b[3] & c[3]
	return
}

// Union returns b OR c.
func (b *Set256) Union(c *Set256) (bs Set256) {
	bs[0] = b[0] | c[0]
	bs[1] = b[1] | c[1]
	bs[2] = b[2] | c[2]
	bs[3] = b[3] | c[3]
	return
}

// IntersectionCardinality returns the popcount of b AND c.
func (b *Set256) IntersectionCardinality(c *Set256) (cnt int) {
	cnt += bits.OnesCount64(b[0] & c[0])
	cnt += bits.OnesCount64(b[1] & c[1])
	cnt += bits.OnesCount64(b[2] & c[2])
	cnt += bits.OnesCount64(b[3] & c[3])
	return
}

// Size returns the popcount of b.
func (b *Set256) Size() int {
	return bits.OnesCount64(b[0]) + bits.OnesCount64(b[1]) +
		bits.OnesCount64(b[2]) + bits.OnesCount64(b[3])
}

// rankMask[i] has bits [0..i] set and nothing above; Rank0(i) is the
// popcount of (b AND rankMask[i]), minus one.
var rankMask = computeRankMask()

func computeRankMask() (tbl [256]Set256) {
	for i := range tbl {
		for j := 0; j <= i; j++ {
			tbl[i].MustSet(uint(j))
		}
	}
	return
}
