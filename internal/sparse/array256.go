// Package sparse implements a popcount-compressed sparse array over at
// most 256 slots.
package sparse

import "github.com/arafel/octrie/internal/bitset"

// Array256 maps a node-local index in [0..255] to a payload of type T,
// storing only the set slots. A bitset.Set256 tracks presence; the rank of a
// set bit in that bitset is its offset into the dense Items slice. The
// bitset and Items must only ever change together, through the methods
// below; MustSet and MustClear are shadowed so the array's own method set
// cannot change the bitset alone, although the embedded Set256 and Items
// remain exported fields.
type Array256[T any] struct {
	bitset.Set256
	Items []T
}

// MustSet on the embedded bitset is forbidden: it would desynchronize the
// bitset from Items. Use InsertAt.
func (a *Array256[T]) MustSet(uint) {
	panic("forbidden, use InsertAt")
}

// MustClear on the embedded bitset is forbidden: it would desynchronize the
// bitset from Items. Use DeleteAt.
func (a *Array256[T]) MustClear(uint) {
	panic("forbidden, use DeleteAt")
}

// Get returns the value at i, if set.
func (a *Array256[T]) Get(i uint) (value T, ok bool) {
	if a.Test(i) {
		return a.Items[a.Rank0(i)], true
	}
	return
}

// MustGet returns the value at i without testing presence first; undefined
// if the slot isn't set.
func (a *Array256[T]) MustGet(i uint) T {
	return a.Items[a.Rank0(i)]
}

// UpdateAt sets the value at i to cb(oldValue, wasPresent), inserting a new
// slot if i wasn't set. Returns the new value and whether i was already set.
func (a *Array256[T]) UpdateAt(i uint, cb func(T, bool) T) (newValue T, wasPresent bool) {
	var rank0 int
	var oldValue T

	if wasPresent = a.Test(i); wasPresent {
		rank0 = a.Rank0(i)
		oldValue = a.Items[rank0]
	}

	newValue = cb(oldValue, wasPresent)

	if wasPresent {
		a.Items[rank0] = newValue
		return newValue, wasPresent
	}

	a.Set256.MustSet(i)
	rank0 = a.Rank0(i)
	a.insertItem(rank0, newValue)

	return newValue, wasPresent
}

// Len returns the number of set slots.
func (a *Array256[T]) Len() int {
	return len(a.Items)
}

// Copy returns a shallow copy: the bitset is copied and Items is copied
// into a new backing array, but element values are not deep-cloned.
func (a *Array256[T]) Copy() *Array256[T] {
	if a == nil {
		return nil
	}
	return &Array256[T]{
		Set256: a.Set256,
		Items:  append(a.Items[:0:0], a.Items...),
	}
}

// InsertAt sets i to value. If i was already set, the old value is
// overwritten and exists is true.
func (a *Array256[T]) InsertAt(i uint, value T) (exists bool) {
	if a.Test(i) {
		a.Items[a.Rank0(i)] = value
		return true
	}

	a.Set256.MustSet(i)
	a.insertItem(a.Rank0(i), value)

	return false
}

// DeleteAt clears i, returning its value if it was set.
func (a *Array256[T]) DeleteAt(i uint) (value T, exists bool) {
	if a.Len() == 0 || !a.Test(i) {
		return
	}

	rank0 := a.Rank0(i)
	value = a.Items[rank0]

	a.deleteItem(rank0)
	a.Set256.MustClear(i)

	return value, true
}

// insertItem inserts item at index i, shifting the tail right by one.
func (a *Array256[T]) insertItem(i int, item T) {
	if len(a.Items) < cap(a.Items) {
		a.Items = a.Items[:len(a.Items)+1]
	} else {
		var zero T
		a.Items = append(a.Items, zero)
	}

	_ = a.Items[i]
	copy(a.Items[i+1:], a.Items[i:])
	a.Items[i] = item
}

// deleteItem removes the item at index i, shifting the tail left by one and
// zeroing the vacated slot.
func (a *Array256[T]) deleteItem(i int) {
	var zero T

	_ = a.Items[i]
	copy(a.Items[i:], a.Items[i+1:])

	nl := len(a.Items) - 1
	a.Items[nl] = zero
	a.Items = a.Items[:nl]
}
