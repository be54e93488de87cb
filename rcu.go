package octrie

import (
	"net/netip"
	"sync"
	"sync/atomic"
)

// SyncTable is an RCU-style wrapper around Table: readers load the current
// version with no locking and never block a writer, while writers take
// Mutex and publish a new, structurally-shared version built with the
// Persist family of methods.
type SyncTable[V any] struct {
	atomic.Pointer[Table[V]]
	sync.Mutex
}

// NewSyncTable returns a SyncTable holding an empty Table.
func NewSyncTable[V any]() *SyncTable[V] {
	st := new(SyncTable[V])
	st.Store(new(Table[V]))
	return st
}

// SyncTableFrom returns a SyncTable seeded from a clone of t, leaving t
// itself untouched.
func SyncTableFrom[V any](t *Table[V]) *SyncTable[V] {
	st := new(SyncTable[V])
	st.Store(t.Clone(cloneValue[V]))
	return st
}

// Get returns the value stored at exactly pfx from the current version.
func (st *SyncTable[V]) Get(pfx netip.Prefix) (val V, ok bool) {
	return st.Load().Get(pfx)
}

// Lookup performs a longest-prefix match against the current version.
func (st *SyncTable[V]) Lookup(addr netip.Addr) (val V, ok bool) {
	return st.Load().Lookup(addr)
}

// Contains reports whether the current version covers addr.
func (st *SyncTable[V]) Contains(addr netip.Addr) bool {
	return st.Load().Contains(addr)
}

// Insert publishes a new version with pfx inserted. Readers already
// holding the old version keep seeing it; only Lookup/Get/Contains calls
// issued after Insert returns observe pfx.
func (st *SyncTable[V]) Insert(pfx netip.Prefix, val V) {
	st.Lock()
	defer st.Unlock()

	old := st.Load()
	st.Store(old.InsertPersist(pfx, val))
}

// Delete publishes a new version with pfx removed.
func (st *SyncTable[V]) Delete(pfx netip.Prefix) (ok bool) {
	st.Lock()
	defer st.Unlock()

	old := st.Load()
	next, ok := old.DeletePersist(pfx)
	st.Store(next)
	return ok
}

// Update publishes a new version with cb applied to pfx's current value.
func (st *SyncTable[V]) Update(pfx netip.Prefix, cb func(V, bool) V) {
	st.Lock()
	defer st.Unlock()

	old := st.Load()
	st.Store(old.UpdatePersist(pfx, cb))
}
