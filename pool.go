package octrie

import (
	"sync"
	"sync/atomic"
)

// nodePool is a type-safe wrapper around sync.Pool, specialized for
// *node[V]. It tracks allocation and live-use counters. Neither Table nor
// SyncTable draws nodes from it or returns nodes to it.
type nodePool[V any] struct {
	sync.Pool

	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

func newNodePool[V any]() *nodePool[V] {
	p := &nodePool[V]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return new(node[V])
	}
	return p
}

// Get retrieves a *node[V] from the pool, or allocates a new one. A nil
// receiver always allocates, untracked.
func (p *nodePool[V]) Get() *node[V] {
	if p == nil {
		return new(node[V])
	}
	p.currentLive.Add(1)
	return p.Pool.Get().(*node[V])
}

// Put returns n to the pool after resetting it. A nil receiver discards n.
func (p *nodePool[V]) Put(n *node[V]) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	n.reset()
	p.Pool.Put(n)
}

// Stats reports the number of nodes currently checked out and the total
// ever allocated by this pool.
func (p *nodePool[V]) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
