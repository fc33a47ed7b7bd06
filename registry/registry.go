// Package registry implements the concurrent inode-to-handle mapping and
// the inode generator. It is deliberately independent of the node package's
// concrete handle type (parameterized over H) so that registry and node do
// not import each other; controller ties the two together.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Registry is a mapping from inode number to handle value H, held in a Go
// map; it offers no iteration, ordered or otherwise. Reading (Get) takes only a shared lock; mutating (Insert, Remove) takes
// an exclusive lock over the whole map.
type Registry[H any] struct {
	mu      sync.RWMutex
	handles map[uint64]H
}

// New constructs an empty registry.
func New[H any]() *Registry[H] {
	return &Registry[H]{handles: make(map[uint64]H)}
}

// Insert adds a handle under ino. Inserting over an inode that already has
// a live handle is a programming error: the inode generator's monotonicity
// guarantees this never happens in practice, so a collision here means a
// caller minted or reused an inode incorrectly.
func (r *Registry[H]) Insert(ino uint64, h H) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handles[ino]; exists {
		panic(fmt.Sprintf("registry: duplicate insert for inode %d", ino))
	}
	r.handles[ino] = h
}

// Get returns the handle for ino, or the zero value and false on a miss.
// Dispatch translates a miss to ENOENT; Get itself never returns an error.
func (r *Registry[H]) Get(ino uint64) (H, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[ino]
	return h, ok
}

// Remove drops the handle for ino, used during node destruction. It is a
// no-op if ino is not present.
func (r *Registry[H]) Remove(ino uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, ino)
}

// Len reports the number of live handles.
func (r *Registry[H]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Generator mints inode numbers: a monotonic 64-bit counter starting at 1
// (1 is reserved for the mount root). Generate is lock-free.
type Generator struct {
	next uint64
}

// NewGenerator returns a generator whose first Generate() call yields 1.
func NewGenerator() *Generator {
	return &Generator{next: 1}
}

// Generate returns the next inode number. Overflow of the 64-bit counter is
// not handled, matching the budget assumption that a mount never outlives
// 2^64 registrations.
func (g *Generator) Generate() uint64 {
	return atomic.AddUint64(&g.next, 1) - 1
}
