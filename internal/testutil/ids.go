package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs generates predictable entry IDs: "<prefix>-1", "<prefix>-2", ...
//
// This enables exact assertions on IDs and golden output comparison.
//
// Thread-safety: SequenceIDs is safe for concurrent use via internal mutex.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDs creates a generator. An empty prefix defaults to "entry".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = "entry"
	}
	return &SequenceIDs{prefix: prefix}
}

// NewID returns the next ID in the sequence.
func (g *SequenceIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Issued returns how many IDs have been generated.
func (g *SequenceIDs) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}
