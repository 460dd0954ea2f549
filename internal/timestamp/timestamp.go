// Package timestamp mints strictly monotonic, node-tagged logical
// timestamps for the coordinator.
package timestamp

import (
	"sync"
	"time"

	"github.com/bdeggleston/accord/internal/nodeid"
)

// Timestamp is a totally ordered value composed of (logical-time, node-id).
// Two timestamps compare lexicographically on Logical first, then on Node.
type Timestamp struct {
	Logical uint64
	Node    nodeid.NodeId
}

// Less reports whether t sorts strictly before o.
func (t Timestamp) Less(o Timestamp) bool {
	if t.Logical != o.Logical {
		return t.Logical < o.Logical
	}
	return t.Node < o.Node
}

// Equal reports whether t and o are the same timestamp.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.Logical == o.Logical && t.Node == o.Node
}

// Max returns the greater of t and o.
func Max(t, o Timestamp) Timestamp {
	if o.Less(t) {
		return t
	}
	return o
}

// Source mints strictly increasing Timestamps tagged with this node's id.
// Safe for concurrent use; the monotonicity contract holds across clock
// regressions by falling back to a counter bump instead of going backwards.
type Source struct {
	node nodeid.NodeId

	mu   sync.Mutex
	last uint64
}

// NewSource builds a Source that tags every minted Timestamp with node.
func NewSource(node nodeid.NodeId) *Source {
	return &Source{node: node}
}

// UniqueNow returns a Timestamp strictly greater than any previously
// returned by this Source.
func (s *Source) UniqueNow() Timestamp {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := uint64(time.Now().UnixNano())
	if now <= s.last {
		// clock regression, or two calls within the same nanosecond:
		// fall back to bumping the counter so monotonicity still holds.
		now = s.last + 1
	}
	s.last = now

	return Timestamp{Logical: now, Node: s.node}
}
