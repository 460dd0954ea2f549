package txn

import (
	"slices"

	"github.com/bdeggleston/accord/internal/protocol"
)

// TransactionIDSet is the in-memory accumulation of a CoordinatedTransaction's
// dependency set: grows by union only, mirroring the teacher's
// InstanceIDSet (consensus/manager_test.go). Wire messages carry plain
// []TransactionID slices (protocol package); this set exists only on the
// coordinator side of that boundary.
type TransactionIDSet map[protocol.TransactionID]struct{}

// NewTransactionIDSet builds a set from a slice of ids, deduplicating.
func NewTransactionIDSet(ids []protocol.TransactionID) TransactionIDSet {
	set := make(TransactionIDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Union merges other into s in place. Idempotent and monotone: never
// removes a member already present.
func (s TransactionIDSet) Union(other []protocol.TransactionID) {
	for _, id := range other {
		s[id] = struct{}{}
	}
}

// Contains reports whether id is a member of s.
func (s TransactionIDSet) Contains(id protocol.TransactionID) bool {
	_, ok := s[id]
	return ok
}

// List returns the set's members as a slice sorted in timestamp order, so
// that encoding the same set twice produces the same bytes on the wire.
// Used when populating outbound messages' Deps fields.
func (s TransactionIDSet) List() []protocol.TransactionID {
	out := make([]protocol.TransactionID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b protocol.TransactionID) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return out
}

// Len returns the number of members in s.
func (s TransactionIDSet) Len() int {
	return len(s)
}
