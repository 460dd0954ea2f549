// Package txn implements the per-transaction coordinator state: the
// aggregation record (CoordinatedTransaction) built on top of the
// immutable protocol.Transaction, and the phase state machine governing
// legal transitions between phases.
package txn

import (
	"sync"

	"github.com/bdeggleston/accord/internal/nodeid"
	"github.com/bdeggleston/accord/internal/protocol"
	"github.com/bdeggleston/accord/internal/timestamp"
)

// CoordinatedTransaction is the per-transaction aggregation record the
// coordinator keeps: the immutable Transaction it was built from, the
// maximum proposed timestamp seen so far, the accumulated dependency set,
// and the current phase. Mutated only by the merge methods below and the
// phase-transition methods; other packages only read its fields, and
// only while holding its lock.
//
// A sync.Mutex guards every field below; callers acquire it for the
// duration of a merge-plus-decision, matching the teacher's
// Scope.lock/Scope.cmdLock split (consensus/scope.go) and the "map lock
// first, then record lock, never the reverse" ordering the coordinator
// relies on.
type CoordinatedTransaction[K protocol.Key] struct {
	mu sync.Mutex

	Inner    protocol.Transaction[K]
	Proposed timestamp.Timestamp
	Deps     TransactionIDSet
	Phase    Phase
}

// New builds a fresh CoordinatedTransaction in the PreAccepting phase with
// an empty responded set, Proposed initialized to the transaction id's own
// timestamp.
func New[K protocol.Key](tx protocol.Transaction[K]) *CoordinatedTransaction[K] {
	return &CoordinatedTransaction[K]{
		Inner:    tx,
		Proposed: timestamp.Timestamp(tx.ID),
		Deps:     make(TransactionIDSet),
		Phase:    NewPreAccepting(),
	}
}

// ProposedIsOriginal reports whether every responder so far has proposed
// the transaction's original timestamp, the fast-path eligibility
// condition.
func (c *CoordinatedTransaction[K]) ProposedIsOriginal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Proposed.Equal(timestamp.Timestamp(c.Inner.ID))
}

// Lock acquires the record's mutex. Exported so the coordinator can hold a
// single lock across a merge-plus-decision sequence without this package
// needing to know about quorum oracles.
func (c *CoordinatedTransaction[K]) Lock()   { c.mu.Lock() }
func (c *CoordinatedTransaction[K]) Unlock() { c.mu.Unlock() }

// PreAcceptMsgReceived merges a PreAcceptOk's proposed timestamp and deps
// into the record and marks from as responded. Must be called while the
// record is locked. Returns the up-to-date responded set, or an
// InvalidPhaseError if the record is not currently PreAccepting: late
// responses after a decision has already been taken land here and are
// harmless to drop.
func (c *CoordinatedTransaction[K]) PreAcceptMsgReceived(from nodeid.NodeId, proposed timestamp.Timestamp, deps []protocol.TransactionID) (map[nodeid.NodeId]struct{}, error) {
	pa, ok := c.Phase.(PreAccepting)
	if !ok {
		return nil, NewInvalidPhaseError(c.Phase, "PreAcceptOk")
	}

	c.Deps.Union(deps)
	pa.Responded[from] = struct{}{}
	c.Proposed = timestamp.Max(c.Proposed, proposed)

	return pa.Responded, nil
}

// AcceptMsgReceived merges an AcceptOk's deps into the record and marks
// from as responded. Must be called while the record is locked. Returns
// an InvalidPhaseError if the record is not currently Accepting.
func (c *CoordinatedTransaction[K]) AcceptMsgReceived(from nodeid.NodeId, deps []protocol.TransactionID) (map[nodeid.NodeId]struct{}, error) {
	ac, ok := c.Phase.(Accepting)
	if !ok {
		return nil, NewInvalidPhaseError(c.Phase, "AcceptOk")
	}

	c.Deps.Union(deps)
	ac.Responded[from] = struct{}{}

	return ac.Responded, nil
}

// MoveToAccepting transitions PreAccepting -> Accepting, clearing the
// responded set. Must be called while the record is locked.
func (c *CoordinatedTransaction[K]) MoveToAccepting() error {
	if _, ok := c.Phase.(PreAccepting); !ok {
		return NewInvalidPhaseError(c.Phase, "move_to_accepting")
	}
	c.Phase = NewAccepting()
	return nil
}

// MoveToExecuting transitions PreAccepting -> Executing (fast path) or
// Accepting -> Executing (slow path). Any other starting phase is an
// error.
func (c *CoordinatedTransaction[K]) MoveToExecuting() error {
	switch c.Phase.(type) {
	case PreAccepting, Accepting:
		c.Phase = Executing{}
		return nil
	default:
		return NewInvalidPhaseError(c.Phase, "move_to_executing")
	}
}
