// Package protocol defines the Accord wire types: transaction identity,
// key sets, and the eight messages carried between coordinator and
// replicas. Field shapes are lifted directly from
// original_source/crates/diststore/src/accord/{transaction,protocol}.rs;
// serialization is left to the transport layer, deliberately kept out of
// the coordinator core.
package protocol

import (
	"cmp"
	"slices"

	"github.com/bdeggleston/accord/internal/timestamp"
)

// TransactionID is equal to the timestamp minted for the transaction at
// BeginRead/BeginWrite. It is globally unique by construction: node-tagged
// and monotonic per node.
type TransactionID timestamp.Timestamp

// Less orders TransactionIDs the same way their underlying Timestamps do.
func (id TransactionID) Less(o TransactionID) bool {
	return timestamp.Timestamp(id).Less(timestamp.Timestamp(o))
}

// TransactionKind is either a read-only or a read-write transaction.
type TransactionKind int

const (
	Read TransactionKind = iota
	Write
)

func (k TransactionKind) String() string {
	if k == Write {
		return "Write"
	}
	return "Read"
}

// Key is the constraint on the opaque, totally ordered key type a
// Transaction's KeySet is built from.
type Key interface {
	cmp.Ordered
}

// KeySet is a non-empty, deduplicated, sorted set of keys.
type KeySet[K Key] struct {
	keys []K
}

// NewKeySet builds a KeySet from one or more keys. Panics if called with no
// keys: a KeySet is defined to be non-empty.
func NewKeySet[K Key](keys ...K) KeySet[K] {
	if len(keys) == 0 {
		panic("protocol: KeySet must be non-empty")
	}
	cp := append([]K(nil), keys...)
	slices.Sort(cp)
	cp = slices.Compact(cp)
	return KeySet[K]{keys: cp}
}

// Keys returns the set's members in sorted order.
func (s KeySet[K]) Keys() []K {
	return s.keys
}

// Len returns the number of distinct keys in the set.
func (s KeySet[K]) Len() int {
	return len(s.keys)
}

// Transaction is the immutable record a coordinator begins and a replica
// proposes against. Command bytes are opaque to the coordinator; only the
// Executor interprets them.
type Transaction[K Key] struct {
	ID      TransactionID
	Kind    TransactionKind
	Keys    KeySet[K]
	Command []byte
}

// NewTransaction builds an immutable Transaction. id must equal the
// timestamp minted for it, enforced by callers in internal/coordinator,
// not here, since Transaction itself carries no timestamp source.
func NewTransaction[K Key](id TransactionID, kind TransactionKind, keys KeySet[K], command []byte) Transaction[K] {
	return Transaction[K]{
		ID:      id,
		Kind:    kind,
		Keys:    keys,
		Command: command,
	}
}
