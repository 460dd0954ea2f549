package protocol

import (
	"github.com/bdeggleston/accord/internal/timestamp"
)

// PreAccept is broadcast by the coordinator to the replicas owning a
// transaction's keys to begin the preaccept phase.
type PreAccept[K Key] struct {
	Tx Transaction[K]
}

// PreAcceptOk is a single replica's proposal, returned in response to a
// PreAccept.
type PreAcceptOk struct {
	TxID     TransactionID
	Proposed timestamp.Timestamp
	Deps     []TransactionID
}

// Accept is the slow-path broadcast asking replicas to ack a pushed
// timestamp and the dependency set gathered during preaccept.
type Accept struct {
	TxID      TransactionID
	Timestamp timestamp.Timestamp
	Deps      []TransactionID
}

// AcceptOk acknowledges an Accept from a single replica.
type AcceptOk struct {
	TxID TransactionID
	Deps []TransactionID
}

// Commit is broadcast once the coordinator has decided a timestamp and
// dependency set, via either the fast or the slow path.
type Commit struct {
	TxID      TransactionID
	Timestamp timestamp.Timestamp
	Deps      []TransactionID
}

// Read is broadcast to the shards owning the transaction's keys once
// execution should begin.
type Read struct {
	TxID      TransactionID
	Timestamp timestamp.Timestamp
	Deps      []TransactionID
}

// ReadOk carries a single shard's read data back to the coordinator.
type ReadOk struct {
	TxID TransactionID
	Data []byte
}

// Apply is broadcast once the coordinator's executor has computed the
// write from a shard's read data.
type Apply struct {
	TxID      TransactionID
	Timestamp timestamp.Timestamp
	Deps      []TransactionID
	Data      []byte
}
