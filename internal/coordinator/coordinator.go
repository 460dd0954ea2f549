// Package coordinator implements the Accord coordinator state machine
// (C5): the map from transaction id to aggregation record, and the entry
// points the local node and the transport's inbound-response callbacks use
// to drive a transaction from BeginRead/BeginWrite through Commit, Read,
// and Apply.
//
// Grounded on the teacher's consensus.Manager (manager_prepare.go) for
// collaborator wiring and consensus.Scope.ExecuteQuery (scope.go) for
// phase sequencing; the decision rules in OnPreAcceptOk/OnAcceptOk are
// lifted in meaning from
// original_source/crates/diststore/src/accord/node/coordinator.rs.
package coordinator

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	logging "github.com/op/go-logging"
	"github.com/cactus/go-statsd-client/v5/statsd"

	"github.com/bdeggleston/accord/internal/executor"
	"github.com/bdeggleston/accord/internal/nodeid"
	"github.com/bdeggleston/accord/internal/protocol"
	"github.com/bdeggleston/accord/internal/timestamp"
	"github.com/bdeggleston/accord/internal/topology"
	"github.com/bdeggleston/accord/internal/txn"
)

var logger = logging.MustGetLogger("accord/coordinator")

// defaultRetentionSize bounds the C10 retention cache absent an explicit
// Config override.
const defaultRetentionSize = 4096

// Config carries coordinator-local tuning. Quorum sizing belongs to the
// injected topology.Oracle, not here. No flag/env parsing is provided;
// Config is always built in-process by the embedder.
type Config struct {
	// RetentionSize bounds the number of Executing records kept after
	// they'd otherwise be eligible for removal, so a merely-late message
	// gets InvalidPhaseError instead of MissingTxError. Zero means use
	// defaultRetentionSize.
	RetentionSize int

	// StatsPrefix is carried in Config but New does not read it: metric
	// names are pushed through Stats without any prefix.
	StatsPrefix string

	// Stats is an optional push-based metrics sink for per-message
	// timing, matching the teacher's testing_mocks.go statsd.Statter
	// usage. May be left nil.
	Stats statsd.Statter
}

// Validate reports a non-nil error if Config is not usable.
func (c Config) Validate() error {
	if c.RetentionSize < 0 {
		return NewInternalInvariantViolatedError("RetentionSize must be >= 0")
	}
	return nil
}

// AcceptOrCommit is the decision a coordinator reaches after a PreAcceptOk:
// either the fast path suffices (Commit) or the slow path must be entered
// (Accept). Exactly one of the two fields is non-nil.
type AcceptOrCommit struct {
	Accept *protocol.Accept
	Commit *protocol.Commit
}

// Coordinator keeps a mapping from transaction id to CoordinatedTransaction
// and exposes the entry points the local node uses to begin transactions,
// plus the callbacks the transport invokes on inbound replica responses.
type Coordinator[K protocol.Key] struct {
	ts     *timestamp.Source
	oracle topology.Oracle[K]

	mapMu        sync.RWMutex
	transactions map[protocol.TransactionID]*txn.CoordinatedTransaction[K]

	// retained holds records that have reached Executing and been
	// evicted from transactions (C10), a heuristic stand-in for a
	// proper durable-ack retention policy.
	retained *lru.Cache[protocol.TransactionID, *txn.CoordinatedTransaction[K]]

	stats statsd.Statter
}

// New builds a Coordinator. ts mints this node's timestamps; oracle answers
// quorum questions against the current topology. Both are injected and
// live for the Coordinator's lifetime.
func New[K protocol.Key](cfg Config, ts *timestamp.Source, oracle topology.Oracle[K]) (*Coordinator[K], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	size := cfg.RetentionSize
	if size == 0 {
		size = defaultRetentionSize
	}
	cache, err := lru.New[protocol.TransactionID, *txn.CoordinatedTransaction[K]](size)
	if err != nil {
		return nil, err
	}

	return &Coordinator[K]{
		ts:           ts,
		oracle:       oracle,
		transactions: make(map[protocol.TransactionID]*txn.CoordinatedTransaction[K]),
		retained:     cache,
		stats:        cfg.Stats,
	}, nil
}

// BeginRead mints a timestamp, constructs a read Transaction, and inserts a
// new CoordinatedTransaction in PreAccepting{responded: ∅}. Returns the
// PreAccept for the caller to broadcast.
func (c *Coordinator[K]) BeginRead(keys protocol.KeySet[K], command []byte) protocol.PreAccept[K] {
	return c.begin(keys, command, protocol.Read)
}

// BeginWrite is BeginRead's write-transaction counterpart.
func (c *Coordinator[K]) BeginWrite(keys protocol.KeySet[K], command []byte) protocol.PreAccept[K] {
	return c.begin(keys, command, protocol.Write)
}

func (c *Coordinator[K]) begin(keys protocol.KeySet[K], command []byte, kind protocol.TransactionKind) protocol.PreAccept[K] {
	start := time.Now()
	defer timeHandler(c.stats, "begin", start)

	ts := c.ts.UniqueNow()
	id := protocol.TransactionID(ts)
	tx := protocol.NewTransaction(id, kind, keys, command)
	record := txn.New(tx)

	c.mapMu.Lock()
	c.transactions[id] = record
	c.mapMu.Unlock()

	logger.Debug("begin: started %s transaction %+v", kind, id)
	return protocol.PreAccept[K]{Tx: tx}
}

// lookup fetches a record under the map's read lock, honoring the
// "map first (read), then record" lock ordering.
func (c *Coordinator[K]) lookup(id protocol.TransactionID) (*txn.CoordinatedTransaction[K], error) {
	c.mapMu.RLock()
	record, ok := c.transactions[id]
	c.mapMu.RUnlock()
	if ok {
		return record, nil
	}

	if cached, ok := c.retained.Get(id); ok {
		return cached, nil
	}

	countError(c.stats, errorKindMissingTx)
	errorsTotal.WithLabelValues(errorKindMissingTx).Inc()
	return nil, NewMissingTxError(id)
}

// OnPreAcceptOk stores a replica's preaccept proposal and, once the
// current responded set is consulted against the topology oracle, returns
// the next message to broadcast (Commit on the fast path, Accept on the
// slow path) or nil if the coordinator should keep waiting for more
// responses.
func (c *Coordinator[K]) OnPreAcceptOk(from nodeid.NodeId, msg protocol.PreAcceptOk) (*AcceptOrCommit, error) {
	start := time.Now()
	defer timeHandler(c.stats, "OnPreAcceptOk", start)

	record, err := c.lookup(msg.TxID)
	if err != nil {
		return nil, err
	}

	record.Lock()

	responded, err := record.PreAcceptMsgReceived(from, msg.Proposed, msg.Deps)
	if err != nil {
		record.Unlock()
		countError(c.stats, errorKindInvalidPhase)
		errorsTotal.WithLabelValues(errorKindInvalidPhase).Inc()
		return nil, err
	}

	respondedCopy := cloneResponded(responded)
	check := c.oracle.Current(record.Inner.Keys.Keys()).CheckQuorum(respondedCopy)

	// Good to commit with original timestamp.
	if record.Proposed.Equal(timestamp.Timestamp(record.Inner.ID)) && check.HaveFastPath {
		if err := record.MoveToExecuting(); err != nil {
			record.Unlock()
			return nil, err
		}
		commit := &protocol.Commit{
			TxID:      msg.TxID,
			Timestamp: record.Proposed,
			Deps:      record.Deps.List(),
		}
		record.Unlock()

		// Moved out of the record lock before touching the transactions
		// map, so the lock order stays map-then-record even though this
		// call happens to run after the record decision.
		decisionsTotal.WithLabelValues(outcomeFastPathCommit).Inc()
		c.retain(record)
		logger.Info("OnPreAcceptOk: fast path commit for %+v", msg.TxID)
		return &AcceptOrCommit{Commit: commit}, nil
	}

	// Wait for more messages before deciding; a later responder might
	// still enable the fast path.
	if record.Proposed.Equal(timestamp.Timestamp(record.Inner.ID)) {
		record.Unlock()
		waitsTotal.WithLabelValues("pre_accepting").Inc()
		return nil, nil
	}

	// Some replica pushed the timestamp forward: agreement must be
	// reconfirmed through Accept once a slow-path quorum has responded.
	if check.HaveSlowPath {
		if err := record.MoveToAccepting(); err != nil {
			record.Unlock()
			return nil, err
		}
		accept := &protocol.Accept{
			TxID:      msg.TxID,
			Timestamp: record.Proposed,
			Deps:      record.Deps.List(),
		}
		record.Unlock()
		decisionsTotal.WithLabelValues(outcomeSlowPathAccept).Inc()
		logger.Info("OnPreAcceptOk: entering slow path for %+v", msg.TxID)
		return &AcceptOrCommit{Accept: accept}, nil
	}

	record.Unlock()
	waitsTotal.WithLabelValues("pre_accepting").Inc()
	return nil, nil
}

// OnAcceptOk stores a replica's accept acknowledgement and returns a
// Commit once a slow-path quorum has been reached, or nil if more
// responses are needed. The phase does not auto-transition to Executing
// on commit dispatch; the client drives execution with StartExecute,
// which does not change the phase either.
func (c *Coordinator[K]) OnAcceptOk(from nodeid.NodeId, msg protocol.AcceptOk) (*protocol.Commit, error) {
	start := time.Now()
	defer timeHandler(c.stats, "OnAcceptOk", start)

	record, err := c.lookup(msg.TxID)
	if err != nil {
		return nil, err
	}

	record.Lock()
	defer record.Unlock()

	responded, err := record.AcceptMsgReceived(from, msg.Deps)
	if err != nil {
		countError(c.stats, errorKindInvalidPhase)
		errorsTotal.WithLabelValues(errorKindInvalidPhase).Inc()
		return nil, err
	}

	check := c.oracle.Current(record.Inner.Keys.Keys()).CheckQuorum(cloneResponded(responded))
	if !check.HaveSlowPath {
		waitsTotal.WithLabelValues("accepting").Inc()
		return nil, nil
	}

	decisionsTotal.WithLabelValues(outcomeSlowPathCommit).Inc()
	logger.Info("OnAcceptOk: slow path commit for %+v", msg.TxID)
	return &protocol.Commit{
		TxID:      msg.TxID,
		Timestamp: record.Proposed,
		Deps:      record.Deps.List(),
	}, nil
}

// StartExecute returns the Read message to broadcast once commit has been
// delivered to replicas. It does not itself change phase: driving
// execution is legal from PreAccepting or Accepting as well as Executing.
func (c *Coordinator[K]) StartExecute(txID protocol.TransactionID) (protocol.Read, error) {
	start := time.Now()
	defer timeHandler(c.stats, "StartExecute", start)

	record, err := c.lookup(txID)
	if err != nil {
		return protocol.Read{}, err
	}

	record.Lock()
	defer record.Unlock()

	return protocol.Read{
		TxID:      txID,
		Timestamp: record.Proposed,
		Deps:      record.Deps.List(),
	}, nil
}

// OnReadOk computes the write data via the injected Executor and returns
// the Apply message to broadcast. Multi-shard aggregation is out of
// scope: this assumes a single shard and computes as soon as one ReadOk
// arrives. The Executor is invoked with the record unlocked, to avoid
// holding a lock across a potentially slow computation.
func (c *Coordinator[K]) OnReadOk(ctx context.Context, exec executor.Executor[K], msg protocol.ReadOk) (*protocol.Apply, error) {
	start := time.Now()
	defer timeHandler(c.stats, "OnReadOk", start)

	record, err := c.lookup(msg.TxID)
	if err != nil {
		return nil, err
	}

	record.Lock()
	ts := record.Proposed
	tx := record.Inner
	deps := record.Deps.List()
	record.Unlock()

	computeStart := time.Now()
	data, err := exec.Compute(ctx, msg.Data, ts, tx)
	executorLatency.Observe(time.Since(computeStart).Seconds())
	if err != nil {
		countError(c.stats, errorKindExecutorError)
		errorsTotal.WithLabelValues(errorKindExecutorError).Inc()
		return nil, NewExecutorError(err, "compute")
	}

	logger.Debug("OnReadOk: computed write for %+v", msg.TxID)
	return &protocol.Apply{
		TxID:      msg.TxID,
		Timestamp: ts,
		Deps:      deps,
		Data:      data,
	}, nil
}

// Cancel removes a transaction's record, legal from any phase. It is not
// an error to cancel an unknown or already-forgotten transaction.
func (c *Coordinator[K]) Cancel(txID protocol.TransactionID) {
	c.mapMu.Lock()
	delete(c.transactions, txID)
	c.mapMu.Unlock()
	c.retained.Remove(txID)
}

// retain moves a record that has reached Executing into the bounded C10
// cache, removing it from the live map. Must be called without the
// record's own lock held by the caller after this point, since entries
// may be evicted and re-read concurrently via lookup.
func (c *Coordinator[K]) retain(record *txn.CoordinatedTransaction[K]) {
	id := record.Inner.ID
	c.mapMu.Lock()
	delete(c.transactions, id)
	c.mapMu.Unlock()
	c.retained.Add(id, record)
}

func cloneResponded(src map[nodeid.NodeId]struct{}) map[nodeid.NodeId]struct{} {
	dst := make(map[nodeid.NodeId]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
