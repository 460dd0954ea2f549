package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdeggleston/accord/internal/nodeid"
	"github.com/bdeggleston/accord/internal/protocol"
	"github.com/bdeggleston/accord/internal/timestamp"
)

func newTx(node nodeid.NodeId, logical uint64) protocol.Transaction[string] {
	id := protocol.TransactionID{Logical: logical, Node: node}
	return protocol.NewTransaction(id, protocol.Write, protocol.NewKeySet("k1"), []byte("x"))
}

func TestNewInitializesInvariants(t *testing.T) {
	node := nodeid.New()
	tx := newTx(node, 10)
	ct := New(tx)

	assert.True(t, ct.Proposed.Equal(timestamp.Timestamp(tx.ID)))
	assert.Equal(t, 0, ct.Deps.Len())
	_, ok := ct.Phase.(PreAccepting)
	assert.True(t, ok)
}

func TestPreAcceptMergeIsMonotonic(t *testing.T) {
	node := nodeid.New()
	tx := newTx(node, 10)
	ct := New(tx)

	a, b, c := nodeid.New(), nodeid.New(), nodeid.New()
	t1 := protocol.TransactionID{Logical: 1, Node: node}
	t2 := protocol.TransactionID{Logical: 2, Node: node}
	t3 := protocol.TransactionID{Logical: 3, Node: node}

	ct.Lock()
	_, err := ct.PreAcceptMsgReceived(a, timestamp.Timestamp(tx.ID), []protocol.TransactionID{t1})
	ct.Unlock()
	require.NoError(t, err)
	assert.True(t, ct.Proposed.Equal(timestamp.Timestamp(tx.ID)))
	assert.Equal(t, 1, ct.Deps.Len())

	ct.Lock()
	_, err = ct.PreAcceptMsgReceived(b, timestamp.Timestamp(tx.ID), []protocol.TransactionID{t2})
	ct.Unlock()
	require.NoError(t, err)
	assert.Equal(t, 2, ct.Deps.Len())

	pushed := timestamp.Timestamp{Logical: timestamp.Timestamp(tx.ID).Logical + 100, Node: node}
	ct.Lock()
	_, err = ct.PreAcceptMsgReceived(c, pushed, []protocol.TransactionID{t1, t3})
	ct.Unlock()
	require.NoError(t, err)
	assert.True(t, ct.Proposed.Equal(pushed), "proposed must advance to the pushed timestamp")
	assert.Equal(t, 3, ct.Deps.Len(), "dep union must be idempotent and monotone")
}

func TestPreAcceptMsgReceivedRejectedAfterPhaseChange(t *testing.T) {
	node := nodeid.New()
	tx := newTx(node, 10)
	ct := New(tx)

	ct.Lock()
	require.NoError(t, ct.MoveToExecuting())
	_, err := ct.PreAcceptMsgReceived(nodeid.New(), timestamp.Timestamp(tx.ID), nil)
	ct.Unlock()

	var invalidPhase *InvalidPhaseError
	require.ErrorAs(t, err, &invalidPhase)
}

func TestDuplicateResponseIsIdempotent(t *testing.T) {
	node := nodeid.New()
	tx := newTx(node, 10)
	ct := New(tx)
	a := nodeid.New()
	dep := protocol.TransactionID{Logical: 1, Node: node}

	ct.Lock()
	responded1, err := ct.PreAcceptMsgReceived(a, timestamp.Timestamp(tx.ID), []protocol.TransactionID{dep})
	ct.Unlock()
	require.NoError(t, err)

	ct.Lock()
	responded2, err := ct.PreAcceptMsgReceived(a, timestamp.Timestamp(tx.ID), []protocol.TransactionID{dep})
	ct.Unlock()
	require.NoError(t, err)

	assert.Equal(t, len(responded1), len(responded2))
	assert.Equal(t, 1, ct.Deps.Len())
}

func TestPhaseTransitionsAreLegalPrefixes(t *testing.T) {
	node := nodeid.New()

	t.Run("fast path", func(t *testing.T) {
		ct := New(newTx(node, 10))
		ct.Lock()
		err := ct.MoveToExecuting()
		ct.Unlock()
		require.NoError(t, err)
		_, ok := ct.Phase.(Executing)
		assert.True(t, ok)
	})

	t.Run("slow path", func(t *testing.T) {
		ct := New(newTx(node, 10))
		ct.Lock()
		require.NoError(t, ct.MoveToAccepting())
		_, ok := ct.Phase.(Accepting)
		require.True(t, ok)
		require.NoError(t, ct.MoveToExecuting())
		ct.Unlock()
		_, ok = ct.Phase.(Executing)
		assert.True(t, ok)
	})

	t.Run("illegal: executing back to accepting", func(t *testing.T) {
		ct := New(newTx(node, 10))
		ct.Lock()
		require.NoError(t, ct.MoveToExecuting())
		err := ct.MoveToAccepting()
		ct.Unlock()
		var invalidPhase *InvalidPhaseError
		require.ErrorAs(t, err, &invalidPhase)
	})
}

func TestBeginTwiceYieldsStrictlyOrderedIDs(t *testing.T) {
	node := nodeid.New()
	src := timestamp.NewSource(node)
	first := src.UniqueNow()
	second := src.UniqueNow()
	assert.True(t, first.Less(second))
}
