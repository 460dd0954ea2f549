// Package executor defines the pure compute contract the coordinator
// invokes once a transaction's read data has arrived, generalized from the
// teacher's store.Store.ExecuteQuery (src/store/store.go) down to the
// single deterministic function a coordinator actually needs.
package executor

import (
	"context"

	"github.com/bdeggleston/accord/internal/protocol"
	"github.com/bdeggleston/accord/internal/timestamp"
)

// Executor computes a write from a transaction's read data. Implementations
// must be deterministic and side-effect-free on their inputs: the same
// (readData, ts, tx) must yield the same output on any node.
//
// ctx lets an embedder cancel a slow compute without changing any
// decision rule.
type Executor[K protocol.Key] interface {
	Compute(ctx context.Context, readData []byte, ts timestamp.Timestamp, tx protocol.Transaction[K]) ([]byte, error)
}

// Func adapts a plain function to the Executor interface, the way
// http.HandlerFunc adapts a function to http.Handler.
type Func[K protocol.Key] func(ctx context.Context, readData []byte, ts timestamp.Timestamp, tx protocol.Transaction[K]) ([]byte, error)

func (f Func[K]) Compute(ctx context.Context, readData []byte, ts timestamp.Timestamp, tx protocol.Transaction[K]) ([]byte, error) {
	return f(ctx, readData, ts, tx)
}
