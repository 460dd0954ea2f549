package coordinator

import (
	"context"
	"errors"

	"github.com/bdeggleston/accord/internal/protocol"
	"github.com/bdeggleston/accord/internal/timestamp"
)

// echoExecutor is a trivial, deterministic Executor: it returns the read
// data unchanged. Used by the OnReadOk happy-path test, the way the
// teacher's testing_mocks.go builds a minimal intVal store.Value for
// tests rather than a real storage engine.
type echoExecutor struct{}

func (echoExecutor) Compute(_ context.Context, readData []byte, _ timestamp.Timestamp, _ protocol.Transaction[string]) ([]byte, error) {
	out := make([]byte, len(readData))
	copy(out, readData)
	return out, nil
}

// failingExecutor always returns an error, for exercising the
// ExecutorError path.
type failingExecutor struct {
	err error
}

func (f failingExecutor) Compute(context.Context, []byte, timestamp.Timestamp, protocol.Transaction[string]) ([]byte, error) {
	return nil, f.err
}

var errExecutorBoom = errors.New("executor: boom")
