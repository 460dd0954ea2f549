package coordinator

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/bdeggleston/accord/internal/protocol"
	"github.com/bdeggleston/accord/internal/txn"
)

// InvalidPhaseError is re-exported from the txn package: the phase machine
// (C7) owns the definition, the coordinator (C5) is simply where callers
// observe it.
type InvalidPhaseError = txn.InvalidPhaseError

// MissingTxError is returned when a message references a transaction id
// the coordinator never began, or has since forgotten. Non-fatal, callers
// should log and drop: the record may simply have been garbage
// collected.
type MissingTxError struct {
	TxID protocol.TransactionID
}

// NewMissingTxError builds a MissingTxError, following the teacher's
// NewXError(reason) constructor shape (cluster/node.go's NewNodeError).
func NewMissingTxError(id protocol.TransactionID) *MissingTxError {
	return &MissingTxError{TxID: id}
}

func (e *MissingTxError) Error() string {
	return fmt.Sprintf("coordinator: no record for transaction %+v", e.TxID)
}

// ExecutorError wraps a failure from the injected Executor. Surfaced to
// the client that initiated the transaction; the record is left in
// whatever phase it was in, since retry policy is left to the caller.
type ExecutorError struct {
	cause error
}

// NewExecutorError wraps cause with a diagnostic stack trace, matching the
// errors.Wrap style used throughout the cdc-sink reference material
// (internal/util/stdpool/my.go).
func NewExecutorError(cause error, detail string) *ExecutorError {
	return &ExecutorError{cause: errors.Wrap(cause, detail)}
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("executor error: %v", e.cause)
}

func (e *ExecutorError) Unwrap() error {
	return e.cause
}

// InternalInvariantViolatedError signals a checked invariant did not hold
// (e.g. a timestamp regression within a single record). Treated as a bug:
// the transaction is aborted, not retried.
type InternalInvariantViolatedError struct {
	Detail string
}

// NewInternalInvariantViolatedError builds an
// InternalInvariantViolatedError.
func NewInternalInvariantViolatedError(detail string) *InternalInvariantViolatedError {
	return &InternalInvariantViolatedError{Detail: detail}
}

func (e *InternalInvariantViolatedError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Detail)
}
