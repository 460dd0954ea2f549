package txn

import "fmt"

// InvalidPhaseError is returned when a message arrives in a phase that
// cannot accept it, or an illegal phase transition was attempted. This is
// recoverable: the record is left unmodified and the caller should log
// and drop the message.
type InvalidPhaseError struct {
	Current   Phase
	Attempted string
}

// NewInvalidPhaseError builds an InvalidPhaseError, following the
// teacher's NewXError(reason) constructor shape (cluster/node.go's
// NewNodeError).
func NewInvalidPhaseError(current Phase, attempted string) *InvalidPhaseError {
	return &InvalidPhaseError{Current: current, Attempted: attempted}
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("invalid phase: %s cannot handle %s", e.Current, e.Attempted)
}
