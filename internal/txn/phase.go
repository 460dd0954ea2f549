package txn

import (
	"fmt"

	"github.com/bdeggleston/accord/internal/nodeid"
)

// Phase is a closed set of the three legal coordinator phases. It is
// modeled as a sealed interface over three concrete variants, each
// carrying only the data meaningful in that phase, rather than a mutable
// enum field with a payload shared across phases, contrasting with the
// teacher's flat InstanceStatus-plus-shared-fields style in
// consensus/scope.go.
type Phase interface {
	phase()
	String() string
}

// PreAccepting is the initial phase: the coordinator is waiting on
// PreAcceptOk responses. Responded tracks which replicas have answered so
// far, reset to empty whenever a new phase is entered.
type PreAccepting struct {
	Responded map[nodeid.NodeId]struct{}
}

func (PreAccepting) phase() {}
func (p PreAccepting) String() string {
	return fmt.Sprintf("PreAccepting{responded=%d}", len(p.Responded))
}

// Accepting is the slow-path phase: the coordinator pushed the timestamp
// and is waiting on AcceptOk responses.
type Accepting struct {
	Responded map[nodeid.NodeId]struct{}
}

func (Accepting) phase() {}
func (p Accepting) String() string {
	return fmt.Sprintf("Accepting{responded=%d}", len(p.Responded))
}

// Executing is the terminal phase for the coordinator's bookkeeping: a
// decision (commit) has been reached, via either the fast or slow path.
// It carries no responded set: none is meaningful once a decision has
// been made.
type Executing struct{}

func (Executing) phase() {}
func (Executing) String() string { return "Executing" }

// NewPreAccepting returns a PreAccepting phase with an empty responded set.
func NewPreAccepting() PreAccepting {
	return PreAccepting{Responded: make(map[nodeid.NodeId]struct{})}
}

// NewAccepting returns an Accepting phase with an empty responded set,
// the target of MoveToAccepting, which always clears Responded.
func NewAccepting() Accepting {
	return Accepting{Responded: make(map[nodeid.NodeId]struct{})}
}
