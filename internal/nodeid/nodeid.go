// Package nodeid mints opaque, globally unique replica identifiers.
package nodeid

import (
	"github.com/google/uuid"
)

// NodeId identifies a replica participating in the cluster. It is opaque
// and only ever compared for equality or used as a map key.
type NodeId string

// New mints a fresh, globally unique NodeId.
func New() NodeId {
	return NodeId(uuid.New().String())
}

func (n NodeId) String() string {
	return string(n)
}
