// Package topology answers quorum questions against a replica placement
// snapshot, generalized from the teacher's per-datacenter ring placement
// down to the single predicate the coordinator actually needs.
package topology

import (
	"github.com/bdeggleston/accord/internal/nodeid"
)

// QuorumCheck reports whether a responded set meets the fast-path and/or
// slow-path quorum for the replica set a transaction's keys are owned by.
type QuorumCheck struct {
	HaveFastPath bool
	HaveSlowPath bool
}

// Snapshot is a point-in-time replica placement: the full set of replicas
// that own a given key set, and the sizes required for each quorum kind.
// A fast-path quorum is always large enough to also satisfy the slow-path
// quorum (enforced by NewSnapshot).
type Snapshot struct {
	replicas      map[nodeid.NodeId]struct{}
	slowPathSize  int
	fastPathSize  int
}

// NewSnapshot builds a placement snapshot for a set of owning replicas and a
// replication factor. The slow-path quorum is a simple majority of replicas;
// the fast-path quorum is the full replication factor ("every replica must
// agree"), which is always >= the slow-path size.
func NewSnapshot(replicas []nodeid.NodeId, replicationFactor int) *Snapshot {
	set := make(map[nodeid.NodeId]struct{}, len(replicas))
	for _, r := range replicas {
		set[r] = struct{}{}
	}

	slow := len(set)/2 + 1
	fast := replicationFactor
	if fast < slow {
		fast = slow
	}

	return &Snapshot{
		replicas:     set,
		slowPathSize: slow,
		fastPathSize: fast,
	}
}

// CheckQuorum reports fast-path/slow-path status for a responded set. Only
// replicas that are members of this snapshot's replica set are counted: a
// response from a node that has since left the topology does not count
// toward quorum.
func (s *Snapshot) CheckQuorum(responded map[nodeid.NodeId]struct{}) QuorumCheck {
	count := 0
	for n := range responded {
		if _, ok := s.replicas[n]; ok {
			count++
		}
	}

	return QuorumCheck{
		HaveSlowPath: count >= s.slowPathSize,
		HaveFastPath: count >= s.fastPathSize,
	}
}

// Replicas returns the set of nodes owning this snapshot's keys.
func (s *Snapshot) Replicas() []nodeid.NodeId {
	out := make([]nodeid.NodeId, 0, len(s.replicas))
	for n := range s.replicas {
		out = append(out, n)
	}
	return out
}

// Oracle is injected into the coordinator at construction and lives for its
// lifetime. It is consulted fresh on every call so that topology changes
// between calls are naturally picked up; the coordinator only ever holds
// a snapshot for the duration of a single decision.
type Oracle[K comparable] interface {
	// Current returns the replica placement snapshot that should govern
	// quorum decisions for keys, as of now.
	Current(keys []K) *Snapshot
}

// StaticOracle is an Oracle backed by a fixed replica set and replication
// factor, useful for single-shard deployments and tests. It ignores the
// requested keys; every key maps to the same replica set.
type StaticOracle[K comparable] struct {
	replicas          []nodeid.NodeId
	replicationFactor int
}

// NewStaticOracle builds an Oracle that always reports the same replica
// placement regardless of which keys are asked about.
func NewStaticOracle[K comparable](replicas []nodeid.NodeId, replicationFactor int) *StaticOracle[K] {
	return &StaticOracle[K]{replicas: replicas, replicationFactor: replicationFactor}
}

func (o *StaticOracle[K]) Current(_ []K) *Snapshot {
	return NewSnapshot(o.replicas, o.replicationFactor)
}
