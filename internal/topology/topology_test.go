package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bdeggleston/accord/internal/nodeid"
)

func threeReplicas() (a, b, c nodeid.NodeId) {
	return nodeid.New(), nodeid.New(), nodeid.New()
}

func TestCheckQuorumThreeReplicas(t *testing.T) {
	a, b, c := threeReplicas()
	snap := NewSnapshot([]nodeid.NodeId{a, b, c}, 3)

	check := snap.CheckQuorum(responded(a))
	assert.False(t, check.HaveSlowPath)
	assert.False(t, check.HaveFastPath)

	check = snap.CheckQuorum(responded(a, b))
	assert.True(t, check.HaveSlowPath)
	assert.False(t, check.HaveFastPath)

	check = snap.CheckQuorum(responded(a, b, c))
	assert.True(t, check.HaveSlowPath)
	assert.True(t, check.HaveFastPath)
}

func TestFastPathImpliesSlowPath(t *testing.T) {
	a, b, c := threeReplicas()
	snap := NewSnapshot([]nodeid.NodeId{a, b, c}, 3)
	check := snap.CheckQuorum(responded(a, b, c))
	assert.True(t, check.HaveFastPath)
	assert.True(t, check.HaveSlowPath)
}

func TestResponseFromUnknownNodeDoesNotCount(t *testing.T) {
	a, b, c := threeReplicas()
	stranger := nodeid.New()
	snap := NewSnapshot([]nodeid.NodeId{a, b, c}, 3)

	check := snap.CheckQuorum(responded(a, stranger))
	assert.False(t, check.HaveSlowPath)
}

func TestStaticOracleIgnoresKeys(t *testing.T) {
	a, b, c := threeReplicas()
	oracle := NewStaticOracle[string]([]nodeid.NodeId{a, b, c}, 3)

	snap1 := oracle.Current([]string{"k1"})
	snap2 := oracle.Current([]string{"k2", "k3"})

	assert.ElementsMatch(t, snap1.Replicas(), snap2.Replicas())
}

func responded(nodes ...nodeid.NodeId) map[nodeid.NodeId]struct{} {
	set := make(map[nodeid.NodeId]struct{}, len(nodes))
	for _, n := range nodes {
		set[n] = struct{}{}
	}
	return set
}
