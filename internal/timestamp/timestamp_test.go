package timestamp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bdeggleston/accord/internal/nodeid"
)

func TestTimestampLess(t *testing.T) {
	a := nodeid.New()
	b := nodeid.New()
	if b < a {
		a, b = b, a
	}

	cases := []struct {
		name string
		x, y Timestamp
		want bool
	}{
		{"lower logical", Timestamp{1, a}, Timestamp{2, a}, true},
		{"higher logical", Timestamp{2, a}, Timestamp{1, a}, false},
		{"tie broken by node", Timestamp{5, a}, Timestamp{5, b}, true},
		{"equal", Timestamp{5, a}, Timestamp{5, a}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.x.Less(c.y))
		})
	}
}

func TestMax(t *testing.T) {
	n := nodeid.New()
	lo := Timestamp{1, n}
	hi := Timestamp{2, n}
	assert.Equal(t, hi, Max(lo, hi))
	assert.Equal(t, hi, Max(hi, lo))
	assert.Equal(t, lo, Max(lo, lo))
}

func TestSourceStrictlyIncreasing(t *testing.T) {
	src := NewSource(nodeid.New())

	prev := src.UniqueNow()
	for i := 0; i < 1000; i++ {
		next := src.UniqueNow()
		assert.True(t, prev.Less(next), "timestamp %d (%v) did not strictly increase over %v", i, next, prev)
		prev = next
	}
}

func TestSourceSurvivesClockRegression(t *testing.T) {
	src := NewSource(nodeid.New())
	src.last = ^uint64(0) - 1 // force the next wall-clock read to look "behind"

	a := src.UniqueNow()
	b := src.UniqueNow()
	assert.True(t, a.Less(b))
}

func TestSourceConcurrentUseMintsUniqueTimestamps(t *testing.T) {
	src := NewSource(nodeid.New())
	const goroutines = 50
	const perGoroutine = 200

	results := make(chan Timestamp, goroutines*perGoroutine)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				results <- src.UniqueNow()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[Timestamp]bool, goroutines*perGoroutine)
	for ts := range results {
		assert.False(t, seen[ts], "duplicate timestamp minted: %v", ts)
		seen[ts] = true
	}
}
