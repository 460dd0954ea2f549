package coordinator

import (
	"strings"
	"time"

	"github.com/cactus/go-statsd-client/v5/statsd"
)

// timeHandler pushes a per-message-type timing through stats, the way the
// teacher's mockNode.SendMessage times serialize/process/deserialize
// phases in testing_mocks.go. Named after the message type so timings for
// OnPreAcceptOk and OnAcceptOk don't collide. A nil stats is tolerated:
// wiring a statsd client is optional.
func timeHandler(stats statsd.Statter, name string, start time.Time) {
	if stats == nil {
		return
	}
	delta := int64(time.Since(start) / time.Millisecond)
	_ = stats.Timing(statName(name), delta, 1.0)
}

func countError(stats statsd.Statter, name string) {
	if stats == nil {
		return
	}
	_ = stats.Inc(statName("error."+name), 1, 1.0)
}

func statName(name string) string {
	return strings.ReplaceAll(name, "*", "")
}
