//go:build wireinject

package coordinator

import (
	"github.com/google/wire"

	"github.com/bdeggleston/accord/internal/timestamp"
	"github.com/bdeggleston/accord/internal/topology"
)

// Set is used by Wire, following the cdc-sink reference material's
// Set-per-package convention (internal/source/logical/provider.go).
var Set = wire.NewSet(New[string])

// InjectCoordinator assembles a string-keyed Coordinator from its
// collaborators. Wire generates the real body into wire_gen.go; this
// function is never compiled directly (see the wireinject build tag
// above), matching the injector.go/wire_gen.go split used throughout the
// cdc-sink reference material.
func InjectCoordinator(cfg Config, ts *timestamp.Source, oracle topology.Oracle[string]) (*Coordinator[string], error) {
	wire.Build(Set)
	return nil, nil
}
