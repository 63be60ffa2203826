package gates

import (
	"fmt"
	"sort"
	"sync"

	"github.com/LibeccioLabs/plonky2/logger"
)

// The registry is the closed set of gate descriptors in use, keyed by ID.
// Since IDs embed the gate parameters, one descriptor per ID fully
// determines row behaviour; verifying keys are matched against these IDs.
var (
	registry  = make(map[string]Gate)
	registryM sync.RWMutex
)

// Register records g under its ID. Registering the same ID twice is a no-op
// when the descriptor type matches and a hard error otherwise: two gate
// types sharing an ID would make verifying-key lookups ambiguous.
func Register(g Gate) {
	registryM.Lock()
	defer registryM.Unlock()

	id := g.ID()
	if prev, ok := registry[id]; ok {
		if fmt.Sprintf("%T", prev) != fmt.Sprintf("%T", g) {
			panic(fmt.Sprintf("gates: id %q registered by both %T and %T", id, prev, g))
		}
		log := logger.Logger()
		log.Debug().Str("id", id).Msg("gate registered multiple times")
		return
	}
	registry[id] = g
}

// Lookup returns the registered descriptor for id.
func Lookup(id string) (Gate, bool) {
	registryM.RLock()
	defer registryM.RUnlock()
	g, ok := registry[id]
	return g, ok
}

// Known returns the sorted IDs of all registered gates.
func Known() []string {
	registryM.RLock()
	defer registryM.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
