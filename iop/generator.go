package iop

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/LibeccioLabs/plonky2/logger"
)

// Generator is a unit of non-deterministic witness computation. It declares
// the targets it reads; once all of them hold values it becomes ready and
// runs exactly once, writing its outputs into the witness. A generator must
// be a pure function of its declared dependencies: any execution order
// consistent with the dependency partial order yields the same witness.
type Generator interface {
	// Name identifies the generator in diagnostics.
	Name() string
	// Dependencies returns the targets that must be assigned before Run.
	Dependencies() []Target
	// Run computes and writes this generator's outputs.
	Run(w *Witness) error
}

// RunGenerators executes gens against w under demand-driven scheduling:
// each pass collects every ready, not-yet-run generator and runs the batch
// (concurrently; generators write disjoint targets, and the witness enforces
// the write-once discipline). A pass that runs nothing while generators
// remain pending means a dependency cycle or omitted wiring, which is fatal.
func RunGenerators(w *Witness, gens []Generator) error {
	log := logger.Logger()

	pending := bitset.New(uint(len(gens)))
	for i := range gens {
		pending.Set(uint(i))
	}

	for pass := 0; pending.Any(); pass++ {
		var ready []uint
		for i, ok := pending.NextSet(0); ok; i, ok = pending.NextSet(i + 1) {
			if depsAssigned(w, gens[i]) {
				ready = append(ready, i)
			}
		}

		if len(ready) == 0 {
			err := stuckError(w, gens, pending)
			log.Error().Err(err).Int("pass", pass).Msg("witness generation stuck")
			return err
		}

		var eg errgroup.Group
		for _, i := range ready {
			gen := gens[i]
			eg.Go(func() error {
				if err := gen.Run(w); err != nil {
					return fmt.Errorf("generator %s: %w", gen.Name(), err)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}

		for _, i := range ready {
			pending.Clear(i)
		}
		log.Debug().Int("pass", pass).Int("ran", len(ready)).Uint("pending", pending.Count()).Msg("generator pass")
	}
	return nil
}

func depsAssigned(w *Witness, g Generator) bool {
	for _, t := range g.Dependencies() {
		if !w.Has(t) {
			return false
		}
	}
	return true
}

func stuckError(w *Witness, gens []Generator, pending *bitset.BitSet) error {
	var sbb strings.Builder
	count := 0
	for i, ok := pending.NextSet(0); ok; i, ok = pending.NextSet(i + 1) {
		if count == 5 {
			sbb.WriteString("; ...")
			break
		}
		g := gens[i]
		var missing []string
		for _, t := range g.Dependencies() {
			if !w.Has(t) {
				missing = append(missing, t.String())
			}
		}
		if count > 0 {
			sbb.WriteString("; ")
		}
		fmt.Fprintf(&sbb, "%s waiting on [%s]", g.Name(), strings.Join(missing, " "))
		count++
	}
	return fmt.Errorf("iop: %d generators never became ready: %s", pending.Count(), sbb.String())
}
