package iop

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LibeccioLabs/plonky2/field"
)

// copyGenerator writes src's value into dst.
type copyGenerator struct {
	src, dst Target
}

func (g *copyGenerator) Name() string           { return fmt.Sprintf("copy(%s->%s)", g.src, g.dst) }
func (g *copyGenerator) Dependencies() []Target { return []Target{g.src} }

func (g *copyGenerator) Run(w *Witness) error {
	v, err := w.Get(g.src)
	if err != nil {
		return err
	}
	return w.Set(g.dst, v)
}

func chain(n int) ([]Generator, []Target) {
	targets := make([]Target, n+1)
	for i := range targets {
		targets[i] = VirtualTarget(i)
	}
	gens := make([]Generator, n)
	for i := 0; i < n; i++ {
		gens[i] = &copyGenerator{src: targets[i], dst: targets[i+1]}
	}
	return gens, targets
}

func TestRunGeneratorsChain(t *testing.T) {
	gens, targets := chain(10)

	w := NewWitness(NewPartition())
	require.NoError(t, w.Set(targets[0], field.NewElement(7)))
	require.NoError(t, RunGenerators(w, gens))

	v, err := w.Get(targets[len(targets)-1])
	require.NoError(t, err)
	require.Equal(t, field.NewElement(7), v)
}

func TestRunGeneratorsOrderIndependent(t *testing.T) {
	// Submit the chain in reverse so no generator is ready except the
	// first; the scheduler must still converge.
	gens, targets := chain(10)
	for i, j := 0, len(gens)-1; i < j; i, j = i+1, j-1 {
		gens[i], gens[j] = gens[j], gens[i]
	}

	w := NewWitness(NewPartition())
	require.NoError(t, w.Set(targets[0], field.NewElement(3)))
	require.NoError(t, RunGenerators(w, gens))

	v, err := w.Get(targets[len(targets)-1])
	require.NoError(t, err)
	require.Equal(t, field.NewElement(3), v)
}

func TestRunGeneratorsStuck(t *testing.T) {
	// A two-generator cycle: each waits on the other's output.
	a, b := VirtualTarget(0), VirtualTarget(1)
	gens := []Generator{
		&copyGenerator{src: a, dst: b},
		&copyGenerator{src: b, dst: a},
	}

	w := NewWitness(NewPartition())
	err := RunGenerators(w, gens)
	require.Error(t, err)
	require.Contains(t, err.Error(), "never became ready")
}

func TestRunGeneratorsEmpty(t *testing.T) {
	w := NewWitness(NewPartition())
	require.NoError(t, RunGenerators(w, nil))
}

func TestRunGeneratorsPropagatesRunError(t *testing.T) {
	// Writing to an already-assigned target makes Run fail; the scheduler
	// must surface that error with the generator's name.
	a, b := VirtualTarget(0), VirtualTarget(1)
	gens := []Generator{&copyGenerator{src: a, dst: b}}

	w := NewWitness(NewPartition())
	require.NoError(t, w.Set(a, field.NewElement(1)))
	require.NoError(t, w.Set(b, field.NewElement(2)))

	err := RunGenerators(w, gens)
	require.Error(t, err)
	require.Contains(t, err.Error(), "copy(v0->v1)")
}
