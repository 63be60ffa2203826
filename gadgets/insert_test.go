package gadgets

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/LibeccioLabs/plonky2/builder"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// runInsert builds an insertion of element at index into list and returns
// the generated output values, or the generation error.
func runInsert(t *testing.T, index uint64, element field.Extension, list []field.Extension) ([]field.Extension, error) {
	t.Helper()

	b, err := builder.New()
	require.NoError(t, err)

	idx := b.AddVirtualTarget()
	el := b.AddVirtualExtension()
	items := make([]iop.ExtensionTarget, len(list))
	for i := range items {
		items[i] = b.AddVirtualExtension()
	}
	out := Insert(b, idx, el, items)
	require.Len(t, out, len(list)+1)
	c := b.Build()

	pw := iop.NewPartialWitness()
	pw.Set(idx, field.NewElement(index))
	pw.SetExtension(el, element)
	for i := range items {
		pw.SetExtension(items[i], list[i])
	}
	w, err := c.GenerateWitness(pw)
	if err != nil {
		return nil, err
	}

	got := make([]field.Extension, len(out))
	for i := range out {
		got[i], err = w.GetExtension(out[i])
		require.NoError(t, err)
	}
	return got, nil
}

func extList(vs ...uint64) []field.Extension {
	list := make([]field.Extension, len(vs))
	for i, v := range vs {
		list[i] = field.ExtFromUint64(v)
	}
	return list
}

func TestInsertMiddle(t *testing.T) {
	got, err := runInsert(t, 2, field.ExtFromUint64(99), extList(10, 20, 30, 40))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(extList(10, 20, 99, 30, 40), got))
}

func TestInsertFront(t *testing.T) {
	got, err := runInsert(t, 0, field.ExtFromUint64(7), extList(1, 2, 3))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(extList(7, 1, 2, 3), got))
}

func TestInsertAppend(t *testing.T) {
	// index == len(list) appends.
	got, err := runInsert(t, 3, field.ExtFromUint64(4), extList(1, 2, 3))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(extList(1, 2, 3, 4), got))
}

func TestInsertSingleton(t *testing.T) {
	got, err := runInsert(t, 0, field.ExtFromUint64(5), extList(6))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(extList(5, 6), got))
}

func TestInsertRejectsOutOfRangeIndex(t *testing.T) {
	_, err := runInsert(t, 4, field.ExtFromUint64(9), extList(1, 2, 3))
	require.Error(t, err)
}

func TestInsertExtensionElements(t *testing.T) {
	// Full extension values, not just base-field embeddings.
	el := field.NewExtension(field.NewElement(3), field.NewElement(4))
	list := []field.Extension{
		field.NewExtension(field.NewElement(1), field.NewElement(2)),
		field.NewExtension(field.NewElement(5), field.NewElement(6)),
	}
	got, err := runInsert(t, 1, el, list)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]field.Extension{list[0], el, list[1]}, got))
}

func TestInsertRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 100; trial++ {
		size := 1 + rng.Intn(6)
		list := make([]field.Extension, size)
		for i := range list {
			list[i] = field.NewExtension(field.NewElement(rng.Uint64()), field.NewElement(rng.Uint64()))
		}
		el := field.NewExtension(field.NewElement(rng.Uint64()), field.NewElement(rng.Uint64()))
		k := rng.Intn(size + 1)

		got, err := runInsert(t, uint64(k), el, list)
		require.NoError(t, err)

		want := make([]field.Extension, 0, size+1)
		want = append(want, list[:k]...)
		want = append(want, el)
		want = append(want, list[k:]...)
		require.Empty(t, cmp.Diff(want, got), "size %d index %d", size, k)
	}
}
