package iop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LibeccioLabs/plonky2/field"
)

func TestPartitionFindReflexive(t *testing.T) {
	p := NewPartition()
	a := VirtualTarget(0)
	require.Equal(t, a, p.Find(a))
}

func TestPartitionUnionMergesClasses(t *testing.T) {
	p := NewPartition()
	a := VirtualTarget(0)
	b := WireTarget(3, 1)
	c := VirtualTarget(7)

	p.Union(a, b)
	require.Equal(t, p.Find(a), p.Find(b))
	require.NotEqual(t, p.Find(a), p.Find(c))

	p.Union(b, c)
	require.Equal(t, p.Find(a), p.Find(c))
}

func TestWitnessSetGet(t *testing.T) {
	w := NewWitness(NewPartition())
	a := VirtualTarget(0)

	require.False(t, w.Has(a))
	_, err := w.Get(a)
	require.Error(t, err)

	require.NoError(t, w.Set(a, field.NewElement(42)))
	require.True(t, w.Has(a))

	v, err := w.Get(a)
	require.NoError(t, err)
	require.Equal(t, field.NewElement(42), v)
}

func TestWitnessRejectsDoubleWrite(t *testing.T) {
	w := NewWitness(NewPartition())
	a := VirtualTarget(0)

	require.NoError(t, w.Set(a, field.NewElement(1)))
	require.Error(t, w.Set(a, field.NewElement(1)), "second write to the same target must fail even with an equal value")
}

func TestWitnessConnectedTargetsShareValues(t *testing.T) {
	p := NewPartition()
	a := VirtualTarget(0)
	b := WireTarget(0, 2)
	p.Union(a, b)

	w := NewWitness(p)
	require.NoError(t, w.Set(a, field.NewElement(9)))

	// b was never written directly but lives in a's class.
	require.True(t, w.Has(b))
	v, err := w.Get(b)
	require.NoError(t, err)
	require.Equal(t, field.NewElement(9), v)
}

func TestWitnessRejectsConflictInClass(t *testing.T) {
	p := NewPartition()
	a := VirtualTarget(0)
	b := VirtualTarget(1)
	p.Union(a, b)

	w := NewWitness(p)
	require.NoError(t, w.Set(a, field.NewElement(1)))
	require.Error(t, w.Set(b, field.NewElement(2)))
}

func TestWitnessAllowsAgreeingWriteInClass(t *testing.T) {
	p := NewPartition()
	a := VirtualTarget(0)
	b := VirtualTarget(1)
	p.Union(a, b)

	w := NewWitness(p)
	require.NoError(t, w.Set(a, field.NewElement(5)))
	require.NoError(t, w.Set(b, field.NewElement(5)))
}

func TestWitnessExtension(t *testing.T) {
	w := NewWitness(NewPartition())
	et := ExtensionTarget{VirtualTarget(0), VirtualTarget(1)}
	v := field.NewExtension(field.NewElement(3), field.NewElement(4))

	require.NoError(t, w.SetExtension(et, v))
	got, err := w.GetExtension(et)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestWitnessGetBool(t *testing.T) {
	w := NewWitness(NewPartition())
	bt := NewBoolTarget(VirtualTarget(0))
	require.NoError(t, w.Set(bt.Target(), field.One()))

	v, err := w.GetBool(bt)
	require.NoError(t, err)
	require.True(t, v)

	w2 := NewWitness(NewPartition())
	require.NoError(t, w2.Set(bt.Target(), field.NewElement(2)))
	_, err = w2.GetBool(bt)
	require.Error(t, err, "non-boolean value must be rejected")
}

func TestPartialWitnessCopyInto(t *testing.T) {
	pw := NewPartialWitness()
	pw.Set(VirtualTarget(0), field.NewElement(1))
	pw.SetExtension(ExtensionTarget{VirtualTarget(1), VirtualTarget(2)}, field.ExtFromUint64(8))

	w := NewWitness(NewPartition())
	require.NoError(t, pw.CopyInto(w))
	require.True(t, w.Has(VirtualTarget(0)))
	require.True(t, w.Has(VirtualTarget(1)))
	require.True(t, w.Has(VirtualTarget(2)))
}

func TestPartialWitnessPanicsOnDuplicate(t *testing.T) {
	pw := NewPartialWitness()
	pw.Set(VirtualTarget(0), field.NewElement(1))
	require.Panics(t, func() {
		pw.Set(VirtualTarget(0), field.NewElement(2))
	})
}
