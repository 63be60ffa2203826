package gadgets

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/LibeccioLabs/plonky2/builder"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

func bigFromLimbs(limbs []uint32) *big.Int {
	v := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		v.Lsh(v, u32Bits)
		v.Or(v, new(big.Int).SetUint64(uint64(limbs[i])))
	}
	return v
}

func genLimbs(n int) gopter.Gen {
	return gen.SliceOfN(n, gen.UInt32())
}

// binaryBigUintCircuit builds the circuit for op over two virtual biguints,
// assigns x and y, and returns the generated witness and result target.
func binaryBigUintCircuit(
	t *testing.T,
	xLimbs, yLimbs []uint32,
	op func(b *builder.Builder, x, y BigUintTarget) BigUintTarget,
) (*iop.Witness, BigUintTarget, error) {
	t.Helper()

	b, err := builder.New()
	require.NoError(t, err)
	x := AddVirtualBigUint(b, len(xLimbs))
	y := AddVirtualBigUint(b, len(yLimbs))
	out := op(b, x, y)
	c := b.Build()

	pw := iop.NewPartialWitness()
	require.NoError(t, AssignBigUint(pw, x, bigFromLimbs(xLimbs)))
	require.NoError(t, AssignBigUint(pw, y, bigFromLimbs(yLimbs)))
	w, err := c.GenerateWitness(pw)
	return w, out, err
}

func TestAddBigUint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("x + y over limbs matches big.Int", prop.ForAll(
		func(xl, yl []uint32) bool {
			w, out, err := binaryBigUintCircuit(t, xl, yl, AddBigUint)
			if err != nil {
				return false
			}
			got, err := GetBigUint(w, out)
			if err != nil {
				return false
			}
			want := new(big.Int).Add(bigFromLimbs(xl), bigFromLimbs(yl))
			return got.Cmp(want) == 0 && out.NumLimbs() == 4
		},
		genLimbs(3), genLimbs(2),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSubBigUint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("x - y matches big.Int when x >= y", prop.ForAll(
		func(xl, yl []uint32) bool {
			x, y := bigFromLimbs(xl), bigFromLimbs(yl)
			if x.Cmp(y) < 0 {
				xl, yl = yl, xl
				x, y = y, x
			}
			w, out, err := binaryBigUintCircuit(t, xl, yl, SubBigUint)
			if err != nil {
				return false
			}
			got, err := GetBigUint(w, out)
			if err != nil {
				return false
			}
			return got.Cmp(new(big.Int).Sub(x, y)) == 0
		},
		genLimbs(2), genLimbs(2),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSubBigUintRejectsUnderflow(t *testing.T) {
	_, _, err := binaryBigUintCircuit(t, []uint32{1}, []uint32{2}, SubBigUint)
	require.Error(t, err)
}

func TestMulBigUint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("x · y over limbs matches big.Int", prop.ForAll(
		func(xl, yl []uint32) bool {
			w, out, err := binaryBigUintCircuit(t, xl, yl, MulBigUint)
			if err != nil {
				return false
			}
			got, err := GetBigUint(w, out)
			if err != nil {
				return false
			}
			want := new(big.Int).Mul(bigFromLimbs(xl), bigFromLimbs(yl))
			return got.Cmp(want) == 0 && out.NumLimbs() == len(xl)+len(yl)
		},
		genLimbs(2), genLimbs(2),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCmpBigUint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("x <= y matches big.Int, mixed widths", prop.ForAll(
		func(xl, yl []uint32) bool {
			b, err := builder.New()
			if err != nil {
				return false
			}
			x := AddVirtualBigUint(b, len(xl))
			y := AddVirtualBigUint(b, len(yl))
			le := CmpBigUint(b, x, y)
			c := b.Build()

			pw := iop.NewPartialWitness()
			if AssignBigUint(pw, x, bigFromLimbs(xl)) != nil {
				return false
			}
			if AssignBigUint(pw, y, bigFromLimbs(yl)) != nil {
				return false
			}
			w, err := c.GenerateWitness(pw)
			if err != nil {
				return false
			}
			got, err := w.GetBool(le)
			if err != nil {
				return false
			}
			return got == (bigFromLimbs(xl).Cmp(bigFromLimbs(yl)) <= 0)
		},
		genLimbs(3), genLimbs(2),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCmpBigUintBoundaries(t *testing.T) {
	maxTwoLimbs := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
	for _, tc := range []struct {
		x, y *big.Int
		want bool
	}{
		{big.NewInt(0), big.NewInt(0), true},
		{big.NewInt(0), maxTwoLimbs, true},
		{maxTwoLimbs, big.NewInt(0), false},
		{maxTwoLimbs, maxTwoLimbs, true},
		{new(big.Int).Sub(maxTwoLimbs, big.NewInt(1)), maxTwoLimbs, true},
	} {
		b, err := builder.New()
		require.NoError(t, err)
		xt := AddVirtualBigUint(b, 2)
		yt := AddVirtualBigUint(b, 2)
		le := CmpBigUint(b, xt, yt)
		c := b.Build()

		pw := iop.NewPartialWitness()
		require.NoError(t, AssignBigUint(pw, xt, tc.x))
		require.NoError(t, AssignBigUint(pw, yt, tc.y))
		w, err := c.GenerateWitness(pw)
		require.NoError(t, err)

		got, err := w.GetBool(le)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%s <= %s", tc.x, tc.y)
	}
}

func TestDivRemBigUint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("euclidean division matches big.Int", prop.ForAll(
		func(xl, yl []uint32) bool {
			y := bigFromLimbs(yl)
			if y.Sign() == 0 {
				return true
			}
			b, err := builder.New()
			if err != nil {
				return false
			}
			xt := AddVirtualBigUint(b, len(xl))
			yt := AddVirtualBigUint(b, len(yl))
			div, rem := DivRemBigUint(b, xt, yt)
			c := b.Build()

			pw := iop.NewPartialWitness()
			x := bigFromLimbs(xl)
			if AssignBigUint(pw, xt, x) != nil || AssignBigUint(pw, yt, y) != nil {
				return false
			}
			w, err := c.GenerateWitness(pw)
			if err != nil {
				return false
			}

			gotDiv, err := GetBigUint(w, div)
			if err != nil {
				return false
			}
			gotRem, err := GetBigUint(w, rem)
			if err != nil {
				return false
			}
			wantDiv, wantRem := new(big.Int).QuoRem(x, y, new(big.Int))
			return gotDiv.Cmp(wantDiv) == 0 && gotRem.Cmp(wantRem) == 0
		},
		genLimbs(3), genLimbs(1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDivRemBigUintWideDivisor(t *testing.T) {
	// The quotient is zero and the remainder sits entirely in the low limb
	// while the divisor's value sits in the high limb; rem < y must still
	// hold limb-wise from the most significant limb down.
	x := big.NewInt(42)
	y := new(big.Int).Lsh(big.NewInt(5), 70)

	b, err := builder.New()
	require.NoError(t, err)
	xt := AddVirtualBigUint(b, 3)
	yt := AddVirtualBigUint(b, 3)
	div, rem := DivRemBigUint(b, xt, yt)
	c := b.Build()

	pw := iop.NewPartialWitness()
	require.NoError(t, AssignBigUint(pw, xt, x))
	require.NoError(t, AssignBigUint(pw, yt, y))
	w, err := c.GenerateWitness(pw)
	require.NoError(t, err)

	gotDiv, err := GetBigUint(w, div)
	require.NoError(t, err)
	gotRem, err := GetBigUint(w, rem)
	require.NoError(t, err)
	require.Zero(t, gotDiv.Sign())
	require.Zero(t, gotRem.Cmp(x))
}

func TestDivRemBigUintRejectsZeroDivisor(t *testing.T) {
	b, err := builder.New()
	require.NoError(t, err)
	x := AddVirtualBigUint(b, 2)
	y := AddVirtualBigUint(b, 1)
	DivRemBigUint(b, x, y)
	c := b.Build()

	pw := iop.NewPartialWitness()
	require.NoError(t, AssignBigUint(pw, x, big.NewInt(99)))
	require.NoError(t, AssignBigUint(pw, y, big.NewInt(0)))
	_, err = c.GenerateWitness(pw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "division")
}

func TestMulBigUintByBool(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(0xcafe), 45)
	for _, tc := range []struct {
		flag uint64
		want *big.Int
	}{
		{1, v},
		{0, big.NewInt(0)},
	} {
		b, err := builder.New()
		require.NoError(t, err)
		x := AddVirtualBigUint(b, 3)
		flag := b.AddVirtualBool()
		out := MulBigUintByBool(b, x, flag)
		c := b.Build()

		pw := iop.NewPartialWitness()
		require.NoError(t, AssignBigUint(pw, x, v))
		pw.Set(flag.Target(), field.NewElement(tc.flag))
		w, err := c.GenerateWitness(pw)
		require.NoError(t, err)

		got, err := GetBigUint(w, out)
		require.NoError(t, err)
		require.Zero(t, got.Cmp(tc.want), "flag %d", tc.flag)
	}

	// A non-boolean flag violates the allocator's constraint.
	b, err := builder.New()
	require.NoError(t, err)
	x := AddVirtualBigUint(b, 1)
	flag := b.AddVirtualBool()
	MulBigUintByBool(b, x, flag)
	c := b.Build()

	pw := iop.NewPartialWitness()
	require.NoError(t, AssignBigUint(pw, x, big.NewInt(1)))
	pw.Set(flag.Target(), field.NewElement(2))
	_, err = c.GenerateWitness(pw)
	require.Error(t, err)
}

func TestConstantBigUint(t *testing.T) {
	b, err := builder.New()
	require.NoError(t, err)

	v := new(big.Int).Lsh(big.NewInt(0xdeadbeef), 40) // spans two limbs
	ct := ConstantBigUint(b, v)
	require.Equal(t, 3, ct.NumLimbs())

	sum := AddBigUint(b, ct, ZeroBigUint(b))
	c := b.Build()

	w, err := c.GenerateWitness(iop.NewPartialWitness())
	require.NoError(t, err)
	got, err := GetBigUint(w, sum)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(v))
}

func TestConnectBigUintDifferentWidths(t *testing.T) {
	b, err := builder.New()
	require.NoError(t, err)
	x := AddVirtualBigUint(b, 2)
	y := AddVirtualBigUint(b, 3)
	ConnectBigUint(b, x, y)
	c := b.Build()

	// Equal values, excess high limb zero: fine.
	pw := iop.NewPartialWitness()
	require.NoError(t, AssignBigUint(pw, x, big.NewInt(77)))
	require.NoError(t, AssignBigUint(pw, y, big.NewInt(77)))
	_, err = c.GenerateWitness(pw)
	require.NoError(t, err)

	// Value that needs y's third limb cannot equal any 2-limb x.
	b2, err := builder.New()
	require.NoError(t, err)
	x2 := AddVirtualBigUint(b2, 2)
	y2 := AddVirtualBigUint(b2, 3)
	ConnectBigUint(b2, x2, y2)
	c2 := b2.Build()

	big3 := new(big.Int).Lsh(big.NewInt(1), 64)
	pw2 := iop.NewPartialWitness()
	require.NoError(t, AssignBigUint(pw2, x2, big.NewInt(0)))
	require.NoError(t, AssignBigUint(pw2, y2, big3))
	_, err = c2.GenerateWitness(pw2)
	require.Error(t, err)
}
