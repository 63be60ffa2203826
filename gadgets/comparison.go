package gadgets

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/builder"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// IsZero returns a boolean target holding 1 iff x is zero, using the
// standard inverse-witness gadget: with inv supplied by a generator,
//
//	m = 1 - x·inv
//	m·x = 0
//
// force m = 1 when x = 0 and m = 0 otherwise.
func IsZero(b *builder.Builder, x iop.Target) iop.BoolTarget {
	inv := b.AddVirtualTarget()
	b.AddGenerator(&inverseGenerator{value: x, inv: inv})

	m := b.Arithmetic(field.NegOne(), field.One(), x, inv, b.One())
	b.AssertZero(b.Mul(m, x))
	return iop.NewBoolTarget(m)
}

// IsEqual returns a boolean target holding 1 iff x == y.
func IsEqual(b *builder.Builder, x, y iop.Target) iop.BoolTarget {
	return IsZero(b, b.Sub(x, y))
}

// inverseGenerator writes x^-1, or 0 when x is zero.
type inverseGenerator struct {
	value iop.Target
	inv   iop.Target
}

func (g *inverseGenerator) Name() string {
	return fmt.Sprintf("inverse(%s)", g.value)
}

func (g *inverseGenerator) Dependencies() []iop.Target {
	return []iop.Target{g.value}
}

func (g *inverseGenerator) Run(w *iop.Witness) error {
	v, err := w.Get(g.value)
	if err != nil {
		return err
	}
	var inv field.Element
	if !v.IsZero() {
		inv.Inverse(&v)
	}
	return w.Set(g.inv, inv)
}

// ListLE returns a boolean target holding 1 iff the integer with 32-bit
// limbs a (least significant first) is less than or equal to the one with
// limbs t. Schoolbook comparison from the most significant limb down:
//
//	le_n = 1
//	le_i = (a_i < t_i) + (a_i == t_i)·le_{i+1}
//
// The two branch conditions are mutually exclusive, so le stays boolean.
// Folding ascends from the least significant limb so that the most
// significant limb is incorporated last and dominates the result.
// Operand lengths must match; callers pad beforehand.
func ListLE(b *builder.Builder, a, t []U32Target) iop.BoolTarget {
	if len(a) != len(t) {
		panic(fmt.Sprintf("gadgets: comparing limb lists of lengths %d and %d", len(a), len(t)))
	}

	le := b.One()
	for i := 0; i < len(a); i++ {
		// borrow of a_i - t_i is exactly [a_i < t_i]
		_, lt := SubU32(b, a[i], t[i], b.Zero())
		eq := IsEqual(b, a[i].Target(), t[i].Target())
		le = b.MulAdd(eq.Target(), le, lt.Target())
	}
	return iop.NewBoolTarget(le)
}
