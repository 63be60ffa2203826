package gadgets

import (
	"fmt"
	"math/big"

	"github.com/LibeccioLabs/plonky2/builder"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// BigUintTarget is an unsigned integer of arbitrary width, held as 32-bit
// limbs in little-endian order. Limb counts are fixed at construction; the
// arithmetic helpers size their results to the worst case of the operand
// widths.
type BigUintTarget struct {
	Limbs []U32Target
}

// NumLimbs returns the limb count.
func (t BigUintTarget) NumLimbs() int {
	return len(t.Limbs)
}

// AddVirtualBigUint allocates numLimbs fresh 32-bit limbs.
func AddVirtualBigUint(b *builder.Builder, numLimbs int) BigUintTarget {
	if numLimbs < 1 {
		panic(fmt.Sprintf("gadgets: biguint with %d limbs", numLimbs))
	}
	limbs := make([]U32Target, numLimbs)
	for i := range limbs {
		limbs[i] = AddVirtualU32(b)
	}
	return BigUintTarget{Limbs: limbs}
}

// ConstantBigUint returns the constant v, sized to exactly the limbs v
// needs (one limb for zero).
func ConstantBigUint(b *builder.Builder, v *big.Int) BigUintTarget {
	if v.Sign() < 0 {
		panic(fmt.Sprintf("gadgets: negative biguint constant %s", v))
	}
	n := (v.BitLen() + u32Bits - 1) / u32Bits
	if n == 0 {
		n = 1
	}
	limbs := make([]U32Target, n)
	rest := new(big.Int).Set(v)
	mask := big.NewInt(1 << u32Bits)
	mask.Sub(mask, big.NewInt(1))
	for i := range limbs {
		limb := new(big.Int).And(rest, mask)
		limbs[i] = ConstU32(b, uint32(limb.Uint64()))
		rest.Rsh(rest, u32Bits)
	}
	return BigUintTarget{Limbs: limbs}
}

// ZeroBigUint returns the single-limb constant zero.
func ZeroBigUint(b *builder.Builder) BigUintTarget {
	return BigUintTarget{Limbs: []U32Target{ZeroU32(b)}}
}

// ConnectBigUint constrains x == y. Where the widths differ, the excess
// limbs of the wider operand are constrained to zero.
func ConnectBigUint(b *builder.Builder, x, y BigUintTarget) {
	n := min(len(x.Limbs), len(y.Limbs))
	for i := 0; i < n; i++ {
		b.Connect(x.Limbs[i].Target(), y.Limbs[i].Target())
	}
	for _, l := range x.Limbs[n:] {
		b.AssertZero(l.Target())
	}
	for _, l := range y.Limbs[n:] {
		b.AssertZero(l.Target())
	}
}

// PadBigUints returns both operands extended with zero-constant limbs to
// the larger of the two widths.
func PadBigUints(b *builder.Builder, x, y BigUintTarget) (BigUintTarget, BigUintTarget) {
	n := max(len(x.Limbs), len(y.Limbs))
	return padTo(b, x, n), padTo(b, y, n)
}

func padTo(b *builder.Builder, x BigUintTarget, n int) BigUintTarget {
	if len(x.Limbs) >= n {
		return x
	}
	limbs := make([]U32Target, n)
	copy(limbs, x.Limbs)
	for i := len(x.Limbs); i < n; i++ {
		limbs[i] = ZeroU32(b)
	}
	return BigUintTarget{Limbs: limbs}
}

// CmpBigUint returns a boolean target holding 1 iff x <= y.
func CmpBigUint(b *builder.Builder, x, y BigUintTarget) iop.BoolTarget {
	x, y = PadBigUints(b, x, y)
	return ListLE(b, x.Limbs, y.Limbs)
}

// AddBigUint returns x + y, one limb wider than the wider operand.
func AddBigUint(b *builder.Builder, x, y BigUintTarget) BigUintTarget {
	x, y = PadBigUints(b, x, y)
	n := len(x.Limbs)

	limbs := make([]U32Target, n+1)
	carry := ZeroU32(b)
	for i := 0; i < n; i++ {
		limbs[i], carry = AddThreeU32(b, x.Limbs[i], y.Limbs[i], carry)
	}
	limbs[n] = carry
	return BigUintTarget{Limbs: limbs}
}

// SubBigUint returns x - y, as wide as the wider operand. The final borrow
// is constrained to zero, so any witness with x < y fails the circuit.
func SubBigUint(b *builder.Builder, x, y BigUintTarget) BigUintTarget {
	x, y = PadBigUints(b, x, y)
	n := len(x.Limbs)

	limbs := make([]U32Target, n)
	borrow := b.Zero()
	for i := 0; i < n; i++ {
		var bout iop.BoolTarget
		limbs[i], bout = SubU32(b, x.Limbs[i], y.Limbs[i], borrow)
		borrow = bout.Target()
	}
	b.AssertZero(borrow)
	return BigUintTarget{Limbs: limbs}
}

// MulBigUint returns x · y with exactly len(x)+len(y) limbs. Partial
// products are accumulated column by column, rippling each column's carry
// into the next; the carry out of the last column is necessarily zero and
// is constrained so.
func MulBigUint(b *builder.Builder, x, y BigUintTarget) BigUintTarget {
	total := len(x.Limbs) + len(y.Limbs)
	cols := make([][]U32Target, total)
	for i, xl := range x.Limbs {
		for j, yl := range y.Limbs {
			low, high := MulU32(b, xl, yl)
			cols[i+j] = append(cols[i+j], low)
			cols[i+j+1] = append(cols[i+j+1], high)
		}
	}

	limbs := make([]U32Target, total)
	carry := ZeroU32(b)
	for i := range cols {
		col := append(cols[i], carry)
		limbs[i], carry = AddManyU32(b, col)
	}
	b.AssertZero(carry.Target())
	return BigUintTarget{Limbs: limbs}
}

// MulBigUintByBool returns x scaled by a boolean: x when flag is 1, zero
// when it is 0, with x's width.
func MulBigUintByBool(b *builder.Builder, x BigUintTarget, flag iop.BoolTarget) BigUintTarget {
	limbs := make([]U32Target, len(x.Limbs))
	for i, l := range x.Limbs {
		limbs[i] = U32Target{t: b.Mul(l.Target(), flag.Target())}
	}
	return BigUintTarget{Limbs: limbs}
}

// DivRemBigUint returns (quotient, remainder) with x = quotient·y +
// remainder and remainder < y. The divisor is constrained non-zero: a
// witness with y = 0 fails the circuit, and witness generation reports an
// error before that. The quotient has x's width and the remainder y's.
func DivRemBigUint(b *builder.Builder, x, y BigUintTarget) (BigUintTarget, BigUintTarget) {
	div := AddVirtualBigUint(b, len(x.Limbs))
	rem := AddVirtualBigUint(b, len(y.Limbs))
	b.AddGenerator(&divRemGenerator{
		dividend: x.Limbs,
		divisor:  y.Limbs,
		quotient: div.Limbs,
		rem:      rem.Limbs,
	})

	assertNonZeroBigUint(b, y)

	// x == div·y + rem
	sum := AddBigUint(b, MulBigUint(b, div, y), rem)
	ConnectBigUint(b, x, sum)

	// rem < y, i.e. NOT y <= rem
	b.AssertZero(CmpBigUint(b, y, rem).Target())

	return div, rem
}

// assertNonZeroBigUint constrains at least one limb of x to be non-zero:
// the product of the per-limb zero flags must vanish.
func assertNonZeroBigUint(b *builder.Builder, x BigUintTarget) {
	allZero := b.One()
	for _, l := range x.Limbs {
		allZero = b.Mul(allZero, IsZero(b, l.Target()).Target())
	}
	b.AssertZero(allZero)
}

// divRemGenerator computes the euclidean quotient and remainder of the
// little-endian limb values it depends on.
type divRemGenerator struct {
	dividend, divisor []U32Target
	quotient, rem     []U32Target
}

func (g *divRemGenerator) Name() string {
	return fmt.Sprintf("biguint.divRem(%d/%d limbs)", len(g.dividend), len(g.divisor))
}

func (g *divRemGenerator) Dependencies() []iop.Target {
	deps := make([]iop.Target, 0, len(g.dividend)+len(g.divisor))
	for _, l := range g.dividend {
		deps = append(deps, l.Target())
	}
	for _, l := range g.divisor {
		deps = append(deps, l.Target())
	}
	return deps
}

func (g *divRemGenerator) Run(w *iop.Witness) error {
	x, err := GetBigUint(w, BigUintTarget{Limbs: g.dividend})
	if err != nil {
		return err
	}
	y, err := GetBigUint(w, BigUintTarget{Limbs: g.divisor})
	if err != nil {
		return err
	}
	if y.Sign() == 0 {
		return fmt.Errorf("biguint division of %s by zero", x)
	}
	div, rem := new(big.Int).QuoRem(x, y, new(big.Int))
	if err := SetBigUint(w, BigUintTarget{Limbs: g.quotient}, div); err != nil {
		return err
	}
	return SetBigUint(w, BigUintTarget{Limbs: g.rem}, rem)
}

func setLimbs(w *iop.Witness, limbs []U32Target, v *big.Int) error {
	if v.BitLen() > len(limbs)*u32Bits {
		return fmt.Errorf("%s does not fit in %d limbs", v, len(limbs))
	}
	rest := new(big.Int).Set(v)
	mask := new(big.Int).Sub(big.NewInt(1<<u32Bits), big.NewInt(1))
	limb := new(big.Int)
	for _, t := range limbs {
		limb.And(rest, mask)
		if err := w.Set(t.Target(), field.NewElement(limb.Uint64())); err != nil {
			return err
		}
		rest.Rsh(rest, u32Bits)
	}
	return nil
}
