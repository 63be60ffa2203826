package gadgets

import (
	"fmt"
	"math/bits"

	"github.com/LibeccioLabs/plonky2/builder"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

const u32Bits = 32

// limbBase is 2^32 as a constraint coefficient.
func limbBase() field.Element {
	return field.NewElement(1 << u32Bits)
}

// U32Target is a target whose producing constraints guarantee a value below
// 2^32. The arithmetic helpers in this file are the only constructors;
// composite gadgets treat them as already-constrained black boxes.
type U32Target struct {
	t iop.Target
}

// NewU32Target wraps t. The caller vouches that t is constrained to 32 bits.
func NewU32Target(t iop.Target) U32Target {
	return U32Target{t: t}
}

// Target returns the underlying target.
func (u U32Target) Target() iop.Target {
	return u.t
}

// AddVirtualU32 allocates a fresh target constrained to 32 bits. Its value
// must come from a generator or a connection.
func AddVirtualU32(b *builder.Builder) U32Target {
	t := b.AddVirtualTarget()
	RangeCheck(b, t, u32Bits)
	return U32Target{t: t}
}

// ZeroU32 returns the constant-zero limb.
func ZeroU32(b *builder.Builder) U32Target {
	return U32Target{t: b.Zero()}
}

// ConstU32 returns the constant limb holding v.
func ConstU32(b *builder.Builder, v uint32) U32Target {
	return U32Target{t: b.Constant(field.NewElement(uint64(v)))}
}

// AddThreeU32 returns (sum, carry) with x + y + z = sum + 2^32·carry, sum a
// 32-bit value and carry in {0, 1, 2}. Chaining the carry into the next
// limb position gives ripple-carry addition.
func AddThreeU32(b *builder.Builder, x, y, z U32Target) (U32Target, U32Target) {
	sum := AddVirtualU32(b)
	carry := b.AddVirtualTarget()
	b.AddGenerator(&addThreeGenerator{x: x.t, y: y.t, z: z.t, sum: sum.t, carry: carry})

	// carry·(carry-1)·(carry-2) = 0
	c1 := b.Sub(carry, b.One())
	c2 := b.Sub(carry, b.Two())
	b.AssertZero(b.Mul(b.Mul(carry, c1), c2))

	lhs := b.Add(b.Add(x.t, y.t), z.t)
	rhs := b.Arithmetic(limbBase(), field.One(), carry, b.One(), sum.t)
	b.Connect(lhs, rhs)

	return sum, U32Target{t: carry}
}

// AddManyU32 returns (sum, carry) with Σ ts = sum + 2^32·carry, sum a
// 32-bit value and carry range-checked to the smallest width that can hold
// len(ts)-1.
func AddManyU32(b *builder.Builder, ts []U32Target) (U32Target, U32Target) {
	if len(ts) == 0 {
		panic("gadgets: adding empty limb list")
	}
	// Σ ts < len(ts)·2^32 must stay below the field modulus.
	if len(ts) > 1<<25 {
		panic(fmt.Sprintf("gadgets: %d addends overflow the field", len(ts)))
	}

	sum := AddVirtualU32(b)
	carry := b.AddVirtualTarget()
	deps := make([]iop.Target, len(ts))
	for i := range ts {
		deps[i] = ts[i].t
	}
	b.AddGenerator(&addManyGenerator{operands: deps, sum: sum.t, carry: carry})

	carryBits := bits.Len(uint(len(ts) - 1))
	if carryBits == 0 {
		carryBits = 1
	}
	RangeCheck(b, carry, carryBits)

	lhs := ts[0].t
	for i := 1; i < len(ts); i++ {
		lhs = b.Add(lhs, ts[i].t)
	}
	rhs := b.Arithmetic(limbBase(), field.One(), carry, b.One(), sum.t)
	b.Connect(lhs, rhs)

	return sum, U32Target{t: carry}
}

// MulU32 returns (low, high) with x·y = low + 2^32·high, both 32-bit
// values. The product of two 32-bit values stays below the Goldilocks
// modulus, so the identity holds over the integers.
func MulU32(b *builder.Builder, x, y U32Target) (U32Target, U32Target) {
	low := AddVirtualU32(b)
	high := AddVirtualU32(b)
	b.AddGenerator(&mulGenerator{x: x.t, y: y.t, low: low.t, high: high.t})

	lhs := b.Mul(x.t, y.t)
	rhs := b.Arithmetic(limbBase(), field.One(), high.t, b.One(), low.t)
	b.Connect(lhs, rhs)

	return low, high
}

// SubU32 returns (diff, borrow) with x - y - borrowIn + 2^32·borrow = diff,
// diff a 32-bit value and borrow boolean: borrow is 1 exactly when
// x < y + borrowIn. borrowIn must be a boolean target.
func SubU32(b *builder.Builder, x, y U32Target, borrowIn iop.Target) (U32Target, iop.BoolTarget) {
	diff := AddVirtualU32(b)
	borrow := b.AddVirtualTarget()
	b.AddGenerator(&subGenerator{x: x.t, y: y.t, borrowIn: borrowIn, diff: diff.t, borrow: borrow})

	bout := b.AssertBool(borrow)

	lhs := b.Sub(b.Sub(x.t, y.t), borrowIn)
	rhs := b.Arithmetic(limbBase(), field.One(), borrow, b.One(), lhs)
	b.Connect(rhs, diff.t)

	return diff, bout
}

func getU32(w *iop.Witness, t iop.Target) (uint64, error) {
	v, err := w.Get(t)
	if err != nil {
		return 0, err
	}
	n := field.ToBigInt(&v)
	if n.BitLen() > u32Bits {
		return 0, fmt.Errorf("target %s holds %s, not a 32-bit value", t, n)
	}
	return n.Uint64(), nil
}

type addThreeGenerator struct {
	x, y, z    iop.Target
	sum, carry iop.Target
}

func (g *addThreeGenerator) Name() string {
	return fmt.Sprintf("u32.addThree(%s,%s,%s)", g.x, g.y, g.z)
}

func (g *addThreeGenerator) Dependencies() []iop.Target {
	return []iop.Target{g.x, g.y, g.z}
}

func (g *addThreeGenerator) Run(w *iop.Witness) error {
	x, err := getU32(w, g.x)
	if err != nil {
		return err
	}
	y, err := getU32(w, g.y)
	if err != nil {
		return err
	}
	z, err := getU32(w, g.z)
	if err != nil {
		return err
	}
	s := x + y + z
	if err := w.Set(g.sum, field.NewElement(s&((1<<u32Bits)-1))); err != nil {
		return err
	}
	return w.Set(g.carry, field.NewElement(s>>u32Bits))
}

type addManyGenerator struct {
	operands   []iop.Target
	sum, carry iop.Target
}

func (g *addManyGenerator) Name() string {
	return fmt.Sprintf("u32.addMany(%d operands)", len(g.operands))
}

func (g *addManyGenerator) Dependencies() []iop.Target {
	return g.operands
}

func (g *addManyGenerator) Run(w *iop.Witness) error {
	var s uint64
	for _, t := range g.operands {
		v, err := getU32(w, t)
		if err != nil {
			return err
		}
		s += v
	}
	if err := w.Set(g.sum, field.NewElement(s&((1<<u32Bits)-1))); err != nil {
		return err
	}
	return w.Set(g.carry, field.NewElement(s>>u32Bits))
}

type mulGenerator struct {
	x, y      iop.Target
	low, high iop.Target
}

func (g *mulGenerator) Name() string {
	return fmt.Sprintf("u32.mul(%s,%s)", g.x, g.y)
}

func (g *mulGenerator) Dependencies() []iop.Target {
	return []iop.Target{g.x, g.y}
}

func (g *mulGenerator) Run(w *iop.Witness) error {
	x, err := getU32(w, g.x)
	if err != nil {
		return err
	}
	y, err := getU32(w, g.y)
	if err != nil {
		return err
	}
	p := x * y
	if err := w.Set(g.low, field.NewElement(p&((1<<u32Bits)-1))); err != nil {
		return err
	}
	return w.Set(g.high, field.NewElement(p>>u32Bits))
}

type subGenerator struct {
	x, y, borrowIn iop.Target
	diff, borrow   iop.Target
}

func (g *subGenerator) Name() string {
	return fmt.Sprintf("u32.sub(%s,%s)", g.x, g.y)
}

func (g *subGenerator) Dependencies() []iop.Target {
	return []iop.Target{g.x, g.y, g.borrowIn}
}

func (g *subGenerator) Run(w *iop.Witness) error {
	x, err := getU32(w, g.x)
	if err != nil {
		return err
	}
	y, err := getU32(w, g.y)
	if err != nil {
		return err
	}
	bin, err := getU32(w, g.borrowIn)
	if err != nil {
		return err
	}
	if bin > 1 {
		return fmt.Errorf("incoming borrow %s holds %d, not a boolean", g.borrowIn, bin)
	}

	var diff, borrow uint64
	if x >= y+bin {
		diff = x - y - bin
	} else {
		diff = x + (1 << u32Bits) - y - bin
		borrow = 1
	}
	if err := w.Set(g.diff, field.NewElement(diff)); err != nil {
		return err
	}
	return w.Set(g.borrow, field.NewElement(borrow))
}
