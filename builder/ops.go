package builder

import (
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/gates"
	"github.com/LibeccioLabs/plonky2/iop"
)

// Arithmetic returns a target constrained to c0·x·y + c1·z, using a slot of
// an arithmetic row with coefficients (c0, c1).
func (b *Builder) Arithmetic(c0, c1 field.Element, x, y, z iop.Target) iop.Target {
	b.mutable()
	row, op := b.arithmeticSlot(c0, c1)
	g := b.rows[row].gate.(*gates.ArithmeticGate)
	b.Connect(x, iop.WireTarget(row, g.WireIthMultiplicand0(op)))
	b.Connect(y, iop.WireTarget(row, g.WireIthMultiplicand1(op)))
	b.Connect(z, iop.WireTarget(row, g.WireIthAddend(op)))
	return iop.WireTarget(row, g.WireIthOutput(op))
}

// Add returns x + y.
func (b *Builder) Add(x, y iop.Target) iop.Target {
	return b.Arithmetic(field.One(), field.One(), x, b.one, y)
}

// Sub returns x - y.
func (b *Builder) Sub(x, y iop.Target) iop.Target {
	return b.Arithmetic(field.One(), field.NegOne(), x, b.one, y)
}

// Mul returns x · y.
func (b *Builder) Mul(x, y iop.Target) iop.Target {
	return b.Arithmetic(field.One(), field.Zero(), x, y, b.zero)
}

// MulAdd returns x·y + z.
func (b *Builder) MulAdd(x, y, z iop.Target) iop.Target {
	return b.Arithmetic(field.One(), field.One(), x, y, z)
}

// MulConst returns c·x.
func (b *Builder) MulConst(c field.Element, x iop.Target) iop.Target {
	return b.Arithmetic(c, field.Zero(), x, b.one, b.zero)
}

// AssertZero constrains t to 0.
func (b *Builder) AssertZero(t iop.Target) {
	b.Connect(t, b.zero)
}

// AssertOne constrains t to 1.
func (b *Builder) AssertOne(t iop.Target) {
	b.Connect(t, b.one)
}

// AssertBool constrains t·(t - 1) = 0 and returns t as a boolean target.
func (b *Builder) AssertBool(t iop.Target) iop.BoolTarget {
	b.AssertZero(b.Arithmetic(field.One(), field.NegOne(), t, t, t))
	return iop.NewBoolTarget(t)
}
