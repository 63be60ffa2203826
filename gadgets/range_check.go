// Package gadgets composes builder operations into reusable circuit
// fragments: bit range checks, equality-by-inverse tests, 32-bit limb
// arithmetic, arbitrary-width unsigned integers and non-deterministic list
// insertion. Each gadget call allocates wires, emits constraints and
// registers the generators that will fill them; no arithmetic happens at
// call time.
package gadgets

import (
	"fmt"
	"math/big"

	"github.com/LibeccioLabs/plonky2/builder"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// RangeCheck constrains t to [0, 2^numBits): a generator splits the value
// into bits, each bit is constrained boolean, and the weighted recomposition
// is connected back to t.
func RangeCheck(b *builder.Builder, t iop.Target, numBits int) {
	if numBits < 1 {
		panic(fmt.Sprintf("gadgets: range check over %d bits", numBits))
	}
	if big.NewInt(1).Lsh(big.NewInt(1), uint(numBits)).Cmp(field.Modulus()) > 0 {
		panic(fmt.Sprintf("gadgets: %d-bit range does not embed in the field", numBits))
	}

	bits := make([]iop.Target, numBits)
	for i := range bits {
		bits[i] = b.AddVirtualTarget()
	}
	b.AddGenerator(&splitGenerator{value: t, bits: bits})

	for _, bit := range bits {
		b.AssertBool(bit)
	}

	// acc := bit_{n-1}; acc = 2·acc + bit_i down to bit 0
	acc := bits[numBits-1]
	for i := numBits - 2; i >= 0; i-- {
		acc = b.Arithmetic(field.NewElement(2), field.One(), acc, b.One(), bits[i])
	}
	b.Connect(acc, t)
}

// splitGenerator writes the little-endian bit decomposition of its value.
type splitGenerator struct {
	value iop.Target
	bits  []iop.Target
}

func (g *splitGenerator) Name() string {
	return fmt.Sprintf("split(%s,%d bits)", g.value, len(g.bits))
}

func (g *splitGenerator) Dependencies() []iop.Target {
	return []iop.Target{g.value}
}

func (g *splitGenerator) Run(w *iop.Witness) error {
	v, err := w.Get(g.value)
	if err != nil {
		return err
	}
	n := field.ToBigInt(&v)
	if n.BitLen() > len(g.bits) {
		return fmt.Errorf("value %s does not fit in %d bits", n, len(g.bits))
	}
	for i, bit := range g.bits {
		if err := w.Set(bit, field.NewElement(uint64(n.Bit(i)))); err != nil {
			return err
		}
	}
	return nil
}
