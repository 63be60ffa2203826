package gates

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// ArithmeticGate packs numOps fused multiply-add operations into one row.
// Operation i occupies wires [4i, 4i+4): two multiplicands, an addend and an
// output, bound by
//
//	c0·m0·m1 + c1·addend - out = 0
//
// with the coefficients c0, c1 shared by the whole row as local constants.
// It is the workhorse every builder-level Add/Sub/Mul rides on.
type ArithmeticGate struct {
	numOps int
}

const wiresPerOp = 4

// NewArithmeticGate returns the descriptor for rows of numOps operations.
func NewArithmeticGate(numOps int) *ArithmeticGate {
	if numOps < 1 {
		panic("gates: arithmetic gate needs at least one op")
	}
	return &ArithmeticGate{numOps: numOps}
}

// NumOps returns the number of operations per row.
func (g *ArithmeticGate) NumOps() int { return g.numOps }

// WireIthMultiplicand0 returns the column of op i's first multiplicand.
func (g *ArithmeticGate) WireIthMultiplicand0(i int) int { return wiresPerOp * i }

// WireIthMultiplicand1 returns the column of op i's second multiplicand.
func (g *ArithmeticGate) WireIthMultiplicand1(i int) int { return wiresPerOp*i + 1 }

// WireIthAddend returns the column of op i's addend.
func (g *ArithmeticGate) WireIthAddend(i int) int { return wiresPerOp*i + 2 }

// WireIthOutput returns the column of op i's output.
func (g *ArithmeticGate) WireIthOutput(i int) int { return wiresPerOp*i + 3 }

func (g *ArithmeticGate) ID() string {
	return fmt.Sprintf("ArithmeticGate{numOps=%d}<D=%d>", g.numOps, field.D)
}

func (g *ArithmeticGate) EvalUnfiltered(vars EvaluationVars) []field.Extension {
	c0 := vars.LocalConstants[0]
	c1 := vars.LocalConstants[1]

	constraints := make([]field.Extension, 0, g.numOps)
	for i := 0; i < g.numOps; i++ {
		m0 := vars.LocalWire(g.WireIthMultiplicand0(i))
		m1 := vars.LocalWire(g.WireIthMultiplicand1(i))
		addend := vars.LocalWire(g.WireIthAddend(i))
		out := vars.LocalWire(g.WireIthOutput(i))

		var prod, scaled, acc field.Extension
		prod.Mul(&m0, &m1)
		prod.Mul(&prod, &c0)
		scaled.Mul(&addend, &c1)
		acc.Add(&prod, &scaled).Sub(&acc, &out)
		constraints = append(constraints, acc)
	}
	return constraints
}

func (g *ArithmeticGate) EvalUnfilteredRecursive(api EvalAPI, vars EvaluationTargets) []iop.ExtensionTarget {
	c0 := vars.LocalConstants[0]
	c1 := vars.LocalConstants[1]

	constraints := make([]iop.ExtensionTarget, 0, g.numOps)
	for i := 0; i < g.numOps; i++ {
		m0 := vars.LocalWire(g.WireIthMultiplicand0(i))
		m1 := vars.LocalWire(g.WireIthMultiplicand1(i))
		addend := vars.LocalWire(g.WireIthAddend(i))
		out := vars.LocalWire(g.WireIthOutput(i))

		prod := api.MulExtension(api.MulExtension(m0, m1), c0)
		scaled := api.MulExtension(addend, c1)
		constraints = append(constraints, api.SubExtension(api.AddExtension(prod, scaled), out))
	}
	return constraints
}

func (g *ArithmeticGate) Generators(row int, localConstants []field.Element) []iop.Generator {
	gens := make([]iop.Generator, g.numOps)
	for i := 0; i < g.numOps; i++ {
		gens[i] = &arithmeticOpGenerator{
			gate: g,
			row:  row,
			op:   i,
			c0:   localConstants[0],
			c1:   localConstants[1],
		}
	}
	return gens
}

func (g *ArithmeticGate) NumWires() int       { return wiresPerOp * g.numOps }
func (g *ArithmeticGate) NumConstants() int   { return 2 }
func (g *ArithmeticGate) Degree() int         { return 3 }
func (g *ArithmeticGate) NumConstraints() int { return g.numOps }

type arithmeticOpGenerator struct {
	gate *ArithmeticGate
	row  int
	op   int
	c0   field.Element
	c1   field.Element
}

func (gen *arithmeticOpGenerator) Name() string {
	return fmt.Sprintf("arithmetic(row=%d,op=%d)", gen.row, gen.op)
}

func (gen *arithmeticOpGenerator) Dependencies() []iop.Target {
	return []iop.Target{
		iop.WireTarget(gen.row, gen.gate.WireIthMultiplicand0(gen.op)),
		iop.WireTarget(gen.row, gen.gate.WireIthMultiplicand1(gen.op)),
		iop.WireTarget(gen.row, gen.gate.WireIthAddend(gen.op)),
	}
}

func (gen *arithmeticOpGenerator) Run(w *iop.Witness) error {
	m0, err := w.Get(iop.WireTarget(gen.row, gen.gate.WireIthMultiplicand0(gen.op)))
	if err != nil {
		return err
	}
	m1, err := w.Get(iop.WireTarget(gen.row, gen.gate.WireIthMultiplicand1(gen.op)))
	if err != nil {
		return err
	}
	addend, err := w.Get(iop.WireTarget(gen.row, gen.gate.WireIthAddend(gen.op)))
	if err != nil {
		return err
	}

	var out, t field.Element
	out.Mul(&m0, &m1).Mul(&out, &gen.c0)
	t.Mul(&addend, &gen.c1)
	out.Add(&out, &t)
	return w.Set(iop.WireTarget(gen.row, gen.gate.WireIthOutput(gen.op)), out)
}
