package gates

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// ConstantGate binds numConsts wires to the row's local constants: wire i
// must equal constant i. It is how constant values enter the copy partition.
type ConstantGate struct {
	numConsts int
}

// NewConstantGate returns the descriptor for rows of numConsts constants.
func NewConstantGate(numConsts int) *ConstantGate {
	if numConsts < 1 {
		panic("gates: constant gate needs at least one slot")
	}
	return &ConstantGate{numConsts: numConsts}
}

// NumSlots returns the number of constants per row.
func (g *ConstantGate) NumSlots() int { return g.numConsts }

// WireIthConstant returns the column bound to constant i.
func (g *ConstantGate) WireIthConstant(i int) int { return i }

func (g *ConstantGate) ID() string {
	return fmt.Sprintf("ConstantGate{numConsts=%d}<D=%d>", g.numConsts, field.D)
}

func (g *ConstantGate) EvalUnfiltered(vars EvaluationVars) []field.Extension {
	constraints := make([]field.Extension, 0, g.numConsts)
	for i := 0; i < g.numConsts; i++ {
		c := vars.LocalConstants[i]
		w := vars.LocalWire(g.WireIthConstant(i))
		var diff field.Extension
		diff.Sub(&c, &w)
		constraints = append(constraints, diff)
	}
	return constraints
}

func (g *ConstantGate) EvalUnfilteredRecursive(api EvalAPI, vars EvaluationTargets) []iop.ExtensionTarget {
	constraints := make([]iop.ExtensionTarget, 0, g.numConsts)
	for i := 0; i < g.numConsts; i++ {
		constraints = append(constraints, api.SubExtension(vars.LocalConstants[i], vars.LocalWire(g.WireIthConstant(i))))
	}
	return constraints
}

func (g *ConstantGate) Generators(row int, localConstants []field.Element) []iop.Generator {
	gens := make([]iop.Generator, g.numConsts)
	for i := 0; i < g.numConsts; i++ {
		gens[i] = &constantGenerator{row: row, col: g.WireIthConstant(i), value: localConstants[i]}
	}
	return gens
}

func (g *ConstantGate) NumWires() int       { return g.numConsts }
func (g *ConstantGate) NumConstants() int   { return g.numConsts }
func (g *ConstantGate) Degree() int         { return 1 }
func (g *ConstantGate) NumConstraints() int { return g.numConsts }

type constantGenerator struct {
	row   int
	col   int
	value field.Element
}

func (gen *constantGenerator) Name() string {
	return fmt.Sprintf("constant(row=%d,slot=%d)", gen.row, gen.col)
}

func (gen *constantGenerator) Dependencies() []iop.Target { return nil }

func (gen *constantGenerator) Run(w *iop.Witness) error {
	return w.Set(iop.WireTarget(gen.row, gen.col), gen.value)
}
