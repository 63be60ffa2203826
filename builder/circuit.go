package builder

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/gates"
	"github.com/LibeccioLabs/plonky2/iop"
	"github.com/LibeccioLabs/plonky2/logger"
)

// Circuit is the frozen output of a build: gate rows, the copy partition
// and the generator set. It is immutable; witness stores are created per
// proof instance and discarded afterwards.
type Circuit struct {
	rows       []gateRow
	gateIDs    []string
	partition  *iop.Partition
	generators []iop.Generator
	numVirtual int
}

// NumRows returns the number of gate rows.
func (c *Circuit) NumRows() int { return len(c.rows) }

// GateIDs returns the distinct gate identifiers in order of first use.
// Verifying keys are matched against this list.
func (c *Circuit) GateIDs() []string {
	return append([]string(nil), c.gateIDs...)
}

// GenerateWitness runs the circuit's generators against the initial
// assignments in pw until every target holds a value, then re-evaluates
// every row's constraints over the result. Any scheduling dead-end,
// conflicting assignment or non-zero constraint aborts the whole attempt;
// there is no partial recovery at this layer.
func (c *Circuit) GenerateWitness(pw *iop.PartialWitness) (*iop.Witness, error) {
	w := iop.NewWitness(c.partition)
	if err := pw.CopyInto(w); err != nil {
		return nil, fmt.Errorf("initial assignments: %w", err)
	}
	if err := iop.RunGenerators(w, c.generators); err != nil {
		return nil, err
	}
	if err := c.Check(w); err != nil {
		return nil, err
	}
	log := logger.Logger()
	log.Debug().Int("rows", len(c.rows)).Msg("witness generated and checked")
	return w, nil
}

// Check verifies that w assigns every target of the circuit and satisfies
// every gate row: each row's constraint evaluator, run over its wire values
// lifted into the extension, must return all zeros. A non-zero constraint
// is a generator/constraint mismatch, not a recoverable condition.
func (c *Circuit) Check(w *iop.Witness) error {
	for i := 0; i < c.numVirtual; i++ {
		if !w.Has(iop.VirtualTarget(i)) {
			return fmt.Errorf("builder: virtual target v%d never assigned", i)
		}
	}

	for row, r := range c.rows {
		g := r.gate
		vars := gates.EvaluationVars{
			LocalConstants: make([]field.Extension, g.NumConstants()),
			LocalWires:     make([]field.Extension, g.NumWires()),
		}
		for i := range vars.LocalConstants {
			vars.LocalConstants[i] = field.ExtFromBase(r.constants[i])
		}
		for col := 0; col < g.NumWires(); col++ {
			v, err := w.Get(iop.WireTarget(row, col))
			if err != nil {
				return fmt.Errorf("builder: row %d (%s): %w", row, g.ID(), err)
			}
			vars.LocalWires[col] = field.ExtFromBase(v)
		}

		constraints := g.EvalUnfiltered(vars)
		if len(constraints) != g.NumConstraints() {
			return fmt.Errorf("builder: row %d (%s): evaluator returned %d constraints, gate declares %d",
				row, g.ID(), len(constraints), g.NumConstraints())
		}
		for i := range constraints {
			if !constraints[i].IsZero() {
				if r.stack != "" {
					return fmt.Errorf("builder: row %d (%s): constraint %d not satisfied: %s\nadded at:\n%s",
						row, g.ID(), i, constraints[i].String(), r.stack)
				}
				return fmt.Errorf("builder: row %d (%s): constraint %d not satisfied: %s",
					row, g.ID(), i, constraints[i].String())
			}
		}
	}
	return nil
}
