// Package gates defines the per-row constraint contract of the circuit layer
// and the concrete gate types built on it.
//
// A gate is an immutable row template: wire-layout geometry derived from its
// parameters, a pure constraint evaluator over the extension algebra, the
// same evaluator re-expressed with in-circuit operations (required for
// verifying one circuit's proof inside another), and a factory binding its
// witness generators to a concrete row.
package gates

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// Gate is the contract every constraint-bearing row type implements.
type Gate interface {
	// ID returns a stable, collision-free identifier for the gate type and
	// its parameters, extension degree included. Verifying keys match gate
	// behaviour by this string.
	ID() string

	// EvalUnfiltered evaluates the row's constraints over the given local
	// wires and constants. The row is valid iff every returned value is
	// zero. The function is pure: it reads nothing but its argument.
	EvalUnfiltered(vars EvaluationVars) []field.Extension

	// EvalUnfilteredRecursive computes the same constraint expressions as
	// EvalUnfiltered, operand for operand, using in-circuit operations, so
	// that an outer circuit can check this row's constraints on committed
	// values.
	EvalUnfilteredRecursive(api EvalAPI, vars EvaluationTargets) []iop.ExtensionTarget

	// Generators binds the gate's witness logic to a concrete row.
	Generators(row int, localConstants []field.Element) []iop.Generator

	// NumWires returns the row width.
	NumWires() int
	// NumConstants returns the number of local constants the row carries.
	NumConstants() int
	// Degree returns the exact maximal total degree, in wire and constant
	// polynomials, of any expression returned by EvalUnfiltered. It bounds
	// the evaluation domain of the surrounding proving system; over- or
	// under-stating it breaks completeness or soundness respectively.
	Degree() int
	// NumConstraints returns the length of the EvalUnfiltered result.
	NumConstraints() int
}

// WireRange is a half-open range [Start, End) of columns within a row.
type WireRange struct {
	Start, End int
}

// Len returns the number of columns in the range.
func (r WireRange) Len() int {
	return r.End - r.Start
}

// EvaluationVars is the view of one row a native constraint evaluation reads:
// local constants and local wires, lifted into the extension field.
type EvaluationVars struct {
	LocalConstants []field.Extension
	LocalWires     []field.Extension
}

// LocalWire returns the value of a single wire.
func (v EvaluationVars) LocalWire(column int) field.Extension {
	return v.LocalWires[column]
}

// LocalExtAlgebra reads a D-wide wire range as one extension-algebra element.
func (v EvaluationVars) LocalExtAlgebra(r WireRange) field.ExtensionAlgebra {
	if r.Len() != field.D {
		panic(fmt.Sprintf("gates: range %v is not %d wires wide", r, field.D))
	}
	var ret field.ExtensionAlgebra
	for i := 0; i < field.D; i++ {
		ret[i] = v.LocalWires[r.Start+i]
	}
	return ret
}

// EvaluationTargets is the in-circuit mirror of EvaluationVars: each wire of
// the evaluated row is an extension target of the evaluating circuit.
type EvaluationTargets struct {
	LocalConstants []iop.ExtensionTarget
	LocalWires     []iop.ExtensionTarget
}

// LocalWire returns the target tuple of a single wire.
func (v EvaluationTargets) LocalWire(column int) iop.ExtensionTarget {
	return v.LocalWires[column]
}

// LocalExtAlgebra reads a D-wide wire range as one algebra target.
func (v EvaluationTargets) LocalExtAlgebra(r WireRange) iop.ExtensionAlgebraTarget {
	if r.Len() != field.D {
		panic(fmt.Sprintf("gates: range %v is not %d wires wide", r, field.D))
	}
	var ret iop.ExtensionAlgebraTarget
	for i := 0; i < field.D; i++ {
		ret[i] = v.LocalWires[r.Start+i]
	}
	return ret
}

// EvalAPI is the in-circuit operation surface recursive evaluation is
// written against. The circuit builder implements it.
type EvalAPI interface {
	ConstantExtension(v field.Extension) iop.ExtensionTarget
	AddExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget
	SubExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget
	MulExtension(a, b iop.ExtensionTarget) iop.ExtensionTarget

	ConstantExtAlgebra(v field.ExtensionAlgebra) iop.ExtensionAlgebraTarget
	AddExtAlgebra(a, b iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget
	SubExtAlgebra(a, b iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget
	MulExtAlgebra(a, b iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget
	ScalarMulExtAlgebra(s iop.ExtensionTarget, a iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget
}
