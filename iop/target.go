// Package iop holds the values-in-flight side of the circuit layer: opaque
// handles to circuit values (targets and wires), the write-once witness
// store, and the generator protocol that fills it.
package iop

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/field"
)

// Target is an opaque handle to a circuit value. It carries identity only;
// values live in the witness. A target either addresses a gate wire
// (row, column) or is a free-standing virtual target routed into wires via
// copy constraints.
type Target struct {
	row, col int
	index    int
	virtual  bool
}

// WireTarget returns the target addressing column col of gate row row.
func WireTarget(row, col int) Target {
	return Target{row: row, col: col}
}

// VirtualTarget returns the virtual target with the given index.
func VirtualTarget(index int) Target {
	return Target{index: index, virtual: true}
}

// IsVirtual reports whether t is a virtual target.
func (t Target) IsVirtual() bool {
	return t.virtual
}

// Wire returns the wire addressed by t. It panics on virtual targets.
func (t Target) Wire() Wire {
	if t.virtual {
		panic("iop: virtual target has no wire")
	}
	return Wire{Row: t.row, Column: t.col}
}

// VirtualIndex returns the index of a virtual target. It panics on wires.
func (t Target) VirtualIndex() int {
	if !t.virtual {
		panic("iop: wire target has no virtual index")
	}
	return t.index
}

func (t Target) String() string {
	if t.virtual {
		return fmt.Sprintf("v%d", t.index)
	}
	return fmt.Sprintf("w%d:%d", t.row, t.col)
}

// Wire identifies one input slot of one gate row.
type Wire struct {
	Row    int
	Column int
}

// Target returns the target addressing w.
func (w Wire) Target() Target {
	return WireTarget(w.Row, w.Column)
}

// BoolTarget is a target whose producing constraints guarantee a 0/1 value.
type BoolTarget struct {
	t Target
}

// NewBoolTarget wraps t. The caller vouches that t is constrained boolean.
func NewBoolTarget(t Target) BoolTarget {
	return BoolTarget{t: t}
}

// Target returns the underlying target.
func (b BoolTarget) Target() Target {
	return b.t
}

// ExtensionTarget is an extension field value in the circuit, one target per
// coordinate.
type ExtensionTarget [field.D]Target

// ExtensionAlgebraTarget is an extension-algebra value in the circuit, one
// extension target per coordinate. It is what the in-circuit form of gate
// evaluation manipulates.
type ExtensionAlgebraTarget [field.D]ExtensionTarget
