package gadgets

import (
	"github.com/LibeccioLabs/plonky2/builder"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/gates"
	"github.com/LibeccioLabs/plonky2/iop"
)

// Insert returns the list that results from inserting element at position
// index into list, shifting the tail up by one. index may be any value in
// [0, len(list)]; len(list) appends. The returned list is one entry longer
// than the input. Out-of-range indices make witness generation fail.
func Insert(b *builder.Builder, index iop.Target, element iop.ExtensionTarget, list []iop.ExtensionTarget) []iop.ExtensionTarget {
	gate := gates.NewInsertionGate(len(list))
	row := b.AddGate(gate, nil)

	b.Connect(index, iop.WireTarget(row, gate.WireInsertionIndex()))
	b.ConnectExtension(element, rangeExtension(row, gate.WiresElement()))
	for i, item := range list {
		b.ConnectExtension(item, rangeExtension(row, gate.WiresListItem(i)))
	}

	out := make([]iop.ExtensionTarget, len(list)+1)
	for i := range out {
		out[i] = rangeExtension(row, gate.WiresOutputListItem(i))
	}
	return out
}

// rangeExtension views a D-wide wire range of a row as an extension target.
func rangeExtension(row int, r gates.WireRange) iop.ExtensionTarget {
	var t iop.ExtensionTarget
	for i := 0; i < field.D; i++ {
		t[i] = iop.WireTarget(row, r.Start+i)
	}
	return t
}
