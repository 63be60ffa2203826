package gates

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// InsertionGate inserts an element into a fixed-length list at an index that
// is a circuit value rather than a compile-time constant. Given a list L of
// vecSize extension elements, an index K and an element E, the gate's
// outputs form the list of length vecSize+1 equal to L with E inserted at
// position K; elements at positions >= K shift right by one. K = vecSize
// appends E after the last element: the round loop runs one past the input
// list, and the pass-through term vanishes identically in the extra round.
//
// Whether round r is the insertion point is proven with a witness-supplied
// equality dummy d_r:
//
//	(r - K)·d_r = 1 - insert_here_r
//	insert_here_r·(r - K) = 0
//
// so insert_here_r is forced to 0 whenever r != K (second equation, with the
// prover supplying d_r = (r-K)^-1 for the first) and forced to 1 at r = K,
// where d_r is arbitrary. A running accumulator turns on at
// the insertion round and selects between E, L[r] and the shifted L[r-1].
// All constraints have degree 2.
type InsertionGate struct {
	vecSize int
	layout  insertionLayout
}

// insertionLayout caches the wire-offset geometry of the row. Offsets are
// computed once here; the evaluator and the generator must index wires
// identically or the row can never be satisfied.
type insertionLayout struct {
	index              int
	element            WireRange
	itemsStart         int
	outputsStart       int
	intermediatesStart int
	roundStride        int
	numWires           int
}

// Intermediate wire slots within a round, in layout order.
const (
	interInsertHere = iota
	interEqualityDummy
	interNewItem
	interNewItemPlusOldItem
	interAlreadyInserted
	interNotAlreadyInserted
	numIntermediates
)

// NewInsertionGate returns the descriptor for lists of vecSize elements.
// vecSize 0 is legal: every insertion is then an append.
func NewInsertionGate(vecSize int) *InsertionGate {
	if vecSize < 0 {
		panic("gates: negative insertion gate size")
	}
	rounds := vecSize + 1
	l := insertionLayout{
		index:       0,
		element:     WireRange{Start: 1, End: 1 + field.D},
		itemsStart:  1 + field.D,
		roundStride: numIntermediates * field.D,
	}
	l.outputsStart = l.itemsStart + vecSize*field.D
	l.intermediatesStart = l.outputsStart + rounds*field.D
	l.numWires = l.intermediatesStart + rounds*l.roundStride
	return &InsertionGate{vecSize: vecSize, layout: l}
}

// VecSize returns the input list length.
func (g *InsertionGate) VecSize() int { return g.vecSize }

// WireInsertionIndex returns the column holding the insertion index.
func (g *InsertionGate) WireInsertionIndex() int { return g.layout.index }

// WiresElement returns the columns holding the element to insert.
func (g *InsertionGate) WiresElement() WireRange { return g.layout.element }

// WiresListItem returns the columns holding input list item i.
func (g *InsertionGate) WiresListItem(i int) WireRange {
	start := g.layout.itemsStart + i*field.D
	return WireRange{Start: start, End: start + field.D}
}

// WiresOutputListItem returns the columns holding output list item i.
func (g *InsertionGate) WiresOutputListItem(i int) WireRange {
	start := g.layout.outputsStart + i*field.D
	return WireRange{Start: start, End: start + field.D}
}

func (g *InsertionGate) intermediate(r, slot int) WireRange {
	start := g.layout.intermediatesStart + r*g.layout.roundStride + slot*field.D
	return WireRange{Start: start, End: start + field.D}
}

// WiresInsertHere returns round r's insertion flag columns.
func (g *InsertionGate) WiresInsertHere(r int) WireRange { return g.intermediate(r, interInsertHere) }

// WiresEqualityDummy returns round r's equality-dummy columns.
func (g *InsertionGate) WiresEqualityDummy(r int) WireRange {
	return g.intermediate(r, interEqualityDummy)
}

// WiresNewItem returns round r's inserted-contribution columns.
func (g *InsertionGate) WiresNewItem(r int) WireRange { return g.intermediate(r, interNewItem) }

// WiresNewItemPlusOldItem returns round r's combined-output columns.
func (g *InsertionGate) WiresNewItemPlusOldItem(r int) WireRange {
	return g.intermediate(r, interNewItemPlusOldItem)
}

// WiresAlreadyInserted returns round r's accumulator columns.
func (g *InsertionGate) WiresAlreadyInserted(r int) WireRange {
	return g.intermediate(r, interAlreadyInserted)
}

// WiresNotAlreadyInserted returns round r's complemented accumulator columns.
func (g *InsertionGate) WiresNotAlreadyInserted(r int) WireRange {
	return g.intermediate(r, interNotAlreadyInserted)
}

func (g *InsertionGate) ID() string {
	return fmt.Sprintf("InsertionGate{vecSize=%d}<D=%d>", g.vecSize, field.D)
}

func (g *InsertionGate) EvalUnfiltered(vars EvaluationVars) []field.Extension {
	index := vars.LocalWire(g.WireInsertionIndex())
	element := vars.LocalExtAlgebra(g.WiresElement())
	items := make([]field.ExtensionAlgebra, g.vecSize)
	for i := range items {
		items[i] = vars.LocalExtAlgebra(g.WiresListItem(i))
	}

	one := field.AlgOne()
	constraints := make([]field.Extension, 0, g.NumConstraints())
	appendAlg := func(c field.ExtensionAlgebra) {
		for i := 0; i < field.D; i++ {
			constraints = append(constraints, c[i])
		}
	}

	prevAcc := field.AlgZero()
	for r := 0; r <= g.vecSize; r++ {
		insertHere := vars.LocalExtAlgebra(g.WiresInsertHere(r))
		eqDummy := vars.LocalExtAlgebra(g.WiresEqualityDummy(r))
		newItem := vars.LocalExtAlgebra(g.WiresNewItem(r))
		npo := vars.LocalExtAlgebra(g.WiresNewItemPlusOldItem(r))
		acc := vars.LocalExtAlgebra(g.WiresAlreadyInserted(r))
		notAcc := vars.LocalExtAlgebra(g.WiresNotAlreadyInserted(r))
		output := vars.LocalExtAlgebra(g.WiresOutputListItem(r))

		cur := field.ExtFromUint64(uint64(r))
		var difference field.Extension
		difference.Sub(&cur, &index)

		// (r - K)·d_r - (1 - insert_here_r)
		var c, notInserted field.ExtensionAlgebra
		notInserted.Sub(&one, &insertHere)
		c.ScalarMul(&eqDummy, &difference).Sub(&c, &notInserted)
		appendAlg(c)

		// insert_here_r·(r - K)
		c.ScalarMul(&insertHere, &difference)
		appendAlg(c)

		// already_inserted_r - already_inserted_{r-1} - insert_here_r
		c.Sub(&acc, &prevAcc).Sub(&c, &insertHere)
		appendAlg(c)

		// not_already_inserted_r - (1 - already_inserted_r)
		c.Sub(&one, &acc).Sub(&notAcc, &c)
		appendAlg(c)

		// new_item_r - (insert_here_r·E + already_inserted_{r-1}·L[r-1])
		var expected field.ExtensionAlgebra
		expected.Mul(&insertHere, &element)
		if r > 0 {
			var shifted field.ExtensionAlgebra
			shifted.Mul(&prevAcc, &items[r-1])
			expected.Add(&expected, &shifted)
		}
		c.Sub(&newItem, &expected)
		appendAlg(c)

		// new_item_plus_old_item_r - (new_item_r + not_already_inserted_r·L[r])
		expected.Set(&newItem)
		if r < g.vecSize {
			var kept field.ExtensionAlgebra
			kept.Mul(&notAcc, &items[r])
			expected.Add(&expected, &kept)
		}
		c.Sub(&npo, &expected)
		appendAlg(c)

		// output_r - new_item_plus_old_item_r
		c.Sub(&output, &npo)
		appendAlg(c)

		prevAcc = acc
	}
	return constraints
}

func (g *InsertionGate) EvalUnfilteredRecursive(api EvalAPI, vars EvaluationTargets) []iop.ExtensionTarget {
	index := vars.LocalWire(g.WireInsertionIndex())
	element := vars.LocalExtAlgebra(g.WiresElement())
	items := make([]iop.ExtensionAlgebraTarget, g.vecSize)
	for i := range items {
		items[i] = vars.LocalExtAlgebra(g.WiresListItem(i))
	}

	one := api.ConstantExtAlgebra(field.AlgOne())
	constraints := make([]iop.ExtensionTarget, 0, g.NumConstraints())
	appendAlg := func(c iop.ExtensionAlgebraTarget) {
		for i := 0; i < field.D; i++ {
			constraints = append(constraints, c[i])
		}
	}

	prevAcc := api.ConstantExtAlgebra(field.AlgZero())
	for r := 0; r <= g.vecSize; r++ {
		insertHere := vars.LocalExtAlgebra(g.WiresInsertHere(r))
		eqDummy := vars.LocalExtAlgebra(g.WiresEqualityDummy(r))
		newItem := vars.LocalExtAlgebra(g.WiresNewItem(r))
		npo := vars.LocalExtAlgebra(g.WiresNewItemPlusOldItem(r))
		acc := vars.LocalExtAlgebra(g.WiresAlreadyInserted(r))
		notAcc := vars.LocalExtAlgebra(g.WiresNotAlreadyInserted(r))
		output := vars.LocalExtAlgebra(g.WiresOutputListItem(r))

		difference := api.SubExtension(api.ConstantExtension(field.ExtFromUint64(uint64(r))), index)

		appendAlg(api.SubExtAlgebra(api.ScalarMulExtAlgebra(difference, eqDummy), api.SubExtAlgebra(one, insertHere)))

		appendAlg(api.ScalarMulExtAlgebra(difference, insertHere))

		appendAlg(api.SubExtAlgebra(api.SubExtAlgebra(acc, prevAcc), insertHere))

		appendAlg(api.SubExtAlgebra(notAcc, api.SubExtAlgebra(one, acc)))

		expected := api.MulExtAlgebra(insertHere, element)
		if r > 0 {
			expected = api.AddExtAlgebra(expected, api.MulExtAlgebra(prevAcc, items[r-1]))
		}
		appendAlg(api.SubExtAlgebra(newItem, expected))

		expectedNpo := newItem
		if r < g.vecSize {
			expectedNpo = api.AddExtAlgebra(newItem, api.MulExtAlgebra(notAcc, items[r]))
		}
		appendAlg(api.SubExtAlgebra(npo, expectedNpo))

		appendAlg(api.SubExtAlgebra(output, npo))

		prevAcc = acc
	}
	return constraints
}

func (g *InsertionGate) Generators(row int, localConstants []field.Element) []iop.Generator {
	_ = localConstants
	return []iop.Generator{&insertionGenerator{gate: g, row: row}}
}

func (g *InsertionGate) NumWires() int     { return g.layout.numWires }
func (g *InsertionGate) NumConstants() int { return 0 }
func (g *InsertionGate) Degree() int       { return 2 }

func (g *InsertionGate) NumConstraints() int {
	// 7 algebra constraints per round, D coordinates each.
	return (g.vecSize + 1) * 7 * field.D
}

// insertionGenerator recomputes every intermediate and output wire of one
// insertion row from the index, element and list wires.
type insertionGenerator struct {
	gate *InsertionGate
	row  int
}

func (gen *insertionGenerator) Name() string {
	return fmt.Sprintf("insertion(row=%d,vecSize=%d)", gen.row, gen.gate.VecSize())
}

func (gen *insertionGenerator) Dependencies() []iop.Target {
	g := gen.gate
	deps := []iop.Target{iop.WireTarget(gen.row, g.WireInsertionIndex())}
	deps = append(deps, gen.rangeTargets(g.WiresElement())...)
	for i := 0; i < g.VecSize(); i++ {
		deps = append(deps, gen.rangeTargets(g.WiresListItem(i))...)
	}
	return deps
}

func (gen *insertionGenerator) rangeTargets(r WireRange) []iop.Target {
	ts := make([]iop.Target, 0, r.Len())
	for col := r.Start; col < r.End; col++ {
		ts = append(ts, iop.WireTarget(gen.row, col))
	}
	return ts
}

func (gen *insertionGenerator) getExt(w *iop.Witness, r WireRange) (field.Extension, error) {
	var v field.Extension
	for i := 0; i < field.D; i++ {
		c, err := w.Get(iop.WireTarget(gen.row, r.Start+i))
		if err != nil {
			return field.Extension{}, err
		}
		v[i] = c
	}
	return v, nil
}

func (gen *insertionGenerator) setExt(w *iop.Witness, r WireRange, v field.Extension) error {
	for i := 0; i < field.D; i++ {
		if err := w.Set(iop.WireTarget(gen.row, r.Start+i), v[i]); err != nil {
			return err
		}
	}
	return nil
}

func (gen *insertionGenerator) Run(w *iop.Witness) error {
	g := gen.gate

	idxVal, err := w.Get(iop.WireTarget(gen.row, g.WireInsertionIndex()))
	if err != nil {
		return err
	}
	idx := field.ToBigInt(&idxVal)
	if !idx.IsUint64() || idx.Uint64() > uint64(g.VecSize()) {
		return fmt.Errorf("insertion index %s outside [0, %d]", idx, g.VecSize())
	}
	k := idx.Uint64()

	element, err := gen.getExt(w, g.WiresElement())
	if err != nil {
		return err
	}
	items := make([]field.Extension, g.VecSize())
	for i := range items {
		if items[i], err = gen.getExt(w, g.WiresListItem(i)); err != nil {
			return err
		}
	}

	acc := field.Zero()
	for r := 0; r <= g.VecSize(); r++ {
		var ih, eqDummy field.Element
		if uint64(r) == k {
			ih.SetOne()
			// d_r is unconstrained at the insertion round; any value works.
			eqDummy.SetOne()
		} else {
			var diff field.Element
			rElem := field.NewElement(uint64(r))
			kElem := field.FromBigInt(idx)
			diff.Sub(&rElem, &kElem)
			eqDummy.Inverse(&diff)
		}

		prevAcc := acc
		acc.Add(&acc, &ih)
		var notAcc field.Element
		one := field.One()
		notAcc.Sub(&one, &acc)

		var newItem, t field.Extension
		newItem.ScalarMul(&element, &ih)
		if r > 0 {
			t.ScalarMul(&items[r-1], &prevAcc)
			newItem.Add(&newItem, &t)
		}

		npo := newItem
		if r < g.VecSize() {
			t.ScalarMul(&items[r], &notAcc)
			npo.Add(&npo, &t)
		}

		if err := gen.setExt(w, g.WiresInsertHere(r), field.ExtFromBase(ih)); err != nil {
			return err
		}
		if err := gen.setExt(w, g.WiresEqualityDummy(r), field.ExtFromBase(eqDummy)); err != nil {
			return err
		}
		if err := gen.setExt(w, g.WiresAlreadyInserted(r), field.ExtFromBase(acc)); err != nil {
			return err
		}
		if err := gen.setExt(w, g.WiresNotAlreadyInserted(r), field.ExtFromBase(notAcc)); err != nil {
			return err
		}
		if err := gen.setExt(w, g.WiresNewItem(r), newItem); err != nil {
			return err
		}
		if err := gen.setExt(w, g.WiresNewItemPlusOldItem(r), npo); err != nil {
			return err
		}
		if err := gen.setExt(w, g.WiresOutputListItem(r), npo); err != nil {
			return err
		}
	}
	return nil
}
