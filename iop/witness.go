package iop

import (
	"fmt"
	"sync"

	"github.com/LibeccioLabs/plonky2/field"
)

// Partition is a union-find structure over targets. Targets connected during
// circuit construction land in the same class and share one witness value.
type Partition struct {
	parent map[Target]Target
}

// NewPartition returns an empty partition; every target starts in its own
// singleton class.
func NewPartition() *Partition {
	return &Partition{parent: make(map[Target]Target)}
}

// Find returns the representative of t's class.
func (p *Partition) Find(t Target) Target {
	root := t
	for {
		next, ok := p.parent[root]
		if !ok {
			break
		}
		root = next
	}
	// path compression
	for t != root {
		next := p.parent[t]
		p.parent[t] = root
		t = next
	}
	return root
}

// Union merges the classes of a and b.
func (p *Partition) Union(a, b Target) {
	ra, rb := p.Find(a), p.Find(b)
	if ra != rb {
		p.parent[ra] = rb
	}
}

// Witness is the write-once mapping from targets to base field values built
// during witness generation and discarded after proving. Values are stored
// per partition class, so connected targets observe each other's
// assignments; each individual target may be written at most once.
//
// Witness is safe for concurrent use: generators running in parallel on
// disjoint targets need no further synchronization.
type Witness struct {
	mu      sync.Mutex
	part    *Partition
	values  map[Target]field.Element // keyed by class representative
	written map[Target]struct{}      // per-target write-once bookkeeping
}

// NewWitness returns an empty witness over the given partition. A nil
// partition means every target is its own class.
func NewWitness(part *Partition) *Witness {
	if part == nil {
		part = NewPartition()
	}
	return &Witness{
		part:    part,
		values:  make(map[Target]field.Element),
		written: make(map[Target]struct{}),
	}
}

// Set assigns v to t. It fails if t was already written, or if t's class
// holds a different value (a generator/constraint mismatch, fatal for the
// whole proof attempt).
func (w *Witness) Set(t Target, v field.Element) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.written[t]; ok {
		return fmt.Errorf("iop: target %s assigned twice", t)
	}
	w.written[t] = struct{}{}

	rep := w.part.Find(t)
	if old, ok := w.values[rep]; ok {
		if !old.Equal(&v) {
			return fmt.Errorf("iop: conflicting assignments for %s: %s vs %s", t, old.String(), v.String())
		}
		return nil
	}
	w.values[rep] = v
	return nil
}

// Get returns the value of t. Reading an unassigned target is an error.
func (w *Witness) Get(t Target) (field.Element, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	v, ok := w.values[w.part.Find(t)]
	if !ok {
		return field.Element{}, fmt.Errorf("iop: target %s not assigned", t)
	}
	return v, nil
}

// Has reports whether t (or any target of its class) holds a value.
func (w *Witness) Has(t Target) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.values[w.part.Find(t)]
	return ok
}

// SetExtension assigns the coordinates of v to the coordinate targets of et.
func (w *Witness) SetExtension(et ExtensionTarget, v field.Extension) error {
	for i := 0; i < field.D; i++ {
		if err := w.Set(et[i], v[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetExtension reads the extension value denoted by et.
func (w *Witness) GetExtension(et ExtensionTarget) (field.Extension, error) {
	var v field.Extension
	for i := 0; i < field.D; i++ {
		c, err := w.Get(et[i])
		if err != nil {
			return field.Extension{}, err
		}
		v[i] = c
	}
	return v, nil
}

// GetBool reads a boolean target as a Go bool. A non-0/1 value is an error:
// it means the constraints vouching for the target were not honoured.
func (w *Witness) GetBool(bt BoolTarget) (bool, error) {
	v, err := w.Get(bt.Target())
	if err != nil {
		return false, err
	}
	if v.IsZero() {
		return false, nil
	}
	if v.IsOne() {
		return true, nil
	}
	return false, fmt.Errorf("iop: boolean target %s holds non-boolean value %s", bt.Target(), v.String())
}

// PartialWitness is the set of caller-supplied assignments a witness
// generation run starts from: circuit inputs, in this layer's terms.
type PartialWitness struct {
	values map[Target]field.Element
	order  []Target
}

// NewPartialWitness returns an empty partial witness.
func NewPartialWitness() *PartialWitness {
	return &PartialWitness{values: make(map[Target]field.Element)}
}

// Set records the initial assignment of t. Duplicate sets panic: initial
// assignments are construction-side inputs, not mutable state.
func (pw *PartialWitness) Set(t Target, v field.Element) {
	if _, ok := pw.values[t]; ok {
		panic(fmt.Sprintf("iop: duplicate initial assignment for %s", t))
	}
	pw.values[t] = v
	pw.order = append(pw.order, t)
}

// SetExtension records initial assignments for all coordinates of et.
func (pw *PartialWitness) SetExtension(et ExtensionTarget, v field.Extension) {
	for i := 0; i < field.D; i++ {
		pw.Set(et[i], v[i])
	}
}

// CopyInto writes all recorded assignments into w, in recording order.
func (pw *PartialWitness) CopyInto(w *Witness) error {
	for _, t := range pw.order {
		if err := w.Set(t, pw.values[t]); err != nil {
			return err
		}
	}
	return nil
}
