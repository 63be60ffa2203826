// Package builder assembles circuits: it allocates targets, lays out gate
// rows, merges copy-constrained targets into partitions and registers the
// witness generators that will later fill the rows.
//
// Construction is purely structural. No field arithmetic happens while
// building; every call only appends circuit state. The built Circuit then
// drives witness generation and re-checks its own constraints over the
// populated witness.
package builder

import (
	"fmt"

	"github.com/LibeccioLabs/plonky2/debug"
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/gates"
	"github.com/LibeccioLabs/plonky2/iop"
	"github.com/LibeccioLabs/plonky2/logger"
)

// Config holds the circuit-shape knobs.
type Config struct {
	// NumArithmeticOps is the number of fused multiply-add slots per
	// arithmetic row.
	NumArithmeticOps int
	// NumConstantSlots is the number of constants per constant row.
	NumConstantSlots int
}

// DefaultConfig returns the defaults used throughout the tests.
func DefaultConfig() Config {
	return Config{
		NumArithmeticOps: 16,
		NumConstantSlots: 8,
	}
}

// Option mutates the builder configuration.
type Option func(*Config) error

// WithNumArithmeticOps overrides the arithmetic row width.
func WithNumArithmeticOps(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("builder: arithmetic rows need at least one op, got %d", n)
		}
		c.NumArithmeticOps = n
		return nil
	}
}

// WithNumConstantSlots overrides the constant row width.
func WithNumConstantSlots(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("builder: constant rows need at least one slot, got %d", n)
		}
		c.NumConstantSlots = n
		return nil
	}
}

type gateRow struct {
	gate      gates.Gate
	constants []field.Element
	// stack is the construction site of the row, captured under the debug
	// build tag and reported when the row's constraints fail.
	stack string
}

type arithKey struct {
	c0, c1 field.Element
}

type arithSlot struct {
	row  int
	used int
}

type constSlot struct {
	row  int
	used int
}

// Builder accumulates circuit state until Build freezes it into a Circuit.
type Builder struct {
	cfg Config

	rows       []gateRow
	gateIDs    []string // unique gate IDs in order of first use
	seenGates  map[string]struct{}
	partition  *iop.Partition
	generators []iop.Generator
	numVirtual int
	numConnect int

	arithSlots map[arithKey]*arithSlot
	constCache map[field.Element]iop.Target
	constRow   *constSlot

	zero, one, two iop.Target

	built bool
}

// New returns an empty builder. The constants 0, 1 and 2 are allocated
// eagerly; nearly every gadget routes through them.
func New(opts ...Option) (*Builder, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	b := &Builder{
		cfg:        cfg,
		seenGates:  make(map[string]struct{}),
		partition:  iop.NewPartition(),
		arithSlots: make(map[arithKey]*arithSlot),
		constCache: make(map[field.Element]iop.Target),
	}
	b.zero = b.Constant(field.Zero())
	b.one = b.Constant(field.One())
	b.two = b.Constant(field.NewElement(2))
	return b, nil
}

func (b *Builder) mutable() {
	if b.built {
		panic("builder: circuit already built")
	}
}

// AddVirtualTarget allocates a fresh virtual target. Its value must come
// from an initial assignment, a generator, or a connection to another
// target; otherwise witness generation fails.
func (b *Builder) AddVirtualTarget() iop.Target {
	b.mutable()
	t := iop.VirtualTarget(b.numVirtual)
	b.numVirtual++
	return t
}

// AddVirtualBool allocates a fresh target constrained to {0, 1}.
func (b *Builder) AddVirtualBool() iop.BoolTarget {
	return b.AssertBool(b.AddVirtualTarget())
}

// AddVirtualExtension allocates a fresh extension target.
func (b *Builder) AddVirtualExtension() iop.ExtensionTarget {
	var et iop.ExtensionTarget
	for i := 0; i < field.D; i++ {
		et[i] = b.AddVirtualTarget()
	}
	return et
}

// Connect asserts a == b. The two targets are merged into one partition
// class: they share a witness value, and conflicting assignments are
// rejected during generation.
func (b *Builder) Connect(a, t iop.Target) {
	b.mutable()
	b.partition.Union(a, t)
	b.numConnect++
}

// ConnectExtension asserts coordinate-wise equality.
func (b *Builder) ConnectExtension(a, t iop.ExtensionTarget) {
	for i := 0; i < field.D; i++ {
		b.Connect(a[i], t[i])
	}
}

// AddGate appends a row of gate g with the given local constants and
// returns the row index. The gate descriptor is recorded once per ID.
func (b *Builder) AddGate(g gates.Gate, constants []field.Element) int {
	b.mutable()
	if len(constants) > g.NumConstants() {
		panic(fmt.Sprintf("builder: gate %s takes %d constants, got %d", g.ID(), g.NumConstants(), len(constants)))
	}
	gates.Register(g)
	if _, ok := b.seenGates[g.ID()]; !ok {
		b.seenGates[g.ID()] = struct{}{}
		b.gateIDs = append(b.gateIDs, g.ID())
	}
	row := len(b.rows)
	r := gateRow{gate: g, constants: constants}
	if debug.Debug {
		r.stack = debug.Stack()
	}
	b.rows = append(b.rows, r)
	return row
}

// AddGenerator registers a witness generator against the circuit.
func (b *Builder) AddGenerator(g iop.Generator) {
	b.mutable()
	b.generators = append(b.generators, g)
}

// Constant returns the canonical target holding v, allocating a constant
// row slot the first time v is seen.
func (b *Builder) Constant(v field.Element) iop.Target {
	b.mutable()
	if t, ok := b.constCache[v]; ok {
		return t
	}
	if b.constRow == nil || b.constRow.used == b.cfg.NumConstantSlots {
		row := b.AddGate(gates.NewConstantGate(b.cfg.NumConstantSlots), nil)
		b.constRow = &constSlot{row: row}
	}
	cs := b.constRow
	b.rows[cs.row].constants = append(b.rows[cs.row].constants, v)
	t := iop.WireTarget(cs.row, cs.used)
	cs.used++
	b.constCache[v] = t
	return t
}

// Zero returns the canonical zero target.
func (b *Builder) Zero() iop.Target { return b.zero }

// One returns the canonical one target.
func (b *Builder) One() iop.Target { return b.one }

// Two returns the canonical two target.
func (b *Builder) Two() iop.Target { return b.two }

// arithmeticSlot returns a free (row, op) pair for the coefficient pair
// (c0, c1), opening a new arithmetic row when the current one is full.
func (b *Builder) arithmeticSlot(c0, c1 field.Element) (int, int) {
	key := arithKey{c0: c0, c1: c1}
	slot, ok := b.arithSlots[key]
	if !ok || slot.used == b.cfg.NumArithmeticOps {
		row := b.AddGate(gates.NewArithmeticGate(b.cfg.NumArithmeticOps), []field.Element{c0, c1})
		slot = &arithSlot{row: row}
		b.arithSlots[key] = slot
	}
	op := slot.used
	slot.used++
	return slot.row, op
}

// Build freezes the accumulated state into a Circuit: unused arithmetic
// slots are grounded, per-row constants are padded to the gate shape, and
// every row's generators are bound.
func (b *Builder) Build() *Circuit {
	b.mutable()

	// Ground the unused ops of partially filled arithmetic rows so their
	// wires are assigned and their constraints hold trivially.
	for _, slot := range b.arithSlots {
		g := b.rows[slot.row].gate.(*gates.ArithmeticGate)
		for op := slot.used; op < g.NumOps(); op++ {
			b.Connect(iop.WireTarget(slot.row, g.WireIthMultiplicand0(op)), b.zero)
			b.Connect(iop.WireTarget(slot.row, g.WireIthMultiplicand1(op)), b.zero)
			b.Connect(iop.WireTarget(slot.row, g.WireIthAddend(op)), b.zero)
		}
	}

	generators := append([]iop.Generator(nil), b.generators...)
	for row := range b.rows {
		g := b.rows[row].gate
		for len(b.rows[row].constants) < g.NumConstants() {
			b.rows[row].constants = append(b.rows[row].constants, field.Zero())
		}
		generators = append(generators, g.Generators(row, b.rows[row].constants)...)
	}

	b.built = true

	c := &Circuit{
		rows:       b.rows,
		gateIDs:    b.gateIDs,
		partition:  b.partition,
		generators: generators,
		numVirtual: b.numVirtual,
	}

	log := logger.Logger()
	log.Info().
		Int("rows", len(c.rows)).
		Int("gateTypes", len(c.gateIDs)).
		Int("generators", len(c.generators)).
		Int("virtualTargets", c.numVirtual).
		Int("connections", b.numConnect).
		Msg("circuit built")
	return c
}
