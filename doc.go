// Package plonky2 provides the circuit-construction layer of a plonky2-style
// proving system over the Goldilocks field: a gate model with per-row
// constraint evaluators, copy constraints through a target partition,
// non-deterministic witness generation, and gadgets for range checks,
// 32-bit limb arithmetic, arbitrary-width unsigned integers and list
// insertion.
//
// Circuits are assembled with the builder package, frozen into a Circuit,
// and evaluated by generating a witness from caller-supplied inputs:
//
//	b, _ := builder.New()
//	x := b.AddVirtualTarget()
//	y := b.Mul(x, x)
//	c := b.Build()
//
//	pw := iop.NewPartialWitness()
//	pw.Set(x, field.NewElement(3))
//	w, err := c.GenerateWitness(pw)
package plonky2

// Version of the module.
const Version = "0.1.0"
