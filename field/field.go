// Package field provides the base field used by the circuit layer, together
// with its degree-2 extension and the degree-2 algebra over that extension.
//
// The base field is the 64-bit Goldilocks field p = 2^64 - 2^32 + 1,
// implemented by gnark-crypto. Constraint evaluation happens in the
// extension so that constraints can later be checked against randomized
// extension-field challenges; the algebra over the extension is what gate
// evaluation manipulates, wire-range by wire-range.
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// Element is a base field element.
type Element = goldilocks.Element

// Modulus returns the base field modulus.
func Modulus() *big.Int {
	return goldilocks.Modulus()
}

// NewElement returns the canonical embedding of v.
func NewElement(v uint64) Element {
	return goldilocks.NewElement(v)
}

// Zero returns the additive identity.
func Zero() Element {
	var z Element
	return z
}

// One returns the multiplicative identity.
func One() Element {
	return goldilocks.One()
}

// NegOne returns -1, handy as a constraint coefficient.
func NegOne() Element {
	one := One()
	var z Element
	z.Neg(&one)
	return z
}

// FromBigInt reduces v into the field.
func FromBigInt(v *big.Int) Element {
	var z Element
	z.SetBigInt(v)
	return z
}

// ToBigInt returns the canonical integer representation of e.
func ToBigInt(e *Element) *big.Int {
	return e.BigInt(new(big.Int))
}

// ToUint64 returns the canonical integer representation of e. It panics if
// the value does not fit; callers use it on values already known to be small
// (loop indices, 32-bit limbs).
func ToUint64(e *Element) uint64 {
	v := ToBigInt(e)
	if !v.IsUint64() {
		panic("field: element does not fit in uint64")
	}
	return v.Uint64()
}
