package field

import "fmt"

// ExtensionAlgebra is a degree-2 algebra over the extension field, with the
// same defining polynomial x^2 - W. Gate constraints are evaluated over this
// algebra: each D-wide wire range of a row is read as one algebra element
// whose coordinates are extension values.
type ExtensionAlgebra [D]Extension

// AlgFromExtension embeds an extension element as the constant coordinate.
func AlgFromExtension(a Extension) ExtensionAlgebra {
	return ExtensionAlgebra{a, ExtZero()}
}

// AlgZero returns the additive identity of the algebra.
func AlgZero() ExtensionAlgebra {
	return ExtensionAlgebra{}
}

// AlgOne returns the multiplicative identity of the algebra.
func AlgOne() ExtensionAlgebra {
	return AlgFromExtension(ExtOne())
}

// Set sets z to x.
func (z *ExtensionAlgebra) Set(x *ExtensionAlgebra) *ExtensionAlgebra {
	z[0].Set(&x[0])
	z[1].Set(&x[1])
	return z
}

// Add sets z = x + y.
func (z *ExtensionAlgebra) Add(x, y *ExtensionAlgebra) *ExtensionAlgebra {
	z[0].Add(&x[0], &y[0])
	z[1].Add(&x[1], &y[1])
	return z
}

// Sub sets z = x - y.
func (z *ExtensionAlgebra) Sub(x, y *ExtensionAlgebra) *ExtensionAlgebra {
	z[0].Sub(&x[0], &y[0])
	z[1].Sub(&x[1], &y[1])
	return z
}

// Mul sets z = x * y, with the product reduced by x^2 = W exactly as in the
// extension itself, coefficients now living in the extension.
func (z *ExtensionAlgebra) Mul(x, y *ExtensionAlgebra) *ExtensionAlgebra {
	var a0b0, a1b1, a0b1, a1b0, c0, c1 Extension
	a0b0.Mul(&x[0], &y[0])
	a1b1.Mul(&x[1], &y[1])
	a0b1.Mul(&x[0], &y[1])
	a1b0.Mul(&x[1], &y[0])

	w := NewElement(W)
	c0.ScalarMul(&a1b1, &w).Add(&c0, &a0b0)
	c1.Add(&a0b1, &a1b0)
	z[0].Set(&c0)
	z[1].Set(&c1)
	return z
}

// ScalarMul sets z = s * x with s an extension element.
func (z *ExtensionAlgebra) ScalarMul(x *ExtensionAlgebra, s *Extension) *ExtensionAlgebra {
	z[0].Mul(&x[0], s)
	z[1].Mul(&x[1], s)
	return z
}

// IsZero reports whether z is 0.
func (z *ExtensionAlgebra) IsZero() bool {
	return z[0].IsZero() && z[1].IsZero()
}

// Equal reports whether z == x.
func (z *ExtensionAlgebra) Equal(x *ExtensionAlgebra) bool {
	return z[0].Equal(&x[0]) && z[1].Equal(&x[1])
}

func (z *ExtensionAlgebra) String() string {
	return fmt.Sprintf("(%s)+(%s)*y", z[0].String(), z[1].String())
}
