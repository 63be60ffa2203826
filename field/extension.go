package field

import "fmt"

// D is the extension degree.
const D = 2

// W is the constant term of the defining polynomial x^2 - W. It is a
// quadratic non-residue of the Goldilocks field, so the extension is a field.
const W = 7

// Extension is a degree-2 extension field element c0 + c1·x with x^2 = W.
type Extension [D]Element

// NewExtension returns c0 + c1·x.
func NewExtension(c0, c1 Element) Extension {
	return Extension{c0, c1}
}

// ExtFromBase embeds a base field element.
func ExtFromBase(a Element) Extension {
	return Extension{a, Zero()}
}

// ExtFromUint64 embeds a small integer.
func ExtFromUint64(v uint64) Extension {
	return ExtFromBase(NewElement(v))
}

// ExtZero returns the additive identity of the extension.
func ExtZero() Extension {
	return Extension{}
}

// ExtOne returns the multiplicative identity of the extension.
func ExtOne() Extension {
	return ExtFromBase(One())
}

// SetZero sets z to 0.
func (z *Extension) SetZero() *Extension {
	z[0].SetZero()
	z[1].SetZero()
	return z
}

// SetOne sets z to 1.
func (z *Extension) SetOne() *Extension {
	z[0].SetOne()
	z[1].SetZero()
	return z
}

// Set sets z to x.
func (z *Extension) Set(x *Extension) *Extension {
	z[0].Set(&x[0])
	z[1].Set(&x[1])
	return z
}

// Add sets z = x + y.
func (z *Extension) Add(x, y *Extension) *Extension {
	z[0].Add(&x[0], &y[0])
	z[1].Add(&x[1], &y[1])
	return z
}

// Sub sets z = x - y.
func (z *Extension) Sub(x, y *Extension) *Extension {
	z[0].Sub(&x[0], &y[0])
	z[1].Sub(&x[1], &y[1])
	return z
}

// Neg sets z = -x.
func (z *Extension) Neg(x *Extension) *Extension {
	z[0].Neg(&x[0])
	z[1].Neg(&x[1])
	return z
}

// Mul sets z = x * y, reducing by x^2 = W:
//
//	(a0 + a1 x)(b0 + b1 x) = a0 b0 + W a1 b1 + (a0 b1 + a1 b0) x
func (z *Extension) Mul(x, y *Extension) *Extension {
	var a0b0, a1b1, a0b1, a1b0, c0, c1 Element
	a0b0.Mul(&x[0], &y[0])
	a1b1.Mul(&x[1], &y[1])
	a0b1.Mul(&x[0], &y[1])
	a1b0.Mul(&x[1], &y[0])

	w := NewElement(W)
	c0.Mul(&a1b1, &w).Add(&c0, &a0b0)
	c1.Add(&a0b1, &a1b0)
	z[0].Set(&c0)
	z[1].Set(&c1)
	return z
}

// ScalarMul sets z = s * x with s a base field element.
func (z *Extension) ScalarMul(x *Extension, s *Element) *Extension {
	z[0].Mul(&x[0], s)
	z[1].Mul(&x[1], s)
	return z
}

// Inverse sets z = 1/x. Like the base field implementation, a zero argument
// yields zero.
func (z *Extension) Inverse(x *Extension) *Extension {
	// 1/(a0 + a1 x) = (a0 - a1 x) / (a0^2 - W a1^2); the norm vanishes only
	// at x = 0 since W is a non-residue.
	var norm, t Element
	w := NewElement(W)
	norm.Mul(&x[0], &x[0])
	t.Mul(&x[1], &x[1]).Mul(&t, &w)
	norm.Sub(&norm, &t)
	norm.Inverse(&norm)
	z[0].Mul(&x[0], &norm)
	z[1].Neg(&x[1]).Mul(&z[1], &norm)
	return z
}

// IsZero reports whether z is 0.
func (z *Extension) IsZero() bool {
	return z[0].IsZero() && z[1].IsZero()
}

// Equal reports whether z == x.
func (z *Extension) Equal(x *Extension) bool {
	return z[0].Equal(&x[0]) && z[1].Equal(&x[1])
}

func (z *Extension) String() string {
	return fmt.Sprintf("%s+%s*x", z[0].String(), z[1].String())
}
