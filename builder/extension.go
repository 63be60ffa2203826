package builder

import (
	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// The builder implements gates.EvalAPI, so recursive gate evaluation can be
// emitted into a circuit directly. All extension and algebra arithmetic
// below reduces to arithmetic-row slots via the tower identity x^2 = W.

// ConstantExtension returns the canonical targets holding v.
func (b *Builder) ConstantExtension(v field.Extension) iop.ExtensionTarget {
	var et iop.ExtensionTarget
	for i := 0; i < field.D; i++ {
		et[i] = b.Constant(v[i])
	}
	return et
}

// ZeroExtension returns the zero extension target.
func (b *Builder) ZeroExtension() iop.ExtensionTarget {
	return b.ConstantExtension(field.ExtZero())
}

// AddExtension returns a + t coordinate-wise.
func (b *Builder) AddExtension(a, t iop.ExtensionTarget) iop.ExtensionTarget {
	var out iop.ExtensionTarget
	for i := 0; i < field.D; i++ {
		out[i] = b.Add(a[i], t[i])
	}
	return out
}

// SubExtension returns a - t coordinate-wise.
func (b *Builder) SubExtension(a, t iop.ExtensionTarget) iop.ExtensionTarget {
	var out iop.ExtensionTarget
	for i := 0; i < field.D; i++ {
		out[i] = b.Sub(a[i], t[i])
	}
	return out
}

// MulExtension returns a · t in the extension:
//
//	(a0 + a1 x)(b0 + b1 x) = a0 b0 + W a1 b1 + (a0 b1 + a1 b0) x
func (b *Builder) MulExtension(a, t iop.ExtensionTarget) iop.ExtensionTarget {
	var out iop.ExtensionTarget
	a0b0 := b.Mul(a[0], t[0])
	// W·a1·b1 + a0·b0 in one fused slot
	out[0] = b.Arithmetic(field.NewElement(field.W), field.One(), a[1], t[1], a0b0)
	a0b1 := b.Mul(a[0], t[1])
	out[1] = b.MulAdd(a[1], t[0], a0b1)
	return out
}

// ScalarMulExtension returns s · a with s a base-valued target.
func (b *Builder) ScalarMulExtension(s iop.Target, a iop.ExtensionTarget) iop.ExtensionTarget {
	var out iop.ExtensionTarget
	for i := 0; i < field.D; i++ {
		out[i] = b.Mul(s, a[i])
	}
	return out
}

// ConstantExtAlgebra returns the canonical targets holding v.
func (b *Builder) ConstantExtAlgebra(v field.ExtensionAlgebra) iop.ExtensionAlgebraTarget {
	var at iop.ExtensionAlgebraTarget
	for i := 0; i < field.D; i++ {
		at[i] = b.ConstantExtension(v[i])
	}
	return at
}

// AddExtAlgebra returns a + t coordinate-wise.
func (b *Builder) AddExtAlgebra(a, t iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget {
	var out iop.ExtensionAlgebraTarget
	for i := 0; i < field.D; i++ {
		out[i] = b.AddExtension(a[i], t[i])
	}
	return out
}

// SubExtAlgebra returns a - t coordinate-wise.
func (b *Builder) SubExtAlgebra(a, t iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget {
	var out iop.ExtensionAlgebraTarget
	for i := 0; i < field.D; i++ {
		out[i] = b.SubExtension(a[i], t[i])
	}
	return out
}

// MulExtAlgebra returns a · t in the algebra, the same tower identity with
// extension-valued coefficients.
func (b *Builder) MulExtAlgebra(a, t iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget {
	var out iop.ExtensionAlgebraTarget
	a0b0 := b.MulExtension(a[0], t[0])
	a1b1 := b.MulExtension(a[1], t[1])
	out[0] = b.AddExtension(a0b0, b.mulExtensionByBase(field.NewElement(field.W), a1b1))
	a0b1 := b.MulExtension(a[0], t[1])
	a1b0 := b.MulExtension(a[1], t[0])
	out[1] = b.AddExtension(a0b1, a1b0)
	return out
}

// ScalarMulExtAlgebra returns s · a with s an extension-valued target.
func (b *Builder) ScalarMulExtAlgebra(s iop.ExtensionTarget, a iop.ExtensionAlgebraTarget) iop.ExtensionAlgebraTarget {
	var out iop.ExtensionAlgebraTarget
	for i := 0; i < field.D; i++ {
		out[i] = b.MulExtension(s, a[i])
	}
	return out
}

func (b *Builder) mulExtensionByBase(c field.Element, a iop.ExtensionTarget) iop.ExtensionTarget {
	var out iop.ExtensionTarget
	for i := 0; i < field.D; i++ {
		out[i] = b.MulConst(c, a[i])
	}
	return out
}
