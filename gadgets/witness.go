package gadgets

import (
	"fmt"
	"math/big"

	"github.com/LibeccioLabs/plonky2/field"
	"github.com/LibeccioLabs/plonky2/iop"
)

// AssignBigUint writes v into t's limbs of a partial witness. v must be
// non-negative and fit t's width.
func AssignBigUint(pw *iop.PartialWitness, t BigUintTarget, v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("assigning negative value %s to a biguint", v)
	}
	if v.BitLen() > len(t.Limbs)*u32Bits {
		return fmt.Errorf("%s does not fit in %d limbs", v, len(t.Limbs))
	}
	rest := new(big.Int).Set(v)
	mask := new(big.Int).Sub(big.NewInt(1<<u32Bits), big.NewInt(1))
	limb := new(big.Int)
	for _, l := range t.Limbs {
		limb.And(rest, mask)
		pw.Set(l.Target(), field.NewElement(limb.Uint64()))
		rest.Rsh(rest, u32Bits)
	}
	return nil
}

// SetBigUint writes v into t's limbs of a full witness.
func SetBigUint(w *iop.Witness, t BigUintTarget, v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("assigning negative value %s to a biguint", v)
	}
	return setLimbs(w, t.Limbs, v)
}

// GetBigUint reads t's limbs back into an integer.
func GetBigUint(w *iop.Witness, t BigUintTarget) (*big.Int, error) {
	v := new(big.Int)
	limb := new(big.Int)
	for i := len(t.Limbs) - 1; i >= 0; i-- {
		l, err := getU32(w, t.Limbs[i].Target())
		if err != nil {
			return nil, err
		}
		v.Lsh(v, u32Bits)
		v.Or(v, limb.SetUint64(l))
	}
	return v, nil
}
