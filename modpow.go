package healthenc

import "math/big"

// ModPow computes base^exponent mod modulus by right-to-left binary
// exponentiation. The result is always in [0, modulus). None of the
// arguments is modified.
func ModPow(base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	if base == nil || exponent == nil {
		return nil, ErrNilOperand
	}
	if exponent.Sign() < 0 {
		return nil, ErrNegativeExponent
	}

	// 1 mod modulus, so that exponent 0 with modulus 1 yields 0
	result := new(big.Int).Mod(one, modulus)
	power := new(big.Int).Mod(base, modulus)

	bits := exponent.BitLen()
	for i := 0; i < bits; i += 1 {
		if exponent.Bit(i) == 1 {
			result.Mul(result, power)
			result.Mod(result, modulus)
		}
		if i+1 < bits {
			power.Mul(power, power)
			power.Mod(power, modulus)
		}
	}
	return result, nil
}
