// Package healthenc encrypts vital-sign readings on the edge device under
// the aggregation server's Paillier public key, so that the server can sum
// readings without seeing any single one.
package healthenc

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// PublicKey is a Paillier public key. Only the modulus n is carried; the
// generator is always n+1. A PublicKey is immutable once constructed and may
// be shared between goroutines. Build one with NewPublicKey or
// ParsePublicKey; the zero value carries no modulus and Encrypt rejects it
// with ErrInvalidPublicKey.
type PublicKey struct {
	n        *big.Int
	nSquared *big.Int
	g        *big.Int
}

// Ciphertext is a Paillier ciphertext in [0, n^2). Exponent is kept for wire
// compatibility with fixed-point encodings and is always 0 here.
type Ciphertext struct {
	Value    *big.Int
	Exponent int
}

// NewPublicKey validates n and derives n^2 and the generator n+1.
func NewPublicKey(n *big.Int) (*PublicKey, error) {
	if n == nil || n.Cmp(two) <= 0 {
		return nil, ErrDegenerateModulus
	}
	nn := new(big.Int).Set(n)
	return &PublicKey{
		n:        nn,
		nSquared: new(big.Int).Mul(nn, nn),
		g:        new(big.Int).Add(nn, one),
	}, nil
}

// ParsePublicKey reads the modulus from its canonical base-10 form.
func ParsePublicKey(s string) (*PublicKey, error) {
	n, err := parseDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return NewPublicKey(n)
}

// N returns a copy of the modulus.
func (pk *PublicKey) N() *big.Int {
	return new(big.Int).Set(pk.n)
}

// NSquared returns a copy of n^2.
func (pk *PublicKey) NSquared() *big.Int {
	return new(big.Int).Set(pk.nSquared)
}

// Equal reports whether both keys have the same modulus.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && pk.n != nil && other.n != nil && pk.n.Cmp(other.n) == 0
}

// Encrypt encrypts m under pk with a fresh blinding factor.
// It is the free-function form of (*PublicKey).Encrypt; a nil key means no key
// has been loaded yet.
func Encrypt(m *big.Int, pk *PublicKey) (*Ciphertext, error) {
	if pk == nil {
		return nil, ErrKeyNotLoaded
	}
	return pk.Encrypt(m)
}

// Encrypt computes c = g^m * r^n mod n^2 for a freshly sampled r.
func (pk *PublicKey) Encrypt(m *big.Int) (*Ciphertext, error) {
	if err := pk.checkPlaintext(m); err != nil {
		return nil, err
	}
	r, err := pk.sampleBlinding()
	if err != nil {
		return nil, err
	}
	return pk.encrypt(m, r)
}

// encryptWithBlinding is Encrypt with a fixed blinding factor, for
// known-answer vectors. r must satisfy 1 < r < n and be coprime to n.
func (pk *PublicKey) encryptWithBlinding(m, r *big.Int) (*Ciphertext, error) {
	if err := pk.checkPlaintext(m); err != nil {
		return nil, err
	}
	if r == nil || r.Cmp(one) <= 0 || r.Cmp(pk.n) >= 0 || !pk.isUnit(r) {
		return nil, ErrInvalidBlinding
	}
	return pk.encrypt(m, r)
}

func (pk *PublicKey) checkPlaintext(m *big.Int) error {
	if pk == nil || pk.n == nil {
		return ErrInvalidPublicKey
	}
	if m == nil || m.Sign() < 0 || m.Cmp(pk.n) >= 0 {
		return ErrPlaintextOutOfRange
	}
	return nil
}

// sampleBlinding draws r until it is a unit mod n. For a correctly generated
// key a non-unit r means n was factored, so in practice this is one draw.
func (pk *PublicKey) sampleBlinding() (*big.Int, error) {
	for {
		r, err := RandomInRange(pk.n)
		if err != nil {
			return nil, err
		}
		if pk.isUnit(r) {
			return r, nil
		}
	}
}

func (pk *PublicKey) isUnit(r *big.Int) bool {
	return new(big.Int).GCD(nil, nil, r, pk.n).Cmp(one) == 0
}

func (pk *PublicKey) encrypt(m, r *big.Int) (*Ciphertext, error) {
	gm, err := ModPow(pk.g, m, pk.nSquared)
	if err != nil {
		return nil, err
	}
	rn, err := ModPow(r, pk.n, pk.nSquared)
	if err != nil {
		return nil, err
	}
	c := gm.Mul(gm, rn)
	c.Mod(c, pk.nSquared)
	return &Ciphertext{Value: c, Exponent: 0}, nil
}

type publicKeyJSON struct {
	N *string `json:"n"`
}

// MarshalJSON renders the key as served by the aggregation server: {"n": "<base-10>"}.
func (pk *PublicKey) MarshalJSON() ([]byte, error) {
	n := pk.n.Text(10)
	return json.Marshal(publicKeyJSON{N: &n})
}

// UnmarshalJSON accepts {"n": "<base-10>"}. A JSON number for n is rejected,
// real moduli do not survive a float64 round trip.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var raw publicKeyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	if raw.N == nil {
		return fmt.Errorf("%w: missing n", ErrInvalidPublicKey)
	}
	parsed, err := ParsePublicKey(*raw.N)
	if err != nil {
		return err
	}
	*pk = *parsed
	return nil
}
