package healthenc

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// extra bytes drawn on top of the modulus length to flatten the bias of the
// final reduction mod n
const biasPadding = 4

// RandomInRange samples r uniformly with 1 < r < n from crypto/rand.
func RandomInRange(n *big.Int) (*big.Int, error) {
	return randomInRange(rand.Reader, n)
}

func randomInRange(reader io.Reader, n *big.Int) (*big.Int, error) {
	// the resample loop below never ends for n <= 2
	if n == nil || n.Cmp(two) <= 0 {
		return nil, ErrDegenerateModulus
	}

	buf := make([]byte, (n.BitLen()+7)/8+biasPadding)
	defer clear(buf)

	r := new(big.Int)
	for {
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("sample blinding factor: %w", err)
		}
		r.SetBytes(buf)
		r.Mod(r, n)
		if r.Cmp(one) > 0 {
			return r, nil
		}
	}
}
