package healthenc

import (
	"math/big"
	"sync"
	"testing"

	"github.com/niclabs/tcpaillier"
	"github.com/stretchr/testify/require"
)

// test keys come from a threshold Paillier dealer with s = 1, which is plain
// Paillier with g = n+1 over a product of two safe primes

const (
	dealerBits   = 512
	dealerShares = 4
)

type dealtKey struct {
	shares []*tcpaillier.KeyShare
	pk     *tcpaillier.PubKey
}

var (
	dealerOnce sync.Once
	dealt      dealtKey
	dealtErr   error
)

// generateKeys deals n key shares of bitSize and one public key
func generateKeys(bitSize int, s, n uint8) ([]*tcpaillier.KeyShare, *tcpaillier.PubKey, error) {
	return tcpaillier.NewKey(bitSize, s, n, n)
}

// testDealer returns a key shared by every test in the package.
func testDealer(t *testing.T) (dealtKey, *PublicKey) {
	t.Helper()
	dealerOnce.Do(func() {
		dealt.shares, dealt.pk, dealtErr = generateKeys(dealerBits, 1, dealerShares)
	})
	require.NoError(t, dealtErr)
	pk, err := NewPublicKey(dealt.pk.N)
	require.NoError(t, err)
	return dealt, pk
}

// decrypt combines the partial decryptions of every share.
func (d dealtKey) decrypt(t *testing.T, c *big.Int) *big.Int {
	t.Helper()
	parts := make([]*tcpaillier.DecryptionShare, len(d.shares))
	for i, share := range d.shares {
		part, err := share.PartialDecrypt(c)
		require.NoError(t, err)
		parts[i] = part
	}
	m, err := d.pk.CombineShares(parts...)
	require.NoError(t, err)
	return m.Mod(m, d.pk.N)
}

// textbookKey is a toy private key for n = 61 * 53.
type textbookKey struct {
	pk     *PublicKey
	lambda *big.Int
	mu     *big.Int
}

func newTextbookKey(t *testing.T) textbookKey {
	t.Helper()
	p, q := big.NewInt(61), big.NewInt(53)
	n := new(big.Int).Mul(p, q)
	pk, err := NewPublicKey(n)
	require.NoError(t, err)

	// lambda = lcm(p-1, q-1)
	p1 := new(big.Int).Sub(p, one)
	q1 := new(big.Int).Sub(q, one)
	gcd := new(big.Int).GCD(nil, nil, p1, q1)
	lambda := new(big.Int).Mul(p1, q1)
	lambda.Quo(lambda, gcd)

	// mu = L(g^lambda mod n^2)^-1 mod n
	u := new(big.Int).Exp(pk.g, lambda, pk.nSquared)
	mu := new(big.Int).ModInverse(lfunc(u, n), n)
	require.NotNil(t, mu)

	return textbookKey{pk: pk, lambda: lambda, mu: mu}
}

func (k textbookKey) decrypt(c *big.Int) *big.Int {
	u := new(big.Int).Exp(c, k.lambda, k.pk.nSquared)
	m := lfunc(u, k.pk.n)
	m.Mul(m, k.mu)
	return m.Mod(m, k.pk.n)
}

// L(u) = (u - 1) / n
func lfunc(u, n *big.Int) *big.Int {
	l := new(big.Int).Sub(u, one)
	return l.Quo(l, n)
}
