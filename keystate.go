package healthenc

import (
	"math/big"
	"sync/atomic"
)

// KeyState holds the process-wide public key. The zero value is Unloaded;
// the first successful Load moves it to Loaded and it stays there.
type KeyState struct {
	pk atomic.Pointer[PublicKey]
}

// Load installs pk. Only the first call succeeds.
func (s *KeyState) Load(pk *PublicKey) error {
	if pk == nil {
		return ErrInvalidPublicKey
	}
	if !s.pk.CompareAndSwap(nil, pk) {
		return ErrKeyAlreadyLoaded
	}
	return nil
}

// LoadString parses a base-10 modulus and loads it.
func (s *KeyState) LoadString(n string) error {
	pk, err := ParsePublicKey(n)
	if err != nil {
		return err
	}
	return s.Load(pk)
}

func (s *KeyState) Loaded() bool {
	return s.pk.Load() != nil
}

// PublicKey returns the loaded key or ErrKeyNotLoaded.
func (s *KeyState) PublicKey() (*PublicKey, error) {
	pk := s.pk.Load()
	if pk == nil {
		return nil, ErrKeyNotLoaded
	}
	return pk, nil
}

// Encrypt encrypts m under the loaded key.
func (s *KeyState) Encrypt(m *big.Int) (*Ciphertext, error) {
	return Encrypt(m, s.pk.Load())
}
