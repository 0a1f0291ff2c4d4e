package healthenc

import (
	"context"
	"math/big"
)

// Encrypter is satisfied by *PublicKey and *KeyState.
type Encrypter interface {
	Encrypt(plaintext *big.Int) (*Ciphertext, error)
}

// Sink receives one encrypted reading. *Uploader is the HTTP implementation.
type Sink interface {
	Upload(ctx context.Context, payload UploadPayload) error
}

var (
	_ Encrypter = (*PublicKey)(nil)
	_ Encrypter = (*KeyState)(nil)
	_ Sink      = (*Uploader)(nil)
)
