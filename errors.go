package healthenc

import "errors"

var (
	// ErrInvalidModulus is returned by ModPow when the modulus is not positive.
	ErrInvalidModulus = errors.New("modulus must be positive")

	// ErrNilOperand is returned by ModPow when base or exponent is nil.
	ErrNilOperand = errors.New("nil operand")

	// ErrNegativeExponent is returned by ModPow for exponents below zero.
	ErrNegativeExponent = errors.New("exponent must be non-negative")

	// ErrDegenerateModulus is returned when n <= 2. No blinding factor 1 < r < n
	// exists for such a modulus.
	ErrDegenerateModulus = errors.New("modulus must be greater than 2")

	// ErrPlaintextOutOfRange is returned when m is not in [0, n).
	ErrPlaintextOutOfRange = errors.New("plaintext out of range")

	// ErrInvalidBlinding is returned when a caller supplied r is not in (1, n).
	ErrInvalidBlinding = errors.New("blinding factor out of range")

	// ErrKeyNotLoaded is returned when encrypting before a public key was loaded.
	ErrKeyNotLoaded = errors.New("public key not loaded")

	// ErrKeyAlreadyLoaded is returned by a second Load on the same KeyState.
	ErrKeyAlreadyLoaded = errors.New("public key already loaded")

	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidCiphertext = errors.New("invalid ciphertext encoding")
	ErrInvalidReading    = errors.New("invalid reading value")
	ErrUnknownMetric     = errors.New("unknown metric")

	// ErrTransportFailure wraps every network or HTTP status failure from the
	// key source and the upload sink. Nothing is retried.
	ErrTransportFailure = errors.New("transport failure")
)
