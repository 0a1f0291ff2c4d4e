package healthenc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// SerializedCiphertext is the JSON form shared with the aggregation server.
// The value travels as a base-10 string since ciphertexts are far beyond the
// range a JSON number can carry exactly.
type SerializedCiphertext struct {
	Ciphertext string `json:"ciphertext"`
	Exponent   int    `json:"exponent"`
}

// Encode renders c in canonical base-10: no sign, no leading zeros.
func Encode(c *Ciphertext) SerializedCiphertext {
	return SerializedCiphertext{
		Ciphertext: c.Value.Text(10),
		Exponent:   c.Exponent,
	}
}

// Decode is the inverse of Encode. Only canonical encodings with exponent 0
// are accepted.
func Decode(s SerializedCiphertext) (*Ciphertext, error) {
	if s.Exponent != 0 {
		return nil, fmt.Errorf("%w: exponent %d", ErrInvalidCiphertext, s.Exponent)
	}
	v, err := parseDecimal(s.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}
	return &Ciphertext{Value: v}, nil
}

func (c *Ciphertext) MarshalJSON() ([]byte, error) {
	if c.Value == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidCiphertext)
	}
	return json.Marshal(Encode(c))
}

func (c *Ciphertext) UnmarshalJSON(data []byte) error {
	var s SerializedCiphertext
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}
	decoded, err := Decode(s)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

// parseDecimal accepts only what big.Int.Text(10) produces for a
// non-negative value.
func parseDecimal(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("empty integer")
	}
	for i := 0; i < len(s); i += 1 {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("non-digit %q in integer", s[i])
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return nil, errors.New("leading zero in integer")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("cannot parse %q", s)
	}
	return v, nil
}
