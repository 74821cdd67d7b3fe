package types

import (
	"fmt"
	"math/big"
)

// BigInt is a math/big.Int that marshals to/from the base-10 string
// representation the websocket wire format (spec §6.2) and the HTTP JSON
// bodies use for every big-integer field.
type BigInt big.Int

// NewBigInt wraps an existing *big.Int.
func NewBigInt(v *big.Int) *BigInt {
	return (*BigInt)(v)
}

// Int returns the underlying *big.Int.
func (b *BigInt) Int() *big.Int {
	return (*big.Int)(b)
}

func (b BigInt) String() string {
	return (*big.Int)(&b).String()
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", (*big.Int)(&b).String())), nil
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("types: invalid base-10 big integer %q", s)
	}
	*b = BigInt(*v)
	return nil
}
