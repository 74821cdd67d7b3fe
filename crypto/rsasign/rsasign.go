// Package rsasign implements the textbook (unpadded) RSA signature scheme
// collectors use to authenticate verification-round messages to each
// other (spec §4.2, §6.2): a keypair is derived straight from the
// totient of the per-round Paillier modulus, so it never needs to persist
// beyond the verification run that generated it.
package rsasign

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var one = big.NewInt(1)

// KeyPair is an ephemeral signing keypair: N is the shared Paillier
// modulus, A is the private signing exponent, B is the public
// verification exponent, with A*B = 1 (mod phi(N)).
type KeyPair struct {
	N *big.Int
	A *big.Int
	B *big.Int
}

// Generate derives a signing keypair from a Paillier modulus n and its
// totient phi, retrying the private exponent a until it is invertible
// mod phi, per spec §4.2.
func Generate(n, phi *big.Int) (*KeyPair, error) {
	for i := 0; i < 1<<16; i++ {
		a, err := rand.Int(rand.Reader, phi)
		if err != nil {
			return nil, fmt.Errorf("rsasign: sampling a: %w", err)
		}
		if a.Sign() == 0 {
			continue
		}
		b := new(big.Int).ModInverse(a, phi)
		if b == nil {
			continue
		}
		return &KeyPair{N: n, A: a, B: b}, nil
	}
	return nil, fmt.Errorf("rsasign: could not find an invertible signing exponent")
}

// PublicKey is what a collector publishes to its peers: the shared
// modulus and the public verification exponent.
type PublicKey struct {
	N *big.Int
	B *big.Int
}

// Public returns the half of the keypair safe to publish.
func (kp *KeyPair) Public() PublicKey {
	return PublicKey{N: kp.N, B: kp.B}
}

// Sign raises a message digest to the private exponent a mod n.
func (kp *KeyPair) Sign(digest *big.Int) *big.Int {
	return new(big.Int).Exp(digest, kp.A, kp.N)
}

// Verify checks that signature, raised to the public exponent b mod n,
// reproduces digest.
func (pub PublicKey) Verify(digest, signature *big.Int) bool {
	got := new(big.Int).Exp(signature, pub.B, pub.N)
	return got.Cmp(digest) == 0
}
