// Package paillier implements the Paillier cryptosystem with safe-prime
// factors, used both by the per-collector STPM keys (spec §4.1.2, modulus
// size >= 4*bit_length(p)) and by the orchestrator's fixed-size
// location-anonymization key (spec §4.1.3, §9 Open Question i) — two
// distinct Paillier systems that must never share a keypair.
package paillier

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/vocdoni/mpcvote/crypto/primes"
)

var one = big.NewInt(1)

// PublicKey is a Paillier public key (n, n^2 cached).
type PublicKey struct {
	N  *big.Int
	N2 *big.Int
}

// PrivateKey is a Paillier private key, keeping the safe-prime factors
// around directly: the protocol needs p and q individually (to derive
// phi(n) for RSA keypairs signing verification messages), not just the
// usual lambda/mu decryption exponents.
type PrivateKey struct {
	PublicKey
	P      *big.Int
	Q      *big.Int
	Lambda *big.Int // lcm(p-1, q-1)
	Mu     *big.Int // lambda^-1 mod n
}

// GenerateKey samples two safe primes p, q of bits/2 bits each and builds
// the resulting Paillier keypair. bits is the target modulus size; the
// caller is responsible for applying the protocol's minimums (e.g.
// config.PaillierModulusMultiplier*bit_length(p) for STPM keys, or
// config.OrchestratorLocationPaillierBits for the orchestrator's key).
func GenerateKey(bits int) (*PrivateKey, error) {
	if bits < 16 {
		return nil, fmt.Errorf("paillier: bits must be >= 16")
	}

	half := bits / 2
	p, err := primes.SafePrime(half)
	if err != nil {
		return nil, fmt.Errorf("paillier: sampling p: %w", err)
	}
	q, err := primes.SafePrime(half)
	if err != nil {
		return nil, fmt.Errorf("paillier: sampling q: %w", err)
	}
	for p.Cmp(q) == 0 {
		q, err = primes.SafePrime(half)
		if err != nil {
			return nil, fmt.Errorf("paillier: sampling q: %w", err)
		}
	}

	return FromFactors(p, q)
}

// FromFactors rebuilds a Paillier private key from its two safe-prime
// factors, used when a collector re-derives its STPM key for a known
// election instead of generating a fresh one (spec §4.2 "if election
// known: overwrite ... regenerate shares", which keeps the Paillier
// keypair as-is across a re-initialization).
func FromFactors(p, q *big.Int) (*PrivateKey, error) {
	n := new(big.Int).Mul(p, q)
	n2 := new(big.Int).Mul(n, n)

	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambda := new(big.Int).Mul(pMinus1, qMinus1)
	lambda.Div(lambda, gcd)

	mu := new(big.Int).ModInverse(lambda, n)
	if mu == nil {
		return nil, fmt.Errorf("paillier: no modular inverse for mu")
	}

	return &PrivateKey{
		PublicKey: PublicKey{N: n, N2: n2},
		P:         p,
		Q:         q,
		Lambda:    lambda,
		Mu:        mu,
	}, nil
}

// Totient returns phi(n) = (p-1)(q-1), used by the collector to derive an
// RSA keypair (a,b) with a*b = 1 (mod phi(paillier_n)) for signing
// verification-round messages (spec §4.2).
func (priv *PrivateKey) Totient() *big.Int {
	pMinus1 := new(big.Int).Sub(priv.P, one)
	qMinus1 := new(big.Int).Sub(priv.Q, one)
	return new(big.Int).Mul(pMinus1, qMinus1)
}

// Encrypt encrypts m under fresh randomness r in [1, n). m must be in
// [0, n).
func (pk *PublicKey) Encrypt(m *big.Int) (*big.Int, error) {
	c, _, err := pk.EncryptWithRandomness(m)
	return c, err
}

// EncryptWithRandomness is Encrypt but also returns the randomness used.
func (pk *PublicKey) EncryptWithRandomness(m *big.Int) (c, r *big.Int, err error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, nil, fmt.Errorf("paillier: message out of range [0, n)")
	}

	r, err = rand.Int(rand.Reader, pk.N)
	if err != nil {
		return nil, nil, fmt.Errorf("paillier: sampling randomness: %w", err)
	}
	if r.Sign() == 0 {
		r.SetInt64(1)
	}

	c, err = pk.EncryptWithR(m, r)
	return c, r, err
}

// EncryptWithR encrypts m using caller-supplied randomness r, needed when
// a sub-protocol step must reuse or combine a specific nonce.
func (pk *PublicKey) EncryptWithR(m, r *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, fmt.Errorf("paillier: message out of range [0, n)")
	}

	gm := new(big.Int).Mul(pk.N, m)
	gm.Add(gm, one)

	rn := new(big.Int).Exp(r, pk.N, pk.N2)

	c := new(big.Int).Mul(gm, rn)
	c.Mod(c, pk.N2)
	return c, nil
}

// Decrypt recovers the plaintext m from ciphertext c.
func (priv *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	if c.Sign() < 0 || c.Cmp(priv.N2) >= 0 {
		return nil, fmt.Errorf("paillier: ciphertext out of range [0, n^2)")
	}

	u := new(big.Int).Exp(c, priv.Lambda, priv.N2)
	l := new(big.Int).Sub(u, one)
	l.Div(l, priv.N)

	m := new(big.Int).Mul(l, priv.Mu)
	m.Mod(m, priv.N)
	return m, nil
}

// Add homomorphically adds two ciphertexts: E(m1)*E(m2) = E(m1+m2).
func (pk *PublicKey) Add(c1, c2 *big.Int) *big.Int {
	c := new(big.Int).Mul(c1, c2)
	c.Mod(c, pk.N2)
	return c
}

// MulScalar homomorphically scales a ciphertext: E(m)^k = E(m*k).
func (pk *PublicKey) MulScalar(c, k *big.Int) *big.Int {
	return new(big.Int).Exp(c, k, pk.N2)
}
