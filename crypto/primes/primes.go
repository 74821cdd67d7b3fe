// Package primes generates the safe prime / generator pair the election's
// additive secret sharing is built on (spec §4.1.1).
package primes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Pair is a safe prime p = 2q+1 together with a generator g of order p-1
// in (Z/pZ)*.
type Pair struct {
	G *big.Int
	P *big.Int
}

// GeneratorPrimePair samples a safe prime p with at least numBits bits and
// a generator g of the full-order subgroup of order p-1, per
// generator_prime_pair(num_bits) -> (g, p).
//
// A safe prime p = 2q+1 has exactly two proper subgroups of (Z/pZ)*: one of
// order 2, one of order q. An element has order p-1 unless it lands in
// one of those, which rand.Prime's output lets us check directly: g has
// order p-1 iff g^2 != 1 and g^q != 1 (mod p).
func GeneratorPrimePair(numBits int) (*Pair, error) {
	if numBits < 2 {
		return nil, fmt.Errorf("primes: num_bits must be >= 2")
	}

	q, p, err := safePrime(numBits)
	if err != nil {
		return nil, err
	}

	g, err := findGenerator(p, q)
	if err != nil {
		return nil, err
	}

	return &Pair{G: g, P: p}, nil
}

// SafePrime samples a safe prime p = 2q+1 (both p and q prime) with at
// least numBits bits. Used directly by crypto/paillier to generate Paillier
// factors formed from safe primes.
func SafePrime(numBits int) (*big.Int, error) {
	_, p, err := safePrime(numBits)
	return p, err
}

// safePrime samples q and p = 2q+1, both prime, with p having at least
// numBits bits.
func safePrime(numBits int) (q, p *big.Int, err error) {
	for {
		p, err = rand.Prime(rand.Reader, numBits)
		if err != nil {
			return nil, nil, fmt.Errorf("primes: sampling candidate prime: %w", err)
		}
		// q = (p-1)/2 must itself be prime for p to be a safe prime.
		q = new(big.Int).Sub(p, one)
		q.Div(q, two)
		if q.ProbablyPrime(32) {
			return q, p, nil
		}
	}
}

// findGenerator returns an element of (Z/pZ)* with multiplicative order
// p-1 = 2q, given the safe prime p and its Sophie Germain companion q.
func findGenerator(p, q *big.Int) (*big.Int, error) {
	pMinus1 := new(big.Int).Sub(p, one)
	for i := 0; i < 1<<16; i++ {
		cand, err := rand.Int(rand.Reader, pMinus1)
		if err != nil {
			return nil, fmt.Errorf("primes: sampling generator candidate: %w", err)
		}
		cand.Add(cand, two) // avoid 0 and 1

		if cand.Cmp(pMinus1) >= 0 {
			continue
		}
		if new(big.Int).Exp(cand, two, p).Cmp(one) == 0 {
			continue
		}
		if new(big.Int).Exp(cand, q, p).Cmp(one) == 0 {
			continue
		}
		return cand, nil
	}
	return nil, fmt.Errorf("primes: could not find a generator of order p-1")
}
