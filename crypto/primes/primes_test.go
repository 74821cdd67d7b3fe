package primes

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFindGeneratorRejectsOrderEleven(t *testing.T) {
	c := qt.New(t)

	p := big.NewInt(23)
	q := big.NewInt(11)

	// g=2 has order 11 under p=23 and must never be accepted as a
	// generator of the full order-22 subgroup.
	two := big.NewInt(2)
	c.Assert(new(big.Int).Exp(two, q, p).Cmp(big.NewInt(1)), qt.Equals, 0)

	g, err := findGenerator(p, q)
	c.Assert(err, qt.IsNil)
	c.Assert(g.Cmp(two), qt.Not(qt.Equals), 0)

	pMinus1 := big.NewInt(22)
	c.Assert(new(big.Int).Exp(g, pMinus1, p).Cmp(big.NewInt(1)), qt.Equals, 0)
	c.Assert(new(big.Int).Exp(g, q, p).Cmp(big.NewInt(1)), qt.Not(qt.Equals), 0)
}

func TestGeneratorPrimePairProperties(t *testing.T) {
	c := qt.New(t)

	for _, bits := range []int{8, 16, 32} {
		pair, err := GeneratorPrimePair(bits)
		c.Assert(err, qt.IsNil)
		c.Assert(pair.P.BitLen() >= bits, qt.IsTrue)
		c.Assert(pair.P.ProbablyPrime(32), qt.IsTrue)

		q := new(big.Int).Sub(pair.P, one)
		q.Div(q, two)
		c.Assert(q.ProbablyPrime(32), qt.IsTrue)

		pMinus1 := new(big.Int).Sub(pair.P, one)
		c.Assert(new(big.Int).Exp(pair.G, pMinus1, pair.P).Cmp(one), qt.Equals, 0)
	}
}
