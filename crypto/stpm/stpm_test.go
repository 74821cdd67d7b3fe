package stpm

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/mpcvote/crypto/paillier"
)

func TestRoundTripWithoutNormalize(t *testing.T) {
	c := qt.New(t)

	priv, err := paillier.GenerateKey(64)
	c.Assert(err, qt.IsNil)

	x1, x2 := big.NewInt(5), big.NewInt(6)

	eX1, err := Step1(x1, &priv.PublicKey)
	c.Assert(err, qt.IsNil)

	r2, eOut, err := Step2(eX1, x2, &priv.PublicKey, false)
	c.Assert(err, qt.IsNil)

	r1, err := Step3(eOut, priv, false)
	c.Assert(err, qt.IsNil)

	sum := new(big.Int).Add(r1, r2)
	sum.Mod(sum, priv.N)
	want := new(big.Int).Mul(x1, x2)
	want.Mod(want, priv.N)
	c.Assert(sum.Cmp(want), qt.Equals, 0)
}

func TestRoundTripWithNormalizeHoldsOverIntegers(t *testing.T) {
	c := qt.New(t)

	priv, err := paillier.GenerateKey(64)
	c.Assert(err, qt.IsNil)

	x1, x2 := big.NewInt(123), big.NewInt(45)

	eX1, err := Step1(x1, &priv.PublicKey)
	c.Assert(err, qt.IsNil)

	r2, eOut, err := Step2(eX1, x2, &priv.PublicKey, true)
	c.Assert(err, qt.IsNil)

	r1, err := Step3(eOut, priv, true)
	c.Assert(err, qt.IsNil)

	sum := new(big.Int).Add(r1, r2)
	want := new(big.Int).Mul(x1, x2)
	c.Assert(sum.Cmp(want), qt.Equals, 0)
}
