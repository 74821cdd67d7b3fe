package locanon

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/mpcvote/crypto/paillier"
)

func TestPipelineThreeCollectorsSumsToOriginal(t *testing.T) {
	c := qt.New(t)

	priv, err := paillier.GenerateKey(64)
	c.Assert(err, qt.IsNil)

	x := big.NewInt(7)
	eX, err := Step1(x, &priv.PublicKey)
	c.Assert(err, qt.IsNil)

	r0, eX, err := StepIth(eX, &priv.PublicKey)
	c.Assert(err, qt.IsNil)

	r1, eX, err := StepIth(eX, &priv.PublicKey)
	c.Assert(err, qt.IsNil)

	r2, err := StepLast(eX, priv)
	c.Assert(err, qt.IsNil)

	sum := new(big.Int).Add(r0, r1)
	sum.Add(sum, r2)
	sum.Mod(sum, priv.N)
	c.Assert(sum.Cmp(x), qt.Equals, 0)
}

func TestShufflePreservesElementsAndLength(t *testing.T) {
	c := qt.New(t)

	in := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4)}
	out, err := Shuffle(in)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.HasLen, len(in))

	seen := map[int64]bool{}
	for _, v := range out {
		seen[v.Int64()] = true
	}
	for _, v := range in {
		c.Assert(seen[v.Int64()], qt.IsTrue)
	}
}
