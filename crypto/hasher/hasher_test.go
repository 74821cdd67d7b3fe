package hasher

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestDeterministicAcrossCalls(t *testing.T) {
	c := qt.New(t)

	build := func() [32]byte {
		return New().WriteUint32(7).WriteBigInt(big.NewInt(12345)).Write([]byte("payload")).Sum()
	}

	c.Assert(build(), qt.Equals, build())
}

func TestDifferentInputsDiffer(t *testing.T) {
	c := qt.New(t)

	a := New().WriteUint64(1).Sum()
	b := New().WriteUint64(2).Sum()
	c.Assert(a, qt.Not(qt.Equals), b)
}

func TestSumBigIntMatchesSum(t *testing.T) {
	c := qt.New(t)

	h := New().Write([]byte("abc"))
	sum := h.Sum()
	want := new(big.Int).SetBytes(sum[:])

	h2 := New().Write([]byte("abc"))
	c.Assert(h2.SumBigInt().Cmp(want), qt.Equals, 0)
}
