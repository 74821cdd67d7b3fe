package shares

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBandBoundsLastAbsorbsRemainder(t *testing.T) {
	c := qt.New(t)

	bands := bandBounds(10, 3)
	c.Assert(bands, qt.HasLen, 3)
	c.Assert(bands[0], qt.Equals, band{0, 3})
	c.Assert(bands[1], qt.Equals, band{3, 6})
	c.Assert(bands[2], qt.Equals, band{6, 10})
}

func TestDiagonalStaysZeroForCollectorZero(t *testing.T) {
	c := qt.New(t)

	m := big.NewInt(97)
	sm, err := NewSharesMatrix(0, 3, 9, m)
	c.Assert(err, qt.IsNil)

	// collector 0's block i has colBandIdx = (0+i) mod k = i, so every
	// block sits on the global diagonal band and must zero its diagonal.
	for i, block := range sm.blocks {
		rowBand, colBand := sm.bands[i], sm.bands[(0+i)%sm.k]
		for r := 0; r < rowBand.len(); r++ {
			for cIdx := 0; cIdx < colBand.len(); cIdx++ {
				if rowBand.start+r == colBand.start+cIdx {
					c.Assert(block[r][cIdx].Sign(), qt.Equals, 0)
				}
			}
		}
	}
}

func TestEveryCollectorReportsSharesForEveryVoter(t *testing.T) {
	c := qt.New(t)

	m := big.NewInt(1000003)
	k, n := 4, 16

	matrices := make([]*SharesMatrix, k)
	for j := 0; j < k; j++ {
		sm, err := NewSharesMatrix(j, k, n, m)
		c.Assert(err, qt.IsNil)
		matrices[j] = sm
	}

	// Every collector must be able to report a ballot share and a
	// verification share for every voter without error.
	for v := 0; v < n; v++ {
		for _, sm := range matrices {
			_, err := sm.BallotShare(v)
			c.Assert(err, qt.IsNil)
			_, err = sm.VerificationShare(v)
			c.Assert(err, qt.IsNil)
		}
	}
}

func TestOutOfRangeVoterErrors(t *testing.T) {
	c := qt.New(t)

	sm, err := NewSharesMatrix(0, 2, 4, big.NewInt(11))
	c.Assert(err, qt.IsNil)

	_, err = sm.BallotShare(100)
	c.Assert(err, qt.ErrorMatches, "shares:.*")

	_, err = sm.VerificationShare(-1)
	c.Assert(err, qt.ErrorMatches, "shares:.*")
}

func TestCollectorIndexOutOfRange(t *testing.T) {
	c := qt.New(t)

	_, err := NewSharesMatrix(5, 3, 9, big.NewInt(11))
	c.Assert(err, qt.ErrorMatches, "shares:.*")
}
