package tally

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCountBallotVotesValid(t *testing.T) {
	c := qt.New(t)

	forward := big.NewInt(20)  // 0b010100
	reverse := big.NewInt(10)  // 0b001010

	result, err := CountBallotVotes(forward, reverse, 3, 2, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Tallies, qt.DeepEquals, []int64{0, 1, 1})
	c.Assert(result.Voted, qt.Equals, 2)
	c.Assert(result.NoVote, qt.Equals, 0)
}

func TestCountBallotVotesRejectsMultipleBitsInChunk(t *testing.T) {
	c := qt.New(t)

	forward := big.NewInt(28) // 0b011100: chunk0 = 011 has two bits set
	reverse := big.NewInt(14) // 0b001110, the exact bit-reversal of forward

	_, err := CountBallotVotes(forward, reverse, 3, 2, 0)
	c.Assert(err, qt.ErrorMatches, ".*more than one candidate.*")
}

func TestCountBallotVotesRejectsBrokenPalindrome(t *testing.T) {
	c := qt.New(t)

	forward := big.NewInt(20) // 0b010100
	reverse := big.NewInt(9)  // 0b001001, not the bit-reversal of forward

	_, err := CountBallotVotes(forward, reverse, 3, 2, 0)
	c.Assert(err, qt.ErrorMatches, ".*reverse-palindrome.*")
}

func TestCountBallotVotesRespectsNoVoteCount(t *testing.T) {
	c := qt.New(t)

	// Voter 0 abstains (chunk all-zero), voter 1 picks a candidate.
	// forward bits (MSB-first, 6 bits): 000 100 = 4
	forward := big.NewInt(4)

	// Build reverse as the exact bit-reversal of forward to isolate the
	// no-vote-count check from the palindrome check.
	forwardBits := toBits(forward, 6)
	reverseBits := make([]int, 6)
	for i, b := range forwardBits {
		reverseBits[5-i] = b
	}
	reverse := fromBits(reverseBits)

	_, err := CountBallotVotes(forward, reverse, 3, 2, 1)
	c.Assert(err, qt.IsNil)

	_, err = CountBallotVotes(forward, reverse, 3, 2, 0)
	c.Assert(err, qt.ErrorMatches, ".*no-vote count mismatch.*")
}

func fromBits(bits []int) *big.Int {
	v := new(big.Int)
	l := len(bits)
	for i, b := range bits {
		if b == 1 {
			v.SetBit(v, l-1-i, 1)
		}
	}
	return v
}
