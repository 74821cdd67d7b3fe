// Package tally implements the ballot counting helper (spec §4.5): given a
// voter's forward/reverse bit-vector ballot, it validates the
// reverse-palindrome and one-hot-per-chunk constraints and, if valid,
// extracts the per-candidate tallies.
package tally

import (
	"fmt"
	"math/big"
)

// Result is the outcome of counting one ballot.
type Result struct {
	// Tallies holds one counter per candidate, indexed 0..numCandidates-1.
	Tallies []int64
	// Voted is the number of voters whose chunk had exactly one set bit.
	Voted int
	// NoVote is the number of voters whose chunk had no set bit.
	NoVote int
}

// CountBallotVotes validates and tallies a forward/reverse ballot pair
// (spec §4.5). It rejects unless:
//   - forward and reverse are exact bit-reversed images of each other
//     (the "reverse-palindrome" check), and
//   - every num_candidates-bit chunk of forward has at most one set bit,
//     and exactly noVoteCount chunks have zero set bits.
func CountBallotVotes(forwardBallot, reverseBallot *big.Int, numCandidates, numVoters, noVoteCount int) (*Result, error) {
	if numCandidates < 1 || numVoters < 1 {
		return nil, fmt.Errorf("tally: numCandidates and numVoters must be positive")
	}
	l := numCandidates * numVoters

	forwardBits := toBits(forwardBallot, l)
	reverseBits := toBits(reverseBallot, l)

	for i := 0; i < l; i++ {
		if forwardBits[i] != reverseBits[l-1-i] {
			return nil, fmt.Errorf("tally: forward/reverse ballot is not a reverse-palindrome")
		}
	}

	tallies := make([]int64, numCandidates)
	voted, noVote := 0, 0

	for v := 0; v < numVoters; v++ {
		chunk := forwardBits[v*numCandidates : (v+1)*numCandidates]

		set := -1
		count := 0
		for i, b := range chunk {
			if b == 1 {
				count++
				// candidate index counts from the low (LSB) end of
				// the chunk, but chunk is stored MSB-first.
				set = numCandidates - 1 - i
			}
		}
		switch {
		case count > 1:
			return nil, fmt.Errorf("tally: chunk %d has more than one candidate selected", v)
		case count == 1:
			tallies[set]++
			voted++
		default:
			noVote++
		}
	}

	if voted+noVote != numVoters {
		return nil, fmt.Errorf("tally: chunk accounting mismatch (voted=%d noVote=%d numVoters=%d)", voted, noVote, numVoters)
	}
	if noVote != noVoteCount {
		return nil, fmt.Errorf("tally: no-vote count mismatch: got %d, want %d", noVote, noVoteCount)
	}

	return &Result{Tallies: tallies, Voted: voted, NoVote: noVote}, nil
}

// toBits expands v into exactly l big-endian bits, left-padded with zeros,
// counting from the low end within l (spec §4.5 step 1).
func toBits(v *big.Int, l int) []int {
	bits := make([]int, l)
	for i := 0; i < l; i++ {
		// bit (l-1-i) from the low end lands at position i, i.e. a
		// big-endian layout of v's low l bits.
		bits[i] = int(v.Bit(l - 1 - i))
	}
	return bits
}
