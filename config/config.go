// Package config holds the cryptographic size constants and network
// defaults shared by the collector, mediator and orchestrator processes.
// It takes the place of the teacher's circuit_artifacts.go, which pinned
// hash-stamped download URLs for zk-SNARK artifacts; this protocol has no
// circuit artifacts to fetch, so the constants here are all sizes and
// timeouts instead.
package config

import "time"

const (
	// MinPrimeBits is the minimum bit length of the safe prime p used as
	// the additive-sharing modulus (p-1), regardless of the number of
	// registered voters and candidates.
	MinPrimeBits = 256

	// PaillierModulusMultiplier is the minimum multiple of bit_length(p)
	// that a collector's STPM Paillier modulus n=p_P*q_P must have.
	PaillierModulusMultiplier = 4

	// OrchestratorLocationPaillierBits is the fixed Paillier modulus size
	// used by the orchestrator for location anonymization. This is a
	// different Paillier system, with different keys, from the
	// per-collector STPM Paillier keys sized off PaillierModulusMultiplier;
	// the two must never be fused into one keypair.
	OrchestratorLocationPaillierBits = 512
)

// PrimeBits returns the number of bits the election's safe prime p must
// have given the number of registered voters and the largest number of
// candidates across the election's questions, per spec ≥ max(2L+1, 256).
func PrimeBits(numVoters, maxCandidates int) int {
	l := numVoters * maxCandidates
	bits := 2*l + 1
	if bits < MinPrimeBits {
		return MinPrimeBits
	}
	return bits
}

// Default HTTP/websocket timeouts and throttle limits, mirroring the
// teacher's api.go use of chi middleware.Throttle/ThrottleBacklog/Timeout.
const (
	HTTPRequestTimeout = 45 * time.Second

	ThrottleLimit          = 100
	ThrottleBacklogLimit   = 5000
	ThrottleBacklogWait    = 60 * time.Second
	ThrottleBacklogTimeout = 40 * time.Second

	WebsocketHandshakeTimeout = 10 * time.Second
	WebsocketWriteTimeout     = 15 * time.Second
	WebsocketReadTimeout      = 30 * time.Second

	// MinRegisteredVotersPerCollector is the lower bound |V| >= 2k on registered
	// voters relative to the number of collectors k.
	MinRegisteredVotersPerCollector = 2

	// TokenTTL is the default validity window for issued bearer tokens.
	TokenTTL = 1 * time.Hour
)
