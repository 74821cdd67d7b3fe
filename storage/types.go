package storage

import (
	"math/big"

	"github.com/vocdoni/mpcvote/types"
)

// Election is the collector-side election row (spec §6.3): the safe
// prime and generator shared with everyone, plus the Paillier factors
// that never leave this collector.
type Election struct {
	ID        types.Uuid
	Generator *big.Int
	Prime     *big.Int
	PaillierP *big.Int
	PaillierQ *big.Int
}

// MediatorElection is the mediator-side election row: it only needs to
// know an election exists and whether it is public.
type MediatorElection struct {
	ID       types.Uuid
	IsPublic bool
}

// Question is a single question of an election.
type Question struct {
	ID            types.Uuid
	ElectionID    types.Uuid
	NumCandidates int
}

// Registration holds one voter's four shares for one question: the
// verification (row-sum) shares and the ballot (column-sum) shares,
// primed and unprimed.
type Registration struct {
	UserID                 types.Uuid
	ElectionID             types.Uuid
	QuestionID             types.Uuid
	ForwardVerificationShare *big.Int
	ReverseVerificationShare *big.Int
	ForwardBallotShare       *big.Int
	ReverseBallotShare       *big.Int
}

// EncryptedLocation is a voter's Paillier-encrypted anonymization ordinal.
type EncryptedLocation struct {
	UserID     types.Uuid
	ElectionID types.Uuid
	Location   *big.Int
}

// ElectionCollector is the mediator-side ordered collector binding for an
// election.
type ElectionCollector struct {
	ElectionID  types.Uuid
	CollectorID string
	Index       int
}

// Commitment is a voter's write-once published ballot commitment for a
// question (spec §3 "Ballot commitments").
type Commitment struct {
	UserID     types.Uuid
	ElectionID types.Uuid
	QuestionID types.Uuid
	PI         *big.Int
	PIPrime    *big.Int
	GS         *big.Int
	GSPrime    *big.Int
	GSSPrime   *big.Int
}

// CancellationShares is the aggregated cancellation share total persisted
// once per question at close-of-voting.
type CancellationShares struct {
	ElectionID               types.Uuid
	QuestionID               types.Uuid
	ForwardCancellationShare *big.Int
	ReverseCancellationShare *big.Int
}

// ElectionStatus tracks the lifecycle of an orchestrator-side election
// (spec §4.4, §7 "collection-failed until re-attempted").
type ElectionStatus string

const (
	ElectionStatusOpen             ElectionStatus = "open"
	ElectionStatusClosed           ElectionStatus = "closed"
	ElectionStatusCollectionFailed ElectionStatus = "collection-failed"
)

// OrchestratorElection is the orchestrator-side election row: the (g, p)
// pair it minted at creation, the mediator and collector endpoints it
// talks to, and the location-anonymization Paillier key it alone holds
// (spec §4.4, §9 Open Question i — distinct from any collector's own
// STPM Paillier key).
type OrchestratorElection struct {
	ID                 types.Uuid
	Generator          *big.Int
	Prime              *big.Int
	LocationPaillierN  *big.Int
	LocationPaillierP  *big.Int
	LocationPaillierQ  *big.Int
	VoterIDs           []types.Uuid
	CollectorEndpoints []string
	MediatorEndpoint   string
	Status             ElectionStatus
}
