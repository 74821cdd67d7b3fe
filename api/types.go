package api

import "github.com/vocdoni/mpcvote/types"

// QuestionSpec describes one question of an election being created.
type QuestionSpec struct {
	ID            types.Uuid `json:"id"`
	NumCandidates int        `json:"numCandidates"`
}

// CreateElectionRequest is the orchestrator's "register election" call to
// the mediator (spec §6.1 "Orchestrator <- Mediator: POST /elections" is
// triggered by this payload travelling orchestrator -> mediator -> every
// collector, per §4.3). The location-anonymization Paillier key here is a
// distinct system from any collector's own STPM key (spec §9 Open
// Question i): the orchestrator generates and keeps it, handing the
// mediator just enough of it (n for the intermediate collectors, p/q so
// the mediator itself can run loc_step_last on the final collector's
// behalf) to drive the pipeline end to end.
type CreateElectionRequest struct {
	ElectionID             types.Uuid     `json:"electionId"`
	Generator              *types.BigInt  `json:"generator"`
	Prime                  *types.BigInt  `json:"prime"`
	Questions              []QuestionSpec `json:"questions"`
	VoterIDs               []types.Uuid   `json:"voterIds"`
	CollectorEndpoints     []string       `json:"collectorEndpoints"`
	EncryptedLocations     []*types.BigInt `json:"encryptedLocations"`
	LocationPaillierN      *types.BigInt  `json:"locationPaillierN"`
	LocationPaillierP      *types.BigInt  `json:"locationPaillierP"`
	LocationPaillierQ      *types.BigInt  `json:"locationPaillierQ"`
}

// InitializeCollectorRequest is the mediator's "initialize election at
// collector" call (spec §4.2 initialize_election).
type InitializeCollectorRequest struct {
	ElectionID         types.Uuid      `json:"electionId"`
	Generator          *types.BigInt   `json:"generator"`
	Prime              *types.BigInt   `json:"prime"`
	Questions          []QuestionSpec  `json:"questions"`
	VoterIDs           []types.Uuid    `json:"voterIds"`
	NumCollectors      int             `json:"numCollectors"`
	CollectorIndex     int             `json:"collectorIndex"`
	EncryptedLocations []*types.BigInt `json:"encryptedLocations"`
	PaillierN          *types.BigInt   `json:"paillierN,omitempty"`
}

// InitializeCollectorResponse carries the collector's updated location
// ciphertexts (e_xi only, one per voter, shuffled by collector 0; the
// stripped residuals r_j are not included), which the mediator forwards to
// the next collector, or an empty list on the final collector.
type InitializeCollectorResponse struct {
	EncryptionResult []*types.BigInt `json:"encryptionResult"`
}

// CancelationRequest names the voters a question's cancellation shares must
// be aggregated over (spec §6.1 "GET .../cancelation").
type CancelationRequest struct {
	UserIDs []types.Uuid `json:"userIds"`
}

// CancelationResponse is a single collector's contribution to a question's
// cancellation shares (spec §4.2 "cancellation").
type CancelationResponse struct {
	ForwardCancelationShares *types.BigInt `json:"forwardCancelationShares"`
	ReverseCancelationShares *types.BigInt `json:"reverseCancelationShares"`
}

// CancelationAggregateRequest asks the mediator to fan out a question's
// cancellation-share request to every bound collector and sum the
// results (spec §4.4 "Close voting"). Prime travels with the request
// since the mediator does not otherwise keep an election's (g, p) pair.
type CancelationAggregateRequest struct {
	UserIDs []types.Uuid  `json:"userIds"`
	Prime   *types.BigInt `json:"prime"`
}

// CancelationAggregateResponse is the summed-across-collectors
// counterpart of CancelationResponse.
type CancelationAggregateResponse struct {
	ForwardCancelationShares *types.BigInt `json:"forwardCancelationShares"`
	ReverseCancelationShares *types.BigInt `json:"reverseCancelationShares"`
}

// VoteRequest is a voter's ballot commitment (spec §4.4 "Submit ballot"):
// (p_i, p_i', g^{s_i}, g^{s_i'}, g^{s_i.s_i'}).
type VoteRequest struct {
	VoterID  types.Uuid    `json:"voterId"`
	PI       *types.BigInt `json:"pi"`
	PIPrime  *types.BigInt `json:"piPrime"`
	GS       *types.BigInt `json:"gS"`
	GSPrime  *types.BigInt `json:"gSPrime"`
	GSSPrime *types.BigInt `json:"gSSPrime"`
}

// VoteResponse reports the two sub-protocol verdicts; the ballot is only
// persisted when both are true (spec §4.4).
type VoteResponse struct {
	SubProtocol1 bool `json:"subProtocol1"`
	SubProtocol2 bool `json:"subProtocol2"`
}

// CreateElectionClientRequest is the client-facing counterpart of
// CreateElectionRequest (spec §4.4 "Create election"): the client
// supplies the voters, questions and collector endpoints; the
// orchestrator generates (g, p) and the location-anonymization Paillier
// key itself, so neither travels in this request.
type CreateElectionClientRequest struct {
	Questions          []QuestionSpec `json:"questions"`
	VoterIDs           []types.Uuid   `json:"voterIds"`
	CollectorEndpoints []string       `json:"collectorEndpoints"`
}

// CreateElectionClientResponse reports the id the orchestrator minted for
// the new election.
type CreateElectionClientResponse struct {
	ElectionID types.Uuid `json:"electionId"`
}

// CloseVotingResult is one question's aggregated-and-persisted
// cancellation shares, reported back once close-of-voting completes
// (spec §4.4 "Close voting and publish results").
type CloseVotingResult struct {
	QuestionID               types.Uuid    `json:"questionId"`
	ForwardCancelationShares *types.BigInt `json:"forwardCancelationShares"`
	ReverseCancelationShares *types.BigInt `json:"reverseCancelationShares"`
}

// CloseVotingResponse reports every question's result once an election's
// voting period has been closed.
type CloseVotingResponse struct {
	Results []CloseVotingResult `json:"results"`
}
