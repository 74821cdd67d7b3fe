package api

// URL parameter names shared by election/question/voter scoped routes.
const (
	ElectionIDParam = "eid"
	QuestionIDParam = "qid"
	VoterIDParam    = "voter_id"
)

// Orchestrator-side routes (spec §6.1).
const (
	// PingEndpoint checks server liveness on any of the three roles.
	PingEndpoint = "/ping"

	// ElectionsEndpoint is "Orchestrator <- Mediator: POST /elections"
	// (create+initialize, triggered by the orchestrator itself calling
	// out to the mediator) and also "Orchestrator <- Client" is not a
	// thing per spec; the orchestrator's own client-facing create
	// endpoint reuses the same path for symmetry with the mediator API.
	ElectionsEndpoint = "/elections"

	// VoteEndpoint is "Orchestrator <- Client: POST
	// /elections/{eid}/questions/{qid}/vote".
	VoteEndpoint = "/elections/{" + ElectionIDParam + "}/questions/{" + QuestionIDParam + "}/vote"

	// CloseVotingEndpoint triggers "Close voting and publish results"
	// (spec §4.4). Not in the §6.1 endpoint table, which only documents
	// the orchestrator's client- and mediator-facing surface; closing an
	// election is an operator action, so it is gated server-only rather
	// than client-only.
	CloseVotingEndpoint = "/elections/{" + ElectionIDParam + "}/close"
)

// Mediator-hosted verification endpoint, called by the orchestrator's
// "Submit ballot" flow (spec §4.4 "invoke verification via the
// mediator"): not in the §6.1 endpoint table by name, since verification
// itself is websocket-mediated — this is the HTTP entry point that kicks
// one off and waits for its {sub_protocol_1, sub_protocol_2} result.
const VerifyEndpoint = "/elections/{" + ElectionIDParam + "}/questions/{" + QuestionIDParam + "}/voters/{" + VoterIDParam + "}/verify"

// CancelationAggregateEndpoint is the mediator's fan-out-and-sum
// counterpart of the collector's CancelationEndpoint, called by the
// orchestrator's "Close voting" flow (spec §4.4 "call each collector's
// cancellation endpoint ... sum the returned shares"): the collector
// endpoint is mediator-only per §6.1, so the orchestrator reaches it
// through this mediator-hosted aggregate instead of calling collectors
// directly. Same literal path as the collector's CancelationEndpoint,
// distinct constant for the same reason MediatorElectionsEndpoint is kept
// distinct from ElectionsEndpoint.
const CancelationAggregateEndpoint = "/elections/{" + ElectionIDParam + "}/questions/{" + QuestionIDParam + "}/cancelation"

// Mediator-side routes (spec §6.1), fronting the collectors.
const (
	// MediatorElectionsEndpoint is "Mediator <- Collector: POST
	// /elections" (collector-side initialization call forwarded by the
	// mediator) — distinct path constant from ElectionsEndpoint even
	// though the literal path is the same, so call sites read clearly.
	MediatorElectionsEndpoint = "/elections"

	// CancelationEndpoint is "Mediator <- Collector: GET
	// /elections/{eid}/questions/{qid}/cancelation".
	CancelationEndpoint = "/elections/{" + ElectionIDParam + "}/questions/{" + QuestionIDParam + "}/cancelation"

	// VerificationWSEndpoint is "WS
	// /elections/{eid}/questions/{qid}/verification/ws/{voter_id}".
	VerificationWSEndpoint = "/elections/{" + ElectionIDParam + "}/questions/{" + QuestionIDParam + "}/verification/ws/{" + VoterIDParam + "}"
)
