package mediator

import (
	"encoding/json"
	"net/http"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/protoerr"
)

// handleVerify is the HTTP entry point into a websocket-mediated
// verification round (spec §4.4 "invoke verification via the mediator").
// It looks up the election's ordered collector bindings, runs the round,
// and reports the two sub-protocol verdicts; the orchestrator persists
// the commitment only when both are true.
func (m *Mediator) handleVerify(w http.ResponseWriter, r *http.Request) {
	electionID := chiParam(r, api.ElectionIDParam)
	questionID := chiParam(r, api.QuestionIDParam)
	voterID := chiParam(r, api.VoterIDParam)

	var req api.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	collectors, err := m.storage.ListElectionCollectors(electionID)
	if err != nil {
		api.WriteProtoErr(w, protoerr.Internal("listing election collectors: "+err.Error()))
		return
	}
	if len(collectors) == 0 {
		api.WriteProtoErr(w, protoerr.NotFound("election not found"))
		return
	}

	endpoints := make([]string, len(collectors))
	for _, ec := range collectors {
		endpoints[ec.Index] = ec.CollectorID
	}

	resp, err := m.RunVerification(endpoints, electionID, questionID, voterID, req)
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}
	api.WriteJSON(w, resp)
}
