package mediator

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strings"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
)

// handleCancelationAggregate fans a question's cancellation-share request
// out to every bound collector and sums the results mod p-1 (spec §4.4
// "Close voting ... sum the returned (fcs, rcs) modulo p-1 across
// collectors"). Any collector failure aborts the aggregation outright —
// there is no partial success (spec §5).
func (m *Mediator) handleCancelationAggregate(w http.ResponseWriter, r *http.Request) {
	electionID := chiParam(r, api.ElectionIDParam)
	questionID := chiParam(r, api.QuestionIDParam)

	var req api.CancelationAggregateRequest
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

	fwd, rev, err := m.aggregateCancelationShares(collectors, electionID, questionID, req)
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}

	api.WriteJSON(w, api.CancelationAggregateResponse{
		ForwardCancelationShares: types.NewBigInt(fwd),
		ReverseCancelationShares: types.NewBigInt(rev),
	})
}

func (m *Mediator) aggregateCancelationShares(collectors []storage.ElectionCollector, electionID, questionID string, req api.CancelationAggregateRequest) (*big.Int, *big.Int, error) {
	order := new(big.Int).Sub(req.Prime.Int(), big.NewInt(1))
	fwd := big.NewInt(0)
	rev := big.NewInt(0)
	path := cancelationPath(electionID, questionID)

	for _, ec := range collectors {
		var resp api.CancelationResponse
		body := api.CancelationRequest{UserIDs: req.UserIDs}
		if err := m.getCollector(ec.CollectorID, path, body, &resp); err != nil {
			return nil, nil, protoerr.Internal("collector " + ec.CollectorID + ": " + err.Error())
		}
		fwd.Add(fwd, resp.ForwardCancelationShares.Int())
		fwd.Mod(fwd, order)
		rev.Add(rev, resp.ReverseCancelationShares.Int())
		rev.Mod(rev, order)
	}

	return fwd, rev, nil
}

// cancelationPath substitutes an election/question pair into the
// collector's cancellation route pattern.
func cancelationPath(electionID, questionID string) string {
	path := api.CancelationEndpoint
	path = strings.ReplaceAll(path, "{"+api.ElectionIDParam+"}", electionID)
	path = strings.ReplaceAll(path, "{"+api.QuestionIDParam+"}", questionID)
	return path
}
