package collector

import (
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
)

func (c *Collector) handleCancelation(w http.ResponseWriter, r *http.Request) {
	electionID := chiParam(r, api.ElectionIDParam)
	questionID := chiParam(r, api.QuestionIDParam)

	var req api.CancelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	resp, err := c.Cancellation(electionID, questionID, req.UserIDs)
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}
	api.WriteJSON(w, resp)
}

// Cancellation computes this collector's contribution to a question's
// cancellation shares (spec §4.2 "Cancellation shares"):
//
//	fcs = sum_i (S~_i - S_i) mod m, rcs = sum_i (S~_i' - S_i') mod m
//
// over the named voters, where m = p-1. Storage keeps shares
// non-negative, so the subtraction must wrap around mod m (spec §9 Open
// Question iii) rather than go negative.
func (c *Collector) Cancellation(electionID, questionID string, userIDs []types.Uuid) (*api.CancelationResponse, error) {
	election, err := c.storage.GetElection(electionID)
	if err != nil {
		return nil, protoerr.NotFound("election not found")
	}
	if _, err := c.storage.GetQuestion(questionID); err != nil {
		return nil, protoerr.NotFound("question not found")
	}

	m := new(big.Int).Sub(election.Prime, big.NewInt(1))

	fcs := big.NewInt(0)
	rcs := big.NewInt(0)

	for _, userID := range userIDs {
		reg, err := c.storage.GetRegistration(electionID, questionID, userID.String())
		if err == storage.ErrNotFound {
			return nil, protoerr.Conflict("voter not registered for question: " + userID.String())
		}
		if err != nil {
			return nil, protoerr.Internal("reading registration: " + err.Error())
		}

		fcs.Add(fcs, wrapSub(reg.ForwardBallotShare, reg.ForwardVerificationShare, m))
		rcs.Add(rcs, wrapSub(reg.ReverseBallotShare, reg.ReverseVerificationShare, m))
	}
	fcs.Mod(fcs, m)
	rcs.Mod(rcs, m)

	return &api.CancelationResponse{
		ForwardCancelationShares: types.NewBigInt(fcs),
		ReverseCancelationShares: types.NewBigInt(rcs),
	}, nil
}

// wrapSub computes (a - b) mod m, always returning a value in [0, m).
func wrapSub(a, b, m *big.Int) *big.Int {
	d := new(big.Int).Sub(a, b)
	d.Mod(d, m)
	return d
}
