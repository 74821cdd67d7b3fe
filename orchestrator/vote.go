package orchestrator

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
)

func (o *Orchestrator) handleSubmitBallot(w http.ResponseWriter, r *http.Request) {
	electionID := chiParam(r, api.ElectionIDParam)
	questionID := chiParam(r, api.QuestionIDParam)

	var req api.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	resp, err := o.SubmitBallot(electionID, questionID, req)
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}
	api.WriteJSON(w, resp)
}

// SubmitBallot implements "Submit ballot" (spec §4.4): reject a
// duplicate (voter, question) commitment outright, otherwise invoke
// verification via the mediator and persist the commitment only on
// {true, true}. Any false verdict or protocol error rejects the ballot
// and publishes nothing.
func (o *Orchestrator) SubmitBallot(electionID, questionID string, req api.VoteRequest) (api.VoteResponse, error) {
	if _, err := o.storage.GetCommitment(electionID, questionID, req.VoterID.String()); err == nil {
		return api.VoteResponse{}, protoerr.Conflict("voter already committed a ballot for question")
	}

	var resp api.VoteResponse
	path := verifyPath(electionID, questionID, req.VoterID.String())
	if err := o.postMediator(path, req, &resp); err != nil {
		return api.VoteResponse{}, protoerr.Internal("verification error: " + err.Error())
	}
	if !resp.SubProtocol1 || !resp.SubProtocol2 {
		return resp, protoerr.Conflict("ballot verification rejected")
	}

	eid, err := uuid.Parse(electionID)
	if err != nil {
		return api.VoteResponse{}, protoerr.BadRequest("malformed election id")
	}
	qid, err := uuid.Parse(questionID)
	if err != nil {
		return api.VoteResponse{}, protoerr.BadRequest("malformed question id")
	}

	commitment := storage.Commitment{
		UserID:     req.VoterID,
		ElectionID: eid,
		QuestionID: qid,
		PI:         req.PI.Int(),
		PIPrime:    req.PIPrime.Int(),
		GS:         req.GS.Int(),
		GSPrime:    req.GSPrime.Int(),
		GSSPrime:   req.GSSPrime.Int(),
	}
	if err := o.storage.SetCommitment(commitment); err != nil {
		return api.VoteResponse{}, protoerr.Internal("persisting commitment: " + err.Error())
	}

	return resp, nil
}

// verifyPath substitutes an election/question/voter triple into the
// mediator's verification route pattern.
func verifyPath(electionID, questionID, voterID string) string {
	path := api.VerifyEndpoint
	path = strings.ReplaceAll(path, "{"+api.ElectionIDParam+"}", electionID)
	path = strings.ReplaceAll(path, "{"+api.QuestionIDParam+"}", questionID)
	path = strings.ReplaceAll(path, "{"+api.VoterIDParam+"}", voterID)
	return path
}
