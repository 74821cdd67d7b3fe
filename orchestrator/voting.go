package orchestrator

import (
	"net/http"
	"strings"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
)

func (o *Orchestrator) handleCloseVoting(w http.ResponseWriter, r *http.Request) {
	electionID := chiParam(r, api.ElectionIDParam)

	resp, err := o.CloseVoting(electionID)
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}
	api.WriteJSON(w, resp)
}

// questionAggregate is one question's mediator-reported cancellation
// shares, gathered before anything is persisted so the final write phase
// can proceed without another round trip that could fail partway.
type questionAggregate struct {
	questionID types.Uuid
	fwd, rev   *types.BigInt
}

// CloseVoting implements "Close voting and publish results" (spec §4.4):
// for each question, compute the voters who never posted a commitment,
// ask the mediator to aggregate their cancellation shares across every
// collector, and persist the totals. The whole operation is atomic across
// an election's questions: every aggregate call is gathered before
// anything is written, and a failure anywhere leaves the election in
// "collection-failed" so a retry starts from the top (spec §7).
func (o *Orchestrator) CloseVoting(electionID string) (api.CloseVotingResponse, error) {
	election, err := o.storage.GetOrchestratorElection(electionID)
	if err != nil {
		return api.CloseVotingResponse{}, protoerr.NotFound("election not found")
	}

	questions, err := o.storage.ListOrchestratorQuestionsByElection(electionID)
	if err != nil {
		return api.CloseVotingResponse{}, protoerr.Internal("listing questions: " + err.Error())
	}

	aggregates := make([]questionAggregate, 0, len(questions))
	for _, q := range questions {
		nonVoters, err := o.nonVoters(electionID, q.ID.String(), election.VoterIDs)
		if err != nil {
			o.markCollectionFailed(electionID)
			return api.CloseVotingResponse{}, protoerr.Internal("computing non-voters: " + err.Error())
		}

		req := api.CancelationAggregateRequest{
			UserIDs: nonVoters,
			Prime:   types.NewBigInt(election.Prime),
		}
		var resp api.CancelationAggregateResponse
		path := cancelationAggregatePath(electionID, q.ID.String())
		if err := o.getMediator(path, req, &resp); err != nil {
			o.markCollectionFailed(electionID)
			return api.CloseVotingResponse{}, protoerr.Internal("aggregating cancellation shares: " + err.Error())
		}
		aggregates = append(aggregates, questionAggregate{
			questionID: q.ID,
			fwd:        resp.ForwardCancelationShares,
			rev:        resp.ReverseCancelationShares,
		})
	}

	o.storage.Lock()
	defer o.storage.Unlock()

	results := make([]api.CloseVotingResult, 0, len(aggregates))
	for _, a := range aggregates {
		shares := storage.CancellationShares{
			ElectionID:               election.ID,
			QuestionID:               a.questionID,
			ForwardCancellationShare: a.fwd.Int(),
			ReverseCancellationShare: a.rev.Int(),
		}
		if err := o.storage.SetCancellationShares(shares); err != nil {
			o.markCollectionFailedLocked(&election)
			return api.CloseVotingResponse{}, protoerr.Internal("persisting cancellation shares: " + err.Error())
		}
		results = append(results, api.CloseVotingResult{
			QuestionID:               a.questionID,
			ForwardCancelationShares: a.fwd,
			ReverseCancelationShares: a.rev,
		})
	}

	election.Status = storage.ElectionStatusClosed
	if err := o.storage.SetOrchestratorElection(election); err != nil {
		return api.CloseVotingResponse{}, protoerr.Internal("persisting election status: " + err.Error())
	}

	return api.CloseVotingResponse{Results: results}, nil
}

// nonVoters returns the registered voters who never posted a commitment
// for questionID, the complement set the mediator's cancelation-aggregate
// call is scoped to.
func (o *Orchestrator) nonVoters(electionID, questionID string, voterIDs []types.Uuid) ([]types.Uuid, error) {
	committed, err := o.storage.ListCommittedVotersByQuestion(electionID, questionID)
	if err != nil {
		return nil, err
	}
	committedSet := make(map[string]bool, len(committed))
	for _, id := range committed {
		committedSet[id] = true
	}

	var out []types.Uuid
	for _, id := range voterIDs {
		if !committedSet[id.String()] {
			out = append(out, id)
		}
	}
	return out, nil
}

// markCollectionFailed transitions an election to "collection-failed"
// under its own lock, used when an aggregate call fails before the final
// write phase begins.
func (o *Orchestrator) markCollectionFailed(electionID string) {
	o.storage.Lock()
	defer o.storage.Unlock()
	election, err := o.storage.GetOrchestratorElection(electionID)
	if err != nil {
		return
	}
	o.markCollectionFailedLocked(&election)
}

// markCollectionFailedLocked is markCollectionFailed's counterpart for
// callers that already hold the storage lock.
func (o *Orchestrator) markCollectionFailedLocked(election *storage.OrchestratorElection) {
	election.Status = storage.ElectionStatusCollectionFailed
	_ = o.storage.SetOrchestratorElection(*election)
}

// cancelationAggregatePath substitutes an election/question pair into the
// mediator's cancelation-aggregate route pattern.
func cancelationAggregatePath(electionID, questionID string) string {
	path := api.CancelationAggregateEndpoint
	path = strings.ReplaceAll(path, "{"+api.ElectionIDParam+"}", electionID)
	path = strings.ReplaceAll(path, "{"+api.QuestionIDParam+"}", questionID)
	return path
}
