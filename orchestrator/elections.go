package orchestrator

import (
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/config"
	"github.com/vocdoni/mpcvote/crypto/locanon"
	"github.com/vocdoni/mpcvote/crypto/paillier"
	"github.com/vocdoni/mpcvote/crypto/primes"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
)

func (o *Orchestrator) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req api.CreateElectionClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	electionID, err := o.CreateElection(req)
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}
	api.WriteJSON(w, api.CreateElectionClientResponse{ElectionID: electionID})
}

// CreateElection implements "Create election" (spec §4.4): validate the
// input, generate (g, p) sized off the election's voter/candidate count
// and a fresh location-anonymization Paillier key, encrypt every voter's
// identity-permutation location, persist, and hand the whole payload to
// the mediator's registration endpoint.
func (o *Orchestrator) CreateElection(req api.CreateElectionClientRequest) (types.Uuid, error) {
	k := len(req.CollectorEndpoints)
	if k == 0 {
		return types.Uuid{}, protoerr.BadRequest("no collectors named")
	}
	if len(req.VoterIDs) < config.MinRegisteredVotersPerCollector*k {
		return types.Uuid{}, protoerr.Conflict("not enough voters")
	}
	maxCandidates := 0
	for _, q := range req.Questions {
		if q.NumCandidates < types.MinCandidatesPerQuestion {
			return types.Uuid{}, protoerr.BadRequest("question has fewer than the minimum number of candidates")
		}
		if q.NumCandidates > maxCandidates {
			maxCandidates = q.NumCandidates
		}
	}

	pair, err := primes.GeneratorPrimePair(config.PrimeBits(len(req.VoterIDs), maxCandidates))
	if err != nil {
		return types.Uuid{}, protoerr.CryptoFailure("generating prime/generator pair: " + err.Error())
	}

	locationPriv, err := paillier.GenerateKey(config.OrchestratorLocationPaillierBits)
	if err != nil {
		return types.Uuid{}, protoerr.CryptoFailure("generating location anonymization key: " + err.Error())
	}

	encryptedLocations := make([]*types.BigInt, len(req.VoterIDs))
	for i := range req.VoterIDs {
		ct, err := locanon.Step1(big.NewInt(int64(i)), &locationPriv.PublicKey)
		if err != nil {
			return types.Uuid{}, protoerr.CryptoFailure("encrypting location: " + err.Error())
		}
		encryptedLocations[i] = types.NewBigInt(ct)
	}

	electionID := types.NewUuid()

	o.storage.Lock()
	defer o.storage.Unlock()

	election := storage.OrchestratorElection{
		ID:                 electionID,
		Generator:          pair.G,
		Prime:              pair.P,
		LocationPaillierN:  locationPriv.N,
		LocationPaillierP:  locationPriv.P,
		LocationPaillierQ:  locationPriv.Q,
		VoterIDs:           req.VoterIDs,
		CollectorEndpoints: req.CollectorEndpoints,
		MediatorEndpoint:   o.mediatorEndpoint,
		Status:             storage.ElectionStatusOpen,
	}
	if err := o.storage.SetOrchestratorElection(election); err != nil {
		return types.Uuid{}, protoerr.Internal("persisting election: " + err.Error())
	}
	for _, q := range req.Questions {
		question := storage.Question{ID: q.ID, ElectionID: electionID, NumCandidates: q.NumCandidates}
		if err := o.storage.SetOrchestratorQuestion(question); err != nil {
			return types.Uuid{}, protoerr.Internal("persisting question: " + err.Error())
		}
	}

	mediatorReq := api.CreateElectionRequest{
		ElectionID:         electionID,
		Generator:          types.NewBigInt(pair.G),
		Prime:              types.NewBigInt(pair.P),
		Questions:          req.Questions,
		VoterIDs:           req.VoterIDs,
		CollectorEndpoints: req.CollectorEndpoints,
		EncryptedLocations: encryptedLocations,
		LocationPaillierN:  types.NewBigInt(locationPriv.N),
		LocationPaillierP:  types.NewBigInt(locationPriv.P),
		LocationPaillierQ:  types.NewBigInt(locationPriv.Q),
	}
	if err := o.postMediator(api.ElectionsEndpoint, mediatorReq, nil); err != nil {
		return types.Uuid{}, protoerr.Internal("registering election with mediator: " + err.Error())
	}

	return electionID, nil
}
