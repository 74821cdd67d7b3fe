package mediator

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/crypto/locanon"
	"github.com/vocdoni/mpcvote/crypto/paillier"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
)

func (m *Mediator) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req api.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	if err := m.CreateElection(req); err != nil {
		api.WriteProtoErr(w, err)
		return
	}
	api.WriteOK(w)
}

// CreateElection implements the mediator's "Election initialization"
// contract (spec §4.3): it walks the collector list in ascending index
// order, running each collector's step of the location-anonymization
// pipeline in turn. For the last collector, the mediator itself performs
// the final decrypt (loc_step_last) using the location-anonymization
// Paillier key the orchestrator generated and handed it, then persists
// the election and its collector bindings while holding the storage lock.
// Each row is committed on its own, so a failure part-way leaves the rows
// already written in place.
func (m *Mediator) CreateElection(req api.CreateElectionRequest) error {
	k := len(req.CollectorEndpoints)
	if len(req.VoterIDs) < 2*k {
		return protoerr.Conflict("not enough voters")
	}

	if _, err := m.storage.GetMediatorElection(req.ElectionID.String()); err == nil {
		return nil
	}

	locationPriv, err := paillier.FromFactors(req.LocationPaillierP.Int(), req.LocationPaillierQ.Int())
	if err != nil {
		return protoerr.CryptoFailure("rebuilding location keypair: " + err.Error())
	}

	running := req.EncryptedLocations

	for idx, endpoint := range req.CollectorEndpoints {
		isLast := idx == k-1

		initReq := api.InitializeCollectorRequest{
			ElectionID:         req.ElectionID,
			Generator:          req.Generator,
			Prime:              req.Prime,
			Questions:          req.Questions,
			VoterIDs:           req.VoterIDs,
			NumCollectors:      k,
			CollectorIndex:     idx,
			EncryptedLocations: running,
		}
		if !isLast {
			initReq.PaillierN = req.LocationPaillierN
		} else {
			decrypted, err := decryptLocations(running, locationPriv)
			if err != nil {
				return protoerr.CryptoFailure("decrypting final locations: " + err.Error())
			}
			initReq.EncryptedLocations = decrypted
		}

		var resp api.InitializeCollectorResponse
		if err := m.postCollector(endpoint, api.MediatorElectionsEndpoint, initReq, &resp); err != nil {
			return protoerr.Internal(fmt.Sprintf("register election error: collector index %d (%s): %v", idx, endpoint, err))
		}
		running = resp.EncryptionResult
	}

	m.storage.Lock()
	defer m.storage.Unlock()

	if err := m.storage.SetMediatorElection(storage.MediatorElection{ID: req.ElectionID, IsPublic: true}); err != nil {
		return protoerr.Internal("persisting election: " + err.Error())
	}
	for idx, endpoint := range req.CollectorEndpoints {
		ec := storage.ElectionCollector{ElectionID: req.ElectionID, CollectorID: endpoint, Index: idx}
		if err := m.storage.SetElectionCollector(ec); err != nil {
			return protoerr.Internal("persisting collector binding: " + err.Error())
		}
	}

	return nil
}

// decryptLocations runs loc_step_last on every remaining ciphertext, the
// step spec §4.1.3 assigns to "the last collector" but which §4.3 has the
// mediator perform directly on the orchestrator's behalf.
func decryptLocations(ciphertexts []*types.BigInt, priv *paillier.PrivateKey) ([]*types.BigInt, error) {
	out := make([]*types.BigInt, len(ciphertexts))
	for i, ct := range ciphertexts {
		plain, err := locanon.StepLast(ct.Int(), priv)
		if err != nil {
			return nil, err
		}
		out[i] = types.NewBigInt(plain)
	}
	return out, nil
}
