package collector

import (
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/config"
	"github.com/vocdoni/mpcvote/crypto/locanon"
	"github.com/vocdoni/mpcvote/crypto/paillier"
	"github.com/vocdoni/mpcvote/crypto/shares"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
)

func (c *Collector) handleInitializeElection(w http.ResponseWriter, r *http.Request) {
	var req api.InitializeCollectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	resp, err := c.InitializeElection(req)
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}
	api.WriteJSON(w, resp)
}

// InitializeElection implements the collector's "Create/Initialize"
// contract (spec §4.2). It validates the request, runs this collector's
// step of the location-anonymization pipeline, and — if the election is
// new or being re-initialized — (re)generates the per-question share
// matrices and persists everything while holding the storage lock. Each
// row is committed on its own, so a failure part-way leaves the rows
// already written in place.
func (c *Collector) InitializeElection(req api.InitializeCollectorRequest) (*api.InitializeCollectorResponse, error) {
	k := req.NumCollectors
	j := req.CollectorIndex
	if j < 0 || j >= k {
		return nil, protoerr.BadRequest("collector_index out of range [0, num_collectors)")
	}
	numVoters := len(req.VoterIDs)
	if numVoters < config.MinRegisteredVotersPerCollector*k {
		return nil, protoerr.BadRequest("not enough registered voters for the number of collectors")
	}
	if numVoters != len(req.EncryptedLocations) {
		return nil, protoerr.BadRequest("voter count does not match encrypted location count")
	}
	for _, q := range req.Questions {
		if q.NumCandidates < types.MinCandidatesPerQuestion {
			return nil, protoerr.BadRequest("question has fewer than the minimum number of candidates")
		}
	}

	updatedLocations, err := c.anonymizeLocations(req)
	if err != nil {
		return nil, err
	}

	c.storage.Lock()
	defer c.storage.Unlock()

	existing, err := c.storage.GetElection(req.ElectionID.String())
	known := err == nil
	if err != nil && err != storage.ErrNotFound {
		return nil, protoerr.Internal("reading election: " + err.Error())
	}

	var priv *paillier.PrivateKey
	if known {
		priv, err = paillier.FromFactors(existing.PaillierP, existing.PaillierQ)
		if err != nil {
			return nil, protoerr.CryptoFailure("rebuilding STPM keypair: " + err.Error())
		}
	} else {
		bits := config.PaillierModulusMultiplier * req.Prime.Int().BitLen()
		priv, err = paillier.GenerateKey(bits)
		if err != nil {
			return nil, protoerr.CryptoFailure("generating STPM keypair: " + err.Error())
		}
	}

	election := storage.Election{
		ID:        req.ElectionID,
		Generator: req.Generator.Int(),
		Prime:     req.Prime.Int(),
		PaillierP: priv.P,
		PaillierQ: priv.Q,
	}
	if err := c.storage.SetElection(election); err != nil {
		return nil, protoerr.Internal("persisting election: " + err.Error())
	}

	m := new(big.Int).Sub(req.Prime.Int(), big.NewInt(1))

	for _, qs := range req.Questions {
		question := storage.Question{ID: qs.ID, ElectionID: req.ElectionID, NumCandidates: qs.NumCandidates}
		if err := c.storage.SetQuestion(question); err != nil {
			return nil, protoerr.Internal("persisting question: " + err.Error())
		}

		forwardMatrix, err := shares.NewSharesMatrix(j, k, numVoters, m)
		if err != nil {
			return nil, protoerr.Internal("generating forward shares matrix: " + err.Error())
		}
		reverseMatrix, err := shares.NewSharesMatrix(j, k, numVoters, m)
		if err != nil {
			return nil, protoerr.Internal("generating reverse shares matrix: " + err.Error())
		}

		for v, voterID := range req.VoterIDs {
			forwardVerification, err := forwardMatrix.VerificationShare(v)
			if err != nil {
				return nil, protoerr.Internal(err.Error())
			}
			forwardBallot, err := forwardMatrix.BallotShare(v)
			if err != nil {
				return nil, protoerr.Internal(err.Error())
			}
			reverseVerification, err := reverseMatrix.VerificationShare(v)
			if err != nil {
				return nil, protoerr.Internal(err.Error())
			}
			reverseBallot, err := reverseMatrix.BallotShare(v)
			if err != nil {
				return nil, protoerr.Internal(err.Error())
			}

			registration := storage.Registration{
				UserID:                   voterID,
				ElectionID:               req.ElectionID,
				QuestionID:               qs.ID,
				ForwardVerificationShare: forwardVerification,
				ReverseVerificationShare: reverseVerification,
				ForwardBallotShare:       forwardBallot,
				ReverseBallotShare:       reverseBallot,
			}
			if err := c.storage.SetRegistration(registration); err != nil {
				return nil, protoerr.Internal("persisting registration: " + err.Error())
			}
		}
	}

	for i, voterID := range req.VoterIDs {
		loc := storage.EncryptedLocation{UserID: voterID, ElectionID: req.ElectionID, Location: req.EncryptedLocations[i].Int()}
		if updatedLocations != nil {
			loc.Location = updatedLocations[i].Int()
		}
		if err := c.storage.SetEncryptedLocation(loc); err != nil {
			return nil, protoerr.Internal("persisting encrypted location: " + err.Error())
		}
	}

	if req.PaillierN == nil {
		// Final collector: nothing further for the mediator to forward.
		return &api.InitializeCollectorResponse{}, nil
	}
	return &api.InitializeCollectorResponse{EncryptionResult: updatedLocations}, nil
}

// anonymizeLocations runs this collector's step of the location
// anonymization pipeline (spec §4.1.3, §4.2): strip this collector's
// residual from every ciphertext, then — only at collector index 0 —
// shuffle the resulting list with a uniform permutation. The final
// collector (no paillier_n) does nothing: the mediator already ran
// loc_step_last on its behalf before this call (spec §4.3).
func (c *Collector) anonymizeLocations(req api.InitializeCollectorRequest) ([]*types.BigInt, error) {
	if req.PaillierN == nil {
		return nil, nil
	}

	n := req.PaillierN.Int()
	pub := &paillier.PublicKey{N: n, N2: new(big.Int).Mul(n, n)}

	updated := make([]*big.Int, len(req.EncryptedLocations))
	for i, loc := range req.EncryptedLocations {
		_, eX, err := locanon.StepIth(loc.Int(), pub)
		if err != nil {
			return nil, protoerr.CryptoFailure("location anonymization step: " + err.Error())
		}
		updated[i] = eX
	}

	if req.CollectorIndex == 0 {
		shuffled, err := locanon.Shuffle(updated)
		if err != nil {
			return nil, protoerr.Internal("shuffling locations: " + err.Error())
		}
		updated = shuffled
	}

	out := make([]*types.BigInt, len(updated))
	for i, v := range updated {
		out[i] = types.NewBigInt(v)
	}
	return out, nil
}
