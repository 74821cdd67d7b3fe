package collector

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/mpcvote/crypto/paillier"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
	"github.com/vocdoni/mpcvote/wire"
)

func newTestElection(t *testing.T, generator, prime int64) storage.Election {
	t.Helper()
	priv, err := paillier.GenerateKey(512)
	if err != nil {
		t.Fatalf("generating test paillier key: %v", err)
	}
	return storage.Election{
		ID:        types.NewUuid(),
		Generator: big.NewInt(generator),
		Prime:     big.NewInt(prime),
		PaillierP: priv.P,
		PaillierQ: priv.Q,
	}
}

func newTestRegistration(electionID, questionID, voterID types.Uuid, fwdVerif, revVerif, fwdBallot, revBallot int64) storage.Registration {
	return storage.Registration{
		UserID:                   voterID,
		ElectionID:               electionID,
		QuestionID:               questionID,
		ForwardVerificationShare: big.NewInt(fwdVerif),
		ReverseVerificationShare: big.NewInt(revVerif),
		ForwardBallotShare:       big.NewInt(fwdBallot),
		ReverseBallotShare:       big.NewInt(revBallot),
	}
}

func TestStartAnnouncesUnsignedPublicKey(t *testing.T) {
	c := qt.New(t)
	election := newTestElection(t, 5, 23)
	reg := newTestRegistration(election.ID, types.NewUuid(), types.NewUuid(), 3, 4, 5, 6)

	s, err := NewSession("e", "q", "v", election, reg, 2, 4)
	c.Assert(err, qt.IsNil)

	pk := s.Start()
	c.Assert(pk.Type, qt.Equals, wire.TypePublicKey)
	c.Assert(s.State, qt.Equals, StateAwaitingInit)
	c.Assert(pk.Data.N.Int().Cmp(s.signingKey.N), qt.Equals, 0)
}

func TestHandleInitializeRejectedOutsideAwaitingInit(t *testing.T) {
	c := qt.New(t)
	election := newTestElection(t, 5, 23)
	reg := newTestRegistration(election.ID, types.NewUuid(), types.NewUuid(), 3, 4, 5, 6)

	s, err := NewSession("e", "q", "v", election, reg, 2, 4)
	c.Assert(err, qt.IsNil)

	msg := &wire.Initialize{Type: wire.TypeInitialize, CollectorIndex: 0, NumCollectors: 1}
	_, err = s.HandleInitialize(msg)
	c.Assert(err, qt.ErrorMatches, ".*protocol-violation.*awaiting-init.*")
}

func TestHandleInitializeBuildsSTPMRequestsAndSP2Broadcast(t *testing.T) {
	c := qt.New(t)
	election := newTestElection(t, 5, 23)
	electionID := election.ID
	questionID := types.NewUuid()
	voterID := types.NewUuid()
	reg := newTestRegistration(electionID, questionID, voterID, 3, 4, 5, 6)

	s, err := NewSession(electionID.String(), questionID.String(), voterID.String(), election, reg, 2, 6)
	c.Assert(err, qt.IsNil)
	s.Start()

	peerKeys := make([]types.CollectorPublicKey, 3)
	for i := range peerKeys {
		priv, genErr := paillier.GenerateKey(64)
		c.Assert(genErr, qt.IsNil)
		peerKeys[i] = types.CollectorPublicKey{N: types.NewBigInt(priv.N), B: types.NewBigInt(big.NewInt(65537))}
	}
	peerKeys[0] = types.CollectorPublicKey{N: types.NewBigInt(s.signingKey.N), B: types.NewBigInt(s.signingKey.B)}

	msg := &wire.Initialize{
		Type:           wire.TypeInitialize,
		CollectorIndex: 0,
		NumCollectors:  3,
		ForwardBallot:  types.NewBigInt(big.NewInt(7)),
		ReverseBallot:  types.NewBigInt(big.NewInt(8)),
		GS:             types.NewBigInt(big.NewInt(1)),
		GSPrime:        types.NewBigInt(big.NewInt(1)),
		GSSPrime:       types.NewBigInt(big.NewInt(1)),
		PublicKeys:     peerKeys,
	}

	out, err := s.HandleInitialize(msg)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.HasLen, 3) // STPM requests to peers 1, 2, plus the SP2 broadcast.
	c.Assert(s.State, qt.Equals, StateRunning)

	reqToPeer1, ok := out[0].(*wire.SP1STPMRequest)
	c.Assert(ok, qt.IsTrue)
	c.Assert(reqToPeer1.To, qt.Equals, 1)

	reqToPeer2, ok := out[1].(*wire.SP1STPMRequest)
	c.Assert(ok, qt.IsTrue)
	c.Assert(reqToPeer2.To, qt.Equals, 2)

	_, ok = out[2].(*wire.SP2SharesResponse)
	c.Assert(ok, qt.IsTrue)
}

// TestSTPMExchangeResidualsSumToProduct drives a real two-collector STPM
// round between two Session instances and checks the residuals each side
// recorded sum exactly to the cross product of the two collectors' own
// verification shares, the invariant the whole partial-product step
// depends on (spec §4.1.2).
func TestSTPMExchangeResidualsSumToProduct(t *testing.T) {
	c := qt.New(t)

	election0 := newTestElection(t, 5, 23)
	election1 := newTestElection(t, 5, 23)
	electionID := types.NewUuid()
	questionID := types.NewUuid()
	voterID := types.NewUuid()

	reg0 := newTestRegistration(electionID, questionID, voterID, 11, 13, 17, 19)
	reg1 := newTestRegistration(electionID, questionID, voterID, 23, 29, 31, 37)

	s0, err := NewSession(electionID.String(), questionID.String(), voterID.String(), election0, reg0, 2, 4)
	c.Assert(err, qt.IsNil)
	s1, err := NewSession(electionID.String(), questionID.String(), voterID.String(), election1, reg1, 2, 4)
	c.Assert(err, qt.IsNil)

	pk0 := s0.Start()
	pk1 := s1.Start()
	keys := []types.CollectorPublicKey{pk0.Data, pk1.Data}

	buildInit := func(j int) *wire.Initialize {
		return &wire.Initialize{
			Type:           wire.TypeInitialize,
			CollectorIndex: j,
			NumCollectors:  2,
			ForwardBallot:  types.NewBigInt(big.NewInt(7)),
			ReverseBallot:  types.NewBigInt(big.NewInt(9)),
			GS:             types.NewBigInt(big.NewInt(1)),
			GSPrime:        types.NewBigInt(big.NewInt(1)),
			GSSPrime:       types.NewBigInt(big.NewInt(1)),
			PublicKeys:     keys,
		}
	}

	out0, err := s0.HandleInitialize(buildInit(0))
	c.Assert(err, qt.IsNil)
	_, err = s1.HandleInitialize(buildInit(1))
	c.Assert(err, qt.IsNil)

	req, ok := out0[0].(*wire.SP1STPMRequest)
	c.Assert(ok, qt.IsTrue)
	c.Assert(req.To, qt.Equals, 1)

	resp, extra, err := s1.HandleSTPMRequest(req)
	c.Assert(err, qt.IsNil)
	c.Assert(extra, qt.HasLen, 1) // s1 has no peers above it, so it can finalize its own product immediately.
	_, ok = extra[0].(*wire.SP1ProductResponse)
	c.Assert(ok, qt.IsTrue)

	out1, err := s0.HandleSTPMResponse(resp)
	c.Assert(err, qt.IsNil)
	c.Assert(out1, qt.HasLen, 1)
	_, ok = out1[0].(*wire.SP1ProductResponse)
	c.Assert(ok, qt.IsTrue)

	// s0.rShares[1].r pairs with s1.rShares[0].rPrime (both from the
	// exchange seeded by s0's own forward verification share against
	// s1's reverse verification share).
	wantFwd := new(big.Int).Mul(big.NewInt(11), big.NewInt(29))
	gotFwd := new(big.Int).Add(s0.rShares[1].r, s1.rShares[0].rPrime)
	c.Assert(gotFwd.Cmp(wantFwd), qt.Equals, 0)

	wantRev := new(big.Int).Mul(big.NewInt(13), big.NewInt(23))
	gotRev := new(big.Int).Add(s0.rShares[1].rPrime, s1.rShares[0].r)
	c.Assert(gotRev.Cmp(wantRev), qt.Equals, 0)
}

func TestHandleProductBroadcastRejectsInvalidSignature(t *testing.T) {
	c := qt.New(t)

	election0 := newTestElection(t, 5, 23)
	electionID := types.NewUuid()
	questionID := types.NewUuid()
	voterID := types.NewUuid()
	reg0 := newTestRegistration(electionID, questionID, voterID, 11, 13, 17, 19)

	s0, err := NewSession(electionID.String(), questionID.String(), voterID.String(), election0, reg0, 2, 4)
	c.Assert(err, qt.IsNil)

	otherPriv, err := paillier.GenerateKey(64)
	c.Assert(err, qt.IsNil)
	peerKey := types.CollectorPublicKey{N: types.NewBigInt(otherPriv.N), B: types.NewBigInt(big.NewInt(65537))}

	s0.Start()
	_, err = s0.HandleInitialize(&wire.Initialize{
		Type: wire.TypeInitialize, CollectorIndex: 0, NumCollectors: 2,
		ForwardBallot: types.NewBigInt(big.NewInt(7)), ReverseBallot: types.NewBigInt(big.NewInt(9)),
		GS: types.NewBigInt(big.NewInt(1)), GSPrime: types.NewBigInt(big.NewInt(1)), GSSPrime: types.NewBigInt(big.NewInt(1)),
		PublicKeys: []types.CollectorPublicKey{{N: types.NewBigInt(s0.signingKey.N), B: types.NewBigInt(s0.signingKey.B)}, peerKey},
	})
	c.Assert(err, qt.IsNil)

	forged := &wire.SP1ProductResponse{
		Type:      wire.TypeSP1ProductResponse,
		From:      1,
		Data:      wire.SP1ProductResponseData{ProductJ: types.NewBigInt(big.NewInt(42))},
		Signature: types.NewBigInt(big.NewInt(1)), // not a valid signature under peerKey
	}
	_, err = s0.HandleProductBroadcast(forged)
	c.Assert(err, qt.ErrorMatches, ".*protocol-violation.*signature.*")
}
