package storage

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/arbo/memdb"

	"github.com/vocdoni/mpcvote/types"
)

func newTestStorage() *Storage {
	return New(memdb.New())
}

func TestElectionRoundTrip(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage()
	defer s.Close()

	e := Election{
		ID:        types.NewUuid(),
		Generator: big.NewInt(5),
		Prime:     big.NewInt(23),
		PaillierP: big.NewInt(7),
		PaillierQ: big.NewInt(11),
	}
	c.Assert(s.SetElection(e), qt.IsNil)

	got, err := s.GetElection(e.ID.String())
	c.Assert(err, qt.IsNil)
	c.Assert(got.Prime.Cmp(e.Prime), qt.Equals, 0)
	c.Assert(got.ID, qt.Equals, e.ID)
}

func TestGetElectionNotFound(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage()
	defer s.Close()

	_, err := s.GetElection(types.NewUuid().String())
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestRegistrationListByQuestion(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage()
	defer s.Close()

	electionID := types.NewUuid()
	questionID := types.NewUuid()

	for i := 0; i < 3; i++ {
		r := Registration{
			UserID:                   types.NewUuid(),
			ElectionID:               electionID,
			QuestionID:               questionID,
			ForwardVerificationShare: big.NewInt(int64(i)),
			ReverseVerificationShare: big.NewInt(int64(i)),
			ForwardBallotShare:       big.NewInt(int64(i)),
			ReverseBallotShare:       big.NewInt(int64(i)),
		}
		c.Assert(s.SetRegistration(r), qt.IsNil)
	}

	// a different question must not be picked up by the listing.
	c.Assert(s.SetRegistration(Registration{
		UserID:     types.NewUuid(),
		ElectionID: electionID,
		QuestionID: types.NewUuid(),
	}), qt.IsNil)

	regs, err := s.ListRegistrationsByQuestion(electionID.String(), questionID.String())
	c.Assert(err, qt.IsNil)
	c.Assert(regs, qt.HasLen, 3)
}

func TestCommitmentWriteOnce(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage()
	defer s.Close()

	cm := Commitment{
		UserID:     types.NewUuid(),
		ElectionID: types.NewUuid(),
		QuestionID: types.NewUuid(),
		PI:         big.NewInt(1),
		PIPrime:    big.NewInt(2),
		GS:         big.NewInt(3),
		GSPrime:    big.NewInt(4),
		GSSPrime:   big.NewInt(5),
	}
	c.Assert(s.SetCommitment(cm), qt.IsNil)
	c.Assert(s.SetCommitment(cm), qt.Equals, ErrKeyAlreadyExists)
}

func TestElectionCollectorsOrderedByIndex(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage()
	defer s.Close()

	electionID := types.NewUuid()
	for _, idx := range []int{2, 0, 1} {
		c.Assert(s.SetElectionCollector(ElectionCollector{
			ElectionID:  electionID,
			CollectorID: "collector",
			Index:       idx,
		}), qt.IsNil)
	}

	ecs, err := s.ListElectionCollectors(electionID.String())
	c.Assert(err, qt.IsNil)
	c.Assert(ecs, qt.HasLen, 3)
	c.Assert(ecs[0].Index, qt.Equals, 0)
	c.Assert(ecs[1].Index, qt.Equals, 1)
	c.Assert(ecs[2].Index, qt.Equals, 2)
}
