package api

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/mpcvote/types"
)

func bi(v int64) *types.BigInt {
	return types.NewBigInt(big.NewInt(v))
}

func TestVoteRequestJSONRoundTrip(t *testing.T) {
	c := qt.New(t)

	req := VoteRequest{
		VoterID:  types.NewUuid(),
		PI:       bi(1),
		PIPrime:  bi(2),
		GS:       bi(3),
		GSPrime:  bi(4),
		GSSPrime: bi(5),
	}

	raw, err := json.Marshal(req)
	c.Assert(err, qt.IsNil)

	var got VoteRequest
	c.Assert(json.Unmarshal(raw, &got), qt.IsNil)
	c.Assert(got.VoterID, qt.Equals, req.VoterID)
	c.Assert(got.PI.Int().Cmp(req.PI.Int()), qt.Equals, 0)
}

func TestInitializeCollectorRequestOmitsPaillierNWhenAbsent(t *testing.T) {
	c := qt.New(t)

	req := InitializeCollectorRequest{
		ElectionID:     types.NewUuid(),
		Generator:      bi(5),
		Prime:          bi(23),
		NumCollectors:  3,
		CollectorIndex: 2,
	}

	raw, err := json.Marshal(req)
	c.Assert(err, qt.IsNil)
	c.Assert(string(raw), qt.Not(qt.Contains), "paillierN")
}
