package wire

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/mpcvote/types"
)

func TestDecodeSP1STPMRequest(t *testing.T) {
	c := qt.New(t)

	msg := SP1STPMRequest{
		Type: TypeSP1STPMRequest,
		From: 0,
		To:   1,
		Data: SP1STPMRequestData{
			ESCj:      types.NewBigInt(big.NewInt(42)),
			ESCjPrime: types.NewBigInt(big.NewInt(43)),
		},
		Signature: types.NewBigInt(big.NewInt(99)),
	}
	raw, err := json.Marshal(msg)
	c.Assert(err, qt.IsNil)

	decoded, err := Decode(raw)
	c.Assert(err, qt.IsNil)

	got, ok := decoded.(*SP1STPMRequest)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.From, qt.Equals, 0)
	c.Assert(got.To, qt.Equals, 1)
	c.Assert(got.Data.ESCj.Int().Int64(), qt.Equals, int64(42))
}

func TestDecodeUnknownTypeErrors(t *testing.T) {
	c := qt.New(t)

	_, err := Decode([]byte(`{"type":"NotARealType"}`))
	c.Assert(err, qt.ErrorMatches, "wire:.*")
}

func TestDecodeInitialize(t *testing.T) {
	c := qt.New(t)

	msg := Initialize{
		Type:           TypeInitialize,
		CollectorIndex: 2,
		NumCollectors:  5,
		ForwardBallot:  types.NewBigInt(big.NewInt(20)),
		ReverseBallot:  types.NewBigInt(big.NewInt(10)),
		GS:             types.NewBigInt(big.NewInt(1)),
		GSPrime:        types.NewBigInt(big.NewInt(2)),
		GSSPrime:       types.NewBigInt(big.NewInt(3)),
		PublicKeys: []types.CollectorPublicKey{
			{N: types.NewBigInt(big.NewInt(7)), B: types.NewBigInt(big.NewInt(11))},
		},
	}
	raw, err := json.Marshal(msg)
	c.Assert(err, qt.IsNil)

	decoded, err := Decode(raw)
	c.Assert(err, qt.IsNil)

	got, ok := decoded.(*Initialize)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.CollectorIndex, qt.Equals, 2)
	c.Assert(got.PublicKeys, qt.HasLen, 1)
}
