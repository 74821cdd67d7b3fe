// Package wire defines the websocket tagged-union message envelopes
// exchanged during ballot verification (spec §6.2). All frames are JSON
// text; big integers marshal as base-10 strings via types.BigInt.
package wire

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/vocdoni/mpcvote/crypto/hasher"
	"github.com/vocdoni/mpcvote/types"
)

// Type discriminates the tagged union carried in every frame's "type"
// field.
type Type string

const (
	TypeInitialize         Type = "Initialize"
	TypePublicKey          Type = "PublicKey"
	TypeSP1STPMRequest     Type = "SP1_STPM_Request"
	TypeSP1STPMResponse    Type = "SP1_STPM_Response"
	TypeSP1ProductResponse Type = "SP1_Product_Response"
	TypeSP2SharesResponse  Type = "SP2_Shares_Response"
	TypeSP1ResultResponse  Type = "SP1_Result_Response"
	TypeSP2ResultResponse  Type = "SP2_Result_Response"
)

// Envelope is the common header every frame carries; Decode uses it to
// pick which concrete payload to unmarshal the rest of the frame into.
type Envelope struct {
	Type Type `json:"type"`
}

// Initialize is sent by the mediator to each collector once every peer's
// PublicKey has been buffered.
type Initialize struct {
	Type           Type                       `json:"type"`
	CollectorIndex int                        `json:"collectorIndex"`
	NumCollectors  int                        `json:"numCollectors"`
	ForwardBallot  *types.BigInt              `json:"forwardBallot"`
	ReverseBallot  *types.BigInt              `json:"reverseBallot"`
	GS             *types.BigInt              `json:"gS"`
	GSPrime        *types.BigInt              `json:"gSPrime"`
	GSSPrime       *types.BigInt              `json:"gSSPrime"`
	PublicKeys     []types.CollectorPublicKey `json:"publicKeys"`
}

// PublicKey is the unsigned, collector-to-mediator announcement of a
// collector's ephemeral RSA public key for this verification session.
type PublicKey struct {
	Type Type                    `json:"type"`
	From int                     `json:"from"`
	Data types.CollectorPublicKey `json:"data"`
}

// SP1STPMRequestData is the payload of a signed unicast SP1_STPM_Request.
type SP1STPMRequestData struct {
	ESCj      *types.BigInt `json:"eSCj"`
	ESCjPrime *types.BigInt `json:"eSCjPrime"`
}

type SP1STPMRequest struct {
	Type      Type               `json:"type"`
	From      int                `json:"from"`
	To        int                `json:"to"`
	Data      SP1STPMRequestData `json:"data"`
	Signature *types.BigInt      `json:"signature"`
}

// SP1STPMResponseData is the payload of a signed unicast SP1_STPM_Response.
type SP1STPMResponseData struct {
	ESCjERkPrime    *types.BigInt `json:"eSCjERkPrime"`
	ESCjPrimeERk    *types.BigInt `json:"eSCjPrimeERk"`
}

type SP1STPMResponse struct {
	Type      Type                 `json:"type"`
	From      int                  `json:"from"`
	To        int                  `json:"to"`
	Data      SP1STPMResponseData  `json:"data"`
	Signature *types.BigInt        `json:"signature"`
}

// SP1ProductResponseData is the payload of a signed broadcast
// SP1_Product_Response.
type SP1ProductResponseData struct {
	ProductJ *types.BigInt `json:"productJ"`
}

type SP1ProductResponse struct {
	Type      Type                   `json:"type"`
	From      int                    `json:"from"`
	Data      SP1ProductResponseData `json:"data"`
	Signature *types.BigInt          `json:"signature"`
}

// SP2SharesResponseData is the payload of a signed broadcast
// SP2_Shares_Response.
type SP2SharesResponseData struct {
	GStild      *types.BigInt `json:"gStild"`
	GStildPrime *types.BigInt `json:"gStildPrime"`
}

type SP2SharesResponse struct {
	Type      Type                  `json:"type"`
	From      int                   `json:"from"`
	Data      SP2SharesResponseData `json:"data"`
	Signature *types.BigInt         `json:"signature"`
}

// SP1ResultResponseData is the payload of a signed, mediator-directed
// SP1_Result_Response.
type SP1ResultResponseData struct {
	SP1BallotValid bool `json:"sp1BallotValid"`
}

type SP1ResultResponse struct {
	Type              Type                   `json:"type"`
	From              int                    `json:"from"`
	Data              SP1ResultResponseData  `json:"data"`
	CollectorSignature *types.BigInt         `json:"collectorSignature"`
}

// SP2ResultResponseData is the payload of a signed, mediator-directed
// SP2_Result_Response.
type SP2ResultResponseData struct {
	SP2BallotValid bool `json:"sp2BallotValid"`
}

type SP2ResultResponse struct {
	Type               Type                  `json:"type"`
	From               int                   `json:"from"`
	Data               SP2ResultResponseData `json:"data"`
	CollectorSignature *types.BigInt         `json:"collectorSignature"`
}

// BoolDigest hashes a sub-protocol verdict the way SP1_Result_Response
// and SP2_Result_Response sign it (spec §6.2, §4.1.5), so the mediator
// and the signing collector always agree on what was signed.
func BoolDigest(v bool) *big.Int {
	n := int64(0)
	if v {
		n = 1
	}
	return hasher.New().WriteInt64(n).SumBigInt()
}

// Decode inspects the "type" tag of a raw frame and unmarshals it into
// the matching concrete struct, returned as `any`. Binary frames are
// never passed here; the caller must reject those before calling Decode,
// per §6.2 "binary / continuation frames close with Unsupported".
func Decode(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("wire: decoding envelope: %w", err)
	}

	var target any
	switch env.Type {
	case TypeInitialize:
		target = &Initialize{}
	case TypePublicKey:
		target = &PublicKey{}
	case TypeSP1STPMRequest:
		target = &SP1STPMRequest{}
	case TypeSP1STPMResponse:
		target = &SP1STPMResponse{}
	case TypeSP1ProductResponse:
		target = &SP1ProductResponse{}
	case TypeSP2SharesResponse:
		target = &SP2SharesResponse{}
	case TypeSP1ResultResponse:
		target = &SP1ResultResponse{}
	case TypeSP2ResultResponse:
		target = &SP2ResultResponse{}
	default:
		return nil, fmt.Errorf("wire: unknown message type %q", env.Type)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("wire: decoding %s payload: %w", env.Type, err)
	}
	return target, nil
}
