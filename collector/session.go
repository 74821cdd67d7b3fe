package collector

import (
	"math/big"

	"github.com/vocdoni/mpcvote/crypto/hasher"
	"github.com/vocdoni/mpcvote/crypto/paillier"
	"github.com/vocdoni/mpcvote/crypto/rsasign"
	"github.com/vocdoni/mpcvote/crypto/stpm"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
	"github.com/vocdoni/mpcvote/wire"
)

// State is one stage of the per-verification-session state machine (spec
// §4.2 "initial -> awaiting-init -> running -> awaiting-sp1 ->
// awaiting-sp2 -> terminal"). No state may be skipped; an unexpected
// message for the current state is a protocol violation.
type State int

const (
	StateInitial State = iota
	StateAwaitingInit
	StateRunning
	StateAwaitingSP1
	StateAwaitingSP2
	StateTerminal
)

type residualPair struct {
	r, rPrime *big.Int
}

// Session is one collector's actor for a single (election, question,
// voter) ballot verification run. It owns no I/O: HandleX methods
// consume a decoded wire message and return the wire messages to send
// next, letting the websocket loop in verification.go stay a thin
// read/dispatch/write shell (spec §5 "single-threaded cooperative per
// actor").
type Session struct {
	ElectionID string
	QuestionID string
	VoterID    string

	priv       *paillier.PrivateKey
	signingKey *rsasign.KeyPair

	generator *big.Int
	prime     *big.Int

	ownVerifFwd, ownVerifRev   *big.Int
	ownBallotFwd, ownBallotRev *big.Int

	numCandidates int
	numVoters     int

	j, k int

	ballotFwd, ballotRev           *big.Int
	gS, gSPrime, gSSPrime         *big.Int
	peerKeys                      map[int]rsasign.PublicKey
	rShares                       map[int]residualPair
	partialProducts                map[int]*big.Int
	sp2Fwd, sp2Rev                 map[int]*big.Int

	State State
}

// NewSession builds a fresh session for one verification run, deriving
// the ephemeral RSA signing keypair from the collector's STPM Paillier
// modulus (spec §4.2 "generates an RSA keypair ... retry sampling a
// until invertible").
func NewSession(electionID, questionID, voterID string, election storage.Election, reg storage.Registration, numCandidates, numVoters int) (*Session, error) {
	priv, err := paillier.FromFactors(election.PaillierP, election.PaillierQ)
	if err != nil {
		return nil, protoerr.CryptoFailure("rebuilding STPM keypair: " + err.Error())
	}
	signingKey, err := rsasign.Generate(priv.N, priv.Totient())
	if err != nil {
		return nil, protoerr.CryptoFailure("deriving signing keypair: " + err.Error())
	}

	return &Session{
		ElectionID:    electionID,
		QuestionID:    questionID,
		VoterID:       voterID,
		priv:          priv,
		signingKey:    signingKey,
		generator:     election.Generator,
		prime:         election.Prime,
		ownVerifFwd:   reg.ForwardVerificationShare,
		ownVerifRev:   reg.ReverseVerificationShare,
		ownBallotFwd:  reg.ForwardBallotShare,
		ownBallotRev:  reg.ReverseBallotShare,
		numCandidates: numCandidates,
		numVoters:     numVoters,
		peerKeys:      make(map[int]rsasign.PublicKey),
		rShares:       make(map[int]residualPair),
		partialProducts: make(map[int]*big.Int),
		sp2Fwd:        make(map[int]*big.Int),
		sp2Rev:        make(map[int]*big.Int),
		State:         StateInitial,
	}, nil
}

// Start announces this session's RSA public key to the mediator,
// unsigned (spec §4.2), and moves to awaiting-init. The collector's own
// index is not yet known (the mediator assigns it in the Initialize
// message that follows), so From is a placeholder the mediator
// overwrites using its own dial order.
func (s *Session) Start() *wire.PublicKey {
	s.State = StateAwaitingInit
	return &wire.PublicKey{
		Type: wire.TypePublicKey,
		From: 0,
		Data: types.CollectorPublicKey{
			N: types.NewBigInt(s.signingKey.N),
			B: types.NewBigInt(s.signingKey.B),
		},
	}
}

// HandleInitialize processes the mediator's Initialize broadcast: it
// fixes this collector's index and peer set, then kicks off sub-protocol
// 1 (STPM requests to every higher-indexed peer) and sub-protocol 2 (a
// g-share broadcast of this collector's own ballot shares).
func (s *Session) HandleInitialize(msg *wire.Initialize) ([]any, error) {
	if s.State != StateAwaitingInit {
		return nil, protoerr.ProtocolViolation("Initialize received outside awaiting-init state")
	}

	s.j = msg.CollectorIndex
	s.k = msg.NumCollectors
	s.ballotFwd = msg.ForwardBallot.Int()
	s.ballotRev = msg.ReverseBallot.Int()
	s.gS = msg.GS.Int()
	s.gSPrime = msg.GSPrime.Int()
	s.gSSPrime = msg.GSSPrime.Int()

	for idx, pk := range msg.PublicKeys {
		s.peerKeys[idx] = rsasign.PublicKey{N: pk.N.Int(), B: pk.B.Int()}
	}

	s.State = StateRunning

	var out []any

	for peer := s.j + 1; peer < s.k; peer++ {
		req, err := s.buildSTPMRequest(peer)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}

	sp2, err := s.buildSP2SharesResponse()
	if err != nil {
		return nil, err
	}
	s.sp2Fwd[s.j] = powMod(s.generator, s.ownBallotFwd, s.prime)
	s.sp2Rev[s.j] = powMod(s.generator, s.ownBallotRev, s.prime)
	out = append(out, sp2)

	return out, nil
}

func (s *Session) buildSTPMRequest(peer int) (*wire.SP1STPMRequest, error) {
	eSCj, err := stpm.Step1(s.ownVerifFwd, &s.priv.PublicKey)
	if err != nil {
		return nil, protoerr.CryptoFailure("stpm step1 (forward): " + err.Error())
	}
	eSCjPrime, err := stpm.Step1(s.ownVerifRev, &s.priv.PublicKey)
	if err != nil {
		return nil, protoerr.CryptoFailure("stpm step1 (reverse): " + err.Error())
	}

	data := wire.SP1STPMRequestData{ESCj: types.NewBigInt(eSCj), ESCjPrime: types.NewBigInt(eSCjPrime)}
	return &wire.SP1STPMRequest{
		Type:      wire.TypeSP1STPMRequest,
		From:      s.j,
		To:        peer,
		Data:      data,
		Signature: types.NewBigInt(s.sign(eSCj, eSCjPrime)),
	}, nil
}

func (s *Session) buildSP2SharesResponse() (*wire.SP2SharesResponse, error) {
	gStild := powMod(s.generator, s.ownBallotFwd, s.prime)
	gStildPrime := powMod(s.generator, s.ownBallotRev, s.prime)

	data := wire.SP2SharesResponseData{GStild: types.NewBigInt(gStild), GStildPrime: types.NewBigInt(gStildPrime)}
	return &wire.SP2SharesResponse{
		Type:      wire.TypeSP2SharesResponse,
		From:      s.j,
		Data:      data,
		Signature: types.NewBigInt(s.sign(gStild, gStildPrime)),
	}, nil
}

// HandleSTPMRequest answers a peer's SP1_STPM_Request (spec §4.2 "STPM
// request handler"). The request's ciphertexts were encrypted under the
// peer's own Paillier key, so the fold happens under that key, not ours.
func (s *Session) HandleSTPMRequest(req *wire.SP1STPMRequest) (*wire.SP1STPMResponse, []any, error) {
	if s.State != StateRunning && s.State != StateAwaitingSP1 {
		return nil, nil, protoerr.ProtocolViolation("SP1_STPM_Request received outside running state")
	}
	if err := s.verify(req.From, req.Signature, req.Data.ESCj.Int(), req.Data.ESCjPrime.Int()); err != nil {
		return nil, nil, err
	}

	peerPub, err := s.peerPublicKeyAsPaillier(req.From)
	if err != nil {
		return nil, nil, err
	}

	rPrime, eOut1, err := stpm.Step2(req.Data.ESCj.Int(), s.ownVerifRev, peerPub, true)
	if err != nil {
		return nil, nil, protoerr.CryptoFailure("stpm step2 (forward): " + err.Error())
	}
	r, eOut2, err := stpm.Step2(req.Data.ESCjPrime.Int(), s.ownVerifFwd, peerPub, true)
	if err != nil {
		return nil, nil, protoerr.CryptoFailure("stpm step2 (reverse): " + err.Error())
	}

	s.rShares[req.From] = residualPair{r: r, rPrime: rPrime}

	resp := &wire.SP1STPMResponse{
		Type: wire.TypeSP1STPMResponse,
		From: s.j,
		To:   req.From,
		Data: wire.SP1STPMResponseData{
			ESCjERkPrime: types.NewBigInt(eOut1),
			ESCjPrimeERk: types.NewBigInt(eOut2),
		},
	}
	resp.Signature = types.NewBigInt(s.sign(eOut1, eOut2))

	extra, err := s.maybeFinalizeProduct()
	if err != nil {
		return nil, nil, err
	}
	return resp, extra, nil
}

// HandleSTPMResponse completes an STPM exchange this collector
// initiated (spec §4.2 "STPM response handler").
func (s *Session) HandleSTPMResponse(resp *wire.SP1STPMResponse) ([]any, error) {
	if s.State != StateRunning && s.State != StateAwaitingSP1 {
		return nil, protoerr.ProtocolViolation("SP1_STPM_Response received outside running state")
	}
	if err := s.verify(resp.From, resp.Signature, resp.Data.ESCjERkPrime.Int(), resp.Data.ESCjPrimeERk.Int()); err != nil {
		return nil, err
	}

	r, err := stpm.Step3(resp.Data.ESCjERkPrime.Int(), s.priv, true)
	if err != nil {
		return nil, protoerr.CryptoFailure("stpm step3 (forward): " + err.Error())
	}
	rPrime, err := stpm.Step3(resp.Data.ESCjPrimeERk.Int(), s.priv, true)
	if err != nil {
		return nil, protoerr.CryptoFailure("stpm step3 (reverse): " + err.Error())
	}

	s.rShares[resp.From] = residualPair{r: r, rPrime: rPrime}

	return s.maybeFinalizeProduct()
}

// maybeFinalizeProduct computes and broadcasts this collector's partial
// product once STPM residuals are in for every other peer.
func (s *Session) maybeFinalizeProduct() ([]any, error) {
	if len(s.rShares) != s.k-1 {
		return nil, nil
	}

	rSum := big.NewInt(0)
	for _, pair := range s.rShares {
		rSum.Add(rSum, pair.r)
		rSum.Add(rSum, pair.rPrime)
	}

	term1 := powMod(s.generator, new(big.Int).Mul(s.ballotFwd, s.ownVerifRev), s.prime)
	term2 := powMod(s.generator, new(big.Int).Mul(s.ballotRev, s.ownVerifFwd), s.prime)
	term3 := powMod(s.generator, new(big.Int).Mul(s.ownVerifFwd, s.ownVerifRev), s.prime)
	term4 := powMod(s.generator, rSum, s.prime)

	p := new(big.Int).Mul(term1, term2)
	p.Mod(p, s.prime)
	p.Mul(p, term3)
	p.Mod(p, s.prime)
	p.Mul(p, term4)
	p.Mod(p, s.prime)

	s.partialProducts[s.j] = p
	s.State = StateAwaitingSP1

	data := wire.SP1ProductResponseData{ProductJ: types.NewBigInt(p)}
	msg := &wire.SP1ProductResponse{
		Type:      wire.TypeSP1ProductResponse,
		From:      s.j,
		Data:      data,
		Signature: types.NewBigInt(s.sign(p)),
	}

	out := []any{msg}
	result, err := s.maybeFinalizeSP1()
	if err != nil {
		return nil, err
	}
	if result != nil {
		out = append(out, result)
	}
	return out, nil
}

// HandleProductBroadcast records a peer's partial product (spec §4.2
// "Product broadcast handler").
func (s *Session) HandleProductBroadcast(msg *wire.SP1ProductResponse) (any, error) {
	if s.State != StateRunning && s.State != StateAwaitingSP1 {
		return nil, protoerr.ProtocolViolation("SP1_Product_Response received outside running/awaiting-sp1 state")
	}
	if err := s.verify(msg.From, msg.Signature, msg.Data.ProductJ.Int()); err != nil {
		return nil, err
	}
	s.partialProducts[msg.From] = msg.Data.ProductJ.Int()
	return s.maybeFinalizeSP1()
}

func (s *Session) maybeFinalizeSP1() (*wire.SP1ResultResponse, error) {
	if len(s.partialProducts) != s.k {
		return nil, nil
	}

	combined := powMod(s.generator, new(big.Int).Mul(s.ballotFwd, s.ballotRev), s.prime)
	for _, p := range s.partialProducts {
		combined.Mul(combined, p)
		combined.Mod(combined, s.prime)
	}

	l := s.numCandidates * s.numVoters
	exponent := new(big.Int).Lsh(big.NewInt(1), uint(l-1))
	expected := powMod(s.generator, exponent, s.prime)

	valid := combined.Cmp(expected) == 0

	s.State = StateAwaitingSP2
	return s.signResult(wire.SP1ResultResponseData{SP1BallotValid: valid})
}

func (s *Session) signResult(data wire.SP1ResultResponseData) (*wire.SP1ResultResponse, error) {
	digest := wire.BoolDigest(data.SP1BallotValid)
	return &wire.SP1ResultResponse{
		Type:               wire.TypeSP1ResultResponse,
		From:               s.j,
		Data:               data,
		CollectorSignature: types.NewBigInt(s.signingKey.Sign(digest)),
	}, nil
}

// HandleSP2Broadcast records a peer's g-share broadcast (spec §4.2
// "Sub-Protocol 2 broadcast handler").
func (s *Session) HandleSP2Broadcast(msg *wire.SP2SharesResponse) (*wire.SP2ResultResponse, error) {
	if s.State != StateRunning && s.State != StateAwaitingSP1 && s.State != StateAwaitingSP2 {
		return nil, protoerr.ProtocolViolation("SP2_Shares_Response received outside an eligible state")
	}
	if err := s.verify(msg.From, msg.Signature, msg.Data.GStild.Int(), msg.Data.GStildPrime.Int()); err != nil {
		return nil, err
	}
	s.sp2Fwd[msg.From] = msg.Data.GStild.Int()
	s.sp2Rev[msg.From] = msg.Data.GStildPrime.Int()

	return s.maybeFinalizeSP2()
}

func (s *Session) maybeFinalizeSP2() (*wire.SP2ResultResponse, error) {
	if s.State != StateAwaitingSP2 {
		return nil, nil
	}
	if len(s.sp2Fwd) != s.k || len(s.sp2Rev) != s.k {
		return nil, nil
	}

	fwdCombined := powMod(s.generator, s.ballotFwd, s.prime)
	for _, g := range s.sp2Fwd {
		fwdCombined.Mul(fwdCombined, g)
		fwdCombined.Mod(fwdCombined, s.prime)
	}
	revCombined := powMod(s.generator, s.ballotRev, s.prime)
	for _, g := range s.sp2Rev {
		revCombined.Mul(revCombined, g)
		revCombined.Mod(revCombined, s.prime)
	}

	valid := fwdCombined.Cmp(s.gS) == 0 && revCombined.Cmp(s.gSPrime) == 0

	s.State = StateTerminal
	digest := wire.BoolDigest(valid)
	return &wire.SP2ResultResponse{
		Type:               wire.TypeSP2ResultResponse,
		From:               s.j,
		Data:               wire.SP2ResultResponseData{SP2BallotValid: valid},
		CollectorSignature: types.NewBigInt(s.signingKey.Sign(digest)),
	}, nil
}

func (s *Session) peerPublicKeyAsPaillier(peer int) (*paillier.PublicKey, error) {
	pub, ok := s.peerKeys[peer]
	if !ok {
		return nil, protoerr.ProtocolViolation("unknown peer index")
	}
	return &paillier.PublicKey{N: pub.N, N2: new(big.Int).Mul(pub.N, pub.N)}, nil
}

func (s *Session) verify(from int, signature *types.BigInt, vals ...*big.Int) error {
	pub, ok := s.peerKeys[from]
	if !ok {
		return protoerr.ProtocolViolation("message from unknown peer index")
	}
	if signature == nil {
		return protoerr.ProtocolViolation("missing signature")
	}
	digest := hashBigInts(vals...)
	if !pub.Verify(digest, signature.Int()) {
		return protoerr.ProtocolViolation("invalid signature")
	}
	return nil
}

func (s *Session) sign(vals ...*big.Int) *big.Int {
	return s.signingKey.Sign(hashBigInts(vals...))
}

func hashBigInts(vals ...*big.Int) *big.Int {
	h := hasher.New()
	for _, v := range vals {
		h.WriteBigInt(v)
	}
	return h.SumBigInt()
}

// powMod computes base^exp mod p, treating exp as an element of
// Z/(p-1)Z so negative STPM residuals exponentiate correctly (spec
// §4.1.2 "r1+r2 ≡ x1*x2" values that can be negative after normalize).
func powMod(base, exp, p *big.Int) *big.Int {
	order := new(big.Int).Sub(p, big.NewInt(1))
	e := new(big.Int).Mod(exp, order)
	return new(big.Int).Exp(base, e, p)
}
