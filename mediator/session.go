package mediator

import (
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/config"
	"github.com/vocdoni/mpcvote/crypto/rsasign"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/types"
	"github.com/vocdoni/mpcvote/wire"
)

// verificationSession drives one voter's websocket-mediated verification
// round across every collector bound to a question (spec §4.3): dial all
// k collectors, buffer their public keys, broadcast Initialize stamped
// with the dial-order index, then relay unicast and broadcast
// sub-protocol frames until both result broadcasts have arrived from
// every collector.
type verificationSession struct {
	conns   []*websocket.Conn
	keys    []types.CollectorPublicKey
	pubKeys []rsasign.PublicKey
}

type frameEvent struct {
	index int
	msg   any
	err   error
}

// RunVerification mediates one verification round and returns the folded
// {sub_protocol_1, sub_protocol_2} verdicts. Both are the AND of every
// collector's individual verdict (spec §9 Open Question ii resolves
// "either" vs "both" in favor of requiring all k to agree, since a single
// dissenting collector must be able to veto a ballot).
func (m *Mediator) RunVerification(endpoints []string, electionID, questionID, voterID string, req api.VoteRequest) (api.VoteResponse, error) {
	k := len(endpoints)
	if k == 0 {
		return api.VoteResponse{}, protoerr.Internal("no collectors bound to election")
	}

	sess, err := m.dialVerification(endpoints, electionID, questionID, voterID)
	if err != nil {
		return api.VoteResponse{}, err
	}
	defer sess.closeAll()

	if err := sess.collectPublicKeys(); err != nil {
		return api.VoteResponse{}, err
	}
	if err := sess.broadcastInitialize(req); err != nil {
		return api.VoteResponse{}, err
	}

	return sess.mediate(k)
}

// dialVerification opens a websocket to every collector in parallel,
// each carrying a mediator-scoped bearer token.
func (m *Mediator) dialVerification(endpoints []string, electionID, questionID, voterID string) (*verificationSession, error) {
	k := len(endpoints)
	token, err := m.collectorToken()
	if err != nil {
		return nil, protoerr.Internal("minting collector token: " + err.Error())
	}
	path := verificationPath(electionID, questionID, voterID)

	conns := make([]*websocket.Conn, k)
	var eg errgroup.Group
	for i, endpoint := range endpoints {
		i, endpoint := i, endpoint
		eg.Go(func() error {
			target, err := wsURL(endpoint, path)
			if err != nil {
				return fmt.Errorf("building ws url for %s: %w", endpoint, err)
			}
			header := http.Header{}
			header.Set("Authorization", "Bearer "+token)
			dialer := websocket.Dialer{HandshakeTimeout: config.WebsocketHandshakeTimeout}
			conn, _, err := dialer.Dial(target, header)
			if err != nil {
				return fmt.Errorf("dialing collector %s: %w", endpoint, err)
			}
			conns[i] = conn
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, c := range conns {
			if c != nil {
				c.Close()
			}
		}
		return nil, protoerr.Transport(err.Error())
	}

	return &verificationSession{
		conns:   conns,
		keys:    make([]types.CollectorPublicKey, k),
		pubKeys: make([]rsasign.PublicKey, k),
	}, nil
}

// collectPublicKeys reads the unsolicited PublicKey frame every collector
// sends right after the handshake (spec §4.2 Start).
func (s *verificationSession) collectPublicKeys() error {
	var eg errgroup.Group
	for i, conn := range s.conns {
		i, conn := i, conn
		eg.Go(func() error {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return fmt.Errorf("reading PublicKey from collector %d: %w", i, err)
			}
			msg, err := wire.Decode(raw)
			if err != nil {
				return fmt.Errorf("decoding PublicKey from collector %d: %w", i, err)
			}
			pk, ok := msg.(*wire.PublicKey)
			if !ok {
				return fmt.Errorf("collector %d sent %T before PublicKey", i, msg)
			}
			s.keys[i] = pk.Data
			s.pubKeys[i] = rsasign.PublicKey{N: pk.Data.N.Int(), B: pk.Data.B.Int()}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return protoerr.Transport(err.Error())
	}
	return nil
}

// broadcastInitialize stamps each collector with its dial-order index —
// the mediator is authoritative on index assignment, overwriting the
// placeholder index a collector's own PublicKey.From carries.
func (s *verificationSession) broadcastInitialize(req api.VoteRequest) error {
	k := len(s.conns)
	for idx, conn := range s.conns {
		msg := &wire.Initialize{
			Type:           wire.TypeInitialize,
			CollectorIndex: idx,
			NumCollectors:  k,
			ForwardBallot:  req.PI,
			ReverseBallot:  req.PIPrime,
			GS:             req.GS,
			GSPrime:        req.GSPrime,
			GSSPrime:       req.GSSPrime,
			PublicKeys:     s.keys,
		}
		if err := conn.WriteJSON(msg); err != nil {
			return protoerr.Transport(fmt.Sprintf("sending Initialize to collector %d: %v", idx, err))
		}
	}
	return nil
}

// mediate is the single coordinating loop that reads a channel fed by one
// reader goroutine per connection, keeping per-message ordering decisions
// in one place even though k collectors are talking concurrently (spec §5
// "single-threaded cooperative per actor").
func (s *verificationSession) mediate(k int) (api.VoteResponse, error) {
	events := make(chan frameEvent, k*8)
	var wg sync.WaitGroup
	for i, conn := range s.conns {
		wg.Add(1)
		go func(i int, conn *websocket.Conn) {
			defer wg.Done()
			for {
				_, raw, err := conn.ReadMessage()
				if err != nil {
					events <- frameEvent{index: i, err: err}
					return
				}
				msg, err := wire.Decode(raw)
				if err != nil {
					events <- frameEvent{index: i, err: err}
					return
				}
				events <- frameEvent{index: i, msg: msg}
			}
		}(i, conn)
	}
	go func() {
		wg.Wait()
		close(events)
	}()

	sp1 := make(map[int]bool)
	sp2 := make(map[int]bool)

	for ev := range events {
		if ev.err != nil {
			return api.VoteResponse{}, protoerr.Transport(fmt.Sprintf("collector %d: %v", ev.index, ev.err))
		}

		switch m := ev.msg.(type) {
		case *wire.SP1STPMRequest:
			if err := s.forwardTo(m.To, m); err != nil {
				return api.VoteResponse{}, err
			}
		case *wire.SP1STPMResponse:
			if err := s.forwardTo(m.To, m); err != nil {
				return api.VoteResponse{}, err
			}
		case *wire.SP1ProductResponse:
			if err := s.broadcastExcept(ev.index, m); err != nil {
				return api.VoteResponse{}, err
			}
		case *wire.SP2SharesResponse:
			if err := s.broadcastExcept(ev.index, m); err != nil {
				return api.VoteResponse{}, err
			}
		case *wire.SP1ResultResponse:
			if err := s.verifyResult(m.From, wire.BoolDigest(m.Data.SP1BallotValid), m.CollectorSignature); err != nil {
				return api.VoteResponse{}, err
			}
			sp1[m.From] = m.Data.SP1BallotValid
		case *wire.SP2ResultResponse:
			if err := s.verifyResult(m.From, wire.BoolDigest(m.Data.SP2BallotValid), m.CollectorSignature); err != nil {
				return api.VoteResponse{}, err
			}
			sp2[m.From] = m.Data.SP2BallotValid
			if len(sp1) == k && len(sp2) == k {
				return foldResults(sp1, sp2, k), nil
			}
		default:
			return api.VoteResponse{}, protoerr.ProtocolViolation(fmt.Sprintf("unexpected frame from collector %d", ev.index))
		}
	}

	return api.VoteResponse{}, protoerr.Transport("verification session ended before both sub-protocol results arrived")
}

func (s *verificationSession) forwardTo(idx int, msg any) error {
	if idx < 0 || idx >= len(s.conns) {
		return protoerr.ProtocolViolation("message addressed to unknown collector index")
	}
	if err := s.conns[idx].WriteJSON(msg); err != nil {
		return protoerr.Transport(fmt.Sprintf("forwarding to collector %d: %v", idx, err))
	}
	return nil
}

func (s *verificationSession) broadcastExcept(from int, msg any) error {
	for idx, conn := range s.conns {
		if idx == from {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			return protoerr.Transport(fmt.Sprintf("broadcasting to collector %d: %v", idx, err))
		}
	}
	return nil
}

func (s *verificationSession) verifyResult(from int, digest *big.Int, signature *types.BigInt) error {
	if from < 0 || from >= len(s.pubKeys) {
		return protoerr.ProtocolViolation("result from unknown collector index")
	}
	if signature == nil {
		return protoerr.ProtocolViolation("missing collector signature")
	}
	if !s.pubKeys[from].Verify(digest, signature.Int()) {
		return protoerr.ProtocolViolation("invalid collector signature on result")
	}
	return nil
}

func (s *verificationSession) closeAll() {
	for _, c := range s.conns {
		if c != nil {
			c.Close()
		}
	}
}

// foldResults ANDs every collector's verdict together for each
// sub-protocol (spec §9 Open Question ii).
func foldResults(sp1, sp2 map[int]bool, k int) api.VoteResponse {
	out := api.VoteResponse{SubProtocol1: true, SubProtocol2: true}
	for i := 0; i < k; i++ {
		if !sp1[i] {
			out.SubProtocol1 = false
		}
		if !sp2[i] {
			out.SubProtocol2 = false
		}
	}
	return out
}

// verificationPath substitutes an election/question/voter triple into the
// collector's verification websocket route pattern.
func verificationPath(electionID, questionID, voterID string) string {
	path := api.VerificationWSEndpoint
	path = strings.ReplaceAll(path, "{"+api.ElectionIDParam+"}", electionID)
	path = strings.ReplaceAll(path, "{"+api.QuestionIDParam+"}", questionID)
	path = strings.ReplaceAll(path, "{"+api.VoterIDParam+"}", voterID)
	return path
}

// wsURL rewrites an http(s) collector endpoint into the matching ws(s)
// URL for path.
func wsURL(endpoint, path string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = path
	return u.String(), nil
}
