package collector

import (
	"net/http"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/log"
	"github.com/vocdoni/mpcvote/protoerr"
	"github.com/vocdoni/mpcvote/wire"
)

// handleVerificationWS upgrades the connection and drives one voter's
// verification session end to end: publish our public key, then read
// frames until the session reaches its terminal state or the socket
// closes (spec §4.2, §6.2).
func (c *Collector) handleVerificationWS(w http.ResponseWriter, r *http.Request) {
	electionID := chiParam(r, api.ElectionIDParam)
	questionID := chiParam(r, api.QuestionIDParam)
	voterID := chiParam(r, api.VoterIDParam)

	election, err := c.storage.GetElection(electionID)
	if err != nil {
		api.WriteProtoErr(w, protoerr.NotFound("election not found"))
		return
	}
	question, err := c.storage.GetQuestion(questionID)
	if err != nil {
		api.WriteProtoErr(w, protoerr.NotFound("question not found"))
		return
	}
	reg, err := c.storage.GetRegistration(electionID, questionID, voterID)
	if err != nil {
		api.WriteProtoErr(w, protoerr.NotFound("voter not registered for question"))
		return
	}
	registrations, err := c.storage.ListRegistrationsByQuestion(electionID, questionID)
	if err != nil {
		api.WriteProtoErr(w, protoerr.Internal("listing registrations: "+err.Error()))
		return
	}

	session, err := NewSession(electionID, questionID, voterID, election, reg, question.NumCandidates, len(registrations))
	if err != nil {
		api.WriteProtoErr(w, err)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnw("verification websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(session.Start()); err != nil {
		log.Warnw("writing PublicKey frame", "err", err)
		return
	}

	for session.State != StateTerminal {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := wire.Decode(raw)
		if err != nil {
			closeWithViolation(conn, err.Error())
			return
		}

		out, err := dispatch(session, msg)
		if err != nil {
			closeWithViolation(conn, err.Error())
			return
		}
		for _, m := range out {
			if err := conn.WriteJSON(m); err != nil {
				log.Warnw("writing verification frame", "err", err)
				return
			}
		}
	}
}

// dispatch routes a decoded frame to the matching Session handler,
// normalizing every handler's return shape to a slice of frames to send.
func dispatch(s *Session, msg any) ([]any, error) {
	switch m := msg.(type) {
	case *wire.Initialize:
		return s.HandleInitialize(m)
	case *wire.SP1STPMRequest:
		resp, extra, err := s.HandleSTPMRequest(m)
		if err != nil {
			return nil, err
		}
		return append([]any{resp}, extra...), nil
	case *wire.SP1STPMResponse:
		return s.HandleSTPMResponse(m)
	case *wire.SP1ProductResponse:
		result, err := s.HandleProductBroadcast(m)
		if err != nil {
			return nil, err
		}
		return asFrames(result), nil
	case *wire.SP2SharesResponse:
		result, err := s.HandleSP2Broadcast(m)
		if err != nil {
			return nil, err
		}
		return asFrames(result), nil
	default:
		return nil, protoerr.ProtocolViolation("unexpected message type for this connection")
	}
}

// asFrames wraps a possibly-nil single outbound message into a slice.
func asFrames(msg any) []any {
	if msg == nil {
		return nil
	}
	if resp, ok := msg.(*wire.SP2ResultResponse); ok && resp == nil {
		return nil
	}
	if resp, ok := msg.(*wire.SP1ResultResponse); ok && resp == nil {
		return nil
	}
	return []any{msg}
}

func closeWithViolation(conn interface{ Close() error }, reason string) {
	log.Warnw("closing verification session", "reason", reason)
	conn.Close()
}
