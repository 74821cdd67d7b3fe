// Package protoerr carries the §7 error taxonomy through the protocol
// layers that sit below HTTP — collector state machines, mediator
// websocket sessions, orchestrator calls — so a protocol-violation raised
// deep inside a websocket handler can be mapped to an HTTP status or
// websocket close code without re-deriving the taxonomy at each layer.
package protoerr

import "fmt"

// Kind is one of the abstract error kinds from spec §7.
type Kind int

const (
	// KindBadRequest is a validation failure.
	KindBadRequest Kind = iota
	// KindNotFound is an unknown resource (election, question, voter).
	KindNotFound
	// KindConflict is a state precondition that wasn't met: not
	// registered, already registered, wrong status, not enough voters.
	KindConflict
	// KindForbidden is a permission or audience mismatch.
	KindForbidden
	// KindProtocolViolation is a signature failure, unexpected websocket
	// frame, or missing required precondition.
	KindProtocolViolation
	// KindCryptoFailure is "no modular inverse" or a Paillier decryption
	// failure.
	KindCryptoFailure
	// KindTransport is a closed socket or JSON decode failure.
	KindTransport
	// KindInternal is a store error or misconfiguration.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad-request"
	case KindNotFound:
		return "not-found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindProtocolViolation:
		return "protocol-violation"
	case KindCryptoFailure:
		return "crypto-failure"
	case KindTransport:
		return "transport"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with the taxonomy Kind, so callers at
// any layer can branch on Kind without string-matching error messages.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf("%s", msg)}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err carries the given Kind, unwrapping through
// standard wrapping.
func Is(err error, kind Kind) bool {
	var pe *Error
	for err != nil {
		if p, ok := err.(*Error); ok {
			pe = p
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return pe != nil && pe.Kind == kind
}

// BadRequest, NotFound, Conflict, Forbidden, ProtocolViolation,
// CryptoFailure, Transport and Internal are constructors for the
// corresponding Kind, mirroring the taxonomy names used in spec §7.
func BadRequest(msg string) *Error        { return New(KindBadRequest, msg) }
func NotFound(msg string) *Error          { return New(KindNotFound, msg) }
func Conflict(msg string) *Error          { return New(KindConflict, msg) }
func Forbidden(msg string) *Error         { return New(KindForbidden, msg) }
func ProtocolViolation(msg string) *Error { return New(KindProtocolViolation, msg) }
func CryptoFailure(msg string) *Error     { return New(KindCryptoFailure, msg) }
func Transport(msg string) *Error         { return New(KindTransport, msg) }
func Internal(msg string) *Error          { return New(KindInternal, msg) }
