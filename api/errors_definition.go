//nolint:lll
package api

import (
	"fmt"
	"net/http"

	"github.com/vocdoni/mpcvote/protoerr"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the caller's fault,
// and they return a 4XX HTTP Status, whichever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// If you notice there's a gap (say, error code 40010, 40011 and 40013 exist, 40012 is missing) DON'T fill in the gap,
// that code was used in the past for some error (not anymore) and shouldn't be reused.
// There's no correlation between Code and HTTP Status,
// for example the fact that Code 40007 returns HTTP Status 404 Not Found is just a coincidence.
var (
	ErrResourceNotFound    = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody       = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrInvalidSignature    = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid signature")}
	ErrElectionNotFound    = Error{Code: 40006, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("election not found")}
	ErrQuestionNotFound    = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("question not found")}
	ErrNotEnoughVoters     = Error{Code: 40008, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("not enough registered voters")}
	ErrVoterNotRegistered  = Error{Code: 40009, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voter not registered for question")}
	ErrAlreadyCommitted    = Error{Code: 40010, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voter already committed a ballot for question")}
	ErrMissingToken        = Error{Code: 40011, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("missing bearer token")}
	ErrInvalidToken        = Error{Code: 40012, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid or expired bearer token")}
	ErrForbiddenAudience   = Error{Code: 40013, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("token audience not permitted for this endpoint")}
	ErrMissingPermission   = Error{Code: 40014, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("token missing required permission")}
	ErrVerificationRejected = Error{Code: 40015, HTTPstatus: http.StatusUnprocessableEntity, Err: fmt.Errorf("ballot verification rejected")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrCollectorCallFailed        = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("collector call failed")}
	ErrCryptoFailure              = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("cryptographic operation failed")}
)

// FromProtoErr maps a protoerr.Kind-carrying error onto the matching
// stable Error definition, so collector/mediator/orchestrator code raised
// below the HTTP layer doesn't need to know about HTTP status codes.
func FromProtoErr(kind string, fallback Error) Error {
	switch kind {
	case "bad-request":
		return ErrMalformedBody
	case "not-found":
		return ErrResourceNotFound
	case "conflict":
		return ErrVoterNotRegistered
	case "forbidden":
		return ErrForbiddenAudience
	case "protocol-violation":
		return ErrInvalidSignature
	case "crypto-failure":
		return ErrCryptoFailure
	case "transport":
		return ErrCollectorCallFailed
	case "internal":
		return ErrGenericInternalServerError
	default:
		return fallback
	}
}

// WriteProtoErr writes err as an HTTP error response, mapping its
// protoerr.Kind (if any) onto the matching stable Error via FromProtoErr;
// errors that don't carry a Kind fall back to a generic internal error.
func WriteProtoErr(w http.ResponseWriter, err error) {
	var pe *protoerr.Error
	if e, ok := err.(*protoerr.Error); ok {
		pe = e
	}
	if pe == nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	FromProtoErr(pe.Kind.String(), ErrGenericInternalServerError).WithErr(pe.Err).Write(w)
}
