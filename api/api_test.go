package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewServerRoutesPing(t *testing.T) {
	c := qt.New(t)

	s := NewServer()
	s.Router().Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	req := httptest.NewRequest(http.MethodGet, PingEndpoint, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}

func TestErrorWriteSetsHTTPStatusAndCode(t *testing.T) {
	c := qt.New(t)

	rec := httptest.NewRecorder()
	ErrElectionNotFound.Write(rec)

	c.Assert(rec.Code, qt.Equals, ErrElectionNotFound.HTTPstatus)
	c.Assert(rec.Body.String(), qt.Contains, `"code":40006`)
}

func TestFromProtoErrFallsBackOnUnknownKind(t *testing.T) {
	c := qt.New(t)

	got := FromProtoErr("some-unmapped-kind", ErrGenericInternalServerError)
	c.Assert(got, qt.Equals, ErrGenericInternalServerError)

	got = FromProtoErr("not-found", ErrGenericInternalServerError)
	c.Assert(got, qt.Equals, ErrResourceNotFound)
}
