package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestTokenRoundTrip(t *testing.T) {
	c := qt.New(t)

	signer, err := NewTokenSigner([]byte("test-secret"))
	c.Assert(err, qt.IsNil)

	token, err := signer.Issue("voter-1", AudienceClient, []string{"vote"}, time.Minute)
	c.Assert(err, qt.IsNil)

	claims, err := signer.Parse(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.Sub, qt.Equals, "voter-1")
	c.Assert(claims.Aud, qt.Equals, AudienceClient)
	c.Assert(claims.has("vote"), qt.IsTrue)
}

func TestTokenRejectsTamperedSignature(t *testing.T) {
	c := qt.New(t)

	signer, err := NewTokenSigner([]byte("test-secret"))
	c.Assert(err, qt.IsNil)

	token, err := signer.Issue("voter-1", AudienceClient, nil, time.Minute)
	c.Assert(err, qt.IsNil)

	_, err = signer.Parse(token + "tampered")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestTokenRejectsExpired(t *testing.T) {
	c := qt.New(t)

	signer, err := NewTokenSigner([]byte("test-secret"))
	c.Assert(err, qt.IsNil)

	token, err := signer.Issue("voter-1", AudienceClient, nil, -time.Second)
	c.Assert(err, qt.IsNil)

	_, err = signer.Parse(token)
	c.Assert(err, qt.ErrorMatches, ".*expired.*")
}

func TestRequireAudienceMiddleware(t *testing.T) {
	c := qt.New(t)

	signer, err := NewTokenSigner([]byte("test-secret"))
	c.Assert(err, qt.IsNil)

	handler := RequireAudience(signer, AudienceCollector, "vote")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, ErrMissingToken.HTTPstatus)

	// Wrong audience.
	token, err := signer.Issue("mediator-1", AudienceMediator, []string{"vote"}, time.Minute)
	c.Assert(err, qt.IsNil)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, ErrForbiddenAudience.HTTPstatus)

	// Missing permission.
	token, err = signer.Issue("collector-1", AudienceCollector, nil, time.Minute)
	c.Assert(err, qt.IsNil)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, ErrMissingPermission.HTTPstatus)

	// Valid token via query parameter (websocket-style auth).
	token, err = signer.Issue("collector-1", AudienceCollector, []string{"vote"}, time.Minute)
	c.Assert(err, qt.IsNil)
	req = httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}
