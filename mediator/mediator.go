// Package mediator implements the mediator role (spec §4.3): fan-out of
// election initialization over HTTP to every collector in ascending
// index order, and the per-verification-request websocket mediation
// session that buffers, broadcasts and folds collector messages.
package mediator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/config"
	"github.com/vocdoni/mpcvote/storage"
)

// Mediator owns the persistent store and the HTTP client used to call out
// to collectors; collectorSigner mints the bearer tokens those calls
// carry (spec §6.1 "aud" must be collector-only).
type Mediator struct {
	storage         *storage.Storage
	httpClient      *http.Client
	collectorSigner *api.TokenSigner
}

// New builds a Mediator over an already-open Storage. collectorSigner
// must be configured with the secret shared with every collector process.
func New(store *storage.Storage, collectorSigner *api.TokenSigner) *Mediator {
	return &Mediator{
		storage:         store,
		httpClient:      &http.Client{Timeout: config.HTTPRequestTimeout},
		collectorSigner: collectorSigner,
	}
}

// RegisterRoutes mounts the mediator's endpoints on server, gated by
// signer-issued bearer tokens scoped to AudienceServer (the orchestrator
// is the only caller of these routes).
func (m *Mediator) RegisterRoutes(server *api.Server, signer *api.TokenSigner) {
	r := server.Router()

	r.With(api.RequireAudience(signer, api.AudienceServer, "")).
		Post(api.ElectionsEndpoint, m.handleCreateElection)

	r.With(api.RequireAudience(signer, api.AudienceServer, "")).
		Post(api.VerifyEndpoint, m.handleVerify)

	r.With(api.RequireAudience(signer, api.AudienceServer, "")).
		Get(api.CancelationAggregateEndpoint, m.handleCancelationAggregate)
}

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// collectorToken mints a short-lived bearer token scoped to a collector
// call, carrying no extra permissions beyond the audience check itself.
func (m *Mediator) collectorToken() (string, error) {
	return m.collectorSigner.Issue("mediator", api.AudienceCollector, nil, config.TokenTTL)
}

// postCollector POSTs body as JSON to endpoint+path, bearer-authenticated,
// and decodes the response into out.
func (m *Mediator) postCollector(endpoint, path string, body, out any) error {
	token, err := m.collectorToken()
	if err != nil {
		return fmt.Errorf("mediator: minting collector token: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("mediator: encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mediator: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mediator: calling collector %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mediator: collector %s returned status %d", endpoint, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// getCollector is postCollector's GET counterpart (used for the
// cancelation endpoint, which per spec §6.1 is a GET carrying a JSON
// body).
func (m *Mediator) getCollector(endpoint, path string, body, out any) error {
	token, err := m.collectorToken()
	if err != nil {
		return fmt.Errorf("mediator: minting collector token: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("mediator: encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mediator: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mediator: calling collector %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mediator: collector %s returned status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
