// Package orchestrator implements the orchestrator role (spec §4.4): the
// client-facing entry point that creates elections, submits ballots and
// closes voting, delegating initialization and verification to the
// mediator over HTTP.
package orchestrator

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

// Orchestrator owns the persistent store, the HTTP client used to call
// the mediator, and the signer that mints the bearer tokens those calls
// carry (spec §6.1 "aud" must be server-only for orchestrator->mediator
// calls).
type Orchestrator struct {
	storage          *storage.Storage
	httpClient       *http.Client
	mediatorSigner   *api.TokenSigner
	mediatorEndpoint string
}

// New builds an Orchestrator over an already-open Storage. mediatorSigner
// must be configured with the secret shared with the mediator process;
// mediatorEndpoint is the single mediator this orchestrator talks to.
func New(store *storage.Storage, mediatorSigner *api.TokenSigner, mediatorEndpoint string) *Orchestrator {
	return &Orchestrator{
		storage:          store,
		httpClient:       &http.Client{Timeout: config.HTTPRequestTimeout},
		mediatorSigner:   mediatorSigner,
		mediatorEndpoint: mediatorEndpoint,
	}
}

// RegisterRoutes mounts the orchestrator's endpoints on server. Create
// and vote are client-facing (spec §6.1 "Orchestrator <- Client");
// closing an election is an operator action, so it is gated server-only.
func (o *Orchestrator) RegisterRoutes(server *api.Server, signer *api.TokenSigner) {
	r := server.Router()

	r.With(api.RequireAudience(signer, api.AudienceClient, "")).
		Post(api.ElectionsEndpoint, o.handleCreateElection)

	r.With(api.RequireAudience(signer, api.AudienceClient, "")).
		Post(api.VoteEndpoint, o.handleSubmitBallot)

	r.With(api.RequireAudience(signer, api.AudienceServer, "")).
		Post(api.CloseVotingEndpoint, o.handleCloseVoting)
}

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// mediatorToken mints a short-lived bearer token scoped to a mediator
// call, carrying no extra permissions beyond the audience check itself.
func (o *Orchestrator) mediatorToken() (string, error) {
	return o.mediatorSigner.Issue("orchestrator", api.AudienceServer, nil, config.TokenTTL)
}

// postMediator POSTs body as JSON to the mediator at path, bearer-
// authenticated, and decodes the response into out.
func (o *Orchestrator) postMediator(path string, body, out any) error {
	token, err := o.mediatorToken()
	if err != nil {
		return fmt.Errorf("orchestrator: minting mediator token: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("orchestrator: encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, o.mediatorEndpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("orchestrator: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("orchestrator: calling mediator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("orchestrator: mediator returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// getMediator is postMediator's GET counterpart (used for the
// cancelation-aggregate endpoint, which per spec §6.1 is a GET carrying a
// JSON body).
func (o *Orchestrator) getMediator(path string, body, out any) error {
	token, err := o.mediatorToken()
	if err != nil {
		return fmt.Errorf("orchestrator: minting mediator token: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("orchestrator: encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, o.mediatorEndpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("orchestrator: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("orchestrator: calling mediator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("orchestrator: mediator returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
