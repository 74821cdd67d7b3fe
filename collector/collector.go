// Package collector implements the collector role (spec §4.2): election
// initialization, cancellation-share aggregation, and the per-voter
// ballot verification websocket session actor (STPM sub-protocol 1 and
// the g-share sub-protocol 2).
package collector

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/storage"
)

// Collector owns the persistent store and serves the HTTP/websocket
// surface the mediator calls (spec §6.1 "Mediator <- Collector").
type Collector struct {
	storage  *storage.Storage
	upgrader websocket.Upgrader
}

// New builds a Collector over an already-open Storage.
func New(store *storage.Storage) *Collector {
	return &Collector{
		storage: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the collector's endpoints on server, gated by
// signer-issued bearer tokens scoped to AudienceCollector.
func (c *Collector) RegisterRoutes(server *api.Server, signer *api.TokenSigner) {
	r := server.Router()

	r.With(api.RequireAudience(signer, api.AudienceCollector, "")).
		Post(api.MediatorElectionsEndpoint, c.handleInitializeElection)

	r.With(api.RequireAudience(signer, api.AudienceCollector, "")).
		Get(api.CancelationEndpoint, c.handleCancelation)

	r.With(api.RequireAudience(signer, api.AudienceCollector, "")).
		Get(api.VerificationWSEndpoint, c.handleVerificationWS)
}

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
