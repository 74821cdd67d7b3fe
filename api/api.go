// Package api provides the shared HTTP scaffolding — router, middleware
// chain, structured errors and bearer-token auth — used by both the
// orchestrator's client/mediator-facing server and the mediator's
// collector-facing server (spec §6.1). Each caller registers its own
// routes on the returned Server; this package owns only what's common.
package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vocdoni/mpcvote/config"
	"github.com/vocdoni/mpcvote/log"
)

// Server is a chi-routed HTTP server with the ambient middleware chain
// (CORS, request logging, panic recovery, throttling, timeout) already
// installed. Callers register their own routes on Router() before
// calling Start.
type Server struct {
	router *chi.Mux
}

// NewServer builds a Server with the standard middleware chain installed
// and no routes registered yet.
func NewServer() *Server {
	s := &Server{router: chi.NewRouter()}

	s.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	s.router.Use(requestLogHandler)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Throttle(config.ThrottleLimit))
	s.router.Use(middleware.ThrottleBacklog(config.ThrottleBacklogLimit, config.ThrottleBacklogWait, config.ThrottleBacklogTimeout))
	s.router.Use(middleware.Timeout(config.HTTPRequestTimeout))

	return s
}

// Router returns the chi router routes are registered on.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start serves the router at host:port in a background goroutine.
func (s *Server) Start(host string, port int) {
	go func() {
		log.Infow("starting HTTP server", "host", host, "port", port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port), s.router); err != nil {
			log.Fatalf("failed to start HTTP server: %v", err)
		}
	}()
}

// bufPool reduces allocations in the request-body debug logger.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// requestLogHandler logs method/url/body at debug level only, mirroring
// the teacher's api.go logging middleware.
func requestLogHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if log.Level() != log.LogLevelDebug {
			next.ServeHTTP(w, r)
			return
		}

		buf := bufPool.Get().(*bytes.Buffer)
		buf.Reset()

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "unable to read request body", http.StatusInternalServerError)
			bufPool.Put(buf)
			return
		}
		buf.Write(bodyBytes)

		log.Debugw("api request",
			"method", r.Method,
			"url", r.URL.String(),
			"body", strings.ReplaceAll(buf.String(), "\"", ""),
		)

		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		bufPool.Put(buf)

		next.ServeHTTP(w, r)
	})
}
