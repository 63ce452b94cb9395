package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vocdoni/zkage/circuits/agecheck"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/metrics"
	"github.com/vocdoni/zkage/normalizer"
	"github.com/vocdoni/zkage/prover"
	"github.com/vocdoni/zkage/session"
	"github.com/vocdoni/zkage/verifier"
)

// DefaultMaxSessions bounds the number of sessions kept in memory.
const DefaultMaxSessions = 10000

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host       string
	Port       int
	Prover     *prover.Service
	Verifier   *verifier.Service
	Normalizer *normalizer.Normalizer // Optional: defaults to the wall clock
	// MaxSessions is the maximum number of open sessions, DefaultMaxSessions
	// if zero.
	MaxSessions int
}

// API type represents the API HTTP server. It keeps the proof sessions of
// its users in memory, indexed by their id.
type API struct {
	router     *chi.Mux
	server     *http.Server
	listener   net.Listener
	prover     *prover.Service
	verifier   *verifier.Service
	normalizer *normalizer.Normalizer

	sessionsMu  sync.RWMutex
	sessions    map[string]*session.Session
	maxSessions int
}

// New creates a new API instance with the given configuration and starts
// the HTTP server. A zero port picks a free one, see Addr.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Prover == nil || conf.Verifier == nil {
		return nil, fmt.Errorf("missing prover or verifier service")
	}
	a := NewHandler(conf)
	listener, err := net.Listen("tcp", net.JoinHostPort(conf.Host, fmt.Sprint(conf.Port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	a.listener = listener
	a.server = &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("starting API server", "address", listener.Addr().String())
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw(err, "API server failed")
		}
	}()
	return a, nil
}

// NewHandler creates the API with its router but without starting any
// server, so it can be mounted or tested with httptest.
func NewHandler(conf *APIConfig) *API {
	a := &API{
		prover:      conf.Prover,
		verifier:    conf.Verifier,
		normalizer:  conf.Normalizer,
		sessions:    make(map[string]*session.Session),
		maxSessions: conf.MaxSessions,
	}
	if a.normalizer == nil {
		a.normalizer = normalizer.New()
	}
	if a.maxSessions <= 0 {
		a.maxSessions = DefaultMaxSessions
	}
	a.initRouter()
	return a
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// Addr returns the address the server listens on, nil if not started.
func (a *API) Addr() net.Addr {
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// Close stops the HTTP server, waiting for the in-flight requests until the
// context is done.
func (a *API) Close(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", CircuitEndpoint, "method", "GET")
	a.router.Get(CircuitEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteJSON(w, agecheck.DefaultSchema)
	})
	log.Infow("register handler", "endpoint", SessionsEndpoint, "method", "POST")
	a.router.Post(SessionsEndpoint, a.newSession)
	log.Infow("register handler", "endpoint", SessionEndpoint, "method", "GET")
	a.router.Get(SessionEndpoint, a.session)
	log.Infow("register handler", "endpoint", SessionEndpoint, "method", "DELETE")
	a.router.Delete(SessionEndpoint, a.deleteSession)
	log.Infow("register handler", "endpoint", SessionProofEndpoint, "method", "POST")
	a.router.Post(SessionProofEndpoint, a.generateProof)
	log.Infow("register handler", "endpoint", SessionVerifyEndpoint, "method", "POST")
	a.router.Post(SessionVerifyEndpoint, a.verifyProof)
	log.Infow("register handler", "endpoint", SessionBundleEndpoint, "method", "GET")
	a.router.Get(SessionBundleEndpoint, a.proofBundle)
	log.Infow("register handler", "endpoint", BundlesVerifyEndpoint, "method", "POST")
	a.router.Post(BundlesVerifyEndpoint, a.verifyBundle)
	log.Infow("register handler", "endpoint", MetricsEndpoint, "method", "GET")
	a.router.Method(http.MethodGet, MetricsEndpoint, metrics.Handler())
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(5 * time.Minute))
	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrResourceNotFound.With(r.URL.Path).Write(w)
	})

	a.registerHandlers()
}
