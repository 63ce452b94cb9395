package service

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/vocdoni/zkage/api"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/prover"
	"github.com/vocdoni/zkage/verifier"
)

// shutdownTimeout bounds the wait for in-flight requests on Stop.
const shutdownTimeout = 30 * time.Second

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	prover   *prover.Service
	verifier *verifier.Service
	api      *api.API
	mu       sync.Mutex
	cancel   context.CancelFunc
	host     string
	port     int
}

// NewAPI creates a new APIService instance.
func NewAPI(p *prover.Service, v *verifier.Service, host string, port int) *APIService {
	return &APIService{
		prover:   p,
		verifier: v,
		host:     host,
		port:     port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	_, as.cancel = context.WithCancel(ctx)

	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:     as.host,
		Port:     as.port,
		Prover:   as.prover,
		Verifier: as.verifier,
	})
	if err != nil {
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}
	return nil
}

// Stop halts the API server, waiting for the in-flight requests.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel == nil {
		return
	}
	as.cancel()
	as.cancel = nil
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := as.api.Close(ctx); err != nil {
		log.Warnw("API server stopped", "error", err.Error())
	}
}

// API returns the running API, nil if the service is stopped.
func (as *APIService) API() *api.API {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.cancel == nil {
		return nil
	}
	return as.api
}

// HostPort returns the host and port of the API server. Once started, the
// port is the one actually listening.
func (as *APIService) HostPort() (string, int) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.api != nil {
		if addr, ok := as.api.Addr().(*net.TCPAddr); ok {
			return as.host, addr.Port
		}
	}
	return as.host, as.port
}
